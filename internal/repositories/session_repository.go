package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/John17712/theralink-app/internal/models/db_models"
)

type SessionRepository interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.UserSession, error)
	Find(ctx context.Context, accountID uuid.UUID, sessionID, kind string) (*db_models.UserSession, error)
	// Upsert creates the record for (accountID, sessionID, kind) if absent,
	// then overwrites name and/or messages when non-nil. Last write wins;
	// there is no merge and no version check.
	Upsert(ctx context.Context, accountID uuid.UUID, sessionID, kind string, name *string, messages []db_models.Message) error
	// DeleteAllKinds removes every kind-variant of sessionID for the account
	// and returns the number of rows removed.
	DeleteAllKinds(ctx context.Context, accountID uuid.UUID, sessionID string) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{
		db: db,
	}
}

func (s *sessionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.UserSession, error) {
	var sessions []db_models.UserSession
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *sessionRepository) Find(ctx context.Context, accountID uuid.UUID, sessionID, kind string) (*db_models.UserSession, error) {
	var session db_models.UserSession
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND session_id = ? AND kind = ?", accountID, sessionID, kind).
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

func (s *sessionRepository) Upsert(ctx context.Context, accountID uuid.UUID, sessionID, kind string, name *string, messages []db_models.Message) error {
	session, err := s.Find(ctx, accountID, sessionID, kind)
	if err != nil {
		return err
	}

	if session == nil {
		session = &db_models.UserSession{
			AccountID: accountID,
			SessionID: sessionID,
			Kind:      kind,
			Name:      "Session",
		}
		if err := session.EncodeMessages([]db_models.Message{}); err != nil {
			return err
		}
		if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
			return err
		}
	}

	if name != nil && *name != "" {
		session.Name = *name
	}
	if messages != nil {
		if err := session.EncodeMessages(messages); err != nil {
			return err
		}
	}

	return s.db.WithContext(ctx).Save(session).Error
}

func (s *sessionRepository) DeleteAllKinds(ctx context.Context, accountID uuid.UUID, sessionID string) (int64, error) {
	// Hard delete. A soft-deleted row would still occupy the unique
	// (account_id, session_id, kind) index and block a later re-save.
	res := s.db.WithContext(ctx).Unscoped().
		Where("account_id = ? AND session_id = ?", accountID, sessionID).
		Delete(&db_models.UserSession{})
	return res.RowsAffected, res.Error
}
