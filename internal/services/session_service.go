package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/John17712/theralink-app/internal/models/db_models"
	"github.com/John17712/theralink-app/internal/models/request_models"
	"github.com/John17712/theralink-app/internal/models/response_models"
	"github.com/John17712/theralink-app/internal/repositories"
	"github.com/John17712/theralink-app/pkg/utils"
)

// Fixed session rows mirroring trial traffic for signed-in users.
const (
	TrialChatSessionID = "trial_chat"
	TrialCallSessionID = "trial_call"

	trialChatSessionName = "Trial Chat Session"
	trialCallSessionName = "Trial Call Session"
)

type SessionServiceInterface interface {
	GetAll(ctx context.Context, accountID string) ([]response_models.SessionResponse, error)

	// Save upserts on the (account, session id, kind) key. Name and
	// messages only overwrite when the request carries them.
	Save(ctx context.Context, accountID string, request request_models.SaveSessionRequest) error

	// Delete removes every kind-variant of the session id.
	Delete(ctx context.Context, accountID, sessionID string) error

	// RecordTrialChatMessage appends a trial message to the mirrored
	// trial_chat row.
	RecordTrialChatMessage(ctx context.Context, accountID, message string) error

	// RecordTrialCallStart ensures the mirrored trial_call row exists.
	RecordTrialCallStart(ctx context.Context, accountID string) error
}

type SessionService struct {
	sessionRepo repositories.SessionRepository
}

func NewSessionService(sessionRepo repositories.SessionRepository) SessionServiceInterface {
	return &SessionService{sessionRepo: sessionRepo}
}

func (s *SessionService) GetAll(ctx context.Context, accountID string) ([]response_models.SessionResponse, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, utils.ErrAccountNotFound
	}

	sessions, err := s.sessionRepo.ListByAccount(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	result := make([]response_models.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, response_models.SessionResponse{
			SessionID: session.SessionID,
			Name:      session.Name,
			Kind:      session.Kind,
			Messages:  session.DecodeMessages(),
		})
	}
	return result, nil
}

func (s *SessionService) Save(ctx context.Context, accountID string, request request_models.SaveSessionRequest) error {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return utils.ErrAccountNotFound
	}

	kind := request.Kind
	if kind == "" {
		kind = db_models.KindChat
	}

	var name *string
	if request.Name != "" {
		name = &request.Name
	}

	if err := s.sessionRepo.Upsert(ctx, id, request.SessionID, kind, name, request.Messages); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SessionService) Delete(ctx context.Context, accountID, sessionID string) error {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return utils.ErrAccountNotFound
	}

	rows, err := s.sessionRepo.DeleteAllKinds(ctx, id, sessionID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if rows == 0 {
		return utils.ErrSessionNotFound
	}
	return nil
}

func (s *SessionService) RecordTrialChatMessage(ctx context.Context, accountID, message string) error {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return utils.ErrAccountNotFound
	}

	session, err := s.sessionRepo.Find(ctx, id, TrialChatSessionID, db_models.KindTrialChat)
	if err != nil {
		return utils.ErrDatabaseError
	}

	var messages []db_models.Message
	if session != nil {
		messages = session.DecodeMessages()
	}
	messages = append(messages, db_models.Message{Role: "user", Content: message})

	name := trialChatSessionName
	if err := s.sessionRepo.Upsert(ctx, id, TrialChatSessionID, db_models.KindTrialChat, &name, messages); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SessionService) RecordTrialCallStart(ctx context.Context, accountID string) error {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return utils.ErrAccountNotFound
	}

	session, err := s.sessionRepo.Find(ctx, id, TrialCallSessionID, db_models.KindTrialCall)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if session != nil {
		return nil
	}

	name := trialCallSessionName
	if err := s.sessionRepo.Upsert(ctx, id, TrialCallSessionID, db_models.KindTrialCall, &name, []db_models.Message{}); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}
