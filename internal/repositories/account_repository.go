package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/John17712/theralink-app/internal/models/db_models"
)

type AccountRepository interface {
	Insert(ctx context.Context, account *db_models.Account) error
	Update(ctx context.Context, account *db_models.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id string) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*db_models.Account, error)
	ListAll(ctx context.Context) ([]db_models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Create(account).Error
}

func (a *accountRepository) Update(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Save(account).Error
}

// Delete removes the account for good. Hard delete so the email stays
// free for a future signup; conversation records go with the account.
func (a *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := a.db.WithContext(ctx).Unscoped().
		Where("account_id = ?", id).
		Delete(&db_models.UserSession{}).Error; err != nil {
		return err
	}
	return a.db.WithContext(ctx).Unscoped().Delete(&db_models.Account{}, "id = ?", id).Error
}

func (a *accountRepository) FindById(ctx context.Context, id string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "stripe_customer_id = ?", customerID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) ListAll(ctx context.Context) ([]db_models.Account, error) {
	var accounts []db_models.Account
	if err := a.db.WithContext(ctx).Order("email").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
