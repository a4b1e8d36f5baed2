package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/John17712/theralink-app/internal/models/db_models"
)

func TestAccount(t *testing.T, db *gorm.DB, opts ...func(*db_models.Account)) *db_models.Account {
	t.Helper()

	account := &db_models.Account{
		Email:            fmt.Sprintf("test_%d@example.com", time.Now().UnixNano()),
		PasswordHash:     "$2a$10$abcdefghijklmnopqrstuvwxyz123456",
		Role:             db_models.RoleUser,
		IsSubscribed:     true,
		SubscriptionType: db_models.SubTypeStripe,
		Status:           db_models.StatusActive,
	}

	for _, opt := range opts {
		opt(account)
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return account
}

func WithEmail(email string) func(*db_models.Account) {
	return func(a *db_models.Account) {
		a.Email = email
	}
}

func WithSubscribed(subscribed bool) func(*db_models.Account) {
	return func(a *db_models.Account) {
		a.IsSubscribed = subscribed
	}
}

func WithSubscriptionType(subType string) func(*db_models.Account) {
	return func(a *db_models.Account) {
		a.SubscriptionType = subType
	}
}

func WithStripeCustomer(customerID string) func(*db_models.Account) {
	return func(a *db_models.Account) {
		a.StripeCustomerID = customerID
	}
}

func WithRole(role string) func(*db_models.Account) {
	return func(a *db_models.Account) {
		a.Role = role
	}
}
