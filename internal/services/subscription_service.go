package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/John17712/theralink-app/internal/billing"
	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/models/db_models"
	"github.com/John17712/theralink-app/internal/repositories"
	mem "github.com/John17712/theralink-app/pkg/memcache"
	"github.com/John17712/theralink-app/pkg/utils"
)

// Subscription states as derived from the account record.
const (
	StateActive   = "active"
	StateFrozen   = "frozen"
	StateCanceled = "canceled"
	StatePending  = "pending"
)

const setupTokenTTL = time.Hour

type SubscriptionServiceInterface interface {
	State(account *db_models.Account) string

	// ActivateFromCheckout reconciles a completed checkout with the local
	// account: create-if-absent with a placeholder password, then mark
	// subscribed and remember the billing customer reference.
	ActivateFromCheckout(ctx context.Context, email, customerID string) (*db_models.Account, bool, error)

	// ApplyEvent mutates local state for an already signature-verified
	// billing event. Events for unknown customers are logged and dropped.
	ApplyEvent(ctx context.Context, event *billing.Event) error

	// Cancel revokes the provider subscription and freezes the account.
	Cancel(ctx context.Context, accountID string) error

	// CreateCheckout builds a provider checkout for the account's own email.
	// Serves first-time payment and reactivation of a frozen account alike.
	CreateCheckout(ctx context.Context, accountID string) (string, error)

	GrantFree(ctx context.Context, accountID string) error
	AddPendingUser(ctx context.Context, email string) error
	GroupSubscribe(ctx context.Context, emails, groupName string) (int, error)
	Deactivate(ctx context.Context, accountID string) error
	DeleteUser(ctx context.Context, accountID string) error
	ListAccounts(ctx context.Context) ([]db_models.Account, error)

	// CompleteSetup consumes a setup token and activates the account with
	// its chosen password.
	CompleteSetup(ctx context.Context, token, password string) error
}

type SubscriptionService struct {
	accountRepo  repositories.AccountRepository
	billingAPI   billing.API
	mailService  IMailService
	tokens       mem.TokenStore
	stripeConfig config.StripeConfig
	adminEmail   string
	appBaseURL   string
}

func NewSubscriptionService(
	accountRepo repositories.AccountRepository,
	billingAPI billing.API,
	mailService IMailService,
	tokens mem.TokenStore,
	cfg *config.Config,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		accountRepo:  accountRepo,
		billingAPI:   billingAPI,
		mailService:  mailService,
		tokens:       tokens,
		stripeConfig: cfg.Stripe,
		adminEmail:   cfg.Admin.PrimaryEmail,
		appBaseURL:   strings.TrimRight(cfg.Server.AppBaseURL, "/"),
	}
}

func (s *SubscriptionService) State(account *db_models.Account) string {
	switch {
	case account.IsSubscribed:
		return StateActive
	case account.SubscriptionType == db_models.SubTypeCanceled:
		return StateCanceled
	case account.SubscriptionType == db_models.SubTypePending || account.Status == db_models.StatusPending:
		return StatePending
	default:
		return StateFrozen
	}
}

func (s *SubscriptionService) ActivateFromCheckout(ctx context.Context, email, customerID string) (*db_models.Account, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, utils.ErrAccountNotFound
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, utils.ErrDatabaseError
	}

	created := false
	if account == nil {
		// Paid before the account existed (signup goes straight to
		// checkout). Placeholder password until they run a reset.
		tempPassword, err := utils.GenerateSecureToken(12)
		if err != nil {
			return nil, false, err
		}
		hash, err := utils.HashPassword(tempPassword)
		if err != nil {
			return nil, false, err
		}
		account = &db_models.Account{
			Email:            email,
			PasswordHash:     hash,
			Role:             db_models.RoleUser,
			SubscriptionType: db_models.SubTypeStripe,
			Status:           db_models.StatusActive,
		}
		if err := s.accountRepo.Insert(ctx, account); err != nil {
			return nil, false, utils.ErrDatabaseError
		}
		created = true
	}

	account.IsSubscribed = true
	account.SubscriptionType = db_models.SubTypeStripe
	if customerID != "" {
		account.StripeCustomerID = customerID
	}
	account.Status = db_models.StatusActive
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, false, utils.ErrDatabaseError
	}
	return account, created, nil
}

func (s *SubscriptionService) ApplyEvent(ctx context.Context, event *billing.Event) error {
	switch event.Type {
	case billing.EventCheckoutCompleted:
		email := event.Data.Object.Email()
		if email == "" {
			return nil
		}
		if _, _, err := s.ActivateFromCheckout(ctx, email, event.Data.Object.Customer); err != nil {
			if err == utils.ErrAccountNotFound {
				return nil
			}
			return err
		}
		log.Printf("Subscription activated for %s", email)

	case billing.EventInvoicePaid:
		account, err := s.findByEventEmail(ctx, event)
		if err != nil || account == nil {
			return err
		}
		account.IsSubscribed = true
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return utils.ErrDatabaseError
		}
		log.Printf("Subscription renewed for %s", account.Email)

	case billing.EventInvoiceFailed:
		account, err := s.findByEventEmail(ctx, event)
		if err != nil || account == nil {
			return err
		}
		if account.Email == s.adminEmail {
			return nil
		}
		account.IsSubscribed = false
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return utils.ErrDatabaseError
		}
		log.Printf("Subscription frozen for %s", account.Email)

	case billing.EventSubscriptionDeleted:
		customerID := event.Data.Object.Customer
		if customerID == "" {
			return nil
		}
		account, err := s.accountRepo.FindByStripeCustomerID(ctx, customerID)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if account == nil {
			log.Printf("Webhook: no account for customer %s", customerID)
			return nil
		}
		if account.Email == s.adminEmail {
			return nil
		}
		account.IsSubscribed = false
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return utils.ErrDatabaseError
		}
		log.Printf("Subscription canceled for %s", account.Email)

	default:
		log.Printf("Ignoring webhook event %s", event.Type)
	}
	return nil
}

func (s *SubscriptionService) findByEventEmail(ctx context.Context, event *billing.Event) (*db_models.Account, error) {
	email := strings.ToLower(event.Data.Object.Email())
	if email == "" {
		return nil, nil
	}
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		log.Printf("Webhook: no account for %s", email)
	}
	return account, nil
}

func (s *SubscriptionService) Cancel(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}
	if account.Email == s.adminEmail {
		return utils.ErrProtectedAccount
	}

	if account.StripeCustomerID != "" {
		subs, err := s.billingAPI.ListActiveSubscriptions(ctx, account.StripeCustomerID)
		if err != nil {
			log.Printf("Cancel subscription: list failed for %s: %v", account.Email, err)
			return utils.ErrBillingError
		}
		for _, sub := range subs {
			if err := s.billingAPI.CancelSubscription(ctx, sub.ID); err != nil {
				log.Printf("Cancel subscription: revoke failed for %s: %v", account.Email, err)
				return utils.ErrBillingError
			}
		}
	}

	// Freeze rather than delete; data is preserved.
	account.IsSubscribed = false
	account.SubscriptionType = db_models.SubTypeCanceled
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SubscriptionService) CreateCheckout(ctx context.Context, accountID string) (string, error) {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if account == nil {
		return "", utils.ErrAccountNotFound
	}

	session, err := s.billingAPI.CreateCheckoutSession(ctx, billing.CheckoutParams{
		PriceID:       s.stripeConfig.PriceID,
		CustomerEmail: account.Email,
		SuccessURL:    s.stripeConfig.SuccessURL,
		CancelURL:     s.stripeConfig.CancelURL,
	})
	if err != nil {
		log.Printf("Checkout creation failed for %s: %v", account.Email, err)
		return "", utils.ErrBillingError
	}
	return session.URL, nil
}

func (s *SubscriptionService) GrantFree(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	account.IsSubscribed = true
	account.SubscriptionType = db_models.SubTypeFree
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}

	return s.sendSetupLink(account.Email, "")
}

func (s *SubscriptionService) AddPendingUser(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}

	if account == nil {
		account, err = s.newPendingAccount(email)
		if err != nil {
			return err
		}
		if err := s.accountRepo.Insert(ctx, account); err != nil {
			return utils.ErrDatabaseError
		}
	}

	return s.sendSetupLink(account.Email, "")
}

func (s *SubscriptionService) GroupSubscribe(ctx context.Context, emails, groupName string) (int, error) {
	groupName = strings.TrimSpace(groupName)
	var members []string
	for _, e := range strings.Split(emails, ",") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			members = append(members, e)
		}
	}
	if len(members) == 0 || groupName == "" {
		return 0, utils.ErrInvalidCredentials
	}

	for _, email := range members {
		account, err := s.accountRepo.FindByEmail(ctx, email)
		if err != nil {
			return 0, utils.ErrDatabaseError
		}

		if account == nil {
			account, err = s.newPendingAccount(email)
			if err != nil {
				return 0, err
			}
			account.SubscriptionType = db_models.SubTypeGroup
			account.GroupID = groupName
			if err := s.accountRepo.Insert(ctx, account); err != nil {
				return 0, utils.ErrDatabaseError
			}
		} else {
			account.SubscriptionType = db_models.SubTypeGroup
			account.GroupID = groupName
			if err := s.accountRepo.Update(ctx, account); err != nil {
				return 0, utils.ErrDatabaseError
			}
		}

		if err := s.sendSetupLink(account.Email, groupName); err != nil {
			return 0, err
		}
	}
	return len(members), nil
}

func (s *SubscriptionService) Deactivate(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}
	if account.Email == s.adminEmail {
		return utils.ErrProtectedAccount
	}

	account.IsSubscribed = false
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SubscriptionService) DeleteUser(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}
	if account.Email == s.adminEmail {
		return utils.ErrProtectedAccount
	}

	if err := s.accountRepo.Delete(ctx, account.ID); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SubscriptionService) ListAccounts(ctx context.Context) ([]db_models.Account, error) {
	accounts, err := s.accountRepo.ListAll(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return accounts, nil
}

func (s *SubscriptionService) CompleteSetup(ctx context.Context, token, password string) error {
	if !utils.PasswordValid(password) {
		return utils.ErrInvalidPassword
	}

	email := s.tokens.Consume(token, mem.PurposeSetup)
	if email == "" {
		return utils.ErrInvalidToken
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	account.IsSubscribed = true
	if account.SubscriptionType == db_models.SubTypePending {
		account.SubscriptionType = db_models.SubTypeFree
	}
	account.Status = db_models.StatusActive
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SubscriptionService) newPendingAccount(email string) (*db_models.Account, error) {
	tempPassword, err := utils.GenerateSecureToken(8)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}
	return &db_models.Account{
		Email:            email,
		PasswordHash:     hash,
		Role:             db_models.RoleUser,
		IsSubscribed:     false,
		SubscriptionType: db_models.SubTypePending,
		Status:           db_models.StatusPending,
	}, nil
}

func (s *SubscriptionService) sendSetupLink(email, groupName string) error {
	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return err
	}
	s.tokens.Set(token, mem.PurposeSetup, email, setupTokenTTL)

	link := fmt.Sprintf("%s/set_password?token=%s", s.appBaseURL, token)
	if err := s.mailService.SendSetupPasswordMail(email, link, groupName); err != nil {
		// The grant already happened; a mail failure should not roll it
		// back. Surface it in the logs for a manual resend.
		log.Printf("Failed to send setup mail to %s: %v", email, err)
	}
	return nil
}
