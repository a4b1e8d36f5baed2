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
	"github.com/John17712/theralink-app/internal/models/request_models"
	"github.com/John17712/theralink-app/internal/models/response_models"
	"github.com/John17712/theralink-app/internal/repositories"
	mem "github.com/John17712/theralink-app/pkg/memcache"
	"github.com/John17712/theralink-app/pkg/utils"
)

const resetTokenTTL = time.Hour

type AccountServiceInterface interface {
	// SignUp creates a checkout session for the address; the account itself
	// is created once the payment completes.
	SignUp(ctx context.Context, request request_models.SignUpRequest) (string, error)

	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error)

	// LoginWithGoogle creates the account on first sign-in and issues a
	// token; a frozen account gets a reactivation checkout URL instead.
	LoginWithGoogle(ctx context.Context, email string) (*response_models.LoginResponse, error)

	// Logout marks the account inactive. The JWT itself stays valid until
	// expiry; the flag only feeds the admin listing.
	Logout(ctx context.Context, accountID string) error

	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, password string) error

	GetAccount(ctx context.Context, accountID string) (*db_models.Account, error)
}

type AccountService struct {
	accountRepo  repositories.AccountRepository
	billingAPI   billing.API
	mailService  IMailService
	tokens       mem.TokenStore
	tokenMaker   *utils.TokenMaker
	stripeConfig config.StripeConfig
	adminEmail   string
	appBaseURL   string
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	billingAPI billing.API,
	mailService IMailService,
	tokens mem.TokenStore,
	tokenMaker *utils.TokenMaker,
	cfg *config.Config,
) AccountServiceInterface {
	return &AccountService{
		accountRepo:  accountRepo,
		billingAPI:   billingAPI,
		mailService:  mailService,
		tokens:       tokens,
		tokenMaker:   tokenMaker,
		stripeConfig: cfg.Stripe,
		adminEmail:   cfg.Admin.PrimaryEmail,
		appBaseURL:   strings.TrimRight(cfg.Server.AppBaseURL, "/"),
	}
}

func (s *AccountService) SignUp(ctx context.Context, request request_models.SignUpRequest) (string, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if existing != nil {
		return "", utils.ErrEmailAlreadyExists
	}

	session, err := s.billingAPI.CreateCheckoutSession(ctx, billing.CheckoutParams{
		PriceID:       s.stripeConfig.PriceID,
		CustomerEmail: email,
		SuccessURL:    s.stripeConfig.SuccessURL,
		CancelURL:     s.stripeConfig.CancelURL,
	})
	if err != nil {
		log.Printf("Checkout session creation failed for %s: %v", email, err)
		return "", utils.ErrBillingError
	}
	return session.URL, nil
}

func (s *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	return s.issueLogin(ctx, account)
}

func (s *AccountService) LoginWithGoogle(ctx context.Context, email string) (*response_models.LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, utils.ErrInvalidCredentials
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		// First Google sign-in. The random local password is never shown;
		// a password reset is the way to claim classic login later.
		tempPassword, err := utils.GenerateSecureToken(12)
		if err != nil {
			return nil, err
		}
		hash, err := utils.HashPassword(tempPassword)
		if err != nil {
			return nil, err
		}
		account = &db_models.Account{
			Email:            email,
			PasswordHash:     hash,
			Role:             db_models.RoleUser,
			SubscriptionType: db_models.SubTypePending,
			Status:           db_models.StatusActive,
		}
		if err := s.accountRepo.Insert(ctx, account); err != nil {
			return nil, utils.ErrDatabaseError
		}
	}

	return s.issueLogin(ctx, account)
}

func (s *AccountService) issueLogin(ctx context.Context, account *db_models.Account) (*response_models.LoginResponse, error) {
	isAdmin := account.Role == db_models.RoleAdmin || account.Email == s.adminEmail

	if !account.IsSubscribed && !isAdmin {
		// Frozen or never-paid account: hand back a checkout URL so the
		// client can send them to reactivate.
		session, err := s.billingAPI.CreateCheckoutSession(ctx, billing.CheckoutParams{
			PriceID:       s.stripeConfig.PriceID,
			CustomerEmail: account.Email,
			SuccessURL:    s.stripeConfig.SuccessURL,
			CancelURL:     s.stripeConfig.CancelURL,
		})
		if err != nil {
			log.Printf("Reactivation checkout failed for %s: %v", account.Email, err)
			return nil, utils.ErrSubscriptionInactive
		}
		return &response_models.LoginResponse{CheckoutURL: session.URL}, utils.ErrSubscriptionInactive
	}

	token, err := s.tokenMaker.CreateToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, err
	}

	account.Status = db_models.StatusActive
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.LoginResponse{Token: token, Admin: isAdmin}, nil
}

func (s *AccountService) Logout(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	account.Status = db_models.StatusInactive
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		// Do not reveal whether an address is registered.
		return nil
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return err
	}
	s.tokens.Set(token, mem.PurposeReset, account.Email, resetTokenTTL)

	link := fmt.Sprintf("%s/reset_password?token=%s", s.appBaseURL, token)
	if err := s.mailService.SendResetPasswordMail(account.Email, link); err != nil {
		log.Printf("Failed to send reset mail to %s: %v", account.Email, err)
	}
	return nil
}

func (s *AccountService) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	if !utils.PasswordValid(password) {
		return utils.ErrInvalidPassword
	}

	email := s.tokens.Consume(token, mem.PurposeReset)
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
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*db_models.Account, error) {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return account, nil
}
