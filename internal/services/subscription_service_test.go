package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John17712/theralink-app/internal/billing"
	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/models/db_models"
	"github.com/John17712/theralink-app/internal/repositories"
	"github.com/John17712/theralink-app/internal/testutil"
	mem "github.com/John17712/theralink-app/pkg/memcache"
	"github.com/John17712/theralink-app/pkg/utils"
)

type fakeBillingAPI struct {
	checkoutURL   string
	subscriptions []billing.Subscription
	canceled      []string
	checkoutErr   error
}

func (f *fakeBillingAPI) CreateCheckoutSession(ctx context.Context, params billing.CheckoutParams) (*billing.CheckoutSession, error) {
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	return &billing.CheckoutSession{ID: "cs_test", URL: f.checkoutURL, CustomerEmail: params.CustomerEmail}, nil
}

func (f *fakeBillingAPI) RetrieveCheckoutSession(ctx context.Context, id string) (*billing.CheckoutSession, error) {
	return &billing.CheckoutSession{ID: id, Status: "complete"}, nil
}

func (f *fakeBillingAPI) ListActiveSubscriptions(ctx context.Context, customerID string) ([]billing.Subscription, error) {
	return f.subscriptions, nil
}

func (f *fakeBillingAPI) CancelSubscription(ctx context.Context, subscriptionID string) error {
	f.canceled = append(f.canceled, subscriptionID)
	return nil
}

type fakeMailService struct {
	setupMails []string
	resetMails []string
}

func (f *fakeMailService) SendSetupPasswordMail(to, link, groupName string) error {
	f.setupMails = append(f.setupMails, to)
	return nil
}

func (f *fakeMailService) SendResetPasswordMail(to, link string) error {
	f.resetMails = append(f.resetMails, to)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Admin.PrimaryEmail = "support@theralinkapp.com"
	cfg.Server.AppBaseURL = "https://theralinkapp.com"
	cfg.Stripe.PriceID = "price_test"
	cfg.Trial.ChatLimit = 3
	cfg.Trial.CallLimitSeconds = 300
	cfg.Trial.CallMaxSessions = 2
	return cfg
}

func newSubscriptionHarness(t *testing.T) (SubscriptionServiceInterface, repositories.AccountRepository, *fakeBillingAPI, *fakeMailService, mem.TokenStore) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	accountRepo := repositories.NewAccountRepository(db)
	billingAPI := &fakeBillingAPI{checkoutURL: "https://checkout.example/cs_test"}
	mail := &fakeMailService{}
	tokens := mem.NewTokens()
	svc := NewSubscriptionService(accountRepo, billingAPI, mail, tokens, testConfig())
	return svc, accountRepo, billingAPI, mail, tokens
}

func TestApplyEvent_CheckoutCompletedCreatesAccount(t *testing.T) {
	svc, accountRepo, _, _, _ := newSubscriptionHarness(t)
	ctx := context.Background()

	err := svc.ApplyEvent(ctx, &billing.Event{
		Type: billing.EventCheckoutCompleted,
		Data: billing.EventData{Object: billing.EventObject{
			Customer:      "cus_42",
			CustomerEmail: "new@example.com",
		}},
	})
	require.NoError(t, err)

	account, err := accountRepo.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.True(t, account.IsSubscribed)
	assert.Equal(t, db_models.SubTypeStripe, account.SubscriptionType)
	assert.Equal(t, "cus_42", account.StripeCustomerID)
}

func TestApplyEvent_InvoiceFailedFreezesAccount(t *testing.T) {
	svc, accountRepo, _, _, _ := newSubscriptionHarness(t)
	ctx := context.Background()

	require.NoError(t, accountRepo.Insert(ctx, &db_models.Account{
		Email:            "payer@example.com",
		PasswordHash:     "x",
		Role:             db_models.RoleUser,
		IsSubscribed:     true,
		SubscriptionType: db_models.SubTypeStripe,
	}))

	err := svc.ApplyEvent(ctx, &billing.Event{
		Type: billing.EventInvoiceFailed,
		Data: billing.EventData{Object: billing.EventObject{CustomerEmail: "payer@example.com"}},
	})
	require.NoError(t, err)

	account, err := accountRepo.FindByEmail(ctx, "payer@example.com")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.False(t, account.IsSubscribed)
}

func TestApplyEvent_SubscriptionDeletedByCustomerRef(t *testing.T) {
	svc, accountRepo, _, _, _ := newSubscriptionHarness(t)
	ctx := context.Background()

	require.NoError(t, accountRepo.Insert(ctx, &db_models.Account{
		Email:            "gone@example.com",
		PasswordHash:     "x",
		Role:             db_models.RoleUser,
		IsSubscribed:     true,
		StripeCustomerID: "cus_del",
	}))

	err := svc.ApplyEvent(ctx, &billing.Event{
		Type: billing.EventSubscriptionDeleted,
		Data: billing.EventData{Object: billing.EventObject{Customer: "cus_del"}},
	})
	require.NoError(t, err)

	account, err := accountRepo.FindByEmail(ctx, "gone@example.com")
	require.NoError(t, err)
	assert.False(t, account.IsSubscribed)
}

func TestApplyEvent_UnknownCustomerIsDropped(t *testing.T) {
	svc, _, _, _, _ := newSubscriptionHarness(t)

	err := svc.ApplyEvent(context.Background(), &billing.Event{
		Type: billing.EventInvoicePaid,
		Data: billing.EventData{Object: billing.EventObject{CustomerEmail: "stranger@example.com"}},
	})
	assert.NoError(t, err)
}

func TestApplyEvent_PrimaryAdminNeverFrozen(t *testing.T) {
	svc, accountRepo, _, _, _ := newSubscriptionHarness(t)
	ctx := context.Background()

	require.NoError(t, accountRepo.Insert(ctx, &db_models.Account{
		Email:        "support@theralinkapp.com",
		PasswordHash: "x",
		Role:         db_models.RoleAdmin,
		IsSubscribed: true,
	}))

	err := svc.ApplyEvent(ctx, &billing.Event{
		Type: billing.EventInvoiceFailed,
		Data: billing.EventData{Object: billing.EventObject{CustomerEmail: "support@theralinkapp.com"}},
	})
	require.NoError(t, err)

	account, err := accountRepo.FindByEmail(ctx, "support@theralinkapp.com")
	require.NoError(t, err)
	assert.True(t, account.IsSubscribed)
}

func TestCancel_RevokesProviderSubscriptionsAndFreezes(t *testing.T) {
	svc, accountRepo, billingAPI, _, _ := newSubscriptionHarness(t)
	ctx := context.Background()
	billingAPI.subscriptions = []billing.Subscription{{ID: "sub_1", Customer: "cus_77", Status: "active"}}

	require.NoError(t, accountRepo.Insert(ctx, &db_models.Account{
		Email:            "member@example.com",
		PasswordHash:     "x",
		Role:             db_models.RoleUser,
		IsSubscribed:     true,
		StripeCustomerID: "cus_77",
	}))
	account, err := accountRepo.FindByEmail(ctx, "member@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, account.ID.String()))

	assert.Equal(t, []string{"sub_1"}, billingAPI.canceled)

	account, err = accountRepo.FindByEmail(ctx, "member@example.com")
	require.NoError(t, err)
	assert.False(t, account.IsSubscribed)
	assert.Equal(t, db_models.SubTypeCanceled, account.SubscriptionType)
}

func TestCancel_ProtectsPrimaryAdmin(t *testing.T) {
	svc, accountRepo, _, _, _ := newSubscriptionHarness(t)
	ctx := context.Background()

	require.NoError(t, accountRepo.Insert(ctx, &db_models.Account{
		Email:        "support@theralinkapp.com",
		PasswordHash: "x",
		Role:         db_models.RoleAdmin,
		IsSubscribed: true,
	}))
	account, err := accountRepo.FindByEmail(ctx, "support@theralinkapp.com")
	require.NoError(t, err)

	err = svc.Cancel(ctx, account.ID.String())
	assert.ErrorIs(t, err, utils.ErrProtectedAccount)
}

func TestGrantFree_MarksSubscribedAndMailsSetupLink(t *testing.T) {
	svc, accountRepo, _, mail, _ := newSubscriptionHarness(t)
	ctx := context.Background()

	require.NoError(t, accountRepo.Insert(ctx, &db_models.Account{
		Email:        "lucky@example.com",
		PasswordHash: "x",
		Role:         db_models.RoleUser,
	}))
	account, err := accountRepo.FindByEmail(ctx, "lucky@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.GrantFree(ctx, account.ID.String()))

	account, err = accountRepo.FindByEmail(ctx, "lucky@example.com")
	require.NoError(t, err)
	assert.True(t, account.IsSubscribed)
	assert.Equal(t, db_models.SubTypeFree, account.SubscriptionType)
	assert.Equal(t, []string{"lucky@example.com"}, mail.setupMails)
}

func TestGroupSubscribe_CreatesPendingMembers(t *testing.T) {
	svc, accountRepo, _, mail, _ := newSubscriptionHarness(t)
	ctx := context.Background()

	count, err := svc.GroupSubscribe(ctx, "a@example.com, b@example.com", "acme")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, mail.setupMails, 2)

	account, err := accountRepo.FindByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, db_models.SubTypeGroup, account.SubscriptionType)
	assert.Equal(t, "acme", account.GroupID)
	assert.False(t, account.IsSubscribed)
}

func TestCompleteSetup_ConsumesTokenOnce(t *testing.T) {
	svc, accountRepo, _, _, tokens := newSubscriptionHarness(t)
	ctx := context.Background()

	require.NoError(t, accountRepo.Insert(ctx, &db_models.Account{
		Email:            "invited@example.com",
		PasswordHash:     "x",
		Role:             db_models.RoleUser,
		SubscriptionType: db_models.SubTypePending,
		Status:           db_models.StatusPending,
	}))
	tokens.Set("tok1", mem.PurposeSetup, "invited@example.com", setupTokenTTL)

	require.NoError(t, svc.CompleteSetup(ctx, "tok1", "secret!pw"))

	account, err := accountRepo.FindByEmail(ctx, "invited@example.com")
	require.NoError(t, err)
	assert.True(t, account.IsSubscribed)
	assert.Equal(t, db_models.SubTypeFree, account.SubscriptionType)
	assert.Equal(t, db_models.StatusActive, account.Status)

	// Single use.
	err = svc.CompleteSetup(ctx, "tok1", "another!pw")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestCompleteSetup_RejectsWeakPassword(t *testing.T) {
	svc, _, _, _, tokens := newSubscriptionHarness(t)
	tokens.Set("tok2", mem.PurposeSetup, "invited@example.com", setupTokenTTL)

	err := svc.CompleteSetup(context.Background(), "tok2", "plainpassword")
	assert.ErrorIs(t, err, utils.ErrInvalidPassword)
}

func TestCreateCheckout_UsesAccountEmail(t *testing.T) {
	svc, accountRepo, _, _, _ := newSubscriptionHarness(t)
	ctx := context.Background()

	account := &db_models.Account{
		Email:        "payer@example.com",
		PasswordHash: "x",
		Role:         db_models.RoleUser,
		IsSubscribed: false,
	}
	require.NoError(t, accountRepo.Insert(ctx, account))

	url, err := svc.CreateCheckout(ctx, account.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/cs_test", url)
}

func TestCreateCheckout_UnknownAccount(t *testing.T) {
	svc, _, _, _, _ := newSubscriptionHarness(t)

	_, err := svc.CreateCheckout(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
}
