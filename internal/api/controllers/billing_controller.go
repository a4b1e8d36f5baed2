package controllers

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/John17712/theralink-app/internal/billing"
	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/services"
	"github.com/John17712/theralink-app/pkg/utils"
)

const maxWebhookBody = 1 << 16

type BillingController struct {
	subscriptionService services.SubscriptionServiceInterface
	billingAPI          billing.API
	webhookSecret       string
}

func NewBillingController(
	subscriptionService services.SubscriptionServiceInterface,
	billingAPI billing.API,
	cfg *config.Config,
) *BillingController {
	return &BillingController{
		subscriptionService: subscriptionService,
		billingAPI:          billingAPI,
		webhookSecret:       cfg.Stripe.WebhookSecret,
	}
}

// Webhook ingests signed billing events. Signature verification happens
// before any state is touched; a bad signature mutates nothing.
func (b *BillingController) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Could not read payload")
		return
	}

	event, err := billing.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), b.webhookSecret, billing.DefaultTolerance)
	if err != nil {
		log.Printf("Webhook rejected: %v", err)
		utils.RespondError(c, http.StatusBadRequest, "Invalid signature")
		return
	}

	if err := b.subscriptionService.ApplyEvent(c.Request.Context(), event); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil)
}

// CreateCheckout starts a checkout for the caller's own account. The same
// handler backs reactivation; a frozen account repays through it.
func (b *BillingController) CreateCheckout(c *gin.Context) {
	accountID := c.GetString("user_id")
	if accountID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	url, err := b.subscriptionService.CreateCheckout(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"checkout_url": url})
}

// CancelSubscription lets a subscriber cancel their own plan. The account is
// frozen, not deleted, so the conversation history survives a later return.
func (b *BillingController) CancelSubscription(c *gin.Context) {
	accountID := c.GetString("user_id")
	if accountID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := b.subscriptionService.Cancel(c.Request.Context(), accountID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondRedirect(c, http.StatusOK, "/login")
}

// PaymentFailed is the checkout cancel URL.
func (b *BillingController) PaymentFailed(c *gin.Context) {
	utils.RespondRedirect(c, http.StatusOK, "/signup")
}

// ReactivationSuccess is the reactivation checkout return URL. Same eager
// reconciliation as PaymentSuccess, but the user already has an account and
// goes back to the app rather than the login page.
func (b *BillingController) ReactivationSuccess(c *gin.Context) {
	checkoutID := c.Query("session_id")
	if checkoutID == "" {
		utils.RespondRedirect(c, http.StatusOK, "/dashboard")
		return
	}

	session, err := b.billingAPI.RetrieveCheckoutSession(c.Request.Context(), checkoutID)
	if err != nil {
		log.Printf("Reactivation success: checkout lookup failed: %v", err)
		utils.RespondRedirect(c, http.StatusOK, "/dashboard")
		return
	}

	if session.CustomerEmail != "" {
		if _, _, err := b.subscriptionService.ActivateFromCheckout(c.Request.Context(), session.CustomerEmail, session.Customer); err != nil {
			utils.HandleServiceError(c, err)
			return
		}
	}

	utils.RespondRedirect(c, http.StatusOK, "/dashboard")
}

// PaymentSuccess is the checkout return URL. The webhook is the source of
// truth; this path reconciles eagerly so the user lands on an active account
// even when the webhook is still in flight.
func (b *BillingController) PaymentSuccess(c *gin.Context) {
	checkoutID := c.Query("session_id")
	if checkoutID == "" {
		utils.RespondRedirect(c, http.StatusOK, "/login")
		return
	}

	session, err := b.billingAPI.RetrieveCheckoutSession(c.Request.Context(), checkoutID)
	if err != nil {
		log.Printf("Payment success: checkout lookup failed: %v", err)
		utils.RespondRedirect(c, http.StatusOK, "/login")
		return
	}

	email := session.CustomerEmail
	if email == "" {
		utils.RespondRedirect(c, http.StatusOK, "/login")
		return
	}

	if _, _, err := b.subscriptionService.ActivateFromCheckout(c.Request.Context(), email, session.Customer); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondRedirect(c, http.StatusOK, "/login")
}
