package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/John17712/theralink-app/internal/models/request_models"
	"github.com/John17712/theralink-app/internal/oauth"
	"github.com/John17712/theralink-app/internal/services"
	"github.com/John17712/theralink-app/pkg/utils"
)

type AccountController struct {
	accountService      services.AccountServiceInterface
	subscriptionService services.SubscriptionServiceInterface
	googleOAuth         *oauth.GoogleOAuth
}

func NewAccountController(
	accountService services.AccountServiceInterface,
	subscriptionService services.SubscriptionServiceInterface,
	googleOAuth *oauth.GoogleOAuth,
) *AccountController {
	return &AccountController{
		accountService:      accountService,
		subscriptionService: subscriptionService,
		googleOAuth:         googleOAuth,
	}
}

// SignUp godoc
// @Summary Start a subscription signup
// @Description Validates the address and hands back a checkout URL; the account is created once payment completes
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Signup payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /signup [post]
func (a *AccountController) SignUp(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if !utils.PasswordValid(req.Password) {
		utils.HandleServiceError(c, utils.ErrInvalidPassword)
		return
	}

	checkoutURL, err := a.accountService.SignUp(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"checkout_url": checkoutURL})
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate a user and return a token; frozen accounts get a reactivation checkout URL
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, utils.ErrSubscriptionInactive) && result != nil && result.CheckoutURL != "" {
			utils.RespondRedirect(c, http.StatusOK, result.CheckoutURL)
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"token": result.Token, "admin": result.Admin})
}

func (a *AccountController) Logout(c *gin.Context) {
	if err := a.accountService.Logout(c.Request.Context(), c.GetString("user_id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondRedirect(c, http.StatusOK, "/login")
}

// ForgotPassword never reveals whether the address is registered.
func (a *AccountController) ForgotPassword(c *gin.Context) {
	var req request_models.RequestPasswordReset
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"message": "If the email exists, a reset link has been sent"})
}

func (a *AccountController) ResetPassword(c *gin.Context) {
	var req request_models.ConfirmPasswordReset
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"message": "Password has been reset successfully"})
}

// SetPassword completes the admin-initiated account setup flow.
func (a *AccountController) SetPassword(c *gin.Context) {
	var req request_models.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.subscriptionService.CompleteSetup(c.Request.Context(), req.Token, req.Password); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondRedirect(c, http.StatusOK, "/login")
}

// GoogleLogin starts the OAuth round trip.
func (a *AccountController) GoogleLogin(c *gin.Context) {
	if !a.googleOAuth.Enabled() {
		utils.RespondError(c, http.StatusNotFound, "Google login is not configured")
		return
	}

	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.SetCookie("oauth_state", state, 600, "/", "", true, true)
	c.Redirect(http.StatusFound, a.googleOAuth.GetAuthURL(state))
}

func (a *AccountController) GoogleCallback(c *gin.Context) {
	state, _ := c.Cookie("oauth_state")
	if state == "" || state != c.Query("state") {
		utils.RespondError(c, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	token, err := a.googleOAuth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "OAuth exchange failed")
		return
	}

	user, err := a.googleOAuth.GetUser(c.Request.Context(), token)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, "Could not fetch Google profile")
		return
	}

	result, err := a.accountService.LoginWithGoogle(c.Request.Context(), user.Email)
	if err != nil {
		if errors.Is(err, utils.ErrSubscriptionInactive) && result != nil && result.CheckoutURL != "" {
			utils.RespondRedirect(c, http.StatusOK, result.CheckoutURL)
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"token": result.Token, "admin": result.Admin})
}

// SessionStatus lets the client poll whether its account is still active.
func (a *AccountController) SessionStatus(c *gin.Context) {
	account, err := a.accountService.GetAccount(c.Request.Context(), c.GetString("user_id"))
	if err != nil || !account.IsSubscribed {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": true})
}
