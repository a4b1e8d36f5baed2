package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/John17712/theralink-app/internal/models/request_models"
	"github.com/John17712/theralink-app/internal/models/response_models"
	"github.com/John17712/theralink-app/internal/services"
	"github.com/John17712/theralink-app/pkg/utils"
)

type AdminController struct {
	subscriptionService services.SubscriptionServiceInterface
}

func NewAdminController(subscriptionService services.SubscriptionServiceInterface) *AdminController {
	return &AdminController{
		subscriptionService: subscriptionService,
	}
}

// ListUsers godoc
// @Summary List all accounts
// @Description Fetch every account with its derived subscription state
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/users [get]
func (a *AdminController) ListUsers(c *gin.Context) {
	accounts, err := a.subscriptionService.ListAccounts(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	users := make([]response_models.AccountResponse, 0, len(accounts))
	for i := range accounts {
		account := &accounts[i]
		users = append(users, response_models.AccountResponse{
			ID:               account.ID.String(),
			Email:            account.Email,
			IsSubscribed:     account.IsSubscribed,
			SubscriptionType: account.SubscriptionType,
			GroupID:          account.GroupID,
			Status:           a.subscriptionService.State(account),
		})
	}

	utils.RespondSuccess(c, gin.H{"users": users})
}

func (a *AdminController) GrantFree(c *gin.Context) {
	if err := a.subscriptionService.GrantFree(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"message": "Free subscription granted"})
}

func (a *AdminController) AddUser(c *gin.Context) {
	var req request_models.AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.subscriptionService.AddPendingUser(c.Request.Context(), req.Email); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"message": "Setup link sent"})
}

func (a *AdminController) GroupSubscribe(c *gin.Context) {
	var req request_models.GroupSubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	count, err := a.subscriptionService.GroupSubscribe(c.Request.Context(), req.Emails, req.GroupName)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"count": count})
}

func (a *AdminController) CancelSubscription(c *gin.Context) {
	if err := a.subscriptionService.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"message": "Subscription canceled"})
}

func (a *AdminController) DeactivateUser(c *gin.Context) {
	if err := a.subscriptionService.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"message": "Account deactivated"})
}

func (a *AdminController) DeleteUser(c *gin.Context) {
	if err := a.subscriptionService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"message": "Account deleted"})
}
