package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/John17712/theralink-app/internal/models/request_models"
	"github.com/John17712/theralink-app/internal/services"
	"github.com/John17712/theralink-app/pkg/utils"
)

type SessionController struct {
	sessionService services.SessionServiceInterface
}

func NewSessionController(sessionService services.SessionServiceInterface) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// GetSessions godoc
// @Summary List saved sessions
// @Description Fetch every saved conversation for the account, all kinds included
// @Tags Sessions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /sessions [get]
func (s *SessionController) GetSessions(c *gin.Context) {
	sessions, err := s.sessionService.GetAll(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"sessions": sessions})
}

func (s *SessionController) SaveSession(c *gin.Context) {
	var req request_models.SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := s.sessionService.Save(c.Request.Context(), c.GetString("user_id"), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil)
}

func (s *SessionController) DeleteSession(c *gin.Context) {
	var req request_models.DeleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := s.sessionService.Delete(c.Request.Context(), c.GetString("user_id"), req.SessionID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil)
}
