package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/John17712/theralink-app/internal/models/request_models"
	"github.com/John17712/theralink-app/internal/services"
	"github.com/John17712/theralink-app/pkg/utils"
)

// Trial entitlement is scoped to an anonymous client session carried in this
// cookie, never to an account. A signed-in user still burns the same counters.
const trialCookieName = "trial_session"

const trialCookieMaxAge = 60 * 60 * 24 * 7

type TrialController struct {
	trialService   services.TrialServiceInterface
	sessionService services.SessionServiceInterface
	tokenMaker     *utils.TokenMaker
}

func NewTrialController(
	trialService services.TrialServiceInterface,
	sessionService services.SessionServiceInterface,
	tokenMaker *utils.TokenMaker,
) *TrialController {
	return &TrialController{
		trialService:   trialService,
		sessionService: sessionService,
		tokenMaker:     tokenMaker,
	}
}

func (t *TrialController) clientID(c *gin.Context) string {
	id, err := c.Cookie(trialCookieName)
	if err != nil || id == "" {
		id = uuid.New().String()
		c.SetCookie(trialCookieName, id, trialCookieMaxAge, "/", "", true, true)
	}
	return id
}

// optionalUserID returns the account id when a valid bearer token rides along
// on a trial request. Trial endpoints are public; the id only feeds the
// transcript mirror.
func (t *TrialController) optionalUserID(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	claims, err := t.tokenMaker.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return ""
	}
	return claims.UserID
}

// Chat answers one trial message. Past the cap the client is sent to signup
// and no model call happens.
func (t *TrialController) Chat(c *gin.Context) {
	var req request_models.TrialChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	clientID := t.clientID(c)

	if userID := t.optionalUserID(c); userID != "" {
		if err := t.sessionService.RecordTrialChatMessage(c.Request.Context(), userID, req.Message); err != nil {
			utils.HandleServiceError(c, err)
			return
		}
	}

	reply, err := t.trialService.Chat(c.Request.Context(), clientID, req.Message, req.Language)
	if err != nil {
		if errors.Is(err, utils.ErrTrialLimitReached) {
			utils.RespondRedirect(c, http.StatusOK, "/signup")
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"reply": reply})
}

func (t *TrialController) StartCall(c *gin.Context) {
	clientID := t.clientID(c)

	status, err := t.trialService.StartCall(clientID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"ok":            false,
			"error":         status.Error,
			"sessions_left": 0,
			"remaining":     0,
		})
		return
	}

	if userID := t.optionalUserID(c); userID != "" {
		if err := t.sessionService.RecordTrialCallStart(c.Request.Context(), userID); err != nil {
			utils.HandleServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, status)
}

func (t *TrialController) CallStatus(c *gin.Context) {
	status := t.trialService.Status(t.clientID(c))
	c.JSON(http.StatusOK, gin.H{
		"remaining":     status.Remaining,
		"sessions_left": status.SessionsLeft,
	})
}
