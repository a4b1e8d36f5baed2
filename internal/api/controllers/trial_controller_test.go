package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John17712/theralink-app/internal/models/request_models"
	"github.com/John17712/theralink-app/internal/models/response_models"
	"github.com/John17712/theralink-app/pkg/utils"
)

type stubTrialService struct {
	chatErr  error
	startErr error
	status   response_models.TrialCallStatus
	recorded []string
}

func (s *stubTrialService) Chat(ctx context.Context, clientID, message, language string) (string, error) {
	s.recorded = append(s.recorded, clientID)
	if s.chatErr != nil {
		return "", s.chatErr
	}
	return "a reply", nil
}

func (s *stubTrialService) StartCall(clientID string) (response_models.TrialCallStatus, error) {
	if s.startErr != nil {
		return response_models.TrialCallStatus{Error: "no_sessions_left"}, s.startErr
	}
	return s.status, nil
}

func (s *stubTrialService) Status(clientID string) response_models.TrialCallStatus {
	return s.status
}

type stubSessionService struct {
	chatMirrors int
	callMirrors int
}

func (s *stubSessionService) GetAll(ctx context.Context, accountID string) ([]response_models.SessionResponse, error) {
	return nil, nil
}

func (s *stubSessionService) Save(ctx context.Context, accountID string, request request_models.SaveSessionRequest) error {
	return nil
}

func (s *stubSessionService) Delete(ctx context.Context, accountID, sessionID string) error {
	return nil
}

func (s *stubSessionService) RecordTrialChatMessage(ctx context.Context, accountID, message string) error {
	s.chatMirrors++
	return nil
}

func (s *stubSessionService) RecordTrialCallStart(ctx context.Context, accountID string) error {
	s.callMirrors++
	return nil
}

func trialRouter(trial *stubTrialService, sessions *stubSessionService, maker *utils.TokenMaker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewTrialController(trial, sessions, maker)
	r := gin.New()
	r.POST("/trial_chat", controller.Chat)
	r.POST("/trial_call/start", controller.StartCall)
	r.GET("/trial_call/status", controller.CallStatus)
	return r
}

func TestTrialChat_SetsClientCookie(t *testing.T) {
	trial := &stubTrialService{}
	maker := utils.NewTokenMaker("test-secret", time.Hour)
	r := trialRouter(trial, &stubSessionService{}, maker)

	body := bytes.NewBufferString(`{"message": "hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/trial_chat", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a reply")

	cookieSet := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "trial_session" && c.Value != "" {
			cookieSet = true
		}
	}
	assert.True(t, cookieSet)
}

func TestTrialChat_ReusesExistingCookie(t *testing.T) {
	trial := &stubTrialService{}
	maker := utils.NewTokenMaker("test-secret", time.Hour)
	r := trialRouter(trial, &stubSessionService{}, maker)

	req := httptest.NewRequest(http.MethodPost, "/trial_chat", bytes.NewBufferString(`{"message": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "trial_session", Value: "client-abc"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, trial.recorded, 1)
	assert.Equal(t, "client-abc", trial.recorded[0])
}

func TestTrialChat_LimitReachedRedirectsToSignup(t *testing.T) {
	trial := &stubTrialService{chatErr: utils.ErrTrialLimitReached}
	maker := utils.NewTokenMaker("test-secret", time.Hour)
	r := trialRouter(trial, &stubSessionService{}, maker)

	req := httptest.NewRequest(http.MethodPost, "/trial_chat", bytes.NewBufferString(`{"message": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/signup"`)
}

func TestTrialChat_AuthenticatedUserGetsMirrored(t *testing.T) {
	trial := &stubTrialService{}
	sessions := &stubSessionService{}
	maker := utils.NewTokenMaker("test-secret", time.Hour)
	r := trialRouter(trial, sessions, maker)

	token, err := maker.CreateToken(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/trial_chat", bytes.NewBufferString(`{"message": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, sessions.chatMirrors)
}

func TestTrialCallStart_NoSessionsLeftIs403(t *testing.T) {
	trial := &stubTrialService{startErr: utils.ErrNoTrialSessionsLeft}
	maker := utils.NewTokenMaker("test-secret", time.Hour)
	r := trialRouter(trial, &stubSessionService{}, maker)

	req := httptest.NewRequest(http.MethodPost, "/trial_call/start", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "no_sessions_left")
}

func TestTrialCallStatus_ReportsRemaining(t *testing.T) {
	trial := &stubTrialService{status: response_models.TrialCallStatus{OK: true, Remaining: 180, SessionsLeft: 3}}
	maker := utils.NewTokenMaker("test-secret", time.Hour)
	r := trialRouter(trial, &stubSessionService{}, maker)

	req := httptest.NewRequest(http.MethodGet, "/trial_call/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remaining":180`)
	assert.Contains(t, w.Body.String(), `"sessions_left":3`)
}
