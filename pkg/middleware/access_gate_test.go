package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John17712/theralink-app/internal/models/db_models"
	"github.com/John17712/theralink-app/internal/repositories"
	"github.com/John17712/theralink-app/internal/testutil"
	"github.com/John17712/theralink-app/pkg/utils"
)

const primaryAdmin = "support@theralinkapp.com"

func gateRouter(t *testing.T, repo repositories.AccountRepository, maker *utils.TokenMaker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected",
		JWTAuthMiddleware(maker),
		AccessGateMiddleware(repo, primaryAdmin),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAccessGate_SubscribedAccountPasses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repositories.NewAccountRepository(db)
	maker := utils.NewTokenMaker("test-secret", time.Hour)

	account := testutil.TestAccount(t, db)
	token, err := maker.CreateToken(account.ID, account.Email, account.Role)
	require.NoError(t, err)

	w := doGet(gateRouter(t, repo, maker), token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccessGate_FrozenAccountRedirectedToLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repositories.NewAccountRepository(db)
	maker := utils.NewTokenMaker("test-secret", time.Hour)

	account := testutil.TestAccount(t, db, testutil.WithSubscribed(false))
	token, err := maker.CreateToken(account.ID, account.Email, account.Role)
	require.NoError(t, err)

	w := doGet(gateRouter(t, repo, maker), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "/login")
}

func TestAccessGate_PrimaryAdminBypassesSubscriptionCheck(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repositories.NewAccountRepository(db)
	maker := utils.NewTokenMaker("test-secret", time.Hour)

	account := testutil.TestAccount(t, db,
		testutil.WithEmail(primaryAdmin),
		testutil.WithRole(db_models.RoleAdmin),
		testutil.WithSubscribed(false))
	token, err := maker.CreateToken(account.ID, account.Email, account.Role)
	require.NoError(t, err)

	w := doGet(gateRouter(t, repo, maker), token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccessGate_MissingTokenRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repositories.NewAccountRepository(db)
	maker := utils.NewTokenMaker("test-secret", time.Hour)

	w := doGet(gateRouter(t, repo, maker), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessGate_DeletedAccountRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repositories.NewAccountRepository(db)
	maker := utils.NewTokenMaker("test-secret", time.Hour)

	account := testutil.TestAccount(t, db)
	token, err := maker.CreateToken(account.ID, account.Email, account.Role)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(context.Background(), account.ID))

	w := doGet(gateRouter(t, repo, maker), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func guestRouter(maker *utils.TokenMaker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login",
		GuestOnlyMiddleware(maker),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "handled": true})
		})
	return r
}

func TestGuestOnly_AnonymousCallerReachesHandler(t *testing.T) {
	maker := utils.NewTokenMaker("test-secret", time.Hour)
	r := guestRouter(maker)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "handled")
}

func TestGuestOnly_SignedInCallerRedirectedToDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	maker := utils.NewTokenMaker("test-secret", time.Hour)
	r := guestRouter(maker)

	account := testutil.TestAccount(t, db)
	token, err := maker.CreateToken(account.ID, account.Email, account.Role)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/dashboard"`)
	assert.NotContains(t, w.Body.String(), "handled")
}

func TestGuestOnly_ExpiredTokenFallsThrough(t *testing.T) {
	maker := utils.NewTokenMaker("test-secret", time.Hour)
	r := guestRouter(maker)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "handled")
}

func TestAdminOnly_UserRoleForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	maker := utils.NewTokenMaker("test-secret", time.Hour)
	db := testutil.SetupTestDB(t)

	r := gin.New()
	r.GET("/admin",
		JWTAuthMiddleware(maker),
		AdminOnlyMiddleware(primaryAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	account := testutil.TestAccount(t, db)
	token, err := maker.CreateToken(account.ID, account.Email, account.Role)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
