package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/John17712/theralink-app/internal/models/db_models"
	"github.com/John17712/theralink-app/internal/repositories"
	"github.com/John17712/theralink-app/pkg/utils"
)

// AccessGateMiddleware re-reads the account on every request so that a
// webhook-driven freeze takes effect immediately, not at token expiry. The
// primary admin bypasses the subscription check entirely. Runs after
// JWTAuthMiddleware.
func AccessGateMiddleware(accountRepo repositories.AccountRepository, primaryAdminEmail string) gin.HandlerFunc {

	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			utils.RespondRedirect(c, http.StatusUnauthorized, "/login")
			c.Abort()
			return
		}

		account, err := accountRepo.FindById(c.Request.Context(), userID)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}
		if account == nil {
			utils.RespondRedirect(c, http.StatusUnauthorized, "/login")
			c.Abort()
			return
		}

		if account.Email == primaryAdminEmail || account.Role == db_models.RoleAdmin {
			c.Set("account", account)
			c.Next()
			return
		}

		if !account.IsSubscribed {
			utils.RespondRedirect(c, http.StatusUnauthorized, "/login")
			c.Abort()
			return
		}

		c.Set("account", account)
		c.Next()
	}
}

// GuestOnlyMiddleware guards the login and signup surfaces. A caller who is
// already signed in with a valid token is sent back to the app instead of
// running the auth flow again. Requests without a usable token pass through.
func GuestOnlyMiddleware(tokenMaker *utils.TokenMaker) gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if _, err := tokenMaker.ValidateToken(token); err != nil {
			c.Next()
			return
		}

		utils.RespondRedirect(c, http.StatusOK, "/dashboard")
		c.Abort()
	}
}

// AdminOnlyMiddleware runs after JWTAuthMiddleware.
func AdminOnlyMiddleware(primaryAdminEmail string) gin.HandlerFunc {

	return func(c *gin.Context) {
		role := c.GetString("role")
		email := c.GetString("user_email")

		if role != db_models.RoleAdmin && email != primaryAdminEmail {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
