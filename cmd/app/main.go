package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/John17712/theralink-app/cmd/fx/account_fx"
	"github.com/John17712/theralink-app/cmd/fx/billing_fx"
	"github.com/John17712/theralink-app/cmd/fx/chat_fx"
	"github.com/John17712/theralink-app/cmd/fx/config_fx"
	"github.com/John17712/theralink-app/cmd/fx/controllers_fx"
	"github.com/John17712/theralink-app/cmd/fx/db_fx"
	"github.com/John17712/theralink-app/cmd/fx/mail_fx"
	"github.com/John17712/theralink-app/cmd/fx/memcache_fx"
	"github.com/John17712/theralink-app/cmd/fx/oauth_fx"
	"github.com/John17712/theralink-app/cmd/fx/session_fx"
	"github.com/John17712/theralink-app/cmd/fx/subscription_fx"
	"github.com/John17712/theralink-app/cmd/fx/trial_fx"
	"github.com/John17712/theralink-app/internal/api/controllers"
	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/repositories"
	"github.com/John17712/theralink-app/pkg/middleware"
	"github.com/John17712/theralink-app/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		billing_fx.Module,
		oauth_fx.Module,
		account_fx.Module,
		subscription_fx.Module,
		chat_fx.Module,
		session_fx.Module,
		trial_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server at :%s", cfg.Server.Port)
				if err := engine.Run(":" + cfg.Server.Port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	tokenMaker *utils.TokenMaker,
	accountRepo repositories.AccountRepository,
	accountController *controllers.AccountController,
	chatController *controllers.ChatController,
	trialController *controllers.TrialController,
	sessionController *controllers.SessionController,
	billingController *controllers.BillingController,
	adminController *controllers.AdminController,
) *gin.Engine {

	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, cfg, tokenMaker, accountRepo,
		accountController, chatController, trialController,
		sessionController, billingController, adminController)

	return r
}

func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	tokenMaker *utils.TokenMaker,
	accountRepo repositories.AccountRepository,
	accountController *controllers.AccountController,
	chatController *controllers.ChatController,
	trialController *controllers.TrialController,
	sessionController *controllers.SessionController,
	billingController *controllers.BillingController,
	adminController *controllers.AdminController,
) {

	// Public auth surface; an already signed-in caller is bounced to the app.
	guest := r.Group("/")
	guest.Use(middleware.GuestOnlyMiddleware(tokenMaker))

	guest.POST("/signup", accountController.SignUp)
	guest.POST("/login", accountController.Login)
	guest.POST("/forgot_password", accountController.ForgotPassword)
	guest.POST("/reset_password", accountController.ResetPassword)
	guest.POST("/set_password", accountController.SetPassword)
	guest.GET("/auth/google", accountController.GoogleLogin)
	guest.GET("/auth/google/callback", accountController.GoogleCallback)

	r.POST("/trial_chat", trialController.Chat)
	r.POST("/trial_call/start", trialController.StartCall)
	r.GET("/trial_call/status", trialController.CallStatus)

	r.POST("/stripe_webhook", billingController.Webhook)
	r.GET("/payment_success", billingController.PaymentSuccess)
	r.GET("/payment_failed", billingController.PaymentFailed)
	r.GET("/reactivation_success", billingController.ReactivationSuccess)

	// Authenticated but not subscription-gated: a frozen account must still
	// be able to pay again or cancel outright.
	billingGroup := r.Group("/billing")
	billingGroup.Use(middleware.JWTAuthMiddleware(tokenMaker))

	billingGroup.POST("/checkout", billingController.CreateCheckout)
	billingGroup.POST("/reactivate", billingController.CreateCheckout)
	billingGroup.POST("/cancel", billingController.CancelSubscription)

	// Authenticated, subscription-gated
	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(tokenMaker))
	auth.Use(middleware.AccessGateMiddleware(accountRepo, cfg.Admin.PrimaryEmail))

	auth.POST("/chat", chatController.Chat)
	auth.POST("/call", chatController.Call)
	auth.POST("/chat/rename_session", chatController.RenameChatSession)
	auth.POST("/call/rename_session", chatController.RenameCallSession)
	auth.POST("/transcribe", chatController.Transcribe)

	auth.GET("/sessions", sessionController.GetSessions)
	auth.POST("/save_session", sessionController.SaveSession)
	auth.POST("/delete_session", sessionController.DeleteSession)

	auth.GET("/session_status", accountController.SessionStatus)
	auth.POST("/logout", accountController.Logout)

	// Admin
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(tokenMaker))
	admin.Use(middleware.AdminOnlyMiddleware(cfg.Admin.PrimaryEmail))

	admin.GET("/users", adminController.ListUsers)
	admin.POST("/users", adminController.AddUser)
	admin.POST("/group_subscribe", adminController.GroupSubscribe)
	admin.POST("/users/:id/grant_free", adminController.GrantFree)
	admin.POST("/users/:id/cancel", adminController.CancelSubscription)
	admin.POST("/users/:id/deactivate", adminController.DeactivateUser)
	admin.DELETE("/users/:id", adminController.DeleteUser)
}
