package controllers_fx

import (
	"go.uber.org/fx"

	"github.com/John17712/theralink-app/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewChatController),
	fx.Provide(controllers.NewTrialController),
	fx.Provide(controllers.NewSessionController),
	fx.Provide(controllers.NewBillingController),
	fx.Provide(controllers.NewAdminController))
