package session_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/John17712/theralink-app/internal/repositories"
	"github.com/John17712/theralink-app/internal/services"
)

var Module = fx.Provide(
	provideSessionService, provideSessionRepo)

func provideSessionRepo(db *gorm.DB) repositories.SessionRepository {
	return repositories.NewSessionRepository(db)
}

func provideSessionService(sessionRepo repositories.SessionRepository) services.SessionServiceInterface {
	return services.NewSessionService(sessionRepo)
}
