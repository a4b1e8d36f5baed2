package db_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/infra"
)

var Module = fx.Provide(
	provideDB)

func provideDB(cfg *config.Config) *gorm.DB {
	return infra.InitPostgresql(cfg.DB.PostgresURL)
}
