package db

import (
	"embed"
	"errors"
	"fmt"

	"budget-app-go/internal/config"
	"budget-app-go/internal/domain/budget"
	"budget-app-go/internal/domain/ratelimit"
	"budget-app-go/internal/domain/session"
	"budget-app-go/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to date. Postgres runs the versioned SQL
// migrations; SQLite is created from the models.
func Migrate(cfg config.DBConfig, gormDB *gorm.DB, log logger.Logger) error {
	if cfg.Driver == DriverSQLite {
		return AutoMigrate(gormDB)
	}
	return MigratePostgres(cfg.URL(), log)
}

func MigratePostgres(databaseURL string, log logger.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	log.Info("db: migrations applied", "version", version, "dirty", dirty)
	return nil
}

func AutoMigrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&session.Profile{},
		&budget.Month{},
		&budget.Expense{},
		&budget.Subscription{},
		&budget.Settings{},
		&ratelimit.Entry{},
	)
}
