// File: /database/database.go
package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"socialpulse-api/models"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Dialector picks the gorm dialector for driver.
func Dialector(driver, databaseURL string) (gorm.Dialector, error) {
	switch driver {
	case DriverMySQL:
		return mysql.Open(databaseURL), nil
	case DriverPostgres, "postgresql":
		return postgres.Open(databaseURL), nil
	case DriverSQLite, "":
		return sqlite.Open(databaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func Initialize(driver, databaseURL string, debug bool) (*gorm.DB, error) {
	dialector, err := Dialector(driver, databaseURL)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(&log.Logger, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite || driver == "" {
		// SQLite allows a single writer; serialising through one connection
		// avoids SQLITE_BUSY under the scheduler's parallel updates.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.SocialAccount{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	addCustomIndexes(db)
	return nil
}

func addCustomIndexes(db *gorm.DB) {
	indexes := []struct {
		name  string
		table string
		cols  string
	}{
		// stale claim recovery
		{"idx_posts_status_claimed", "posts", "status, claimed_at"},
		// analytics window
		{"idx_posts_user_created", "posts", "user_id, created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		stmt := fmt.Sprintf("CREATE INDEX %s ON %s(%s)", idx.name, idx.table, idx.cols)
		if err := db.Exec(stmt).Error; err != nil {
			log.Warn().Err(err).Str("index", idx.name).Msg("Could not create index")
		}
	}
}
