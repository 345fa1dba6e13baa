package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"socialpulse-api/database"
)

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(database.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func ptr[T any](v T) *T {
	return &v
}
