package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"socialpulse-api/config"
	"socialpulse-api/database"
	"socialpulse-api/jobs"
	"socialpulse-api/models"
)

func setTestEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "socialpulse.db")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", path)
	t.Setenv("POST_STORE", "sql")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("SMTP_USERNAME", "")
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateAndPublishDue(t *testing.T) {
	path := setTestEnv(t)

	if _, err := run(t, "migrate", "--seed"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := database.Initialize(database.DriverSQLite, path, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var demo models.User
	if err := db.Where("email = ?", database.DemoEmail).First(&demo).Error; err != nil {
		t.Fatalf("demo user not seeded: %v", err)
	}
	due := time.Now().UTC().Add(-time.Minute)
	post := models.Post{
		ID:           uuid.NewString(),
		UserID:       demo.ID,
		Title:        "Due",
		Content:      "Ready to go",
		Platform:     models.PlatformTwitter,
		Status:       models.PostStatusScheduled,
		ScheduledFor: &due,
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	out, err := run(t, "publish-due")
	if err != nil {
		t.Fatalf("publish-due: %v", err)
	}
	var report jobs.RunReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report %q: %v", out, err)
	}
	if report.Selected != 1 || report.Published != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestBootstrapRejects(t *testing.T) {
	setTestEnv(t)
	base := config.Load()

	prod := *base
	prod.Environment = "production"
	prod.JWTSecret = defaultJWTSecret
	if _, err := Bootstrap(context.Background(), &prod); err == nil {
		t.Fatal("production must not start with the default JWT secret")
	}

	unknown := *base
	unknown.PostStore = "cassandra"
	if _, err := Bootstrap(context.Background(), &unknown); err == nil {
		t.Fatal("unknown post store must be rejected")
	}

	badDriver := *base
	badDriver.DatabaseDriver = "oracle"
	if _, err := Bootstrap(context.Background(), &badDriver); err == nil {
		t.Fatal("unknown database driver must be rejected")
	}
}

func TestBootstrapWiresServer(t *testing.T) {
	setTestEnv(t)
	app, err := Bootstrap(context.Background(), config.Load())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	defer app.Close()

	if app.Redis != nil || app.Mongo != nil {
		t.Fatal("optional stores should stay disabled")
	}
	if err := app.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.Config.Port = "0"
	done := make(chan error, 1)
	go func() { done <- serve(ctx, app) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
