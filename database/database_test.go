package database

import (
	"path/filepath"
	"testing"

	"socialpulse-api/models"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		want    string
		wantErr bool
	}{
		{name: "mysql", driver: DriverMySQL, want: "mysql"},
		{name: "postgres", driver: DriverPostgres, want: "postgres"},
		{name: "postgres alias", driver: "postgresql", want: "postgres"},
		{name: "sqlite", driver: DriverSQLite, want: "sqlite"},
		{name: "default", driver: "", want: "sqlite"},
		{name: "unsupported", driver: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Dialector(tt.driver, "dsn")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Name() != tt.want {
				t.Fatalf("expected %s dialector, got %s", tt.want, d.Name())
			}
		})
	}
}

func TestMigrateAndSeed(t *testing.T) {
	db, err := Initialize(DriverSQLite, filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// a second run must be a no-op
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	for _, idx := range []string{"idx_posts_status_claimed", "idx_posts_user_created"} {
		if !db.Migrator().HasIndex("posts", idx) {
			t.Fatalf("missing index %s", idx)
		}
	}

	for i := 0; i < 2; i++ {
		if err := SeedData(db); err != nil {
			t.Fatalf("SeedData run %d: %v", i, err)
		}
	}

	var users, posts int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Post{}).Count(&posts)
	if users != 1 || posts != 3 {
		t.Fatalf("expected 1 user and 3 posts after seeding twice, got %d and %d", users, posts)
	}
}

func TestConnectRedisDisabled(t *testing.T) {
	if ConnectRedis("", "") != nil {
		t.Fatal("empty address should disable redis")
	}
	client := ConnectRedis("localhost:6379", "")
	if client == nil {
		t.Fatal("expected a client")
	}
	_ = client.Close()
}
