package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/VladimirStojanovski/MealStack/internal/models"
	"github.com/VladimirStojanovski/MealStack/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestSessionRepository(t *testing.T) {
	session := &models.Session{
		Token: "jwt-token",
		User: models.User{
			ID:       "42",
			Username: "alice",
			Email:    "alice@example.com",
			Roles:    []string{"ROLE_USER", "ROLE_ADMIN"},
		},
	}

	t.Run("Load Empty Slot Returns Nil", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		got, err := repo.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("Save And Load Round Trip", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(session); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		got, err := repo.Load()
		if err != nil {
			t.Fatalf("failed to load session: %v", err)
		}
		if got.Token != "jwt-token" {
			t.Errorf("expected token 'jwt-token', got %s", got.Token)
		}
		if got.User.Username != "alice" {
			t.Errorf("expected username 'alice', got %s", got.User.Username)
		}
		if len(got.User.Roles) != 2 || !got.User.HasRole("ROLE_ADMIN") {
			t.Errorf("expected roles to survive the round trip, got %v", got.User.Roles)
		}
	})

	t.Run("Save Replaces The Existing Session", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(session); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}
		replacement := &models.Session{Token: "new-token", User: models.User{ID: "7", Username: "bob", Email: "bob@example.com"}}
		if err := repo.Save(replacement); err != nil {
			t.Fatalf("failed to replace session: %v", err)
		}

		got, err := repo.Load()
		if err != nil {
			t.Fatalf("failed to load session: %v", err)
		}
		if got.Token != "new-token" || got.User.Username != "bob" {
			t.Errorf("expected replacement session, got %+v", got)
		}
	})

	t.Run("Save Rejects Invalid Session", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(&models.Session{}); err == nil {
			t.Error("expected error saving a session without a token")
		}
	})

	t.Run("Clear Removes The Session", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(session); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}
		if err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear session: %v", err)
		}

		got, err := repo.Load()
		if err != nil {
			t.Fatalf("failed to load after clear: %v", err)
		}
		if got != nil {
			t.Errorf("expected empty slot, got %+v", got)
		}
	})

	t.Run("Clear On Empty Slot Is Not An Error", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		if err := repo.Clear(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestDownloadRepository(t *testing.T) {
	t.Run("Create And List", func(t *testing.T) {
		repo := NewDownloadRepository(setupTestDB(t))

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		if err := repo.Create("job-1", 3, "Submitting", base); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}
		if err := repo.Create("job-2", 5, "Submitting", base.Add(time.Hour)); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		records, err := repo.List(0)
		if err != nil {
			t.Fatalf("failed to list records: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].ID != "job-2" {
			t.Errorf("expected most recent record first, got %s", records[0].ID)
		}
		if records[0].FinishedAt != nil {
			t.Error("expected unfinished record to have nil FinishedAt")
		}
	})

	t.Run("Finish Updates Status And Message", func(t *testing.T) {
		repo := NewDownloadRepository(setupTestDB(t))

		created := time.Now().UTC()
		if err := repo.Create("job-1", 2, "Submitting", created); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		finished := created.Add(time.Minute)
		if err := repo.Finish("job-1", "Completed", "2 videos downloaded", finished); err != nil {
			t.Fatalf("failed to finish record: %v", err)
		}

		records, err := repo.List(1)
		if err != nil {
			t.Fatalf("failed to list records: %v", err)
		}
		rec := records[0]
		if rec.Status != "Completed" {
			t.Errorf("expected status Completed, got %s", rec.Status)
		}
		if rec.Message != "2 videos downloaded" {
			t.Errorf("expected message to be stored, got %q", rec.Message)
		}
		if rec.FinishedAt == nil {
			t.Error("expected FinishedAt to be set")
		}
	})

	t.Run("Finish Unknown Job Fails", func(t *testing.T) {
		repo := NewDownloadRepository(setupTestDB(t))

		if err := repo.Finish("missing", "Failed", "", time.Now()); err == nil {
			t.Error("expected error finishing an unknown record")
		}
	})

	t.Run("List Honors The Limit", func(t *testing.T) {
		repo := NewDownloadRepository(setupTestDB(t))

		base := time.Now().UTC()
		for i := 0; i < 5; i++ {
			id := string(rune('a' + i))
			if err := repo.Create(id, 1, "Submitting", base.Add(time.Duration(i)*time.Second)); err != nil {
				t.Fatalf("failed to create record: %v", err)
			}
		}

		records, err := repo.List(3)
		if err != nil {
			t.Fatalf("failed to list records: %v", err)
		}
		if len(records) != 3 {
			t.Errorf("expected 3 records, got %d", len(records))
		}
	})
}
