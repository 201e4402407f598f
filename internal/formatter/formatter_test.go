package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/VladimirStojanovski/MealStack/internal/models"
)

func TestRecipesToText(t *testing.T) {
	t.Run("Empty Slice", func(t *testing.T) {
		out := string(RecipesToText(nil))
		if out != "No recipes found.\n" {
			t.Errorf("expected empty message, got %q", out)
		}
	})

	t.Run("Renders Title Tag And Source", func(t *testing.T) {
		recipes := []models.Recipe{
			{ID: 3, Title: "Shakshuka", Description: "Eggs in tomato sauce", SourceURL: "https://example.com/shakshuka", Tag: "breakfast"},
			{ID: 7, Title: "Plain Rice"},
		}

		out := string(RecipesToText(recipes))
		if !strings.Contains(out, "1. [3] Shakshuka (breakfast)") {
			t.Errorf("expected numbered title line, got:\n%s", out)
		}
		if !strings.Contains(out, "Eggs in tomato sauce") {
			t.Errorf("expected description, got:\n%s", out)
		}
		if !strings.Contains(out, "source: https://example.com/shakshuka") {
			t.Errorf("expected source line, got:\n%s", out)
		}
		if !strings.Contains(out, "2. [7] Plain Rice") {
			t.Errorf("expected second entry, got:\n%s", out)
		}
	})
}

func TestRecipesToCSV(t *testing.T) {
	t.Run("Headers Only For Empty Slice", func(t *testing.T) {
		out, err := RecipesToCSV(nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(out) != "ID,Title,Description,SourceURL,Tag,CreatedAt\n" {
			t.Errorf("expected header row only, got %q", string(out))
		}
	})

	t.Run("One Row Per Recipe", func(t *testing.T) {
		created := time.Date(2025, 5, 20, 10, 30, 0, 0, time.UTC)
		recipes := []models.Recipe{
			{ID: 1, Title: "Ramen", Tag: "dinner", CreatedAt: created},
			{ID: 2, Title: "Salad, Green", Description: "with \"dressing\""},
		}

		out, err := RecipesToCSV(recipes)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), string(out))
		}
		if !strings.HasPrefix(lines[1], "1,Ramen,") {
			t.Errorf("expected first data row for Ramen, got %q", lines[1])
		}
		// commas and quotes in fields must survive CSV quoting
		if !strings.Contains(lines[2], `"Salad, Green"`) {
			t.Errorf("expected quoted title, got %q", lines[2])
		}
	})
}

func TestUsersToText(t *testing.T) {
	t.Run("Empty Slice", func(t *testing.T) {
		out := string(UsersToText(nil))
		if out != "No users found.\n" {
			t.Errorf("expected empty message, got %q", out)
		}
	})

	t.Run("Renders Roles And Download Stats", func(t *testing.T) {
		last := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
		users := []models.AdminUser{
			{ID: 5, Username: "alice", Email: "alice@example.com", Roles: []string{"ROLE_USER"}, NumDownloads: 12, LastDownloadDate: &last},
			{ID: 6, Username: "bob", Email: "bob@example.com"},
		}

		out := string(UsersToText(users))
		if !strings.Contains(out, "[5] alice <alice@example.com>") {
			t.Errorf("expected user line, got:\n%s", out)
		}
		if !strings.Contains(out, "downloads: 12") {
			t.Errorf("expected download count, got:\n%s", out)
		}
		if !strings.Contains(out, "downloads: 0\n") {
			t.Errorf("expected zero downloads without a last date, got:\n%s", out)
		}
	})
}

func TestHistoryToText(t *testing.T) {
	t.Run("Empty Slice", func(t *testing.T) {
		out := string(HistoryToText(nil))
		if out != "No downloads recorded.\n" {
			t.Errorf("expected empty message, got %q", out)
		}
	})

	t.Run("Renders Status And Message", func(t *testing.T) {
		records := []models.DownloadRecord{
			{ID: "job-1", URLCount: 3, Status: "Completed", Message: "3 videos downloaded", CreatedAt: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)},
			{ID: "job-2", URLCount: 1, Status: "Failed", CreatedAt: time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)},
		}

		out := string(HistoryToText(records))
		if !strings.Contains(out, "Completed") || !strings.Contains(out, "3 videos downloaded") {
			t.Errorf("expected completed entry with message, got:\n%s", out)
		}
		if !strings.Contains(out, "1 url(s)") {
			t.Errorf("expected url count, got:\n%s", out)
		}
	})
}
