// package formatter renders model collections for CLI output (plain text, CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/VladimirStojanovski/MealStack/internal/models"
)

// RecipesToText renders recipes as an aligned plain-text listing.
func RecipesToText(recipes []models.Recipe) []byte {
	var buf bytes.Buffer

	if len(recipes) == 0 {
		buf.WriteString("No recipes found.\n")
		return buf.Bytes()
	}

	for i, r := range recipes {
		buf.WriteString(fmt.Sprintf("%d. [%d] %s", i+1, r.ID, r.Title))
		if r.Tag != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", r.Tag))
		}
		buf.WriteString("\n")
		if r.Description != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", r.Description))
		}
		if r.SourceURL != "" {
			buf.WriteString(fmt.Sprintf("   source: %s\n", r.SourceURL))
		}
	}

	return buf.Bytes()
}

// RecipesToCSV converts recipes to CSV with columns: ID, Title, Description, SourceURL, Tag, CreatedAt
func RecipesToCSV(recipes []models.Recipe) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Description", "SourceURL", "Tag", "CreatedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range recipes {
		record := []string{
			strconv.FormatInt(r.ID, 10),
			r.Title,
			r.Description,
			r.SourceURL,
			r.Tag,
			formatTime(&r.CreatedAt),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// UsersToText renders the admin user board as plain text.
func UsersToText(users []models.AdminUser) []byte {
	var buf bytes.Buffer

	if len(users) == 0 {
		buf.WriteString("No users found.\n")
		return buf.Bytes()
	}

	for _, u := range users {
		buf.WriteString(fmt.Sprintf("[%d] %s <%s>\n", u.ID, u.Username, u.Email))
		if len(u.Roles) > 0 {
			buf.WriteString(fmt.Sprintf("    roles: %v\n", u.Roles))
		}
		buf.WriteString(fmt.Sprintf("    downloads: %d", u.NumDownloads))
		if u.LastDownloadDate != nil {
			buf.WriteString(fmt.Sprintf(" (last: %s)", formatTime(u.LastDownloadDate)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// HistoryToText renders local download job history as plain text.
func HistoryToText(records []models.DownloadRecord) []byte {
	var buf bytes.Buffer

	if len(records) == 0 {
		buf.WriteString("No downloads recorded.\n")
		return buf.Bytes()
	}

	for _, rec := range records {
		buf.WriteString(fmt.Sprintf("%s  %-10s  %d url(s)", formatTime(&rec.CreatedAt), rec.Status, rec.URLCount))
		if rec.Message != "" {
			buf.WriteString(fmt.Sprintf("  %s", rec.Message))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
