package models

import "time"

// RoleAdmin is the backend role granting access to the admin surface.
const RoleAdmin = "ROLE_ADMIN"

// User represents the authenticated user's profile as returned by the backend.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the user holds the given role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user holds at least one of the given roles.
// An empty argument list matches nothing.
func (u User) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}

// Session is the client's record of the currently authenticated user and
// their bearer credential. A Session is either fully populated (non-empty
// Token) or absent; no partial state is exposed.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether the session carries a usable credential.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// AdminUser represents a user row on the admin board, including the
// download-tracking fields the backend maintains per account.
type AdminUser struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Roles            []string   `json:"roles"`
	NumDownloads     int        `json:"numDownloads"`
	LastDownloadDate *time.Time `json:"lastDownloadDate"`
}

// DownloadRecord is the locally persisted summary of one bulk download job.
type DownloadRecord struct {
	ID         string
	URLCount   int
	Status     string
	Message    string
	CreatedAt  time.Time
	FinishedAt *time.Time
}

// Recipe represents a recipe managed by the backend.
type Recipe struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SourceURL   string    `json:"sourceUrl"`
	Tag         string    `json:"tag"`
	CreatedAt   time.Time `json:"createdAt"`
}
