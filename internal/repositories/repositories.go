// package repositories provides the local SQLite persistence layer.
//
// SessionRepository is the durable token-store slot behind the session
// manager; DownloadRepository keeps a local history of bulk download jobs.
// Both operate on a database prepared by shared.RunMigrations.
package repositories

import "strings"

// joinRoles flattens a role set for storage in a single column.
func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

// splitRoles restores a role set from its stored form.
func splitRoles(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
