// Package services contains REST clients for the MealStack backend.
//
// [APIService] is the transport-level client: it owns the base URL, the HTTP
// client, a request rate limiter and bearer-token injection. The typed
// clients ([AuthService], [RecipeService], [DownloadService], [AdminService])
// are thin wrappers translating endpoint payloads into model types.
//
// Error translation: non-2xx responses become a [shared.BackendError]
// carrying the backend's structured message when one is present; 401/403
// responses additionally wrap [shared.ErrAuth] so callers can force a
// session invalidation.
package services
