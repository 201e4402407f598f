// Package session owns the client's authentication state.
//
// [Manager] is the single source of truth for "who is the current user". It
// starts in [StateInitializing], restores a persisted session from its
// [TokenStore] exactly once, and then moves between [StateAuthenticated] and
// [StateUnauthenticated] through the closed set of transitions: Login,
// Logout, Register (no transition) and Invalidate (forced by a rejected
// token).
//
// [Decide] is the pure authorization guard evaluated on every navigation;
// it never caches and never decides while the manager is still initializing.
package session
