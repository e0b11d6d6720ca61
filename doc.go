// Package authgate is the client-resident session and authorization state
// machine for the farm-management shell. It owns the authenticated session —
// principal, bearer token, selected farm — and answers, synchronously, whether
// a given navigation surface may be shown.
//
// The package is designed around one authoritative in-memory [Store] built via
// [Builder.Build], backed by a durable credential cache (cookie, Redis, or
// SQLite) that survives reloads but is never a trust boundary. Token claims
// are decoded locally for UX decisions only; the identity provider remains the
// source of truth.
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Store], [Builder], [Config],
// sentinel errors, and value types ([Principal], [Farm], [MetricsSnapshot]).
// Subpackages hold the focused collaborators: token (claim codec), credential
// (persisted stores), policy (role/permission table), signal (cross-module
// broadcast), guard (periodic validity monitor), route (navigation
// decisions), middleware (net/http adapters), and identity (credential
// exchange client). Snapshot encoding lives under internal/ and is never
// exported.
//
// # What this package must NOT do
//
//   - Verify token signatures or make authorization decisions the server
//     would not also enforce. Local checks are a UX optimization.
//   - Perform I/O during construction (Builder is allocation-only until
//     Build; persistence happens inside Store methods).
//   - Surface storage or decoding failures as authorization errors. They are
//     normalized to empty results at their source.
//
// # Consistency contract
//
// A logout signal is always observable strictly before session fields are
// cleared. IsTokenValid is self-healing: once a session exists, an invalid
// result forces logout, so every consumer evicts stale state automatically.
package authgate
