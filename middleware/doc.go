// Package middleware exposes net/http adapters for the navigation decisions
// in package route: public, protected, and role-gated surfaces rendered
// server-side share the same access rules as client-side navigation.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into route.Resolver calls. It does
// NOT implement authorization logic itself — every decision is delegated to
// the resolver.
//
// # What this package must NOT do
//
//   - Inspect tokens or session state directly.
//   - Make allow/deny decisions beyond what the resolver returned.
package middleware
