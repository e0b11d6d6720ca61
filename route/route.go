package route

import (
	"context"

	"github.com/agrovista/authgate"
	"github.com/agrovista/authgate/policy"
)

// Decision is the outcome of a navigation check.
type Decision struct {
	Allow      bool
	RedirectTo string
	// ReplaceHistory asks the host to replace the current history entry
	// instead of pushing, so Back does not return to the refused surface.
	ReplaceHistory bool
}

// Requirement describes what a role-gated surface demands. Clauses are
// evaluated in field order; the first failing clause decides.
type Requirement struct {
	// AllowedRoles admits a principal whose role appears in the list.
	// Empty means any authenticated role.
	AllowedRoles []policy.Role
	// RequiredPermissions must all be held.
	RequiredPermissions []policy.Permission
	// AnyPermissions requires at least one to be held.
	AnyPermissions []policy.Permission
	// RedirectTo overrides the unauthorized surface for this requirement.
	RedirectTo string
}

// Resolver answers navigation checks against a session store.
type Resolver struct {
	store *authgate.Store
}

func NewResolver(store *authgate.Store) *Resolver {
	return &Resolver{store: store}
}

// CanViewPublic checks access to a public surface. Public surfaces are open
// to everyone; a restricted one (login, registration) additionally turns
// away users who already hold a valid session, replacing history so Back
// does not land on it again.
func (r *Resolver) CanViewPublic(ctx context.Context, restricted bool) Decision {
	if restricted && r.store.IsTokenValid(ctx) {
		r.store.Metrics().Inc(authgate.MetricRouteTurnedAway)
		return Decision{
			RedirectTo:     r.store.Config().Routes.HomePath,
			ReplaceHistory: true,
		}
	}
	r.store.Metrics().Inc(authgate.MetricRouteAllowed)
	return Decision{Allow: true}
}

// CanViewProtected checks access to a surface that requires a valid session
// and nothing more.
func (r *Resolver) CanViewProtected(ctx context.Context) Decision {
	if !r.store.IsTokenValid(ctx) {
		r.store.Metrics().Inc(authgate.MetricRouteUnauthenticated)
		return Decision{
			RedirectTo:     r.store.Config().Routes.LoginPath,
			ReplaceHistory: true,
		}
	}
	r.store.Metrics().Inc(authgate.MetricRouteAllowed)
	return Decision{Allow: true}
}

// CanViewRoleGated checks access to a surface with role or permission
// demands. Authentication is settled first: an invalid session or a missing
// principal resolves to login, not unauthorized. Then each clause of req is
// checked in order, and the first failure resolves to the unauthorized
// surface (or req.RedirectTo when set).
func (r *Resolver) CanViewRoleGated(ctx context.Context, req Requirement) Decision {
	cfg := r.store.Config()

	if !r.store.IsTokenValid(ctx) {
		r.store.Metrics().Inc(authgate.MetricRouteUnauthenticated)
		return Decision{RedirectTo: cfg.Routes.LoginPath, ReplaceHistory: true}
	}
	if _, ok := r.store.Principal(); !ok {
		// Valid token but no profile; fail closed to login.
		r.store.Metrics().Inc(authgate.MetricRouteUnauthenticated)
		return Decision{RedirectTo: cfg.Routes.LoginPath, ReplaceHistory: true}
	}

	deniedTo := req.RedirectTo
	if deniedTo == "" {
		deniedTo = cfg.Routes.UnauthorizedPath
	}

	if len(req.AllowedRoles) > 0 && !r.store.HasAnyRole(req.AllowedRoles...) {
		r.store.Metrics().Inc(authgate.MetricRouteUnauthorized)
		return Decision{RedirectTo: deniedTo}
	}
	if len(req.RequiredPermissions) > 0 && !r.store.HasAllPermissions(req.RequiredPermissions) {
		r.store.Metrics().Inc(authgate.MetricRouteUnauthorized)
		return Decision{RedirectTo: deniedTo}
	}
	if len(req.AnyPermissions) > 0 && !r.store.HasAnyPermission(req.AnyPermissions) {
		r.store.Metrics().Inc(authgate.MetricRouteUnauthorized)
		return Decision{RedirectTo: deniedTo}
	}

	r.store.Metrics().Inc(authgate.MetricRouteAllowed)
	return Decision{Allow: true}
}
