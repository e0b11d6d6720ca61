package middleware

import (
	"net/http"

	"github.com/agrovista/authgate/route"
)

// Public wraps a handler for an open surface. When restricted is true,
// users with a live session are redirected away, matching the behavior of
// login-style pages.
func Public(resolver *route.Resolver, restricted bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := resolver.CanViewPublic(r.Context(), restricted)
			if !decision.Allow {
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Protected wraps a handler that requires a valid session.
func Protected(resolver *route.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := resolver.CanViewProtected(r.Context())
			if !decision.Allow {
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RoleGated wraps a handler with role or permission demands.
func RoleGated(resolver *route.Resolver, req route.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := resolver.CanViewRoleGated(r.Context(), req)
			if !decision.Allow {
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
