package route

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agrovista/authgate"
	"github.com/agrovista/authgate/policy"
)

func mintToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()

	claims := jwt.RegisteredClaims{Subject: "user-1"}
	if expiresIn != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(expiresIn))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return signed
}

func newStore(t *testing.T) *authgate.Store {
	t.Helper()

	store, err := authgate.New().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return store
}

func login(t *testing.T, store *authgate.Store, role policy.Role) {
	t.Helper()

	err := store.SetAuth(context.Background(), mintToken(t, time.Hour), authgate.Principal{
		ID:   "user-1",
		Role: role,
	})
	if err != nil {
		t.Fatalf("SetAuth failed: %v", err)
	}
}

func TestPublicSurfaceAlwaysOpen(t *testing.T) {
	store := newStore(t)
	resolver := NewResolver(store)

	if d := resolver.CanViewPublic(context.Background(), false); !d.Allow {
		t.Fatalf("open public surface denied: %+v", d)
	}

	login(t, store, policy.RoleWorker)
	if d := resolver.CanViewPublic(context.Background(), false); !d.Allow {
		t.Fatalf("open public surface denied to authenticated user: %+v", d)
	}
}

func TestRestrictedPublicSurfaceTurnsAwayLiveSession(t *testing.T) {
	store := newStore(t)
	resolver := NewResolver(store)

	if d := resolver.CanViewPublic(context.Background(), true); !d.Allow {
		t.Fatalf("anonymous user denied the login surface: %+v", d)
	}

	login(t, store, policy.RoleWorker)
	d := resolver.CanViewPublic(context.Background(), true)
	if d.Allow {
		t.Fatal("authenticated user should be turned away from the login surface")
	}
	if d.RedirectTo != "/farm-selector" {
		t.Fatalf("redirect = %s", d.RedirectTo)
	}
	if !d.ReplaceHistory {
		t.Fatal("turn-away must replace history")
	}

	// The turn-away has its own counter; it is not an authorization denial.
	if got := store.Metrics().Value(authgate.MetricRouteTurnedAway); got != 1 {
		t.Fatalf("turned-away counter = %d", got)
	}
	if got := store.Metrics().Value(authgate.MetricRouteUnauthorized); got != 0 {
		t.Fatalf("unauthorized counter = %d, want untouched", got)
	}
}

func TestProtectedSurfaceRequiresValidSession(t *testing.T) {
	store := newStore(t)
	resolver := NewResolver(store)

	d := resolver.CanViewProtected(context.Background())
	if d.Allow || d.RedirectTo != "/login" {
		t.Fatalf("anonymous decision = %+v", d)
	}
	if !d.ReplaceHistory {
		t.Fatal("login redirect must replace history")
	}

	login(t, store, policy.RoleGuest)
	if d := resolver.CanViewProtected(context.Background()); !d.Allow {
		t.Fatalf("valid session denied: %+v", d)
	}
}

func TestRoleGatedDistinguishesLoginFromDenial(t *testing.T) {
	store := newStore(t)
	resolver := NewResolver(store)
	req := Requirement{AllowedRoles: []policy.Role{policy.RoleFarmOwner}}

	// No session: login, never unauthorized.
	d := resolver.CanViewRoleGated(context.Background(), req)
	if d.Allow || d.RedirectTo != "/login" {
		t.Fatalf("anonymous decision = %+v", d)
	}

	// Wrong role: unauthorized, never login.
	login(t, store, policy.RoleWorker)
	d = resolver.CanViewRoleGated(context.Background(), req)
	if d.Allow || d.RedirectTo != "/unauthorized" {
		t.Fatalf("wrong-role decision = %+v", d)
	}

	// Right role.
	login(t, store, policy.RoleFarmOwner)
	if d := resolver.CanViewRoleGated(context.Background(), req); !d.Allow {
		t.Fatalf("right-role decision = %+v", d)
	}
}

func TestRoleGatedPermissionClauses(t *testing.T) {
	store := newStore(t)
	resolver := NewResolver(store)
	login(t, store, policy.RoleWorker)

	// All-of clause.
	d := resolver.CanViewRoleGated(context.Background(), Requirement{
		RequiredPermissions: []policy.Permission{policy.PermAnimalRead, policy.PermFarmDelete},
	})
	if d.Allow {
		t.Fatal("missing permission should deny")
	}
	d = resolver.CanViewRoleGated(context.Background(), Requirement{
		RequiredPermissions: []policy.Permission{policy.PermAnimalRead, policy.PermInventoryRead},
	})
	if !d.Allow {
		t.Fatalf("held permissions denied: %+v", d)
	}

	// Any-of clause.
	d = resolver.CanViewRoleGated(context.Background(), Requirement{
		AnyPermissions: []policy.Permission{policy.PermFarmDelete, policy.PermAnimalRead},
	})
	if !d.Allow {
		t.Fatalf("any-of with one held permission denied: %+v", d)
	}

	// Roles settle before permissions.
	d = resolver.CanViewRoleGated(context.Background(), Requirement{
		AllowedRoles:        []policy.Role{policy.RoleFarmOwner},
		RequiredPermissions: []policy.Permission{policy.PermAnimalRead},
	})
	if d.Allow {
		t.Fatal("role clause should deny before permissions are consulted")
	}
}

func TestRoleGatedCustomRedirect(t *testing.T) {
	store := newStore(t)
	resolver := NewResolver(store)
	login(t, store, policy.RoleGuest)

	d := resolver.CanViewRoleGated(context.Background(), Requirement{
		AllowedRoles: []policy.Role{policy.RoleSuperAdmin},
		RedirectTo:   "/farm-selector",
	})
	if d.Allow || d.RedirectTo != "/farm-selector" {
		t.Fatalf("custom redirect decision = %+v", d)
	}
}

func TestRoleGatedExpiredSessionResolvesToLogin(t *testing.T) {
	store := newStore(t)
	resolver := NewResolver(store)
	login(t, store, policy.RoleFarmOwner)

	// The session dies; the same requirement that allowed now redirects to
	// login.
	store.Logout(context.Background())

	d := resolver.CanViewRoleGated(context.Background(), Requirement{
		AllowedRoles: []policy.Role{policy.RoleFarmOwner},
	})
	if d.Allow || d.RedirectTo != "/login" {
		t.Fatalf("dead-session decision = %+v", d)
	}
}

func TestDecisionsIncrementMetrics(t *testing.T) {
	store := newStore(t)
	resolver := NewResolver(store)

	resolver.CanViewProtected(context.Background())
	if got := store.Metrics().Value(authgate.MetricRouteUnauthenticated); got != 1 {
		t.Fatalf("unauthenticated counter = %d", got)
	}

	login(t, store, policy.RoleGuest)
	resolver.CanViewRoleGated(context.Background(), Requirement{
		AllowedRoles: []policy.Role{policy.RoleSuperAdmin},
	})
	if got := store.Metrics().Value(authgate.MetricRouteUnauthorized); got != 1 {
		t.Fatalf("unauthorized counter = %d", got)
	}

	resolver.CanViewProtected(context.Background())
	if got := store.Metrics().Value(authgate.MetricRouteAllowed); got == 0 {
		t.Fatal("allowed counter not incremented")
	}
}
