package guard

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agrovista/authgate"
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

func login(t *testing.T, store *authgate.Store, expiresIn time.Duration) {
	t.Helper()

	err := store.SetAuth(context.Background(), mintToken(t, expiresIn), authgate.Principal{ID: "user-1"})
	if err != nil {
		t.Fatalf("SetAuth failed: %v", err)
	}
}

func TestFirstCheckIsSynchronous(t *testing.T) {
	store := newStore(t)
	g := New(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// No session: the redirect must be observable the moment Run returns,
	// not one interval later.
	g.Run(ctx)
	g.Stop()

	select {
	case event := <-g.Events():
		if event.Kind != KindRedirectLogin {
			t.Fatalf("unexpected event %+v", event)
		}
		if event.RedirectTo != "/login" {
			t.Fatalf("redirect = %s", event.RedirectTo)
		}
	default:
		t.Fatal("expected an immediate redirect event")
	}
}

func TestValidSessionEmitsNothing(t *testing.T) {
	store := newStore(t)
	login(t, store, time.Hour)

	g := New(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g.Run(ctx)
	g.Stop()

	select {
	case event := <-g.Events():
		t.Fatalf("unexpected event %+v", event)
	default:
	}
}

func TestExpiryWarningFiresOnce(t *testing.T) {
	store := newStore(t)
	// Inside the 5-minute warning window, outside the 60s validity margin.
	login(t, store, 3*time.Minute)

	g := New(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g.Run(ctx)

	select {
	case event := <-g.Events():
		if event.Kind != KindExpiryWarning {
			t.Fatalf("unexpected event %+v", event)
		}
		if event.Remaining <= 0 || event.Remaining > 3*time.Minute {
			t.Fatalf("remaining = %v", event.Remaining)
		}
	default:
		t.Fatal("expected an expiry warning")
	}

	// Further checks of the same token stay silent.
	g.check(ctx)
	g.check(ctx)
	select {
	case event := <-g.Events():
		t.Fatalf("warning repeated: %+v", event)
	default:
	}
	if got := store.Metrics().Value(authgate.MetricGuardWarning); got != 1 {
		t.Fatalf("warning counter = %d", got)
	}

	g.Stop()
}

func TestWarningResetsOnNewToken(t *testing.T) {
	store := newStore(t)
	login(t, store, 3*time.Minute)

	g := New(store)
	ctx := context.Background()
	g.check(ctx)

	if event := <-g.Events(); event.Kind != KindExpiryWarning {
		t.Fatalf("unexpected event %+v", event)
	}

	// A fresh login gets a fresh warning budget.
	login(t, store, 2*time.Minute)
	g.check(ctx)

	select {
	case event := <-g.Events():
		if event.Kind != KindExpiryWarning {
			t.Fatalf("unexpected event %+v", event)
		}
	default:
		t.Fatal("expected a warning for the new token")
	}
}

func TestWarningDisabled(t *testing.T) {
	cfg := authgate.Config{}
	cfg.Guard.WarnBeforeExpiry = false
	store, err := authgate.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	login(t, store, 3*time.Minute)

	g := New(store)
	g.check(context.Background())

	select {
	case event := <-g.Events():
		t.Fatalf("unexpected event %+v", event)
	default:
	}
}

func TestDeadSessionEmitsRedirect(t *testing.T) {
	store := newStore(t)
	login(t, store, time.Hour)

	g := New(store)
	ctx := context.Background()
	g.check(ctx)

	store.Logout(ctx)
	g.check(ctx)

	select {
	case event := <-g.Events():
		if event.Kind != KindRedirectLogin {
			t.Fatalf("unexpected event %+v", event)
		}
	default:
		t.Fatal("expected a redirect after logout")
	}
	if got := store.Metrics().Value(authgate.MetricGuardRedirect); got == 0 {
		t.Fatal("redirect counter not incremented")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	store := newStore(t)
	g := New(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g.Run(ctx)

	g.Stop()
	g.Stop()
}

func TestPeriodicCheckRuns(t *testing.T) {
	cfg := authgate.Config{}
	cfg.Guard.CheckInterval = time.Second
	store, err := authgate.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	g := New(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g.Run(ctx)
	defer g.Stop()

	// First check fires immediately; the ticker delivers at least one more.
	deadline := time.After(3 * time.Second)
	seen := 0
	for seen < 2 {
		select {
		case <-g.Events():
			seen++
		case <-deadline:
			t.Fatalf("saw %d events before deadline", seen)
		}
	}
}
