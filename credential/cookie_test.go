package credential

import (
	"context"
	"errors"
	"net/http/cookiejar"
	"net/url"
	"testing"
	"time"
)

func newTestCookieStore(t *testing.T) *CookieStore {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New failed: %v", err)
	}
	origin, err := url.Parse("https://farm.example.com")
	if err != nil {
		t.Fatalf("url.Parse failed: %v", err)
	}
	return NewCookieStore(jar, origin)
}

func TestCookieStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestCookieStore(t)

	// Snapshot payloads contain JSON; the value must survive cookie rules.
	payload := `{"version":1,"token":"abc.def.ghi","is_authenticated":true}`
	if err := store.Set(ctx, SnapshotKey, payload, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, SnapshotKey)
	if err != nil || got != payload {
		t.Fatalf("Get = %q, %v", got, err)
	}
}

func TestCookieStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestCookieStore(t)

	if err := store.Set(ctx, TokenKey, "tok", time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, TokenKey); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, TokenKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCookieStoreSweep(t *testing.T) {
	ctx := context.Background()
	store := newTestCookieStore(t)

	for _, key := range []string{TokenKey, SnapshotKey, "refresh_token", "theme"} {
		if err := store.Set(ctx, key, "v", time.Hour); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := store.Sweep(ctx); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	for _, key := range []string{TokenKey, SnapshotKey, "refresh_token"} {
		if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Errorf("cookie %q should be swept, got err=%v", key, err)
		}
	}
	if got, err := store.Get(ctx, "theme"); err != nil || got != "v" {
		t.Errorf("non-auth cookie swept: %q, %v", got, err)
	}
}

func TestCookieStoreMissingKey(t *testing.T) {
	store := newTestCookieStore(t)
	if _, err := store.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
