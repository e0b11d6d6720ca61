package guard

import (
	"context"
	"sync"
	"time"

	"github.com/agrovista/authgate"
)

// Kind classifies a guard event.
type Kind string

const (
	// KindRedirectLogin means the session is gone; navigate to the login
	// surface named in the event.
	KindRedirectLogin Kind = "redirect.login"
	// KindExpiryWarning means the token expires within the warning window.
	// Emitted at most once per token.
	KindExpiryWarning Kind = "expiry.warning"
)

// Event is one guard observation.
type Event struct {
	Kind       Kind
	Remaining  time.Duration
	RedirectTo string
}

// Guard periodically checks the store's session validity. Create one with
// [New], start it with [Guard.Run], and drain [Guard.Events].
type Guard struct {
	store  *authgate.Store
	events chan Event

	stop     chan struct{}
	stopOnce sync.Once

	// warned latches the one-time expiry warning for the current token.
	warned    bool
	lastToken string
}

// New creates a Guard for the store. The events channel is buffered; emits
// never block.
func New(store *authgate.Store) *Guard {
	return &Guard{
		store:  store,
		events: make(chan Event, 8),
		stop:   make(chan struct{}),
	}
}

// Events returns the guard's observation stream.
func (g *Guard) Events() <-chan Event {
	return g.events
}

// Run starts monitoring. The first check happens synchronously before Run
// returns, so a dead session is detected immediately rather than one
// interval later. Subsequent checks run on the configured interval until ctx
// is cancelled or [Guard.Stop] is called.
func (g *Guard) Run(ctx context.Context) {
	g.check(ctx)

	go func() {
		ticker := time.NewTicker(g.store.Config().Guard.CheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-g.stop:
				return
			case <-ticker.C:
				g.check(ctx)
			}
		}
	}()
}

// Stop ends monitoring. Safe to call more than once.
func (g *Guard) Stop() {
	g.stopOnce.Do(func() {
		close(g.stop)
	})
}

func (g *Guard) check(ctx context.Context) {
	cfg := g.store.Config()

	if !g.store.IsTokenValid(ctx) {
		g.warned = false
		g.lastToken = ""
		g.store.Metrics().Inc(authgate.MetricGuardRedirect)
		g.emit(Event{
			Kind:       KindRedirectLogin,
			RedirectTo: cfg.Routes.LoginPath,
		})
		return
	}

	current := g.store.Token()
	if current != g.lastToken {
		// New token, new warning budget.
		g.lastToken = current
		g.warned = false
	}

	if !cfg.Guard.WarnBeforeExpiry || g.warned {
		return
	}
	remaining := g.store.TimeRemaining()
	if remaining > 0 && remaining <= cfg.Guard.WarnWindow {
		g.warned = true
		g.store.Metrics().Inc(authgate.MetricGuardWarning)
		g.emit(Event{
			Kind:      KindExpiryWarning,
			Remaining: remaining,
		})
	}
}

func (g *Guard) emit(event Event) {
	select {
	case g.events <- event:
	default:
	}
}
