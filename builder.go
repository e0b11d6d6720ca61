package authgate

import (
	"fmt"

	"github.com/agrovista/authgate/credential"
	"github.com/agrovista/authgate/policy"
	"github.com/agrovista/authgate/signal"
	"github.com/agrovista/authgate/token"
)

// Builder assembles a [Store]. Every WithX method returns the builder for
// chaining; unset collaborators fall back to safe defaults in [Builder.Build].
type Builder struct {
	config      Config
	configSet   bool
	credentials credential.Store
	sinks       []signal.Sink
	authz       *policy.Policy
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// WithConfig replaces the default configuration. Zero-valued fields are
// filled from defaults at build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	b.configSet = true
	return b
}

// WithCredentialStore sets the durable credential backend. Defaults to an
// in-process [credential.MemoryStore].
func (b *Builder) WithCredentialStore(store credential.Store) *Builder {
	b.credentials = store
	return b
}

// WithSignalSink attaches a sink to the store's event bus. May be called
// multiple times; sinks receive events in attachment order.
func (b *Builder) WithSignalSink(sink signal.Sink) *Builder {
	if sink != nil {
		b.sinks = append(b.sinks, sink)
	}
	return b
}

// WithPolicy replaces the default authorization table.
func (b *Builder) WithPolicy(p *policy.Policy) *Builder {
	b.authz = p
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	b.configSet = true
	return b
}

// Build validates the configuration and returns a ready Store. Build only
// allocates: it does not touch the credential layer, so construction cannot
// fail on a cold backend. Call [Store.Rehydrate] to restore a prior session.
func (b *Builder) Build() (*Store, error) {
	cfg := b.config
	if !b.configSet {
		cfg = defaultConfig()
	}
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	credentials := b.credentials
	if credentials == nil {
		credentials = credential.NewMemoryStore()
	}

	authz := b.authz
	if authz == nil {
		authz = policy.Default()
	}

	bus := signal.NewBus()
	for _, sink := range b.sinks {
		bus.Attach(sink)
	}

	return &Store{
		config:      cfg,
		codec:       token.NewCodec(cfg.Token.ExpiryMargin),
		policy:      authz,
		credentials: credentials,
		bus:         bus,
		metrics:     newMetrics(cfg.Metrics.Enabled),
	}, nil
}
