package authgate

import (
	"errors"
	"time"

	"github.com/agrovista/authgate/signal"
)

// Config defines the behavior of a [Store] and its collaborators. Zero
// values are filled in with defaults by [Builder.Build]; instances are
// treated as immutable after that.
type Config struct {
	Token   TokenConfig
	Guard   GuardConfig
	Routes  RouteConfig
	Signal  SignalConfig
	Metrics MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls claim-based expiry checks and credential persistence.
type TokenConfig struct {
	// ExpiryMargin is subtracted from the token's expiration instant when
	// checking validity, so a token that is "valid at check time" cannot be
	// expired by the time a request reaches the server. Default 60s.
	ExpiryMargin time.Duration

	// CredentialTTL is the lifetime of the persisted credential copy. It is
	// independent of token expiration; the persisted copy is a cache, not a
	// trust boundary. Default 7 days.
	CredentialTTL time.Duration
}

/*
====================================
GUARD CONFIG
====================================
*/

// GuardConfig controls the periodic validity monitor.
type GuardConfig struct {
	CheckInterval    time.Duration // default 60s
	WarnBeforeExpiry bool          // default true
	WarnWindow       time.Duration // default 5m
}

/*
====================================
ROUTE CONFIG
====================================
*/

// RouteConfig names the navigation targets used by route decisions.
type RouteConfig struct {
	LoginPath        string // default "/login"
	UnauthorizedPath string // default "/unauthorized"
	HomePath         string // default "/farm-selector", the authenticated landing surface
}

/*
====================================
SIGNAL CONFIG
====================================
*/

// SignalConfig controls cross-module broadcast.
type SignalConfig struct {
	// Buffer is the capacity of channels returned by [Store.Subscribe].
	// Default 16.
	Buffer int
	// Channel is the Redis channel and MQTT topic used by bridges attached
	// through [Store.AttachRedisBridge] and [Store.AttachMQTTBridge].
	// Default [signal.DefaultChannel].
	Channel string
}

// MetricsConfig enables the in-process counters exposed through
// [Store.MetricsSnapshot].
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			ExpiryMargin:  60 * time.Second,
			CredentialTTL: 7 * 24 * time.Hour,
		},
		Guard: GuardConfig{
			CheckInterval:    60 * time.Second,
			WarnBeforeExpiry: true,
			WarnWindow:       5 * time.Minute,
		},
		Routes: RouteConfig{
			LoginPath:        "/login",
			UnauthorizedPath: "/unauthorized",
			HomePath:         "/farm-selector",
		},
		Signal: SignalConfig{
			Buffer:  16,
			Channel: signal.DefaultChannel,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// normalizeConfig fills zero-valued fields from defaults so a partially
// populated Config behaves predictably.
func normalizeConfig(cfg Config) Config {
	def := defaultConfig()

	if cfg.Token.ExpiryMargin == 0 {
		cfg.Token.ExpiryMargin = def.Token.ExpiryMargin
	}
	if cfg.Token.CredentialTTL == 0 {
		cfg.Token.CredentialTTL = def.Token.CredentialTTL
	}
	if cfg.Guard.CheckInterval == 0 {
		cfg.Guard.CheckInterval = def.Guard.CheckInterval
	}
	if cfg.Guard.WarnWindow == 0 {
		cfg.Guard.WarnWindow = def.Guard.WarnWindow
	}
	if cfg.Routes.LoginPath == "" {
		cfg.Routes.LoginPath = def.Routes.LoginPath
	}
	if cfg.Routes.UnauthorizedPath == "" {
		cfg.Routes.UnauthorizedPath = def.Routes.UnauthorizedPath
	}
	if cfg.Routes.HomePath == "" {
		cfg.Routes.HomePath = def.Routes.HomePath
	}
	if cfg.Signal.Buffer <= 0 {
		cfg.Signal.Buffer = def.Signal.Buffer
	}
	if cfg.Signal.Channel == "" {
		cfg.Signal.Channel = def.Signal.Channel
	}

	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.Token.ExpiryMargin < 0 || cfg.Token.ExpiryMargin > 10*time.Minute {
		return errors.New("invalid expiry margin configuration")
	}
	if cfg.Token.CredentialTTL < 0 {
		return errors.New("invalid credential TTL configuration")
	}
	if cfg.Guard.CheckInterval < time.Second {
		return errors.New("guard check interval below one second")
	}
	if cfg.Guard.WarnWindow < 0 {
		return errors.New("invalid guard warn window")
	}
	return nil
}
