package authgate

import (
	"context"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/redis/go-redis/v9"

	"github.com/agrovista/authgate/credential"
	"github.com/agrovista/authgate/internal/snapshot"
	"github.com/agrovista/authgate/policy"
	"github.com/agrovista/authgate/signal"
	"github.com/agrovista/authgate/token"
)

// Store holds the authoritative in-memory session for one module instance
// and keeps the durable credential layer in sync with it. All methods are
// safe for concurrent use.
//
// The in-memory session is the source of truth for queries; the credential
// layer is a cache consulted only during rehydration. A Store is created by
// [Builder.Build] and starts unauthenticated; call [Store.Rehydrate] to
// restore a prior session before serving queries.
type Store struct {
	config      Config
	codec       *token.Codec
	policy      *policy.Policy
	credentials credential.Store
	bus         *signal.Bus
	metrics     *Metrics

	mu            sync.RWMutex
	principal     *Principal
	bearerToken   string
	authenticated bool
	selectedFarm  *Farm
	version       uint64
}

/*
====================================
MUTATIONS
====================================
*/

// SetAuth establishes an authenticated session from a bearer token and the
// profile delivered alongside it. An undecodable token is refused with
// ErrTokenInvalid, an already-expired one with ErrTokenExpired; in both
// cases any live session is torn down, leaving the store unauthenticated
// rather than holding a credential that every downstream check would
// reject.
//
// On success the token and a session snapshot are persisted to the
// credential layer and an auth-established signal is published. Persistence
// failures are counted, not returned; the in-memory session stands on its
// own.
func (s *Store) SetAuth(ctx context.Context, bearer string, principal Principal) error {
	if _, ok := s.codec.Decode(bearer); !ok {
		s.metrics.Inc(MetricTokenRejected)
		s.Logout(ctx)
		return ErrTokenInvalid
	}
	if s.codec.IsExpired(bearer) {
		s.metrics.Inc(MetricTokenRejected)
		s.Logout(ctx)
		return ErrTokenExpired
	}

	p := clonePrincipal(&principal)

	s.mu.Lock()
	s.principal = p
	s.bearerToken = bearer
	s.authenticated = true
	s.version++
	s.mu.Unlock()

	s.persist(ctx)
	s.metrics.Inc(MetricAuthEstablished)

	s.bus.Publish(ctx, signal.Event{
		Type:        signal.TypeAuthEstablished,
		UserID:      p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        string(p.Role),
		Token:       bearer,
	})
	return nil
}

// SetSelectedFarm records the active farm for the session. It requires an
// authenticated session; farm selection without identity has no meaning.
func (s *Store) SetSelectedFarm(ctx context.Context, farm Farm) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	f := farm
	s.selectedFarm = &f
	s.version++
	userID := s.principal.ID
	s.mu.Unlock()

	s.persist(ctx)
	s.metrics.Inc(MetricFarmSelected)

	s.bus.Publish(ctx, signal.Event{
		Type:     signal.TypeFarmSelected,
		UserID:   userID,
		FarmID:   farm.ID,
		FarmName: farm.Name,
	})
	return nil
}

// UpdateProfile merges a partial profile change into the current principal.
// Nil fields are left untouched. The token, authentication flag, and farm
// selection are never affected.
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	s.mu.Lock()
	if !s.authenticated || s.principal == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	if update.Email != nil {
		s.principal.Email = *update.Email
	}
	if update.DisplayName != nil {
		s.principal.DisplayName = *update.DisplayName
	}
	if update.Role != nil {
		s.principal.Role = *update.Role
	}
	if update.Permissions != nil {
		s.principal.Permissions = append([]policy.Permission(nil), update.Permissions...)
	}
	s.version++
	s.mu.Unlock()

	s.persist(ctx)
	s.metrics.Inc(MetricProfileUpdated)
	return nil
}

// Logout tears the session down. The logout signal is published before any
// state is cleared, so handlers can still read the session that is ending.
// After the signal, in-memory state is reset, the persisted token and
// snapshot are deleted, and the credential namespace is swept for orphaned
// auth entries. Logout on an unauthenticated store is a silent no-op apart
// from the credential cleanup.
func (s *Store) Logout(ctx context.Context) {
	s.mu.RLock()
	hadSession := s.authenticated
	var event signal.Event
	if hadSession && s.principal != nil {
		event = signal.Event{
			Type:        signal.TypeLogout,
			UserID:      s.principal.ID,
			Email:       s.principal.Email,
			DisplayName: s.principal.DisplayName,
			Role:        string(s.principal.Role),
		}
	} else {
		event = signal.Event{Type: signal.TypeLogout}
	}
	s.mu.RUnlock()

	if hadSession {
		// Signal first: subscribers observe the session as it was.
		s.bus.Publish(ctx, event)
	}

	s.mu.Lock()
	s.principal = nil
	s.bearerToken = ""
	s.authenticated = false
	s.selectedFarm = nil
	s.version++
	s.mu.Unlock()

	_ = s.credentials.Delete(ctx, credential.TokenKey)
	_ = s.credentials.Delete(ctx, credential.SnapshotKey)
	_ = s.credentials.Sweep(ctx)

	if hadSession {
		s.metrics.Inc(MetricLogout)
	}
}

// IsTokenValid reports whether the session holds a decodable, unexpired
// token. Detecting an invalid token is self-healing: the session is logged
// out before the method returns false, so no later query can observe the
// half-dead state.
func (s *Store) IsTokenValid(ctx context.Context) bool {
	s.mu.RLock()
	bearer := s.bearerToken
	authed := s.authenticated
	s.mu.RUnlock()

	if !authed || bearer == "" {
		return false
	}
	if s.codec.IsExpired(bearer) {
		s.metrics.Inc(MetricTokenEvicted)
		s.Logout(ctx)
		return false
	}
	return true
}

/*
====================================
REHYDRATION
====================================
*/

// Rehydrate restores the session after a restart. It runs two phases:
//
//  1. Snapshot restore: the persisted session document, if present and
//     intact, is restored verbatim and then validated. A stale snapshot is
//     evicted through the normal logout path.
//  2. Credential reconciliation: if the shared persisted token exists and
//     no session survived phase 1, an unexpired credential is adopted as a
//     new session built from its claims, and an expired one is erased
//     together with its auth-convention siblings.
//
// Rehydrate is idempotent: running it again against the state it produced
// changes nothing. Credential-layer failures degrade to absence.
func (s *Store) Rehydrate(ctx context.Context) {
	s.restoreSnapshot(ctx)
	s.reconcileCredential(ctx)
}

func (s *Store) restoreSnapshot(ctx context.Context) {
	raw, err := s.credentials.Get(ctx, credential.SnapshotKey)
	if err != nil {
		return
	}
	doc, ok := snapshot.Decode(raw)
	if !ok || !doc.IsAuthenticated || doc.Token == "" || doc.User == nil {
		return
	}

	perms := make([]policy.Permission, 0, len(doc.User.Permissions))
	for _, perm := range doc.User.Permissions {
		perms = append(perms, policy.Permission(perm))
	}

	s.mu.Lock()
	s.principal = &Principal{
		ID:          doc.User.ID,
		Email:       doc.User.Email,
		DisplayName: doc.User.DisplayName,
		Role:        policy.Role(doc.User.Role),
		Permissions: perms,
	}
	s.bearerToken = doc.Token
	s.authenticated = true
	if doc.SelectedFarm != nil {
		s.selectedFarm = &Farm{
			ID:          doc.SelectedFarm.ID,
			Name:        doc.SelectedFarm.Name,
			Location:    doc.SelectedFarm.Location,
			Size:        doc.SelectedFarm.Size,
			AnimalCount: doc.SelectedFarm.AnimalCount,
			OwnerID:     doc.SelectedFarm.OwnerID,
		}
	}
	s.version++
	s.mu.Unlock()

	s.metrics.Inc(MetricSnapshotRestored)

	// Restore first, validate second. A stale snapshot is torn down through
	// the standard logout path so cleanup stays in one place.
	if !s.IsTokenValid(ctx) {
		s.metrics.Inc(MetricSnapshotEvicted)
	}
}

func (s *Store) reconcileCredential(ctx context.Context) {
	stored, err := s.credentials.Get(ctx, credential.TokenKey)
	if err != nil || stored == "" {
		return
	}

	s.mu.RLock()
	current := s.bearerToken
	s.mu.RUnlock()

	// The in-memory session is authoritative while it exists; reconciliation
	// only fills an empty one.
	if current != "" {
		return
	}

	if s.codec.IsExpired(stored) {
		_ = s.credentials.Delete(ctx, credential.TokenKey)
		_ = s.credentials.Sweep(ctx)
		s.metrics.Inc(MetricCredentialEvicted)
		return
	}

	// Another module of this origin logged in; adopt its token with the
	// minimal profile the claims carry.
	claims, ok := s.codec.Decode(stored)
	if !ok {
		return
	}
	adopted := Principal{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}
	if err := s.SetAuth(ctx, stored, adopted); err == nil {
		s.metrics.Inc(MetricCredentialAdopted)
	}
}

// persist writes the raw token and session snapshot to the credential layer.
// Failures are counted and absorbed.
func (s *Store) persist(ctx context.Context) {
	s.mu.RLock()
	doc := snapshot.Document{
		Token:           s.bearerToken,
		IsAuthenticated: s.authenticated,
	}
	if s.principal != nil {
		perms := make([]string, 0, len(s.principal.Permissions))
		for _, perm := range s.principal.Permissions {
			perms = append(perms, string(perm))
		}
		doc.User = &snapshot.User{
			ID:          s.principal.ID,
			Email:       s.principal.Email,
			DisplayName: s.principal.DisplayName,
			Role:        string(s.principal.Role),
			Permissions: perms,
		}
	}
	if s.selectedFarm != nil {
		doc.SelectedFarm = &snapshot.Farm{
			ID:          s.selectedFarm.ID,
			Name:        s.selectedFarm.Name,
			Location:    s.selectedFarm.Location,
			Size:        s.selectedFarm.Size,
			AnimalCount: s.selectedFarm.AnimalCount,
			OwnerID:     s.selectedFarm.OwnerID,
		}
	}
	bearer := s.bearerToken
	s.mu.RUnlock()

	ttl := s.config.Token.CredentialTTL

	if err := s.credentials.Set(ctx, credential.TokenKey, bearer, ttl); err != nil {
		s.metrics.Inc(MetricCredentialWriteFailed)
	}
	encoded, err := snapshot.Encode(doc)
	if err != nil {
		s.metrics.Inc(MetricCredentialWriteFailed)
		return
	}
	if err := s.credentials.Set(ctx, credential.SnapshotKey, encoded, ttl); err != nil {
		s.metrics.Inc(MetricCredentialWriteFailed)
	}
}

/*
====================================
QUERIES
====================================
*/

// Principal returns a copy of the authenticated profile. The second return
// is false when no session exists.
func (s *Store) Principal() (Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated || s.principal == nil {
		return Principal{}, false
	}
	return *clonePrincipal(s.principal), true
}

// Token returns the raw bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bearerToken
}

// IsAuthenticated reports whether a session is established. It does not
// check token expiry; use [Store.IsTokenValid] for that.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SelectedFarm returns the active farm selection, if any.
func (s *Store) SelectedFarm() (Farm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedFarm == nil {
		return Farm{}, false
	}
	return *s.selectedFarm, true
}

// Version returns a counter that increments on every session mutation.
// Pollers compare versions to detect change without diffing state.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// HasRole reports whether the session's principal holds exactly the given
// role. No session means no role.
func (s *Store) HasRole(role policy.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated || s.principal == nil {
		return false
	}
	return s.principal.Role == role
}

// HasAnyRole reports whether the principal's role is one of the listed
// roles. An empty list denies.
func (s *Store) HasAnyRole(roles ...policy.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated || s.principal == nil {
		return false
	}
	for _, role := range roles {
		if s.principal.Role == role {
			return true
		}
	}
	return false
}

// HasPermission reports whether the principal is granted perm, either
// through its role or through an explicit per-user override.
func (s *Store) HasPermission(perm policy.Permission) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated || s.principal == nil {
		return false
	}
	if s.policy.HasPermission(s.principal.Role, perm) {
		return true
	}
	return s.principal.HasOverride(perm)
}

// HasAllPermissions reports whether the principal holds every listed
// permission. An empty list denies.
func (s *Store) HasAllPermissions(perms []policy.Permission) bool {
	if len(perms) == 0 {
		return false
	}
	for _, perm := range perms {
		if !s.HasPermission(perm) {
			return false
		}
	}
	return true
}

// HasAnyPermission reports whether the principal holds at least one listed
// permission. An empty list denies.
func (s *Store) HasAnyPermission(perms []policy.Permission) bool {
	for _, perm := range perms {
		if s.HasPermission(perm) {
			return true
		}
	}
	return false
}

// TimeRemaining returns the duration until the session token's expiration
// instant, without the safety margin. Zero when unauthenticated, expired, or
// the token carries no expiry.
func (s *Store) TimeRemaining() time.Duration {
	s.mu.RLock()
	bearer := s.bearerToken
	s.mu.RUnlock()
	if bearer == "" {
		return 0
	}
	return s.codec.TimeRemaining(bearer)
}

// IsExpiringSoon reports whether the token expires within the configured
// guard warning window. Tokens without an expiry never report true.
func (s *Store) IsExpiringSoon() bool {
	remaining := s.TimeRemaining()
	return remaining > 0 && remaining <= s.config.Guard.WarnWindow
}

// Config returns the store's effective configuration.
func (s *Store) Config() Config {
	return s.config
}

// Policy returns the authorization table the store consults.
func (s *Store) Policy() *policy.Policy {
	return s.policy
}

// Metrics returns the store's counter set.
func (s *Store) Metrics() *Metrics {
	return s.metrics
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (s *Store) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// Signals returns the store's event bus for attaching sinks or subscribing.
func (s *Store) Signals() *signal.Bus {
	return s.bus
}

// Subscribe attaches a fresh listener sized by Config.Signal.Buffer and
// returns its receive side. Events that overflow the buffer are dropped.
func (s *Store) Subscribe() <-chan signal.Event {
	return s.bus.Subscribe(s.config.Signal.Buffer)
}

// AttachRedisBridge relays this store's signals to other processes over the
// Redis pub/sub channel named by Config.Signal.Channel.
func (s *Store) AttachRedisBridge(client redis.UniversalClient) {
	s.bus.Attach(signal.NewRedisSink(client, s.config.Signal.Channel))
}

// AttachMQTTBridge relays this store's signals to the MQTT topic named by
// Config.Signal.Channel at the given QoS.
func (s *Store) AttachMQTTBridge(client pahomqtt.Client, qos byte) {
	s.bus.Attach(signal.NewMQTTSink(client, s.config.Signal.Channel, qos))
}

func clonePrincipal(p *Principal) *Principal {
	clone := *p
	if p.Permissions != nil {
		clone.Permissions = append([]policy.Permission(nil), p.Permissions...)
	}
	return &clone
}
