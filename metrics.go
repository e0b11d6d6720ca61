package authgate

import "sync/atomic"

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID uint8

const (
	// MetricAuthEstablished counts successful SetAuth calls.
	MetricAuthEstablished MetricID = iota
	// MetricFarmSelected counts farm selections.
	MetricFarmSelected
	// MetricProfileUpdated counts profile merges.
	MetricProfileUpdated
	// MetricLogout counts explicit and forced logouts of a live session.
	MetricLogout
	// MetricTokenRejected counts SetAuth calls refused for an expired token.
	MetricTokenRejected
	// MetricTokenEvicted counts sessions ended by a failed validity check.
	MetricTokenEvicted
	// MetricSnapshotRestored counts snapshot rehydrations.
	MetricSnapshotRestored
	// MetricSnapshotEvicted counts rehydrated sessions evicted as stale.
	MetricSnapshotEvicted
	// MetricCredentialAdopted counts sessions reconstructed from the shared
	// persisted credential.
	MetricCredentialAdopted
	// MetricCredentialEvicted counts expired persisted credentials erased
	// during reconciliation.
	MetricCredentialEvicted
	// MetricCredentialWriteFailed counts credential-store write failures.
	MetricCredentialWriteFailed
	// MetricGuardRedirect counts guard checks that signalled a login redirect.
	MetricGuardRedirect
	// MetricGuardWarning counts one-time expiry warnings.
	MetricGuardWarning
	// MetricRouteAllowed counts navigation decisions that allowed access.
	MetricRouteAllowed
	// MetricRouteUnauthenticated counts redirects to the login surface.
	MetricRouteUnauthenticated
	// MetricRouteUnauthorized counts role/permission denials. Distinct from
	// unauthenticated by design.
	MetricRouteUnauthorized
	// MetricRouteTurnedAway counts authenticated sessions redirected off a
	// restricted public surface. Neither an authentication nor an
	// authorization failure.
	MetricRouteTurnedAway

	metricIDCount
)

// Metrics holds atomic counters. When disabled, all operations are no-ops.
// Authentication and authorization failures are counted here rather than
// logged: they are expected control-flow outcomes, not application errors.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

func newMetrics(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

// Inc increments the counter identified by id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Value returns the current value of a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot returns a deep copy of the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
