package otel

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrovista/authgate"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() authgate.MetricsSnapshot
}

type counterDef struct {
	ID   authgate.MetricID
	Name string
	Help string
}

var counterDefs = []counterDef{
	{authgate.MetricAuthEstablished, "authgate_auth_established_total", "Sessions established from an accepted token."},
	{authgate.MetricFarmSelected, "authgate_farm_selected_total", "Farm selections recorded."},
	{authgate.MetricProfileUpdated, "authgate_profile_updated_total", "Profile merges applied."},
	{authgate.MetricLogout, "authgate_logout_total", "Live sessions torn down."},
	{authgate.MetricTokenRejected, "authgate_token_rejected_total", "Tokens refused at login for being expired."},
	{authgate.MetricTokenEvicted, "authgate_token_evicted_total", "Sessions ended by a failed validity check."},
	{authgate.MetricSnapshotRestored, "authgate_snapshot_restored_total", "Sessions restored from a persisted snapshot."},
	{authgate.MetricSnapshotEvicted, "authgate_snapshot_evicted_total", "Restored sessions evicted as stale."},
	{authgate.MetricCredentialAdopted, "authgate_credential_adopted_total", "Sessions adopted from the shared persisted credential."},
	{authgate.MetricCredentialEvicted, "authgate_credential_evicted_total", "Expired persisted credentials erased."},
	{authgate.MetricCredentialWriteFailed, "authgate_credential_write_failed_total", "Credential store write failures."},
	{authgate.MetricGuardRedirect, "authgate_guard_redirect_total", "Guard checks that signalled a login redirect."},
	{authgate.MetricGuardWarning, "authgate_guard_warning_total", "One-time expiry warnings emitted."},
	{authgate.MetricRouteAllowed, "authgate_route_allowed_total", "Navigation checks that allowed access."},
	{authgate.MetricRouteUnauthenticated, "authgate_route_unauthenticated_total", "Navigation checks redirected to login."},
	{authgate.MetricRouteUnauthorized, "authgate_route_unauthorized_total", "Navigation checks denied by role or permission."},
	{authgate.MetricRouteTurnedAway, "authgate_route_turned_away_total", "Authenticated sessions redirected off restricted public surfaces."},
}

type observedCounter struct {
	id         authgate.MetricID
	instrument metric.Int64ObservableCounter
}

// OTelExporter observes the store's counters on every OTel collection cycle.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
}

// NewOTelExporter registers one observable counter per session metric
// against meter, sourcing values from store.
func NewOTelExporter(meter metric.Meter, store *authgate.Store) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, store)
}

// NewOTelExporterFromSource is NewOTelExporter for any snapshot source,
// which keeps tests free of a full store.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{
		source:   source,
		counters: make([]observedCounter, 0, len(counterDefs)),
	}

	observables := make([]metric.Observable, 0, len(counterDefs))
	for _, def := range counterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
