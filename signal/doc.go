// Package signal broadcasts session lifecycle events to interested parties:
// sibling modules on the same page, other processes of the same origin, or
// operational consumers off-box.
//
// Delivery inside a process is synchronous and ordered: Publish invokes every
// attached sink in attachment order before returning. A logout signal emitted
// while the session is being torn down therefore observes the session as it
// was at emit time. Cross-process bridges (Redis, MQTT) relay the same events
// with at-most-once semantics.
//
// # What this package must NOT do
//
//   - Mutate session state. Sinks observe; they never write back.
//   - Block the session on a slow external consumer. The bridges hand off to
//     their clients and drop on backpressure.
package signal
