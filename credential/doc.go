// Package credential persists the raw bearer token and session snapshot
// across reloads, independent of the in-memory session.
//
// Every implementation is a cache, not a trust boundary: entries carry their
// own expiration window, absence is authoritative, and a lost store is
// rebuilt from nothing at the next login. The persisted credential is shared
// across all modules of the same origin; any module may erase it on
// detecting invalidity.
//
// # Implementations
//
//   - [MemoryStore]: in-process map, fresh-tab semantics.
//   - [CookieStore]: http.CookieJar-backed, SameSite=Strict, Secure on
//     encrypted origins.
//   - [RedisStore]: shared same-origin persistence across processes.
//   - [SQLiteStore]: local durable storage surviving restarts.
//
// # What this package must NOT do
//
//   - Interpret token contents; it stores opaque strings.
//   - Let backend failures propagate into authorization decisions. Callers
//     normalize errors to empty results at this boundary.
package credential
