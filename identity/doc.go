// Package identity exchanges credentials with the backend identity API and
// feeds the resulting token and profile into the session store. It also
// provides an http.RoundTripper that attaches the session's bearer token to
// outgoing API calls and tears the session down when the backend revokes it.
//
// # What this package must NOT do
//
//   - Verify token signatures; the backend is the verifier.
//   - Cache credentials outside the store.
package identity
