// Package token decodes bearer-token claims without verifying a signature.
//
// Decoding here is a UX optimization, not a security boundary: the module
// trusts locally decoded claims only to decide what to render, while the
// identity provider remains the authority on every request.
//
// # What this package must NOT do
//
//   - Verify signatures or accept a token as proof of anything server-side.
//   - Return errors or panic on malformed input. Every operation fails soft.
//   - Cache decoded claims past a single check; the token string is the
//     source of truth.
package token
