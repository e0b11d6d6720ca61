// Package route turns session state into navigation decisions for three
// surface classes: public, protected, and role-gated.
//
// Decisions fail closed. An invalid or absent session always resolves to the
// login surface, and a session that cannot prove a required role or
// permission resolves to the unauthorized surface. The two outcomes are kept
// distinct so a logged-in user denied by policy is never bounced through
// login.
package route
