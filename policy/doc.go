// Package policy provides the static role-to-permission table used by
// authorization checks. Permission names are assigned stable bit positions in
// a 64-bit mask at construction time; role grants are composed from those
// bits and frozen.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. Changing the
// table requires redeploying the module; there is no runtime mutation API.
//
// # What this package must NOT do
//
//   - Access storage or the network.
//   - Import authgate or any of its other subpackages.
//   - Grow beyond 64 registered permissions without widening the mask.
package policy
