// Package guard monitors session validity in the background and tells the
// host application when to act: redirect to login when the session dies, or
// warn the user once when expiry is near.
//
// The guard never mutates the session itself beyond the store's own
// self-healing validity check, and it never blocks on a slow consumer;
// events are dropped if the host is not draining them.
package guard
