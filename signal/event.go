package signal

import "time"

// Type identifies a session lifecycle transition.
type Type string

const (
	// TypeAuthEstablished fires after a token is accepted and the session
	// becomes authenticated.
	TypeAuthEstablished Type = "auth.established"
	// TypeFarmSelected fires when the active farm changes.
	TypeFarmSelected Type = "farm.selected"
	// TypeLogout fires before session state is cleared, so consumers can
	// read the final session while handling it.
	TypeLogout Type = "logout"
)

// Event is a flat, self-contained record of one lifecycle transition. Fields
// not relevant to the event type are zero.
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        Type      `json:"type"`
	Origin      string    `json:"origin"`
	UserID      string    `json:"user_id,omitempty"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        string    `json:"role,omitempty"`
	// Token carries the raw bearer token on auth-established events so
	// sibling modules of the same origin can adopt the session.
	Token    string `json:"token,omitempty"`
	FarmID   string `json:"farm_id,omitempty"`
	FarmName string `json:"farm_name,omitempty"`
}
