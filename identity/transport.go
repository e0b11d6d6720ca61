package identity

import (
	"net/http"

	"github.com/agrovista/authgate"
)

// Transport is an http.RoundTripper that attaches the session's bearer token
// to outgoing requests. A request made with an expired session is refused
// locally rather than sent to fail remotely, and a 401 from the backend
// forces a logout: the server's view of the token wins.
type Transport struct {
	store *authgate.Store
	base  http.RoundTripper
}

// NewTransport wraps base (nil means http.DefaultTransport) with session
// auth from store.
func NewTransport(store *authgate.Store, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{store: store, base: base}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if !t.store.IsTokenValid(ctx) {
		return nil, authgate.ErrTokenExpired
	}

	// Per RoundTripper contract the request must not be mutated.
	clone := req.Clone(ctx)
	clone.Header.Set("Authorization", "Bearer "+t.store.Token())

	resp, err := t.base.RoundTrip(clone)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.store.Logout(ctx)
	}
	return resp, nil
}
