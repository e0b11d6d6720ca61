package authgate

import "errors"

var (
	// ErrTokenExpired is returned by [Store.SetAuth] when the supplied token
	// is already expired at call time. The session is forced to the empty
	// state before the error is returned.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned by [Store.SetAuth] when the supplied token
	// cannot be decoded at all.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrNotAuthenticated is returned by operations that require an active
	// session, such as [Store.SetSelectedFarm] and [Store.UpdateProfile].
	ErrNotAuthenticated = errors.New("not authenticated")
)
