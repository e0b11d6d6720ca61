package authgate

import "github.com/agrovista/authgate/policy"

// Principal is the authenticated user's profile data held by the session.
// It is replaced wholesale on login, shallow-merged by [Store.UpdateProfile],
// and discarded on logout.
type Principal struct {
	ID          string
	Email       string
	DisplayName string
	Role        policy.Role

	// Permissions are explicit per-user grants layered on top of the role's
	// permission set. Usually empty.
	Permissions []policy.Permission
}

// HasOverride reports whether the principal carries an explicit grant for
// perm, independent of its role.
func (p *Principal) HasOverride(perm policy.Permission) bool {
	if p == nil {
		return false
	}
	for _, granted := range p.Permissions {
		if granted == perm {
			return true
		}
	}
	return false
}

// Farm is the organizational scope selected after login. Selection spans one
// session; it is cleared on logout and only required by farm-scoped surfaces.
type Farm struct {
	ID          string
	Name        string
	Location    string
	Size        int
	AnimalCount int
	OwnerID     string
}

// ProfileUpdate carries a partial profile change for [Store.UpdateProfile].
// Nil fields are left untouched; non-nil fields replace the current value.
type ProfileUpdate struct {
	Email       *string
	DisplayName *string
	Role        *policy.Role
	Permissions []policy.Permission
}
