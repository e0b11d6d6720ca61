package policy

import "errors"

// Policy answers role-membership and permission-membership queries against a
// frozen role-to-permission table. Instances are immutable after
// construction and safe for concurrent use.
type Policy struct {
	bits    map[Permission]int
	order   []Permission
	roles   map[Role]Mask64
	allBits Mask64
}

// New builds a Policy from a permission list and a per-role grant table.
// Bit positions follow the order of perms. Roles listed in fullAccess
// receive every registered bit by construction, so permissions added later
// apply to them without a table change.
func New(perms []Permission, grants map[Role][]Permission, fullAccess ...Role) (*Policy, error) {
	if len(perms) == 0 {
		return nil, errors.New("no permissions registered")
	}
	if len(perms) > 64 {
		return nil, errors.New("permission limit exceeded")
	}

	p := &Policy{
		bits:  make(map[Permission]int, len(perms)),
		order: make([]Permission, 0, len(perms)),
		roles: make(map[Role]Mask64, len(grants)+len(fullAccess)),
	}

	for _, perm := range perms {
		if perm == "" {
			return nil, errors.New("permission name cannot be empty")
		}
		if _, exists := p.bits[perm]; exists {
			return nil, errors.New("permission already registered: " + string(perm))
		}
		bit := len(p.order)
		p.bits[perm] = bit
		p.order = append(p.order, perm)
		p.allBits.Set(bit)
	}

	for role, granted := range grants {
		if role == "" {
			return nil, errors.New("role name empty")
		}
		var mask Mask64
		for _, perm := range granted {
			bit, ok := p.bits[perm]
			if !ok {
				return nil, errors.New("permission not registered: " + string(perm))
			}
			mask.Set(bit)
		}
		p.roles[role] = mask
	}

	for _, role := range fullAccess {
		if role == "" {
			return nil, errors.New("role name empty")
		}
		if _, exists := p.roles[role]; exists {
			return nil, errors.New("role already registered: " + string(role))
		}
		p.roles[role] = p.allBits
	}

	return p, nil
}

// Default returns the farm-management policy table. It panics only on a
// programming error in the static table, which is exercised by tests.
func Default() *Policy {
	p, err := New(All, roleGrants, RoleSuperAdmin)
	if err != nil {
		panic("policy: invalid default table: " + err.Error())
	}
	return p
}

// HasPermission reports whether the role's granted set contains perm.
// Unknown roles and unknown permissions are denied.
func (p *Policy) HasPermission(role Role, perm Permission) bool {
	mask, ok := p.roles[role]
	if !ok {
		return false
	}
	bit, ok := p.bits[perm]
	if !ok {
		return false
	}
	return mask.Has(bit)
}

// HasAllPermissions reports whether the role holds every listed permission.
// An empty list returns false for every role: vacuous truth is deliberately
// rejected so a misconfigured gate cannot silently allow.
func (p *Policy) HasAllPermissions(role Role, perms []Permission) bool {
	if len(perms) == 0 {
		return false
	}
	for _, perm := range perms {
		if !p.HasPermission(role, perm) {
			return false
		}
	}
	return true
}

// HasAnyPermission reports whether the role holds at least one listed
// permission. An empty list returns false for every role.
func (p *Policy) HasAnyPermission(role Role, perms []Permission) bool {
	for _, perm := range perms {
		if p.HasPermission(role, perm) {
			return true
		}
	}
	return false
}

// KnownRole reports whether the role exists in the table.
func (p *Policy) KnownRole(role Role) bool {
	_, ok := p.roles[role]
	return ok
}

// Permissions returns the role's granted permissions in registration order.
func (p *Policy) Permissions(role Role) []Permission {
	mask, ok := p.roles[role]
	if !ok {
		return nil
	}
	out := make([]Permission, 0, len(p.order))
	for bit, perm := range p.order {
		if mask.Has(bit) {
			out = append(out, perm)
		}
	}
	return out
}

// Universe returns every registered permission in registration order.
func (p *Policy) Universe() []Permission {
	out := make([]Permission, len(p.order))
	copy(out, p.order)
	return out
}
