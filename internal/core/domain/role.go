package domain

import (
	"sort"
	"strings"
)

// Role classifies an account. It is returned at login; the core only uses it
// to derive the permission set granted to a new session.
type Role string

// Known roles.
const (
	RoleAdmin     Role = "admin"
	RoleReviewer  Role = "reviewer"
	RolePublisher Role = "publisher"
	RoleUser      Role = "user"
)

// ParseRole parses a role name case-insensitively.
// It returns false for unknown names.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleReviewer, RolePublisher, RoleUser:
		return r, true
	}
	return "", false
}

// Permission is a capability a session may be asked to hold.
type Permission string

// Known permissions.
const (
	PermProfileRead       Permission = "profile:read"
	PermSubmissionRead    Permission = "submission:read"
	PermSubmissionCreate  Permission = "submission:create"
	PermSubmissionReview  Permission = "submission:review"
	PermSubmissionPublish Permission = "submission:publish"
	PermSessionAdmin      Permission = "session:admin"
)

// AllPermissions lists every known permission.
var AllPermissions = []Permission{
	PermProfileRead,
	PermSubmissionRead,
	PermSubmissionCreate,
	PermSubmissionReview,
	PermSubmissionPublish,
	PermSessionAdmin,
}

// rolePermissions is the static role grant table.
var rolePermissions = map[Role][]Permission{
	RoleUser:      {PermProfileRead, PermSubmissionRead},
	RolePublisher: {PermProfileRead, PermSubmissionRead, PermSubmissionCreate},
	RoleReviewer:  {PermProfileRead, PermSubmissionRead, PermSubmissionReview},
	RoleAdmin:     AllPermissions,
}

// PermissionSet is an immutable-by-convention set of permissions.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// PermissionsFor returns the permissions granted to role.
// Unknown roles get an empty set.
func PermissionsFor(role Role) PermissionSet {
	return NewPermissionSet(rolePermissions[role]...)
}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Covers reports whether every required permission is in the set.
// An empty requirement is always covered.
func (s PermissionSet) Covers(required []Permission) bool {
	for _, p := range required {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// Missing returns the required permissions not in the set, sorted.
func (s PermissionSet) Missing(required []Permission) []Permission {
	var missing []Permission
	for _, p := range required {
		if !s.Has(p) {
			missing = append(missing, p)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// Slice returns the permissions sorted by name.
func (s PermissionSet) Slice() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a copy of the set.
func (s PermissionSet) Clone() PermissionSet {
	clone := make(PermissionSet, len(s))
	for p := range s {
		clone[p] = struct{}{}
	}
	return clone
}

// ParsePermissions converts raw strings into permissions, dropping blanks.
func ParsePermissions(raw []string) []Permission {
	perms := make([]Permission, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		perms = append(perms, Permission(r))
	}
	return perms
}
