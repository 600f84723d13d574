package auth

// Package auth contains domain-level types for sessions and role-based
// authorization. It is pure and free of adapter/transport concerns.

import "time"

// Role represents a staff member's authorization role.
// Kept in string form for easy persistence and cookies.
// Roles are totally ordered by privilege: owner > manager > employee.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether the role is one of the supported values.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleEmployee:
		return true
	default:
		return false
	}
}

// Capability derivations. These are the authoritative policy table: only the
// owner manages staff and deletes records; managers share the operational
// capabilities. Always derived from the role, never stored.

// CanAddUsers reports whether the role may manage staff accounts.
func (r Role) CanAddUsers() bool { return r == RoleOwner }

// CanDeleteOrders reports whether the role may delete order records.
func (r Role) CanDeleteOrders() bool { return r == RoleOwner }

// CanManageOrders reports whether the role may edit orders.
func (r Role) CanManageOrders() bool { return r == RoleOwner || r == RoleManager }

// CanViewReports reports whether the role may access reporting views.
func (r Role) CanViewReports() bool { return r == RoleOwner || r == RoleManager }

// CanManageInventory reports whether the role may manage menu inventory.
func (r Role) CanManageInventory() bool { return r == RoleOwner || r == RoleManager }

// Principal represents the authenticated staff member.
// Nom is the family name, Prenoms the given name(s), following the
// restaurant's staff records.
type Principal struct {
	ID        string  `json:"id"`
	Nom       string  `json:"nom"`
	Prenoms   string  `json:"prenoms"`
	Email     string  `json:"email"`
	Role      Role    `json:"role"`
	Telephone *string `json:"telephone,omitempty"`
	Age       *int    `json:"age,omitempty"`
}

// Session is the runtime record of who is logged in right now.
// A zero Session is unauthenticated. SessionID is an opaque identifier
// generated at login; it is informational only and never validated.
type Session struct {
	Principal    *Principal `json:"principal,omitempty"`
	SessionID    string     `json:"session_id,omitempty"`
	LastLogin    time.Time  `json:"last_login,omitzero"`
	LastActivity time.Time  `json:"last_activity,omitzero"`
}

// Authenticated reports whether a principal is installed. This is the only
// definition of "authenticated": the flag is derived, never stored.
func (s Session) Authenticated() bool { return s.Principal != nil }

// Role returns the principal's role, or the empty Role when unauthenticated.
func (s Session) Role() Role {
	if s.Principal == nil {
		return ""
	}
	return s.Principal.Role
}

// IsOwner reports whether the session's principal holds the owner role.
func (s Session) IsOwner() bool { return s.Role() == RoleOwner }

// IsManager reports whether the session's principal holds the manager role.
func (s Session) IsManager() bool { return s.Role() == RoleManager }

// IsEmployee reports whether the session's principal holds the employee role.
func (s Session) IsEmployee() bool { return s.Role() == RoleEmployee }
