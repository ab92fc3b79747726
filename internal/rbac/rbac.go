// Package rbac defines the portal's two operator roles and what each may do.
package rbac

type Role string
type Action string

const (
	// RoleTenant is a hospital session, scoped to its own submission row.
	RoleTenant Role = "tenant"
	// RoleStaff is an HSCRC reviewer session.
	RoleStaff Role = "staff"
)

const (
	// ActionSubmit covers creating or editing the actor's own submission.
	ActionSubmit Action = "submit"
	// ActionViewOwn covers reading the actor's own submission and report.
	ActionViewOwn Action = "view_own"
	// ActionViewAll covers the staff dashboard, listing and search.
	ActionViewAll Action = "view_all"
	// ActionApprove covers the approve/unapprove transitions.
	ActionApprove Action = "approve"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleTenant:
		return action == ActionSubmit || action == ActionViewOwn
	case RoleStaff:
		// Staff review and aggregate but never edit question content.
		return action == ActionViewAll || action == ActionApprove || action == ActionViewOwn
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleTenant, RoleStaff:
		return Role(role)
	default:
		return ""
	}
}
