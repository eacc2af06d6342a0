package complaint

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleSindico  Role = "SINDICO"
	RoleResident Role = "MORADOR"
)

func ParseRole(raw string) (Role, error) {
	switch candidate := Role(strings.ToUpper(strings.TrimSpace(raw))); candidate {
	case RoleAdmin, RoleSindico, RoleResident:
		return candidate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
}

func (r Role) String() string { return string(r) }

// IsManager is true for roles that triage complaints.
func (r Role) IsManager() bool { return r == RoleAdmin || r == RoleSindico }

// Requester is the identity attached to every call by the auth layer.
type Requester struct {
	ID   string
	Role Role
}

func (r Requester) IsManager() bool { return r.Role.IsManager() }
