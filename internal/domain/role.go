package domain

// Role is the caller's effective role. The zero value denies access.
type Role string

const (
	RoleNone     Role = ""
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
)

// Identity-provider group names.
const (
	GroupManagers  = "Managers"
	GroupEmployees = "Employees"
)

// String returns a printable role name.
func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}

// GroupForRole maps a provisioning role ("employee" | "manager") to its group.
func GroupForRole(role string) (string, bool) {
	switch role {
	case "employee":
		return GroupEmployees, true
	case "manager":
		return GroupManagers, true
	default:
		return "", false
	}
}

// GroupClaims is the canonical, normalized form of a session's group claim.
type GroupClaims []string

// Contains reports whether the claims include group.
func (g GroupClaims) Contains(group string) bool {
	for _, c := range g {
		if c == group {
			return true
		}
	}
	return false
}

// NormalizeGroupClaims turns a raw group claim into a list of strings.
// The raw value may be absent (nil), a single string, or a list. Non-string
// list members and empty strings are dropped.
func NormalizeGroupClaims(raw interface{}) GroupClaims {
	switch v := raw.(type) {
	case nil:
		return GroupClaims{}
	case string:
		if v == "" {
			return GroupClaims{}
		}
		return GroupClaims{v}
	case []string:
		out := make(GroupClaims, 0, len(v))
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []interface{}:
		out := make(GroupClaims, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case GroupClaims:
		return v
	default:
		return GroupClaims{}
	}
}

// ResolveRole classifies normalized group claims. Managers wins over Employees;
// a caller in neither group gets RoleNone.
func ResolveRole(groups GroupClaims) Role {
	switch {
	case groups.Contains(GroupManagers):
		return RoleManager
	case groups.Contains(GroupEmployees):
		return RoleEmployee
	default:
		return RoleNone
	}
}
