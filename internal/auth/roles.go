package auth

import "strings"

// System role names. These gate pages and API routes and are compared
// case-insensitively; they are a different enumeration from the
// project-member roles below and the two must never be conflated.
const (
	RoleExecutive  = "Executive"
	RolePM         = "PM"
	RoleConsultant = "Consultant"
	RoleClient     = "Client"
)

var systemRoles = []string{RoleExecutive, RolePM, RoleConsultant, RoleClient}

// SystemRoles returns the fixed role catalog in seed order.
func SystemRoles() []string {
	out := make([]string, len(systemRoles))
	copy(out, systemRoles)
	return out
}

// canonicalRole folds a name onto the catalog entry it matches, if any.
func canonicalRole(name string) (string, bool) {
	for _, r := range systemRoles {
		if strings.EqualFold(r, name) {
			return r, true
		}
	}
	return "", false
}

// HasUserRole reports whether userRole and targetRole name the same
// system role, ignoring case. Empty or unknown input yields false on
// either side (fail-closed).
func HasUserRole(userRole, targetRole string) bool {
	u, ok := canonicalRole(userRole)
	if !ok {
		return false
	}
	t, ok := canonicalRole(targetRole)
	if !ok {
		return false
	}
	return u == t
}

// HasAnyUserRole reports whether userRole matches any of targetRoles.
func HasAnyUserRole(userRole string, targetRoles ...string) bool {
	for _, t := range targetRoles {
		if HasUserRole(userRole, t) {
			return true
		}
	}
	return false
}

// Project-member roles, normalized by lower-casing. Stored lower-case.
const (
	ProjectRolePM      = "pm"
	ProjectRoleLead    = "lead"
	ProjectRoleMember  = "member"
	ProjectRoleAdvisor = "advisor"
)

var projectRoles = map[string]bool{
	ProjectRolePM:      true,
	ProjectRoleLead:    true,
	ProjectRoleMember:  true,
	ProjectRoleAdvisor: true,
}

// IsProjectRole reports whether name folds to a known project-member role.
func IsProjectRole(name string) bool {
	return projectRoles[strings.ToLower(name)]
}

// HasProjectRole compares two project-member role names after
// lower-casing; unknown names yield false on either side.
func HasProjectRole(memberRole, targetRole string) bool {
	m := strings.ToLower(memberRole)
	t := strings.ToLower(targetRole)
	if !projectRoles[m] || !projectRoles[t] {
		return false
	}
	return m == t
}

// HasAnyProjectRole reports whether memberRole matches any of targetRoles.
func HasAnyProjectRole(memberRole string, targetRoles ...string) bool {
	for _, t := range targetRoles {
		if HasProjectRole(memberRole, t) {
			return true
		}
	}
	return false
}
