package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// caseVariants covers the folding space a client might send: stored
// form, lower, upper, and mixed case.
func caseVariants(name string) []string {
	mixed := strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
	return []string{name, strings.ToLower(name), strings.ToUpper(name), mixed}
}

func TestHasUserRoleCaseInsensitive(t *testing.T) {
	for _, role := range SystemRoles() {
		for _, u := range caseVariants(role) {
			for _, target := range caseVariants(role) {
				assert.True(t, HasUserRole(u, target), "HasUserRole(%q, %q)", u, target)
			}
		}
	}
}

func TestHasUserRoleDistinctRoles(t *testing.T) {
	roles := SystemRoles()
	for _, a := range roles {
		for _, b := range roles {
			if a == b {
				continue
			}
			for _, u := range caseVariants(a) {
				for _, target := range caseVariants(b) {
					assert.False(t, HasUserRole(u, target), "HasUserRole(%q, %q)", u, target)
				}
			}
		}
	}
}

func TestHasUserRoleFailClosed(t *testing.T) {
	assert.False(t, HasUserRole("", RolePM))
	assert.False(t, HasUserRole(RolePM, ""))
	assert.False(t, HasUserRole("", ""))
	assert.False(t, HasUserRole("Administrator", "Administrator"))
	assert.False(t, HasUserRole("pm", "Administrator"))
}

func TestHasAnyUserRole(t *testing.T) {
	assert.True(t, HasAnyUserRole("pm", RolePM, RoleExecutive))
	assert.True(t, HasAnyUserRole("EXECUTIVE", RolePM, RoleExecutive))
	assert.False(t, HasAnyUserRole("consultant", RolePM, RoleExecutive))
	assert.False(t, HasAnyUserRole("client"))
}

func TestProjectRolesAreSeparateEnumeration(t *testing.T) {
	// "pm" exists in both systems but the helpers must not cross over.
	assert.True(t, HasProjectRole("PM", ProjectRolePM))
	assert.True(t, HasProjectRole("Lead", "lead"))
	assert.False(t, HasProjectRole("executive", "executive"), "system-only role must not validate as project role")
	assert.False(t, HasProjectRole("consultant", ProjectRoleMember))
	assert.False(t, HasProjectRole("", ProjectRoleMember))

	assert.True(t, IsProjectRole("ADVISOR"))
	assert.False(t, IsProjectRole("Client"))
}

func TestHasAnyProjectRole(t *testing.T) {
	assert.True(t, HasAnyProjectRole("MEMBER", ProjectRoleLead, ProjectRoleMember))
	assert.False(t, HasAnyProjectRole("advisor", ProjectRoleLead, ProjectRoleMember))
}
