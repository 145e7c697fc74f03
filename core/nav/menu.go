// Package nav owns the static navigation catalog and the role-based
// authorization gate over it. It is stateless: the catalog is fixed at process
// start and both operations are pure functions of (role, catalog).
package nav

import "github.com/educhain/backend/core/actor"

// DefaultEntryID is the landing section. It must be visible to every role;
// the guard falls back to it whenever an unauthorized entry is requested.
const DefaultEntryID = "dashboard"

// Entry is a navigable section gated by an allowed-roles set.
type Entry struct {
	ID    string       `json:"id"`
	Label string       `json:"label"`
	Roles []actor.Role `json:"-"`
}

var allRoles = []actor.Role{actor.RoleSuperAdmin, actor.RoleInstitutionAdmin, actor.RoleTeacher, actor.RoleStudent}

// Catalog is the full menu in declaration order. Visible subsets preserve this
// order; entries are never sorted by label.
var Catalog = []Entry{
	// global
	{ID: DefaultEntryID, Label: "Dashboard", Roles: allRoles},

	// platform
	{ID: "institutions", Label: "All Institutions", Roles: []actor.Role{actor.RoleSuperAdmin}},
	{ID: "plans", Label: "Subscription Plans", Roles: []actor.Role{actor.RoleSuperAdmin}},

	// tenant
	{ID: "classes", Label: "Academic Management", Roles: []actor.Role{actor.RoleInstitutionAdmin}},
	{ID: "teachers", Label: "Teachers", Roles: []actor.Role{actor.RoleInstitutionAdmin}},
	{ID: "staffing", Label: "Staffing", Roles: []actor.Role{actor.RoleInstitutionAdmin}},
	{ID: "students", Label: "Students", Roles: []actor.Role{actor.RoleInstitutionAdmin, actor.RoleTeacher}},
	{ID: "attendance", Label: "Attendance", Roles: []actor.Role{actor.RoleInstitutionAdmin, actor.RoleTeacher, actor.RoleStudent}},
	{ID: "fees", Label: "Fees & Finance", Roles: []actor.Role{actor.RoleInstitutionAdmin, actor.RoleStudent}},
	{ID: "assignments", Label: "Assignments", Roles: []actor.Role{actor.RoleTeacher, actor.RoleStudent}},
	{ID: "exams", Label: "Exams & Results", Roles: []actor.Role{actor.RoleInstitutionAdmin, actor.RoleTeacher, actor.RoleStudent}},

	{ID: "settings", Label: "Settings", Roles: allRoles},
}

// AllowsRole reports whether the entry is open to role.
func (e Entry) AllowsRole(role actor.Role) bool {
	for _, r := range e.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// VisibleEntries returns the subset of the catalog open to role, in catalog
// order. It cannot fail; an unknown role yields an empty subset.
func VisibleEntries(role actor.Role) []Entry {
	visible := make([]Entry, 0, len(Catalog))
	for _, e := range Catalog {
		if e.AllowsRole(role) {
			visible = append(visible, e)
		}
	}
	return visible
}

// GuardActivate is the enforcement point for section activation: it returns
// entryID when role may open it and DefaultEntryID otherwise. Callers that
// bypass the rendered menu (stale UI state, role changed under the session)
// are silently redirected rather than failed.
func GuardActivate(role actor.Role, entryID string) string {
	for _, e := range Catalog {
		if e.ID == entryID {
			if e.AllowsRole(role) {
				return entryID
			}
			break
		}
	}
	return DefaultEntryID
}
