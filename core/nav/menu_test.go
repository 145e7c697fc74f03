package nav

import (
	"testing"

	"github.com/educhain/backend/core/actor"
)

func entryIDs(entries []Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestVisibleEntries(t *testing.T) {
	tests := []struct {
		name string
		role actor.Role
		want []string
	}{
		{
			name: "super_admin",
			role: actor.RoleSuperAdmin,
			want: []string{"dashboard", "institutions", "plans", "settings"},
		},
		{
			name: "institution_admin",
			role: actor.RoleInstitutionAdmin,
			want: []string{"dashboard", "classes", "teachers", "staffing", "students", "attendance", "fees", "exams", "settings"},
		},
		{
			name: "teacher",
			role: actor.RoleTeacher,
			want: []string{"dashboard", "students", "attendance", "assignments", "exams", "settings"},
		},
		{
			name: "student",
			role: actor.RoleStudent,
			want: []string{"dashboard", "attendance", "fees", "assignments", "exams", "settings"},
		},
		{
			name: "unknown role",
			role: actor.Role("principal"),
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entryIDs(VisibleEntries(tt.role))
			if len(got) != len(tt.want) {
				t.Fatalf("VisibleEntries() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("VisibleEntries()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// the visible subset must keep catalog order and be a subset of the catalog,
// and the landing section must be visible to every role
func TestVisibleEntriesProperties(t *testing.T) {
	catalogIdx := make(map[string]int, len(Catalog))
	for i, e := range Catalog {
		catalogIdx[e.ID] = i
	}

	for _, role := range actor.AllRoles {
		t.Run(role.String(), func(t *testing.T) {
			visible := VisibleEntries(role)
			if len(visible) == 0 || visible[0].ID != DefaultEntryID {
				t.Errorf("VisibleEntries(%s) does not start with %q", role, DefaultEntryID)
			}

			prev := -1
			for _, e := range visible {
				idx, ok := catalogIdx[e.ID]
				if !ok {
					t.Fatalf("VisibleEntries(%s) returned %q: not in catalog", role, e.ID)
				}
				if idx <= prev {
					t.Errorf("VisibleEntries(%s) out of catalog order at %q", role, e.ID)
				}
				prev = idx
				if !e.AllowsRole(role) {
					t.Errorf("VisibleEntries(%s) returned %q: role not allowed", role, e.ID)
				}
			}
		})
	}
}

func TestGuardActivate(t *testing.T) {
	tests := []struct {
		name    string
		role    actor.Role
		entryID string
		want    string
	}{
		{name: "student cannot open institutions", role: actor.RoleStudent, entryID: "institutions", want: DefaultEntryID},
		{name: "super_admin opens institutions", role: actor.RoleSuperAdmin, entryID: "institutions", want: "institutions"},
		{name: "teacher opens assignments", role: actor.RoleTeacher, entryID: "assignments", want: "assignments"},
		{name: "teacher cannot open fees", role: actor.RoleTeacher, entryID: "fees", want: DefaultEntryID},
		{name: "unknown entry", role: actor.RoleSuperAdmin, entryID: "lol", want: DefaultEntryID},
		{name: "empty entry", role: actor.RoleStudent, entryID: "", want: DefaultEntryID},
		{name: "unknown role", role: actor.Role("principal"), entryID: "settings", want: DefaultEntryID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GuardActivate(tt.role, tt.entryID); got != tt.want {
				t.Errorf("GuardActivate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// an activation succeeds exactly when the entry is visible to the role
func TestGuardActivateMatchesVisibility(t *testing.T) {
	for _, role := range actor.AllRoles {
		for _, e := range Catalog {
			got := GuardActivate(role, e.ID)
			if e.AllowsRole(role) {
				if got != e.ID {
					t.Errorf("GuardActivate(%s, %s) = %v, want %v", role, e.ID, got, e.ID)
				}
			} else if got != DefaultEntryID {
				t.Errorf("GuardActivate(%s, %s) = %v, want %v", role, e.ID, got, DefaultEntryID)
			}
		}
	}
}
