package actor

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Role
		wantErr bool
	}{
		{name: "super_admin", in: "super_admin", want: RoleSuperAdmin},
		{name: "institution_admin", in: "institution_admin", want: RoleInstitutionAdmin},
		{name: "teacher", in: "teacher", want: RoleTeacher},
		{name: "student", in: "student", want: RoleStudent},
		{name: "mixed case and spaces", in: "  Teacher ", want: RoleTeacher},
		{name: "unknown", in: "principal", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionStateString(t *testing.T) {
	tests := []struct {
		state SessionState
		want  string
	}{
		{StateUnresolved, "unresolved"},
		{StateResolving, "resolving"},
		{StateAnonymous, "anonymous"},
		{StateAuthenticated, "authenticated"},
		{SessionState(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("SessionState.String() = %v, want %v", got, tt.want)
		}
	}
}

func TestActorPassword(t *testing.T) {
	var act Actor
	if err := act.SetPassword("s3cret!"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if err := act.CheckPassword("s3cret!"); err != nil {
		t.Errorf("CheckPassword() error = %v", err)
	}
	if err := act.CheckPassword("nope"); err == nil {
		t.Error("CheckPassword() expected error on wrong password")
	}
}
