package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	echoapi "github.com/educhain/backend/apps/api/echo"
	"github.com/educhain/backend/core/nav"
)

func Test_navApi_query(t *testing.T) {
	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/navigation")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	tests := []struct {
		name  string
		email string
		want  []string
	}{
		{name: "super_admin", email: "super@educhain.com", want: []string{"dashboard", "institutions", "plans", "settings"}},
		{name: "institution_admin", email: "admin@centralhigh.edu", want: []string{"dashboard", "classes", "teachers", "staffing", "students", "attendance", "fees", "exams", "settings"}},
		{name: "teacher", email: "teacher@centralhigh.edu", want: []string{"dashboard", "students", "attendance", "assignments", "exams", "settings"}},
		{name: "student", email: "student@centralhigh.edu", want: []string{"dashboard", "attendance", "fees", "assignments", "exams", "settings"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := login(t, tt.email)

			req, rec := newAuthRequest(http.MethodGet, "/v1/navigation", token)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
			}

			var entries []nav.Entry
			if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
				t.Fatal(err)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("entries = %+v, want IDs %v", entries, tt.want)
			}
			for i, e := range entries {
				if e.ID != tt.want[i] {
					t.Errorf("entries[%d].ID = %v, want %v", i, e.ID, tt.want[i])
				}
			}
		})
	}
}

func Test_navApi_activate(t *testing.T) {
	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/navigation/activate/dashboard")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	tests := []struct {
		name  string
		email string
		entry string
		want  string
	}{
		{name: "student falls back from institutions", email: "student@centralhigh.edu", entry: "institutions", want: "dashboard"},
		{name: "super_admin opens institutions", email: "super@educhain.com", entry: "institutions", want: "institutions"},
		{name: "teacher opens assignments", email: "teacher@centralhigh.edu", entry: "assignments", want: "assignments"},
		{name: "teacher falls back from fees", email: "teacher@centralhigh.edu", entry: "fees", want: "dashboard"},
		{name: "unknown entry falls back", email: "super@educhain.com", entry: "lol", want: "dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := login(t, tt.email)

			req, rec := newAuthRequest(http.MethodGet, "/v1/navigation/activate/"+tt.entry, token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{
				wantCode: http.StatusOK,
				wantData: marchallObj(t, echoapi.ActivateResponse{Entry: tt.want}),
			}, rec)
		})
	}
}
