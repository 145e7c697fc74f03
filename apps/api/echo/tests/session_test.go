package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	echoapi "github.com/educhain/backend/apps/api/echo"
	"github.com/educhain/backend/core/actor"
)

func Test_sessionApi_login(t *testing.T) {
	tests := []httpTest{
		{
			name: "empty body", body: []byte("{}"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "invalid email", body: marchallObj(t, echoapi.LoginRequest{Email: "lol", Password: "x"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "unknown actor", body: marchallObj(t, echoapi.LoginRequest{Email: "nobody@example.com", Password: "x"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "wrong password", body: marchallObj(t, echoapi.LoginRequest{Email: "super@educhain.com", Password: "nope"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/session/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("valid credentials", func(t *testing.T) {
		token := login(t, "super@educhain.com")

		// the token must resolve back to the same identity
		req, rec := newAuthRequest(http.MethodGet, "/v1/session", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var res echoapi.SessionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatal(err)
		}
		if res.State != actor.StateAuthenticated.String() {
			t.Errorf("state = %v, want %v", res.State, actor.StateAuthenticated)
		}
		if res.Actor == nil || res.Actor.Email != "super@educhain.com" {
			t.Errorf("actor = %+v, want super@educhain.com", res.Actor)
		}
		if res.Actor != nil && res.Actor.Role != actor.RoleSuperAdmin {
			t.Errorf("role = %v, want %v", res.Actor.Role, actor.RoleSuperAdmin)
		}
	})
}

func Test_sessionApi_retrieve(t *testing.T) {
	anonymous := marchallObj(t, echoapi.SessionResponse{State: actor.StateAnonymous.String()})

	tests := []httpTest{
		{name: "no token resolves anonymous", wantCode: http.StatusOK, wantData: anonymous},
		{name: "garbage token resolves anonymous, not 401", token: "lol", wantCode: http.StatusOK, wantData: anonymous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/session", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("authenticated session carries visible entries", func(t *testing.T) {
		token := login(t, "student@centralhigh.edu")

		req, rec := newAuthRequest(http.MethodGet, "/v1/session", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var res echoapi.SessionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatal(err)
		}
		if res.State != actor.StateAuthenticated.String() {
			t.Fatalf("state = %v, want %v", res.State, actor.StateAuthenticated)
		}
		want := []string{"dashboard", "attendance", "fees", "assignments", "exams", "settings"}
		if len(res.Entries) != len(want) {
			t.Fatalf("entries = %+v, want IDs %v", res.Entries, want)
		}
		for i, e := range res.Entries {
			if e.ID != want[i] {
				t.Errorf("entries[%d].ID = %v, want %v", i, e.ID, want[i])
			}
		}
	})

	t.Run("revoked token resolves anonymous", func(t *testing.T) {
		token := login(t, "teacher@centralhigh.edu")

		req, rec := newAuthRequest(http.MethodDelete, "/v1/session", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("logout code = %v", rec.Code)
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/session", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: anonymous}, rec)
	})
}

func Test_sessionApi_destroy(t *testing.T) {
	t.Run("logout is idempotent and never fails", func(t *testing.T) {
		token := login(t, "admin@centralhigh.edu")

		for _, tok := range []string{token, token, "", "lol"} {
			req, rec := newAuthRequest(http.MethodDelete, "/v1/session", tok)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusNoContent {
				t.Errorf("code = %v, want %v", rec.Code, http.StatusNoContent)
			}
		}
	})
}

func Test_sessionApi_refreshToken(t *testing.T) {
	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/session/token-refresh")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("refresh keeps the session live", func(t *testing.T) {
		token := login(t, "super@educhain.com")

		req, rec := newAuthRequest(http.MethodPost, "/v1/session/token-refresh", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var res echoapi.LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatal(err)
		}
		if res.Token == "" {
			t.Fatal("empty refreshed token")
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/session", res.Token)
		app.ServeHTTP(rec, req)
		var snap echoapi.SessionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatal(err)
		}
		if snap.State != actor.StateAuthenticated.String() {
			t.Errorf("state = %v, want %v", snap.State, actor.StateAuthenticated)
		}
	})
}

func Test_sessionApi_passwordReset(t *testing.T) {
	t.Run("always answers 200", func(t *testing.T) {
		// anti-enumeration: known, unknown and read-only all look the same
		for _, email := range []string{"super@educhain.com", "nobody@example.com"} {
			body := marchallObj(t, echoapi.PasswordResetRequest{Email: email})
			req, rec := newRequest(http.MethodPost, "/v1/session/password-reset", body)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("code = %v, want %v", rec.Code, http.StatusOK)
			}
		}
	})

	t.Run("confirm rejected on read-only directory", func(t *testing.T) {
		body := marchallObj(t, actor.ResetActorPassword{
			Token:           "lol",
			UID:             "lol",
			Password:        "Str0ng!Pass",
			PasswordConfirm: "Str0ng!Pass",
		})
		req, rec := newRequest(http.MethodPost, "/v1/session/password-reset-confirm", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "actor directory is read-only"}),
		}, rec)
	})
}
