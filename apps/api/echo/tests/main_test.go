package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/educhain/backend/apps/api/echo"
	"github.com/educhain/backend/core"
	"github.com/educhain/backend/core/actor"
	emailsvc "github.com/educhain/backend/services/email"
	logsvc "github.com/educhain/backend/services/logger"
	credstore "github.com/educhain/backend/storage/credential"
	demodir "github.com/educhain/backend/storage/demo"
	sessionstore "github.com/educhain/backend/storage/session"
)

var (
	conf     *core.Config
	app      echoapi.Server
	actorSvc *actor.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	conf = core.NewTestConfig()
	logger := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))

	// demo wiring: fixed directory, in-memory registry, no DB
	actorSvc = actor.NewService(
		conf,
		demodir.New(0),
		nil,
		sessionstore.NewMemoryRegistry(),
		credstore.NewMemoryStore(),
		emailsvc.NewConsoleServiceMock(conf),
		logger,
	)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	actor.InitValidators(validate, translator)

	// set up server
	app = echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			ActorSvc:   actorSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	os.Exit(m.Run())
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// login authenticates one of the demo identities and returns its token.
func login(t *testing.T, email string) string {
	t.Helper()

	body := marchallObj(t, echoapi.LoginRequest{Email: email, Password: demodir.SharedSecret})
	req, rec := newRequest(http.MethodPost, "/v1/session/login", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login(%s) code = %v; body %s", email, rec.Code, rec.Body.String())
	}

	var res echoapi.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("login(%s): %v", email, err)
	}
	if res.Token == "" {
		t.Fatalf("login(%s): empty token", email)
	}
	return res.Token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
