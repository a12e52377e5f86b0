package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"happythoughts/internal/auth"
	"happythoughts/internal/config"
	"happythoughts/internal/db"
	"happythoughts/internal/handler"
	"happythoughts/internal/logger"
	"happythoughts/internal/model"
	"happythoughts/internal/service"
)

type envelope struct {
	Response json.RawMessage `json:"response"`
	Success  bool            `json:"success"`
}

type testServer struct {
	e   *echo.Echo
	log *bytes.Buffer
}

func newTestServer(t *testing.T, gateNewThought bool) *testServer {
	t.Helper()

	cfg := &config.Config{
		StoreDriver:    config.DriverSQLite,
		SQLitePath:     ":memory:",
		GateNewThought: gateNewThought,
	}

	store, err := db.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	var logBuf bytes.Buffer
	log := &logger.Logger{Logger: zerolog.New(&logBuf)}

	authService := service.NewAuthService(
		store.Users,
		auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		auth.RandomTokenGenerator{},
		auth.NewTokenCache(nil, 0),
	)
	thoughtService := service.NewThoughtService(store.Thoughts)

	e := echo.New()
	Register(e, cfg, log, authService,
		handler.NewAuthHandler(authService),
		handler.NewThoughtHandler(thoughtService),
		handler.NewHealthHandler(store),
	)

	return &testServer{e: e, log: &logBuf}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, rec)
	assert.False(t, env.Success)
	var msg string
	require.NoError(t, json.Unmarshal(env.Response, &msg))
	return msg
}

func signup(t *testing.T, s *testServer, username, password string) model.Identity {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/signup", `{"username":"`+username+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := decode(t, rec)
	require.True(t, env.Success)
	var identity model.Identity
	require.NoError(t, json.Unmarshal(env.Response, &identity))
	return identity
}

func TestSignupAndSignin(t *testing.T) {
	s := newTestServer(t, false)

	identity := signup(t, s, "alice", "secret1")
	assert.Equal(t, "alice", identity.Username)
	assert.NotEmpty(t, identity.UserID)
	assert.Len(t, identity.AccessToken, auth.AccessTokenBytes*2)

	t.Run("duplicate username", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/signup", `{"username":"alice","password":"other123"}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Username already exists", errorMessage(t, rec))
	})

	t.Run("short password", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/signup", `{"username":"bob","password":"abcd"}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Password must be at least 5 characters long", errorMessage(t, rec))
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/signup", `{"username":`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, decode(t, rec).Success)
	})

	t.Run("missing password", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/signup", `{"username":"carol"}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, decode(t, rec).Success)
	})

	t.Run("signin returns the same token", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/signin", `{"username":"alice","password":"secret1"}`, "")
		require.Equal(t, http.StatusOK, rec.Code)

		env := decode(t, rec)
		assert.True(t, env.Success)
		var got model.Identity
		require.NoError(t, json.Unmarshal(env.Response, &got))
		assert.Equal(t, identity, got)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		wrong := s.do(t, http.MethodPost, "/signin", `{"username":"alice","password":"secret2"}`, "")
		unknown := s.do(t, http.MethodPost, "/signin", `{"username":"ghost","password":"secret1"}`, "")

		assert.Equal(t, http.StatusNotFound, wrong.Code)
		assert.Equal(t, http.StatusNotFound, unknown.Code)
		assert.Equal(t, "Username or password doesn't match", errorMessage(t, wrong))
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})
}

func TestThoughtsFlow(t *testing.T) {
	s := newTestServer(t, false)
	alice := signup(t, s, "alice", "secret1")

	t.Run("listing requires a token", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/thoughts", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Please log in", errorMessage(t, rec))

		rec = s.do(t, http.MethodGet, "/thoughts", "", "bogus")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty listing", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/thoughts", "", alice.AccessToken)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	var posted map[string]interface{}
	t.Run("post a thought", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/newthought", `{"username":"alice","message":"Sunny day"}`, alice.AccessToken)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		env := decode(t, rec)
		assert.True(t, env.Success)
		require.NoError(t, json.Unmarshal(env.Response, &posted))
		assert.NotEmpty(t, posted["_id"])
		assert.Equal(t, "alice", posted["username"])
		assert.Equal(t, "Sunny day", posted["message"])
		assert.EqualValues(t, 0, posted["hearts"])
		assert.NotContains(t, posted, "accessToken")
	})

	t.Run("listing shows the new thought", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/thoughts", "", alice.AccessToken)
		require.Equal(t, http.StatusCreated, rec.Code)

		var thoughts []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &thoughts))
		require.Len(t, thoughts, 1)
		assert.Equal(t, posted["_id"], thoughts[0]["_id"])
		assert.NotContains(t, thoughts[0], "accessToken")
	})

	t.Run("like", func(t *testing.T) {
		id, _ := posted["_id"].(string)
		for want := 1; want <= 2; want++ {
			rec := s.do(t, http.MethodPost, "/"+id+"/like", "", "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var liked model.Thought
			require.NoError(t, json.Unmarshal(decode(t, rec).Response, &liked))
			assert.Equal(t, want, liked.Hearts)
		}
	})

	t.Run("like unknown thought", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/does-not-exist/like", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Thought not found", errorMessage(t, rec))
	})

	t.Run("newest twenty only", func(t *testing.T) {
		for i := 0; i < 25; i++ {
			rec := s.do(t, http.MethodPost, "/newthought", `{"username":"alice","message":"again"}`, "")
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := s.do(t, http.MethodGet, "/thoughts", "", alice.AccessToken)
		var thoughts []model.Thought
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &thoughts))
		assert.Len(t, thoughts, service.RecentThoughtsLimit)
	})

	t.Run("tokens never reach the log", func(t *testing.T) {
		assert.NotEmpty(t, s.log.String())
		assert.NotContains(t, s.log.String(), alice.AccessToken)
	})
}

func TestNewThoughtGate(t *testing.T) {
	s := newTestServer(t, true)
	alice := signup(t, s, "alice", "secret1")

	rec := s.do(t, http.MethodPost, "/newthought", `{"username":"alice","message":"hi"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/newthought", `{"username":"alice","message":"hi"}`, alice.AccessToken)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestOperationalRoutes(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	rec = s.do(t, http.MethodGet, "/no/such/route", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/signup", nil)
	req.Header.Set(echo.HeaderOrigin, "https://happy.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
