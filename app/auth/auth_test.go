package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/internal/cache"
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/internal/repository"
	"bitwise74/auth-api/internal/service"
	"bitwise74/auth-api/pkg/middleware"
	"bitwise74/auth-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byEmail map[string]*model.User
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}

	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}

	cp := *u
	return &cp, nil
}

func (f *fakeUsers) SetVerified(_ context.Context, email string) error {
	if u, ok := f.byEmail[email]; ok {
		u.IsVerified = true
	}
	return nil
}

type fakeMailer struct {
	sent int
}

func (f *fakeMailer) Send(subject, body, recipient string) error {
	f.sent++
	return nil
}

type fixture struct {
	router *gin.Engine
	cache  *cache.Memory
	codec  *security.TokenCodec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	viper.Set("host.ssl.enabled", false)
	viper.Set("jwt.refresh_ttl_minutes", 60)

	f := &fixture{
		cache: cache.NewMemory(),
		codec: security.NewTokenCodec("test-secret", "HS256"),
	}

	argon := &security.ArgonHash{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}

	d := &internal.Deps{
		Users:  &fakeUsers{byEmail: make(map[string]*model.User)},
		Cache:  f.cache,
		Mailer: &fakeMailer{},
	}
	d.Auth = service.NewAuth(d.Users, d.Cache, d.Mailer, f.codec, argon, service.AuthConfig{
		AccessTTL:       15 * time.Minute,
		RefreshTTL:      time.Hour,
		VerificationTTL: 30 * time.Minute,
		Domain:          "localhost:8080",
	})

	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())
	r.POST("/auth/register", func(c *gin.Context) { Register(c, d) })
	r.GET("/auth/verify/:token", func(c *gin.Context) { Verify(c, d) })
	r.POST("/auth/login", func(c *gin.Context) { Login(c, d) })

	f.router = r
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) register(t *testing.T, email string) {
	t.Helper()

	w := f.do(t, http.MethodPost, "/auth/register",
		`{"email":"`+email+`","password":"password123","confirm_password":"password123","role":"user"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (f *fixture) verifyToken(t *testing.T, email string) string {
	t.Helper()

	token, err := f.cache.Get(context.Background(), email)
	require.NoError(t, err)
	return token
}

func TestRegisterEndpoint(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid email", `{"email":"nope","password":"password123","confirm_password":"password123","role":"user"}`},
		{"short password", `{"email":"a@x.com","password":"short","confirm_password":"short","role":"user"}`},
		{"password mismatch", `{"email":"a@x.com","password":"password123","confirm_password":"password321","role":"user"}`},
		{"invalid role", `{"email":"a@x.com","password":"password123","confirm_password":"password123","role":"superuser"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegisterDuplicateEndpoint(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")

	w := f.do(t, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"password123","confirm_password":"password123","role":"user"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyEndpoint(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")

	w := f.do(t, http.MethodGet, "/auth/verify/"+f.verifyToken(t, "a@x.com"), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyInvalidTokenEndpoint(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/auth/verify/garbage", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyUnknownUserEndpoint(t *testing.T) {
	f := newFixture(t)

	token, err := f.codec.Issue("ghost@x.com", time.Minute)
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(context.Background(), "ghost@x.com", token, time.Minute))

	w := f.do(t, http.MethodGet, "/auth/verify/"+token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginUnverifiedEndpoint(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")

	w := f.do(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"password123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")

	token := f.verifyToken(t, "a@x.com")
	w := f.do(t, http.MethodGet, "/auth/verify/"+token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	subject, err := f.codec.Subject(body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)

	// Refresh token travels only in an HTTP-only cookie
	var refresh *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)

	subject, err = f.codec.Subject(refresh.Value)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
}

func TestLoginIndistinguishableFailures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")

	wrongPass := f.do(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong-password"}`)
	noUser := f.do(t, http.MethodPost, "/auth/login", `{"email":"nobody@x.com","password":"password123"}`)

	assert.Equal(t, http.StatusBadRequest, wrongPass.Code)
	assert.Equal(t, http.StatusBadRequest, noUser.Code)

	// Same status and same error message, only the request ID may differ
	var b1, b2 map[string]string
	require.NoError(t, json.Unmarshal(wrongPass.Body.Bytes(), &b1))
	require.NoError(t, json.Unmarshal(noUser.Body.Bytes(), &b2))
	assert.Equal(t, b1["error"], b2["error"])
}
