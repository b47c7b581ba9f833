package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func protectedHandler(roles ...string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Authenticate([]byte(testSecret))(Authorize(roles...)(next))
}

func doRequest(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	handler := protectedHandler(RoleOrganizer)

	valid := signToken(t, testSecret, jwt.MapClaims{
		"role": RoleOrganizer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, doRequest(handler, c.header).Code)
		})
	}
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	handler := protectedHandler(RoleOrganizer)
	forged := signToken(t, "other-secret", jwt.MapClaims{
		"role": RoleOrganizer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusUnauthorized, doRequest(handler, "Bearer "+forged).Code)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	handler := protectedHandler(RoleOrganizer)
	expired := signToken(t, testSecret, jwt.MapClaims{
		"role": RoleOrganizer,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusUnauthorized, doRequest(handler, "Bearer "+expired).Code)
}

func TestAuthorizeRejectsWrongRole(t *testing.T) {
	handler := protectedHandler(RoleOrganizer)
	spectator := signToken(t, testSecret, jwt.MapClaims{
		"role": "spectator",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusForbidden, doRequest(handler, "Bearer "+spectator).Code)

	missingRole := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusUnauthorized, doRequest(handler, "Bearer "+missingRole).Code)
}
