package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "wellplan"}

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":    "user-1",
		"iss":    "wellplan",
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": []string{ScopePlansRead, ScopePlansWrite},
	}
}

func TestParseValidToken(t *testing.T) {
	claims, err := Parse(signToken(t, validClaims(), testConfig.Secret), testConfig)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.True(t, claims.HasScope(ScopePlansRead))
	require.True(t, claims.HasScope(ScopePlansWrite))
}

func TestParseSpaceSeparatedScopes(t *testing.T) {
	c := validClaims()
	c["scopes"] = "plans:read  other"
	claims, err := Parse(signToken(t, c, testConfig.Secret), testConfig)
	require.NoError(t, err)
	require.True(t, claims.HasScope(ScopePlansRead))
	require.False(t, claims.HasScope(ScopePlansWrite))
}

func TestParseRejectsBadTokens(t *testing.T) {
	_, err := Parse("", testConfig)
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = Parse(signToken(t, validClaims(), "other-secret"), testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	_, err = Parse(signToken(t, expired, testConfig.Secret), testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	noSubject := validClaims()
	delete(noSubject, "sub")
	_, err = Parse(signToken(t, noSubject, testConfig.Secret), testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := validClaims()
	wrongIssuer["iss"] = "someone-else"
	_, err = Parse(signToken(t, wrongIssuer, testConfig.Secret), testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	var seen *Claims
	handler := NewMiddleware(testConfig).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plans", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Nil(t, seen)

	req := httptest.NewRequest(http.MethodGet, "/v1/plans", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(), testConfig.Secret))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, "user-1", seen.Subject)
}
