package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	auth, err := NewAuthService(testConfig())
	require.NoError(t, err)
	return auth
}

func TestVerifyPassword(t *testing.T) {
	auth := newTestAuth(t)

	assert.True(t, auth.VerifyPassword("correct horse"))
	assert.False(t, auth.VerifyPassword("wrong"))
	assert.False(t, auth.VerifyPassword(""))
}

func TestPasswordHashTakesPrecedence(t *testing.T) {
	hash, err := HashPassword("from-hash")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.AppPasswordHash = hash
	auth, err := NewAuthService(cfg)
	require.NoError(t, err)

	assert.True(t, auth.VerifyPassword("from-hash"))
	assert.False(t, auth.VerifyPassword("correct horse"))
}

func TestNewAuthServiceRequiresPassword(t *testing.T) {
	cfg := testConfig()
	cfg.AppPassword = ""
	_, err := NewAuthService(cfg)
	assert.ErrorIs(t, err, ErrPasswordNotSet)

	cfg.AppPasswordHash = "not-a-bcrypt-hash"
	_, err = NewAuthService(cfg)
	assert.Error(t, err)
}

func TestTokenLifetime(t *testing.T) {
	auth := newTestAuth(t)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return issued }

	token, expiry, err := auth.GenerateToken()
	require.NoError(t, err)
	assert.Equal(t, issued.Add(30*24*time.Hour), expiry)

	session, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, issued.Unix(), session.IssuedAt.Unix())
	assert.Equal(t, expiry.Unix(), session.ExpiresAt.Unix())

	auth.now = func() time.Time { return issued.Add(29 * 24 * time.Hour) }
	_, err = auth.VerifyToken(token)
	assert.NoError(t, err, "still valid on day 29")

	auth.now = func() time.Time { return issued.Add(31 * 24 * time.Hour) }
	_, err = auth.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejects(t *testing.T) {
	auth := newTestAuth(t)

	sign := func(method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := jwt.MapClaims{
		"authenticated": true,
		"iat":           time.Now().Unix(),
		"exp":           time.Now().Add(time.Hour).Unix(),
	}

	good, _, err := auth.GenerateToken()
	require.NoError(t, err)
	tampered := good[:len(good)-2] + strings.Map(func(r rune) rune {
		if r == 'A' {
			return 'B'
		}
		return 'A'
	}, good[len(good)-2:])

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrNotAuthenticated},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"tampered signature", tampered, ErrInvalidToken},
		{"other secret", sign(jwt.SigningMethodHS256, []byte("other"), valid), ErrInvalidToken},
		{"other algorithm", sign(jwt.SigningMethodHS512, []byte("test-secret"), valid), ErrInvalidToken},
		{"unsigned", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid), ErrInvalidToken},
		{"not authenticated", sign(jwt.SigningMethodHS256, []byte("test-secret"), jwt.MapClaims{
			"authenticated": false,
			"exp":           time.Now().Add(time.Hour).Unix(),
		}), ErrInvalidToken},
		{"no expiry", sign(jwt.SigningMethodHS256, []byte("test-secret"), jwt.MapClaims{
			"authenticated": true,
		}), ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.VerifyToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", TokenFromRequest(r), "cookie wins")

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, TokenFromRequest(r))
}

func TestVerifyCronSecret(t *testing.T) {
	auth := newTestAuth(t)

	r := httptest.NewRequest(http.MethodPost, "/api/email/monthly-summary", nil)
	assert.ErrorIs(t, auth.VerifyCronSecret(r), ErrInvalidCronSecret)

	r.Header.Set("Authorization", "Bearer wrong")
	assert.ErrorIs(t, auth.VerifyCronSecret(r), ErrInvalidCronSecret)

	r.Header.Set("Authorization", "Bearer cron-secret")
	assert.NoError(t, auth.VerifyCronSecret(r))
}

func TestCookies(t *testing.T) {
	auth := newTestAuth(t)

	rec := httptest.NewRecorder()
	auth.SetJWTCookie(rec, "tok", time.Now().Add(time.Hour))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AuthCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.False(t, cookies[0].Secure, "secure only in production")
	assert.Equal(t, 30*24*60*60, cookies[0].MaxAge)

	rec = httptest.NewRecorder()
	auth.ClearJWTCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
