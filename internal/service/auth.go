package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gmgoals/goals/internal/config"
	"github.com/gmgoals/goals/internal/model"
)

const AuthCookieName = "auth_token"

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrInvalidCronSecret = errors.New("invalid cron secret")
	ErrPasswordNotSet    = errors.New("no application password configured")
)

// AuthService guards the app with one shared password. A session token is a
// capability: it says "someone who knew the password", nothing more.
type AuthService struct {
	passwordHash []byte
	jwtSecret    string
	cronSecret   string
	isProduction bool
	jwtExpiry    time.Duration
	now          func() time.Time
}

// NewAuthService prefers APP_PASSWORD_HASH and otherwise hashes APP_PASSWORD
// once, so the plaintext is never compared directly.
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	var hash []byte
	switch {
	case cfg.AppPasswordHash != "":
		hash = []byte(cfg.AppPasswordHash)
		_, err := bcrypt.Cost(hash)
		if err != nil {
			return nil, fmt.Errorf("invalid APP_PASSWORD_HASH: %w", err)
		}
	case cfg.AppPassword != "":
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AppPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash APP_PASSWORD: %w", err)
		}
	default:
		return nil, ErrPasswordNotSet
	}

	return &AuthService{
		passwordHash: hash,
		jwtSecret:    cfg.SecretKey,
		cronSecret:   cfg.CronSecret,
		isProduction: cfg.IsProduction(),
		jwtExpiry:    cfg.SessionExpiry,
		now:          time.Now,
	}, nil
}

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
}

// GenerateToken issues a session token valid for the configured expiry.
func (s *AuthService) GenerateToken() (string, time.Time, error) {
	now := s.now()
	expiry := now.Add(s.jwtExpiry)

	claims := jwt.MapClaims{
		"authenticated": true,
		"iat":           now.Unix(),
		"exp":           expiry.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiry, nil
}

// VerifyToken accepts only HS256 tokens signed with our secret, not expired,
// carrying authenticated=true.
func (s *AuthService) VerifyToken(tokenString string) (*model.Session, error) {
	if tokenString == "" {
		return nil, ErrNotAuthenticated
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		slog.Debug("session token rejected", "error", err)
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	authenticated, _ := claims["authenticated"].(bool)
	if !authenticated {
		return nil, ErrInvalidToken
	}

	session := &model.Session{}
	iat, err := claims.GetIssuedAt()
	if err == nil && iat != nil {
		session.IssuedAt = iat.Time
	}
	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}

	return session, nil
}

// TokenFromRequest reads the session token from the cookie, falling back to
// an Authorization: Bearer header.
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(AuthCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return BearerToken(r)
}

func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// VerifyCronSecret checks the bearer token of scheduled-job requests.
func (s *AuthService) VerifyCronSecret(r *http.Request) error {
	token := BearerToken(r)
	if token == "" || s.cronSecret == "" {
		return ErrInvalidCronSecret
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.cronSecret)) != 1 {
		return ErrInvalidCronSecret
	}
	return nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		MaxAge:   int(s.jwtExpiry.Seconds()),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
