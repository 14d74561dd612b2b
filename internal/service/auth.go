package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
)

// AuthService gates the moderation endpoints behind a shared operator
// password. It only decides "may this request call moderation at all";
// workflow correctness never depends on who is calling.
type AuthService struct {
	adminPassword     string
	adminPasswordHash string
	sessionSecret     string
	sessionExpiry     time.Duration
	isProduction      bool
}

func NewAuthService(adminPassword, adminPasswordHash, sessionSecret string, sessionExpiry time.Duration, isProduction bool) *AuthService {
	return &AuthService{
		adminPassword:     adminPassword,
		adminPasswordHash: adminPasswordHash,
		sessionSecret:     sessionSecret,
		sessionExpiry:     sessionExpiry,
		isProduction:      isProduction,
	}
}

// Login checks the operator password and returns a session token.
// A bcrypt hash is preferred when configured; the plain password fallback
// uses a constant-time compare.
func (s *AuthService) Login(password string) (string, time.Time, error) {
	var err error
	if s.adminPasswordHash != "" {
		err = bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password))
	} else if subtle.ConstantTimeCompare([]byte(s.adminPassword), []byte(password)) != 1 {
		err = ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("login failed: %w", ErrInvalidCredentials)
	}

	expiry := time.Now().Add(s.sessionExpiry)
	token, err := s.generateJWT(expiry)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, expiry, nil
}

func (s *AuthService) generateJWT(expiry time.Time) (string, error) {
	claims := jwt.MapClaims{
		"admin": true,
		"jti":   uuid.New().String(),
		"exp":   expiry.Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.sessionSecret))
}

// VerifyJWT reports whether the token is a valid admin session token.
func (s *AuthService) VerifyJWT(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.sessionSecret), nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid token")
	}
	if admin, _ := claims["admin"].(bool); !admin {
		return fmt.Errorf("not an admin token")
	}

	return nil
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "admin_session",
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "admin_session",
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
