package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type")
)

type TokenType string

const (
	TokenTypeAdmin   TokenType = "admin"
	TokenTypeSession TokenType = "session"
)

const issuer = "alumni-directory"

// Claims is shared by admin and identity session tokens; Type tells them apart.
type Claims struct {
	AdminID    string    `json:"adminId,omitempty"`
	Username   string    `json:"username,omitempty"`
	IdentityID string    `json:"identityId,omitempty"`
	Email      string    `json:"email,omitempty"`
	Type       TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAdminToken(adminID, username string) (string, error)
	GenerateSessionToken(identityID, email string) (string, error)
	// ValidateToken verifies signature and expiry and requires the given type.
	ValidateToken(tokenString string, want TokenType) (*Claims, error)
}

type tokenManager struct {
	secret        []byte
	adminExpiry   time.Duration
	sessionExpiry time.Duration
	now           func() time.Time
}

func NewTokenManager(secret string, adminExpiry, sessionExpiry time.Duration) TokenManager {
	return &tokenManager{
		secret:        []byte(secret),
		adminExpiry:   adminExpiry,
		sessionExpiry: sessionExpiry,
		now:           time.Now,
	}
}

func (m *tokenManager) GenerateAdminToken(adminID, username string) (string, error) {
	return m.sign(Claims{
		AdminID:          adminID,
		Username:         username,
		Type:             TokenTypeAdmin,
		RegisteredClaims: m.registered(adminID, "admin-api", m.adminExpiry),
	})
}

func (m *tokenManager) GenerateSessionToken(identityID, email string) (string, error) {
	return m.sign(Claims{
		IdentityID:       identityID,
		Email:            email,
		Type:             TokenTypeSession,
		RegisteredClaims: m.registered(identityID, "alumni-api", m.sessionExpiry),
	})
}

func (m *tokenManager) registered(subject, audience string, ttl time.Duration) jwt.RegisteredClaims {
	now := m.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		ID:        uuid.NewString(),
	}
}

func (m *tokenManager) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
