package security

import (
	"errors"
	"fmt"
	"time"

	"lmsplatform/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Generate issues an access/refresh pair for the session.
func (m *TokenManager) Generate(s domain.Session) (string, string, error) {
	now := m.now()
	at := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  s.UserID.String(),
		"role": string(s.Role),
		"exp":  now.Add(m.accessTTL).Unix(),
		"iat":  now.Unix(),
		"type": "access",
	})
	accessToken, err := at.SignedString(m.accessSecret)
	if err != nil {
		return "", "", err
	}

	rt := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  s.UserID.String(),
		"role": string(s.Role),
		"exp":  now.Add(m.refreshTTL).Unix(),
		"iat":  now.Unix(),
		"jti":  uuid.NewString(),
		"type": "refresh",
	})
	refreshToken, err := rt.SignedString(m.refreshSecret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (m *TokenManager) ValidateAccessToken(tokenStr string) (domain.Session, error) {
	return m.validate(tokenStr, m.accessSecret, "access")
}

func (m *TokenManager) ValidateRefreshToken(tokenStr string) (domain.Session, error) {
	return m.validate(tokenStr, m.refreshSecret, "refresh")
}

func (m *TokenManager) validate(tokenStr string, secret []byte, kind string) (domain.Session, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Session{}, domain.ErrInvalidToken
	}
	if t, _ := claims["type"].(string); t != kind {
		return domain.Session{}, domain.ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return domain.Session{}, domain.ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return domain.Session{UserID: userID, Role: domain.Role(role)}, nil
}
