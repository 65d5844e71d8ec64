// Package auth resolves the signed-in author from a bearer token.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenDuration = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type TokenService struct {
	Secret   []byte
	Issuer   string
	Duration time.Duration
	// Now is used for issued-at and expiry; defaults to time.Now.
	Now func() time.Time
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (ts TokenService) now() time.Time {
	if ts.Now != nil {
		return ts.Now()
	}
	return time.Now()
}

func (ts TokenService) Sign(userID string) (string, time.Time, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("user id is required")
	}
	if len(ts.Secret) == 0 {
		return "", time.Time{}, fmt.Errorf("token secret is not configured")
	}
	duration := ts.Duration
	if duration <= 0 {
		duration = DefaultTokenDuration
	}
	now := ts.now()
	exp := now.Add(duration)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

func (ts TokenService) Parse(tokenString string) (*Claims, error) {
	if len(ts.Secret) == 0 {
		return nil, fmt.Errorf("token secret is not configured")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(ts.Issuer))
	}
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return ts.Secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Identity is the result of resolving a token. The zero value is signed out.
type Identity struct {
	id string
}

func SignedIn(userID string) Identity {
	return Identity{id: strings.TrimSpace(userID)}
}

func (i Identity) UserID() (string, bool) {
	return i.id, i.id != ""
}

// Identify resolves a bearer token. An empty token is a signed-out identity,
// not an error.
func (ts TokenService) Identify(tokenString string) (Identity, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tokenString), "Bearer "))
	if tokenString == "" {
		return Identity{}, nil
	}
	claims, err := ts.Parse(tokenString)
	if err != nil {
		return Identity{}, err
	}
	return SignedIn(claims.UserID), nil
}
