// Copyright (c) 2026 Adminkit. All rights reserved.

package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Types

// TokenType discriminates access tokens from refresh tokens.
//
// The type travels inside the signed claim set, so a refresh token can never
// be replayed as an access token (and vice versa) without failing
// verification.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// # Verification Errors

var (
	// ErrTokenExpired indicates the token was valid but is past its expiry.
	// This is the one failure clients are expected to recover from (via refresh).
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenInvalid indicates a signature, structure, or claim failure.
	ErrTokenInvalid = errors.New("sec: token invalid")

	// ErrTokenTypeMismatch indicates the token's typ claim does not match the
	// expected kind (e.g. a refresh token presented as an access token).
	ErrTokenTypeMismatch = errors.New("sec: token type mismatch")
)

// AuthClaims represents the payload embedded inside a signed token.
//
// # Why custom claims?
//
// Embedding the user id, role, and token type directly inside the JWT lets
// the authentication middleware reconstruct the acting identity without a
// token store — the token is the session.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID    string    `json:"uid"`
	Role      Role      `json:"rol"`
	TokenType TokenType `json:"typ"`
}

// TokenPair bundles the two tokens returned by a login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService issues and verifies HMAC-signed JWTs (HS256).
//
// All parameters — signing secret, issuer, and both lifetimes — are injected
// at construction from config. There is no ambient global state.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService constructs a TokenService from explicit configuration.
func NewTokenService(secret, issuer string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}
	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssuePair signs a fresh access/refresh token pair for the given identity.
func (service *TokenService) IssuePair(userID string, role Role) (*TokenPair, error) {
	accessToken, err := service.issue(userID, role, TokenTypeAccess, service.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := service.issue(userID, role, TokenTypeRefresh, service.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// issue signs a single token of the given type and lifetime.
func (service *TokenService) issue(userID string, role Role, tokenType TokenType, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a JWT string and enforces the
// expected token type.
//
// # Failure Modes
//   - [ErrTokenExpired]: signature is fine but exp is in the past.
//   - [ErrTokenTypeMismatch]: wrong typ claim for this call site.
//   - [ErrTokenInvalid]: everything else (bad signature, wrong algorithm,
//     malformed structure, missing claims).
func (service *TokenService) Verify(tokenString string, expectedType TokenType) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	},
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	if err != nil {
		// Expiry is the single "expected" failure mode; keep it distinguishable.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.UserID == "" || !claims.Role.IsValid() {
		return nil, ErrTokenInvalid
	}

	if claims.TokenType != expectedType {
		return nil, ErrTokenTypeMismatch
	}

	return claims, nil
}
