package security

import (
	"errors"
	"fmt"
	"time"

	"prephub/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Each token class is signed with its own secret. Rejecting an access token
// presented as a refresh token therefore fails on signature before it ever
// reaches the type check; the type claim catches same-secret misconfiguration.
var (
	ErrTokenExpired   = fmt.Errorf("refresh token expired: %w", common.ErrUnauthorized)
	ErrWrongTokenType = fmt.Errorf("invalid token type: %w", common.ErrUnauthorized)
	ErrInvalidToken   = fmt.Errorf("invalid refresh token: %w", common.ErrUnauthorized)
)

// TokenAuth verifies bearer access tokens in the router middleware chain.
var TokenAuth *jwtauth.JWTAuth

var (
	accessSecret  []byte
	refreshSecret []byte
	accessExp     time.Duration
	refreshExp    time.Duration
)

func InitJWT(access, refresh []byte, accessTTL, refreshTTL time.Duration) {
	accessSecret = access
	refreshSecret = refresh
	accessExp = accessTTL
	refreshExp = refreshTTL
	TokenAuth = jwtauth.New("HS256", access, nil)
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func generateToken(userID, email, role, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"type":    tokenType,
		// jti keeps two tokens minted within the same second distinct, so
		// rotation always produces a new refresh token.
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// GenerateTokenPair issues a short-lived access token and a long-lived refresh
// token, both carrying the user's identity and role.
func GenerateTokenPair(userID, email, role string) (*TokenPair, error) {
	accessToken, err := generateToken(userID, email, role, TokenTypeAccess, accessSecret, accessExp)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := generateToken(userID, email, role, TokenTypeRefresh, refreshSecret, refreshExp)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyRefreshToken checks signature, expiry and token class, and returns the
// decoded claims.
func VerifyRefreshToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return refreshSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetEmailFromClaims(claims map[string]interface{}) (string, error) {
	email, ok := claims["email"].(string)
	if !ok {
		return "", errors.New("email claim is missing or not a string")
	}
	return email, nil
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
