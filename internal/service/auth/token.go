package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenClaims is the JWT payload. The account id is carried in "id" and
// mirrored in "sub".
type tokenClaims struct {
	AccountID string `json:"id"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token asserting accountID, valid from now until now+ttl.
func IssueToken(accountID string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", ErrMissingSecret
	}
	if accountID == "" {
		return "", fmt.Errorf("cannot issue token: %w", ErrInvalidToken)
	}

	claims := tokenClaims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature and expiry of tokenString at time now and
// returns the account id it asserts. It fails with ErrExpiredToken once now
// reaches the expiry and with ErrInvalidToken for every other defect.
func VerifyToken(tokenString string, secret []byte, now time.Time) (string, error) {
	claims, err := parseToken(tokenString, secret, now)
	if err != nil {
		return "", err
	}
	return claims.AccountID, nil
}

func parseToken(tokenString string, secret []byte, now time.Time) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.AccountID == "" {
		return nil, ErrInvalidToken
	}

	out := &Claims{
		AccountID: claims.AccountID,
		Subject:   claims.Subject,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	out.ExpiresAt = claims.ExpiresAt.Time
	return out, nil
}
