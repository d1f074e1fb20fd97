package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StateClaims OAuth state：防 CSRF，登录完成后跳回 ReturnTo
type StateClaims struct {
	Nonce    string `json:"nonce"`
	ReturnTo string `json:"ret,omitempty"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (j *JWTer) IssueState(returnTo string) (string, error) {
	now := time.Now()
	claims := StateClaims{
		Nonce:    uuid.NewString(),
		ReturnTo: returnTo,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ErrBadState state 签名、签发方或有效期不对
var ErrBadState = errors.New("invalid oauth state")

func (j *JWTer) ParseState(raw string) (*StateClaims, error) {
	var claims StateClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return j.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.Issuer),
		jwt.WithLeeway(30*time.Second),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadState, err)
	}
	if claims.Nonce == "" {
		return nil, ErrBadState
	}
	return &claims, nil
}
