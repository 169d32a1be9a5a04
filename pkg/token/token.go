// Package token issues and validates the signed, time-bound bearer tokens
// handed out on login. Tokens are HS256 JWTs and are never stored server-side.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrMissingSecret = errors.New("token: signing secret is empty")
	ErrInvalid       = errors.New("token: invalid token")
	ErrExpired       = errors.New("token: token expired")
)

// Claims carried by every token.
type Claims struct {
	jwt.RegisteredClaims
}

// Issued is a freshly minted token.
type Issued struct {
	Value     string
	ExpiresAt time.Time
}

// Issuer signs and verifies tokens with a fixed key and TTL.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Issuer)

// WithClock overrides the time source, used by tests to move past expiry.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewIssuer(secret, issuer string, ttl time.Duration, opts ...Option) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	i := &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue mints a token for userID that expires after the configured TTL.
func (i *Issuer) Issue(userID string) (Issued, error) {
	if userID == "" {
		return Issued{}, fmt.Errorf("token: empty subject")
	}
	now := i.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("token: sign: %w", err)
	}
	return Issued{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse validates signature, algorithm, issuer and expiry and returns the subject.
func (i *Issuer) Parse(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalid
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrExpired
		}
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return "", ErrInvalid
	}
	if i.issuer != "" && !claims.VerifyIssuer(i.issuer, true) {
		return "", ErrInvalid
	}
	// jwt/v4 validates exp against the wall clock; re-check against the injected clock.
	if !i.now().Before(claims.ExpiresAt.Time) {
		return "", ErrExpired
	}
	return claims.Subject, nil
}
