package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dom/movie-catalog/internal/config"
	"github.com/dom/movie-catalog/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Role string           `json:"role"`
	Type domain.TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// kindSpec is the secret and lifetime that belong to one token kind.
type kindSpec struct {
	secret []byte
	ttl    time.Duration
}

// TokenIssuer mints and verifies access and refresh tokens. Each kind is signed
// with its own secret, so one leaked secret cannot forge the other kind.
type TokenIssuer struct {
	kinds map[domain.TokenKind]kindSpec
	now   func() time.Time
}

func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		kinds: map[domain.TokenKind]kindSpec{
			domain.TokenAccess:  {secret: []byte(cfg.AccessTokenSecret), ttl: cfg.AccessTokenTTL},
			domain.TokenRefresh: {secret: []byte(cfg.RefreshTokenSecret), ttl: cfg.RefreshTokenTTL},
		},
		now: time.Now,
	}
}

// WithClock replaces the time source used for issuing and expiry checks.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	i.now = now
	return i
}

// TTL returns the lifetime of the given kind
func (i *TokenIssuer) TTL(kind domain.TokenKind) time.Duration {
	return i.kinds[kind].ttl
}

func (i *TokenIssuer) Issue(subject uint, role domain.Role, kind domain.TokenKind) (string, error) {
	spec, ok := i.kinds[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := i.now()
	c := claims{
		Role: role.String(),
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(subject), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(spec.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(spec.secret)
}

// IssuePair issues a refresh and an access token for the same subject.
func (i *TokenIssuer) IssuePair(subject uint, role domain.Role) (*domain.TokenPair, error) {
	refresh, err := i.Issue(subject, role, domain.TokenRefresh)
	if err != nil {
		return nil, err
	}
	access, err := i.Issue(subject, role, domain.TokenAccess)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks the token with the secret of the kind it claims to be and then
// requires that kind to be expected.
func (i *TokenIssuer) Verify(token string, expected domain.TokenKind) (*domain.TokenPayload, error) {
	payload, err := i.Decode(token)
	if err != nil {
		return nil, err
	}
	if payload.Kind != expected {
		return nil, fmt.Errorf("%w: expected %s token, got %s", domain.ErrKindMismatch, expected, payload.Kind)
	}
	return payload, nil
}

// Decode verifies signature and expiry without constraining the kind.
func (i *TokenIssuer) Decode(token string) (*domain.TokenPayload, error) {
	var unverified claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &unverified); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	spec, ok := i.kinds[unverified.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token kind %q", domain.ErrInvalidSignature, unverified.Type)
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(t *jwt.Token) (interface{}, error) {
			return spec.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	subject, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", domain.ErrInvalidSignature)
	}
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: bad role", domain.ErrInvalidSignature)
	}

	return &domain.TokenPayload{
		Subject:   uint(subject),
		Role:      role,
		Kind:      c.Type,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
