package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cdazamolina/ProjectsManager/internal/models"
)

// Principal is the verified caller extracted from a bearer token.
type Principal struct {
	ID       string
	Username string
	Email    string
	Roles    []string
}

func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

type claims struct {
	ID    string   `json:"Id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens with a shared HMAC secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue builds a signed token carrying the user id, username, email, a fresh
// token id and the resolved role names. Expiry is issue time plus the
// configured ttl.
func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	now := time.Now()
	c := claims{
		ID:    user.ID,
		Email: user.Email,
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, c)
	return token.SignedString(t.secret)
}

// Verify validates the signature and expiry and returns the caller.
func (t *TokenIssuer) Verify(tokenStr string) (*Principal, error) {
	c := &claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, c, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS512.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}
	if c.Subject == "" {
		return nil, errors.New("invalid claims")
	}
	return &Principal{
		ID:       c.ID,
		Username: c.Subject,
		Email:    c.Email,
		Roles:    c.Roles,
	}, nil
}

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// header value and verifies it.
func (t *TokenIssuer) ParseBearer(header string) (*Principal, error) {
	if header == "" {
		return nil, errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid authorization header")
	}
	return t.Verify(strings.TrimSpace(parts[1]))
}
