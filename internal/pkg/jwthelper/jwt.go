package jwthelper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/superbett/bancas-api/internal/domain"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// unexpected algorithm or a payload that does not describe an account.
var ErrInvalidToken = errors.New("invalid or expired token")

var errEmptyKey = errors.New("signing key is empty")

// Claims is the session token payload. banca_id is always present, null when
// the account has no banca.
type Claims struct {
	AccountID string  `json:"id"`
	Username  string  `json:"username"`
	Name      string  `json:"nombre"`
	Role      string  `json:"rol"`
	TenantID  *string `json:"banca_id"`
	jwt.RegisteredClaims
}

type Signer struct {
	key        []byte
	ttl        time.Duration
	trustedTTL time.Duration
	now        func() time.Time
}

// NewSigner builds a signer. trustedTTL <= 0 disables the longer trusted window.
func NewSigner(key string, ttl, trustedTTL time.Duration) *Signer {
	return &Signer{
		key:        []byte(key),
		ttl:        ttl,
		trustedTTL: trustedTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

func (s *Signer) TTL(trusted bool) time.Duration {
	if trusted && s.trustedTTL > 0 {
		return s.trustedTTL
	}
	return s.ttl
}

// Sign issues an HS256 token for id. The returned identity carries the
// issued-at and expiry that were signed.
func (s *Signer) Sign(id domain.Identity, trusted bool) (string, domain.Identity, error) {
	if len(s.key) == 0 {
		return "", domain.Identity{}, errEmptyKey
	}

	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(s.TTL(trusted))

	claims := Claims{
		AccountID: id.AccountID,
		Username:  id.Username,
		Name:      id.Name,
		Role:      string(id.Role),
		TenantID:  id.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("token.SignedString -> %w", err)
	}

	id.IssuedAt = now
	id.ExpiresAt = exp

	return signed, id, nil
}

// Parse verifies signature and expiry and rebuilds the identity.
func (s *Signer) Parse(token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(s.key) == 0 {
		return domain.Identity{}, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	if strings.TrimSpace(claims.AccountID) == "" {
		return domain.Identity{}, ErrInvalidToken
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}

	id := domain.Identity{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Name:      claims.Name,
		Role:      role,
		TenantID:  claims.TenantID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}

	return id, nil
}
