package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/projectgate/internal/common"
	"github.com/dmitrijs2005/projectgate/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenConfig is the fixed configuration of a TokenCodec.
type TokenConfig struct {
	// Key is the HS256 signing secret.
	Key []byte
	// TTL is the lifetime of every issued token.
	TTL time.Duration
	// Issuer, when set, is written to iss and required on decode.
	Issuer string
	// Leeway tolerates clock skew on exp. Zero disables it.
	Leeway time.Duration
}

// Identity is what a token asserts about its bearer at issue time.
type Identity struct {
	Subject   string
	AccountID string
	Role      models.Role
}

// Claims is a decoded, verified token.
type Claims struct {
	Identity
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims is the JWT payload.
type tokenClaims struct {
	UserID string      `json:"uid"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and decodes signed, self-expiring bearer tokens.
// Token times have one-second precision (JWT NumericDate).
type TokenCodec struct {
	config TokenConfig
}

// NewTokenCodec validates cfg and returns a codec. The key is copied.
func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	if len(cfg.Key) == 0 {
		return nil, errors.New("token signing key must not be empty")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	if cfg.Leeway < 0 {
		return nil, errors.New("token leeway must not be negative")
	}
	cfg.Key = append([]byte(nil), cfg.Key...)
	return &TokenCodec{config: cfg}, nil
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.config.TTL
}

// Issue signs a token for id with iat=now and exp=now+TTL. Both claims have
// second precision: now is truncated first, so a token issued at a
// fractional second expires up to one second before now+TTL, never after.
func (c *TokenCodec) Issue(id Identity, now time.Time) (string, error) {
	if id.Subject == "" || id.AccountID == "" {
		return "", fmt.Errorf("%w: token identity is incomplete", common.ErrorValidation)
	}
	if !id.Role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", common.ErrorValidation, id.Role)
	}

	issued := now.Truncate(time.Second)
	claims := tokenClaims{
		UserID: id.AccountID,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			Issuer:    c.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(c.config.TTL)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.config.Key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature of token and then its time claims against
// now. It returns one of common.ErrTokenMalformed,
// common.ErrTokenInvalidSignature or common.ErrTokenExpired on rejection.
func (c *TokenCodec) Decode(token string, now time.Time) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", common.ErrTokenMalformed)
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}

	claims := &tokenClaims{}
	_, err := jwt.NewParser(options...).ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.config.Key, nil
	})
	if err != nil {
		return nil, classifyTokenError(err)
	}

	if claims.Subject == "" || claims.UserID == "" || !claims.Role.Valid() ||
		claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: required claims missing", common.ErrTokenMalformed)
	}

	return &Claims{
		Identity: Identity{
			Subject:   claims.Subject,
			AccountID: claims.UserID,
			Role:      claims.Role,
		},
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// classifyTokenError folds golang-jwt errors into the three rejection kinds.
// The parser verifies the signature before validating claims, so an
// expired token with a bad signature is reported as a signature failure.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", common.ErrTokenInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}
}
