package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the lifetime of a signed engine token.
const DefaultTokenTTL = 2 * time.Minute

// EngineClaims are the claims carried by a token sent to the inference engine.
type EngineClaims struct {
	jwt.RegisteredClaims
}

type SignerConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

// EngineSigner mints short-lived HS256 bearer tokens for engine requests.
type EngineSigner struct {
	cfg SignerConfig
	now func() time.Time
}

func NewEngineSigner(cfg SignerConfig) (*EngineSigner, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &EngineSigner{cfg: cfg, now: time.Now}, nil
}

// Token returns a new signed token with a unique jti.
func (s *EngineSigner) Token() (string, error) {
	now := s.now()
	claims := EngineClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}
	if s.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign engine token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token minted by a signer with the same
// configuration.
func (s *EngineSigner) Verify(token string) (*EngineClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.cfg.Audience))
	}

	claims := &EngineClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid engine token: %w", err)
	}
	return claims, nil
}
