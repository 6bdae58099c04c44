package token

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	ticketreg "github.com/ssoforge/ticketreg"
)

// SigningMethod selects the JWT signature algorithm.
type SigningMethod string

const (
	// MethodEd25519 signs with Ed25519.
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 signs with HMAC-SHA256.
	MethodHS256 SigningMethod = "hs256"
)

var (
	// ErrTokenInvalid is returned when a token fails verification.
	ErrTokenInvalid = errors.New("invalid ticket token")
	// ErrNoAuthentication is returned when the ticket carries no
	// authentication data to render.
	ErrNoAuthentication = errors.New("ticket carries no authentication")
)

// Config configures an [Issuer].
type Config struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
	KeyID         string
}

// TicketClaims is the JWT rendering of a validated ticket: the ticket id as
// the JWT id, the principal as the subject, and the merged attributes as a
// private claim.
type TicketClaims struct {
	Prefix     string              `json:"pfx"`
	Attributes map[string][]string `json:"attrs,omitempty"`
	jwt.RegisteredClaims
}

// Issuer renders validated tickets as signed JWTs for relying parties that
// consume token-shaped service tickets instead of opaque ids.
type Issuer struct {
	config Config
}

// NewIssuer validates cfg and returns an [Issuer].
func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) != ed25519.PrivateKeySize {
			return nil, errors.New("ed25519 requires a 64-byte private key")
		}
		if len(cfg.PublicKey) != ed25519.PublicKeySize {
			return nil, errors.New("ed25519 requires a 32-byte public key")
		}
	default:
		return nil, fmt.Errorf("unsupported signing method %q", cfg.SigningMethod)
	}
	return &Issuer{config: cfg}, nil
}

// Issue renders the ticket as a signed JWT. The ticket must carry
// authentication data; service tickets cannot be rendered because they hold
// only a parent reference.
func (i *Issuer) Issue(t ticketreg.Ticket) (string, error) {
	if !ticketreg.HasAuthentication(t) {
		return "", ErrNoAuthentication
	}
	now := time.Now()
	claims := TicketClaims{
		Prefix: t.Prefix(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        t.ID(),
			Subject:   ticketreg.PrincipalID(t),
			Issuer:    i.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.config.TTL)),
		},
	}
	if i.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{i.config.Audience}
	}
	switch v := t.(type) {
	case *ticketreg.TicketGrantingTicket:
		claims.Attributes = mergedAttributes(v.Authentication)
	case *ticketreg.ProxyGrantingTicket:
		claims.Attributes = mergedAttributes(v.Authentication)
	}

	var (
		method jwt.SigningMethod
		key    any
	)
	switch i.config.SigningMethod {
	case MethodHS256:
		method = jwt.SigningMethodHS256
		key = i.config.PrivateKey
	case MethodEd25519:
		method = jwt.SigningMethodEdDSA
		key = ed25519.PrivateKey(i.config.PrivateKey)
	}

	tok := jwt.NewWithClaims(method, claims)
	if i.config.KeyID != "" {
		tok.Header["kid"] = i.config.KeyID
	}
	signed, err := tok.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return signed, nil
}

// Verify parses and verifies a token produced by [Issuer.Issue] and returns
// its claims.
func (i *Issuer) Verify(token string) (*TicketClaims, error) {
	claims := &TicketClaims{}
	opts := []jwt.ParserOption{
		jwt.WithLeeway(i.config.Leeway),
		jwt.WithExpirationRequired(),
	}
	if i.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.config.Issuer))
	}
	if i.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(i.config.Audience))
	}
	switch i.config.SigningMethod {
	case MethodHS256:
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	case MethodEd25519:
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))
	}
	parsed, err := jwt.ParseWithClaims(token, claims, i.keyFunc, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return claims, nil
}

func (i *Issuer) keyFunc(*jwt.Token) (any, error) {
	switch i.config.SigningMethod {
	case MethodHS256:
		return i.config.PrivateKey, nil
	case MethodEd25519:
		return ed25519.PublicKey(i.config.PublicKey), nil
	default:
		return nil, ErrTokenInvalid
	}
}

// mergedAttributes mirrors the registry's merge rule: authentication
// attributes win key collisions over principal attributes.
func mergedAttributes(auth *ticketreg.Authentication) map[string][]string {
	if auth == nil {
		return nil
	}
	merged := make(map[string][]string, len(auth.Attributes)+len(auth.PrincipalAttributes))
	for key, values := range auth.Attributes {
		merged[key] = append([]string(nil), values...)
	}
	for key, values := range auth.PrincipalAttributes {
		if _, ok := merged[key]; !ok {
			merged[key] = append([]string(nil), values...)
		}
	}
	return merged
}
