// Package token issues and verifies the signed bearer tokens used by the
// authentication gate. Access and refresh tokens are Ed25519 signed JWTs
// with distinct key pairs per kind, so a leaked refresh key can not forge
// access tokens and vice versa. A token by itself is never proof of a live
// session; the session registry stays the last word on revocation.
package token

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind discriminates the two bearer token flavours.
type Kind string

const (
	// Access is the short-lived per-request credential.
	Access Kind = "access"
	// Refresh is the long-lived credential used to mint new access tokens.
	Refresh Kind = "refresh"
)

// Claims is the payload carried by every issued token.
type Claims struct {
	SID  string `json:"sid"`
	Kind Kind   `json:"kind"`
	jwt.RegisteredClaims
}

// KeyPair holds one Ed25519 key pair. Keys may be raw (64/32 byte private,
// 32 byte public), a 32 byte seed, or PEM encoded.
type KeyPair struct {
	Private []byte
	Public  []byte
}

// Config holds the immutable token settings, established once at startup.
type Config struct {
	Issuer      string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	AccessKeys  KeyPair
	RefreshKeys KeyPair
}

// Manager signs and verifies bearer tokens. It holds only read-only key
// material and is safe for concurrent use.
type Manager struct {
	cfg    Config
	now    func() time.Time
	sign   map[Kind]ed25519.PrivateKey
	verify map[Kind]ed25519.PublicKey
	ttl    map[Kind]time.Duration
}

// Option customises a Manager.
type Option func(*Manager)

// WithNow injects the clock used for issuance and expiry checks.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager validates the key material for both kinds and returns a
// ready to use Manager.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}

	m := &Manager{
		cfg:    cfg,
		now:    time.Now,
		sign:   make(map[Kind]ed25519.PrivateKey, 2),
		verify: make(map[Kind]ed25519.PublicKey, 2),
		ttl: map[Kind]time.Duration{
			Access:  cfg.AccessTTL,
			Refresh: cfg.RefreshTTL,
		},
	}

	for kind, pair := range map[Kind]KeyPair{Access: cfg.AccessKeys, Refresh: cfg.RefreshKeys} {
		priv, err := parseEdPrivateKey(pair.Private)
		if err != nil {
			return nil, fmt.Errorf("invalid %s private key: %w", kind, err)
		}

		pub, err := parseEdPublicKey(pair.Public)
		if err != nil {
			return nil, fmt.Errorf("invalid %s public key: %w", kind, err)
		}

		m.sign[kind] = priv
		m.verify[kind] = pub
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Issued is the result of minting a token.
type Issued struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// Issue mints a token of the given kind for the subject. Every call
// produces a fresh random session id; the caller is responsible for
// registering it in the session store.
func (m *Manager) Issue(subjectID string, kind Kind) (Issued, error) {
	key, ok := m.sign[kind]
	if !ok {
		return Issued{}, ErrUnknownKind
	}

	if subjectID == "" {
		return Issued{}, fmt.Errorf("%w: empty subject", ErrSigning)
	}

	var (
		now       = m.now()
		sessionID = uuid.NewString()
		expiresAt = now.Add(m.ttl[kind])
	)

	claims := Claims{
		SID:  sessionID,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
	if err != nil {
		return Issued{}, fmt.Errorf("%w: %v", ErrSigning, err)
	}

	return Issued{Token: signed, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// Verify checks signature, algorithm, required claims and expiry of a
// token of the given kind. The expected algorithm is pinned so a token
// declaring any other algorithm is rejected before key lookup. Expiry is
// checked against the injected clock with no grace window.
func (m *Manager) Verify(tokenStr string, kind Kind) (*Claims, error) {
	key, ok := m.verify[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if m.cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.cfg.Issuer))
	}

	parser := jwt.NewParser(options...)

	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}

		return key, nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}

	if claims.Subject == "" || claims.SID == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing required claims", ErrMalformed)
	}

	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: unexpected token kind", ErrMalformed)
	}

	return claims, nil
}

// TTL returns the configured lifetime for the given kind.
func (m *Manager) TTL(kind Kind) time.Duration {
	return m.ttl[kind]
}

// mapParseError reduces jwt parser errors to the package taxonomy.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	switch len(key) {
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(key), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(key), nil
	}

	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}

	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}

	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}

	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}

	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}

	return edKey, nil
}
