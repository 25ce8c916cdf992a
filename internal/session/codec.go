// Package session implements the stateless session layer for the gateway.
// A session is signed as a compact JWT, sealed with AES-GCM and stored in
// an HTTP-only cookie. The gateway keeps no server-side session state; the
// encrypted cookie is the single source of truth.
package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "floragate"

var (
	// ErrNoSession is returned when no cookie value was supplied
	ErrNoSession = errors.New("no session")
	// ErrInvalidSession is returned when the cookie value is malformed,
	// tampered with, or missing required claims
	ErrInvalidSession = errors.New("invalid session")
	// ErrSessionExpired is returned when the session encoding has expired
	ErrSessionExpired = errors.New("session expired")
)

// claims is the signed payload inside the encrypted envelope.
type claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Token string `json:"tok"`
	jwt.RegisteredClaims
}

// Codec converts between a Session and the opaque cookie value.
// It is safe for concurrent use; all fields are read-only after creation.
type Codec struct {
	aead       cipher.AEAD
	signingKey []byte
	maxAge     time.Duration
}

// NewCodec derives the sealing and signing keys from the server secret.
// maxAge bounds the lifetime of every encoded session.
func NewCodec(secret string, maxAge time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}

	sealKey := sha256.Sum256([]byte("seal:" + secret))
	block, err := aes.NewCipher(sealKey[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create AEAD: %w", err)
	}

	signKey := sha256.Sum256([]byte("sign:" + secret))

	return &Codec{
		aead:       aead,
		signingKey: signKey[:],
		maxAge:     maxAge,
	}, nil
}

// MaxAge returns the configured session lifetime.
func (c *Codec) MaxAge() time.Duration {
	return c.maxAge
}

// Encode produces the opaque cookie value for the given session.
// The output is tamper-evident: any mutation fails Decode instead of
// silently changing fields.
func (c *Codec) Encode(sess Session) (string, error) {
	now := time.Now()
	cl := claims{
		Email: sess.Email,
		Role:  sess.Role,
		Token: sess.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.SubjectID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(signed), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode reverses Encode. It fails closed: every consumer must treat a
// non-nil error as "no session". Missing input returns ErrNoSession,
// expiry returns ErrSessionExpired, and everything else (bad base64,
// truncated ciphertext, AEAD mismatch, bad signature, missing subject or
// token) returns ErrInvalidSession. Decode never panics on
// attacker-controlled input.
func (c *Codec) Decode(value string) (*Session, error) {
	if value == "" {
		return nil, ErrNoSession
	}

	sealed, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if len(sealed) < c.aead.NonceSize() {
		return nil, ErrInvalidSession
	}

	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	signed, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidSession
	}

	var cl claims
	_, err = jwt.ParseWithClaims(string(signed), &cl,
		func(t *jwt.Token) (any, error) { return c.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidSession
	}

	// A partially populated session counts as absent for authorization.
	if cl.Subject == "" || cl.Token == "" {
		return nil, ErrInvalidSession
	}

	return &Session{
		SubjectID: cl.Subject,
		Email:     cl.Email,
		Role:      cl.Role,
		Token:     cl.Token,
	}, nil
}
