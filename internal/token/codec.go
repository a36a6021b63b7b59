// Package token implements the signed credential codec used by the
// authentication pipeline. Tokens are compact HS256 JWTs; they carry the
// subject and auxiliary claims but are never the source of truth for
// authorities.
package token

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretBytes is the minimum signing key length. HMAC-SHA256 needs at
// least 256 bits of key material.
const MinSecretBytes = 32

// Codec issues and validates signed, time-limited tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

// NewCodec constructs a Codec. A secret shorter than MinSecretBytes is a
// configuration error and must abort startup.
func NewCodec(secret string, ttl time.Duration, logger *slog.Logger) (*Codec, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("token: signing secret must be at least %d bytes, got %d", MinSecretBytes, len(secret))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{secret: []byte(secret), ttl: ttl, logger: logger}, nil
}

// TTL exposes the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the subject with the given custom claims.
// Registered claims (sub, iat, exp, jti) always win over caller-supplied
// entries of the same name.
func (c *Codec) Issue(subject string, claims map[string]any) (string, error) {
	now := time.Now()
	mapClaims := make(jwt.MapClaims, len(claims)+4)
	for k, v := range claims {
		mapClaims[k] = v
	}
	mapClaims["sub"] = subject
	mapClaims["iat"] = now.Unix()
	mapClaims["exp"] = now.Add(c.ttl).Unix()
	mapClaims["jti"] = uuid.NewString()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Validate reports whether the token is structurally sound, carries a valid
// HS256 signature and has not expired. Every failure collapses to false so
// callers cannot distinguish an expired token from a forged one; the
// subtype is only logged.
func (c *Codec) Validate(tokenString string) bool {
	_, err := jwt.Parse(tokenString, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		c.logger.Warn("token expired")
	case errors.Is(err, jwt.ErrTokenMalformed):
		c.logger.Warn("token malformed")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		c.logger.Warn("token signature invalid")
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		c.logger.Warn("token unverifiable")
	default:
		c.logger.Warn("token rejected", slog.Any("error", err))
	}
	return false
}

// Subject returns the sub claim. The signature must verify but expiry is
// deliberately not enforced here; that is Validate's job.
func (c *Codec) Subject(tokenString string) (string, bool) {
	claims, ok := c.verifiedClaims(tokenString)
	if !ok {
		return "", false
	}
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", false
	}
	return subject, true
}

// Claim returns a custom claim by name, subject to the same signature-only
// verification as Subject.
func (c *Codec) Claim(tokenString, key string) (any, bool) {
	claims, ok := c.verifiedClaims(tokenString)
	if !ok {
		return nil, false
	}
	value, ok := claims[key]
	return value, ok
}

// verifiedClaims parses the token checking signature and algorithm but
// skipping claim validation.
func (c *Codec) verifiedClaims(tokenString string) (jwt.MapClaims, bool) {
	parsed, err := jwt.Parse(tokenString, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		c.logger.Warn("token parse failed", slog.Any("error", err))
		return nil, false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("token: unexpected signing method %q", t.Header["alg"])
	}
	return c.secret, nil
}
