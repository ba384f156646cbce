// Package token reads the claims the console needs from a locally held access
// token. Signatures are not verified here; the backend does that on every call.
package token

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/news-admin/internal/errors"
)

// Claims is the subset of a token the console relies on.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Remaining is how long the token stays valid after now. Zero or negative
// means it has expired.
func (c Claims) Remaining(now time.Time) time.Duration {
	return c.ExpiresAt.Sub(now)
}

// Expired reports whether the token is no longer valid at now.
func (c Claims) Expired(now time.Time) bool {
	return c.Remaining(now) <= 0
}

// Decoder turns a raw token into Claims. Other token schemes can plug in here.
type Decoder interface {
	Decode(raw string) (Claims, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(raw string) (Claims, error)

func (f DecoderFunc) Decode(raw string) (Claims, error) {
	return f(raw)
}

// JWT decodes JSON Web Tokens.
var JWT Decoder = DecoderFunc(Decode)

// Decode parses a JWT without verifying it and extracts exp and sub. Any
// failure wraps ErrTokenMalformed.
func Decode(raw string) (Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return Claims{}, apperrors.ErrTokenMissing
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", apperrors.ErrTokenMalformed, err)
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: error extracting claims", apperrors.ErrTokenMalformed)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", apperrors.ErrTokenMalformed, err)
	}
	if exp == nil {
		return Claims{}, fmt.Errorf("%w: token missing exp claim", apperrors.ErrTokenMalformed)
	}

	sub, _ := claims.GetSubject()

	return Claims{
		Subject:   sub,
		ExpiresAt: exp.Time,
	}, nil
}
