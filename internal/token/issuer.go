// Package token mints and verifies the application's own access credential:
// a short-lived HS256 JWT signed with a single server-held secret. It is
// distinct from any provider token and self-verifying, so protected
// requests need no database lookup.
package token

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed structure, wrong algorithm, expiry. Callers answer 401 either
// way and let the client attempt a refresh.
var ErrInvalidToken = errors.New("invalid_token")

// Claims is what a verified access credential attests to.
type Claims struct {
	UserID   string
	Email    *string
	Provider string
}

// Issuer signs and verifies access credentials.
type Issuer struct {
	Secret    []byte
	Iss       string
	AccessTTL time.Duration
}

func NewIssuer(secret, iss string, accessTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = 7 * 24 * time.Hour
	}
	return &Issuer{
		Secret:    []byte(secret),
		Iss:       iss,
		AccessTTL: accessTTL,
	}
}

// IssueAccess mints a signed access credential for the user and returns the
// compact JWT plus its expiry.
func (i *Issuer) IssueAccess(userID string, email *string, provider string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := jwtv5.MapClaims{
		"iss":      i.Iss,
		"sub":      userID,
		"provider": provider,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      exp.Unix(),
	}
	if email != nil {
		claims["email"] = *email
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify validates signature, issuer and time claims, and returns the
// embedded identity. Any failure maps to ErrInvalidToken.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	tok, err := jwtv5.Parse(raw,
		func(t *jwtv5.Token) (any, error) { return i.Secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithLeeway(30*time.Second),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if i.Iss != "" {
		if iss, _ := mc["iss"].(string); iss != i.Iss {
			return nil, ErrInvalidToken
		}
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	out := &Claims{UserID: sub}
	if p, ok := mc["provider"].(string); ok {
		out.Provider = p
	}
	if e, ok := mc["email"].(string); ok && e != "" {
		out.Email = &e
	}
	return out, nil
}
