package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when a request carries no valid session cookie.
var ErrNoSession = errors.New("session: not logged in")

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

// Credential is the logged-in state: the remote API bearer token and the
// admin's email.
type Credential struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// Claims is the payload of the session cookie.
type Claims struct {
	Email    string `json:"email"`
	APIToken string `json:"tok"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session cookies with HS256.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a codec. The secret must be at least MinSecretLength bytes.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns how long an encoded credential stays valid.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode signs a credential for the given email and API token.
func (c *Codec) Encode(apiToken, email string) (string, error) {
	now := c.now()
	claims := Claims{
		Email:    email,
		APIToken: apiToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a signed cookie value. Any failure maps to ErrNoSession.
func (c *Codec) Decode(value string) (Credential, error) {
	if value == "" {
		return Credential{}, ErrNoSession
	}

	token, err := jwt.ParseWithClaims(value, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.APIToken == "" {
		return Credential{}, ErrNoSession
	}

	cred := Credential{Token: claims.APIToken, Email: claims.Email}
	if claims.ExpiresAt != nil {
		cred.ExpiresAt = claims.ExpiresAt.Time
	}
	return cred, nil
}
