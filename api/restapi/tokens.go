package restapi

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/pkg/errors"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

const claimAuthorities = "auth"

// TokenIssuer issues and verifies the HS512 signed JWTs handed out by
// /api/authenticate
type TokenIssuer struct {
	secret             []byte
	validity           time.Duration
	rememberMeValidity time.Duration
}

// NewTokenIssuer creates a TokenIssuer
func NewTokenIssuer(secret []byte, validity, rememberMeValidity time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:             secret,
		validity:           validity,
		rememberMeValidity: rememberMeValidity,
	}
}

// Issue returns a signed token for the user
func (t *TokenIssuer) Issue(u model.User, rememberMe bool) (string, error) {
	validity := t.validity
	if rememberMe {
		validity = t.rememberMeValidity
	}
	now := time.Now()
	tok, err := jwt.NewBuilder().
		Subject(u.Login).
		IssuedAt(now).
		Expiration(now.Add(validity)).
		JwtID(uuid.NewString()).
		Claim(claimAuthorities, strings.Join(u.Authorities(), ",")).
		Build()
	if err != nil {
		return "", errors.Wrap(err, "failed to build token")
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS512(), t.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return string(signed), nil
}

// Verify checks signature and expiry of the token and returns its subject
// and authorities
func (t *TokenIssuer) Verify(token string) (string, []string, error) {
	tok, err := jwt.Parse([]byte(token), jwt.WithKey(jwa.HS512(), t.secret), jwt.WithValidate(true))
	if err != nil {
		return "", nil, errors.Wrap(err, "invalid token")
	}
	login, ok := tok.Subject()
	if !ok || login == "" {
		return "", nil, errors.New("token has no subject")
	}
	var auth string
	if err = tok.Get(claimAuthorities, &auth); err != nil {
		return "", nil, errors.Wrap(err, "token has no authorities")
	}
	return login, strings.Split(auth, ","), nil
}
