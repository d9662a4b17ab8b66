package config

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/duration"
)

// securityConf configures the token authentication.
// The secret is base64 encoded and used to sign issued tokens with HS512;
// if it is not set a random secret is generated, so issued tokens do not
// survive a restart.
type securityConf struct {
	JWTSecret                  string                  `yaml:"jwt_base64_secret"`
	TokenValidity              duration.DurationOption `yaml:"token_validity"`
	TokenValidityForRememberMe duration.DurationOption `yaml:"token_validity_remember_me"`

	secret []byte
}

// Secret returns the decoded signing secret
func (c securityConf) Secret() []byte {
	return c.secret
}

func (c *securityConf) validate() error {
	if c.JWTSecret == "" {
		log.Warn("no jwt_base64_secret configured, generating a random one")
		c.secret = make([]byte, 64)
		if _, err := rand.Read(c.secret); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}
	secret, err := base64.StdEncoding.DecodeString(c.JWTSecret)
	if err != nil {
		return errors.Wrap(err, "error in security conf: jwt_base64_secret is not valid base64")
	}
	if len(secret) < 64 {
		return errors.New("error in security conf: jwt_base64_secret must be at least 512 bits")
	}
	c.secret = secret
	return nil
}

var defaultSecurityConf = securityConf{
	TokenValidity:              duration.DurationOption(24 * time.Hour),
	TokenValidityForRememberMe: duration.DurationOption(30 * 24 * time.Hour),
}
