package config

import (
	"github.com/pkg/errors"

	"github.com/relaxedbase/relaxedbase/storage"
)

// apiConf holds REST API related configuration
type apiConf struct {
	// AppName prefixes the alert and error headers, e.g. X-relaxedbaseApp-alert
	AppName string `yaml:"app_name"`
	// UsersEnabled mounts the user administration endpoints
	UsersEnabled   bool                   `yaml:"users_enabled"`
	Argon2idParams storage.Argon2idParams `yaml:"password_hashing"`
}

func (c *apiConf) validate() error {
	if c.AppName == "" {
		return errors.New("error in api conf: app_name must not be empty")
	}
	return nil
}

var defaultAPIConf = apiConf{
	AppName:      "relaxedbaseApp",
	UsersEnabled: true,
	Argon2idParams: storage.Argon2idParams{
		Time:        1,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
		KeyLen:      64,
		SaltLen:     32,
	},
}
