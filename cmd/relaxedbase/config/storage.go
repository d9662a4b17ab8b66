package config

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/duration"

	"github.com/relaxedbase/relaxedbase/storage"
	"github.com/relaxedbase/relaxedbase/storage/model"
)

type storageConf struct {
	Driver          storage.DriverType      `yaml:"driver"`
	DataDir         string                  `yaml:"data_dir"`
	DSN             string                  `yaml:"dsn"`
	DSNConf         storage.DSNConf         `yaml:",inline"`
	Debug           bool                    `yaml:"debug"`
	MaxOpenConns    int                     `yaml:"max_open_conns"`
	ConnMaxLifetime duration.DurationOption `yaml:"conn_max_lifetime"`
}

func (c *storageConf) validate() error {
	if c.MaxOpenConns < 0 || c.ConnMaxLifetime.Duration() < 0 {
		return errors.New("error in storage conf: pool limits must not be negative")
	}
	if !c.Driver.Supported() {
		return errors.Errorf("error in storage conf: unsupported driver '%s'", c.Driver)
	}
	if c.Driver == storage.DriverSQLite {
		if c.DataDir == "" && c.DSN == "" {
			return errors.New("error in storage conf: data_dir must be specified")
		}
		return nil
	}
	var err error
	if c.DSN == "" {
		c.DSN, err = storage.DSN(c.Driver, c.DSNConf)
	}
	return err
}

var defaultStorageConf = storageConf{
	Driver:  storage.DriverSQLite,
	DataDir: ".",
	DSNConf: storage.DSNConf{
		User: "relaxedbase",
		Host: "localhost",
		DB:   "relaxedbase",
	},
	Debug: false,
}

// StorageConfig returns the storage.Config for the passed config
func StorageConfig(c Config) storage.Config {
	return storage.Config{
		Driver:    c.Storage.Driver,
		DSN:       c.Storage.DSN,
		DataDir:   c.Storage.DataDir,
		Debug:     c.Storage.Debug,
		UsersHash: c.API.Argon2idParams,

		MaxOpenConns:    c.Storage.MaxOpenConns,
		ConnMaxLifetime: c.Storage.ConnMaxLifetime.Duration(),
	}
}

// LoadStorageBackends opens the database and returns the storage backends
// for the passed Config
func LoadStorageBackends(c Config) (*storage.Storage, model.Backends, error) {
	warehouse, err := storage.NewStorage(StorageConfig(c))
	if err != nil {
		return nil, model.Backends{}, err
	}
	log.WithField("driver", c.Storage.Driver).Info("Loaded storage backend")
	return warehouse, warehouse.Backends(), nil
}
