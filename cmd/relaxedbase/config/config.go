package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/fileutils"
	"gopkg.in/yaml.v3"

	"github.com/relaxedbase/relaxedbase"
)

// Config holds the configuration of the relaxedbase server
type Config struct {
	Server   relaxedbase.ServerConf `yaml:"server"`
	Storage  storageConf            `yaml:"storage"`
	Caching  cachingConf            `yaml:"caching"`
	Logging  loggingConf            `yaml:"logging"`
	Security securityConf           `yaml:"security"`
	API      apiConf                `yaml:"api"`
}

// EnvConfigFile names the environment variable that can point to the config file
const EnvConfigFile = "RELAXEDBASE_CONFIG"

var possibleConfigLocations = []string{
	"config.yaml",
	"/config/config.yaml",
	"/etc/relaxedbase/config.yaml",
}

var c Config

// Get returns the loaded Config
func Get() Config {
	return c
}

func defaultConfig() Config {
	return Config{
		Server:   defaultServerConf,
		Storage:  defaultStorageConf,
		Caching:  defaultCachingConf,
		Logging:  defaultLoggingConf,
		Security: defaultSecurityConf,
		API:      defaultAPIConf,
	}
}

// Load loads the config file and stores it, so it can be obtained through
// Get. It exits the program if no valid config can be loaded.
func Load(filename string) {
	conf, err := LoadFile(filename)
	if err != nil {
		log.WithError(err).Fatal("could not load config")
	}
	c = conf
}

// LoadFile reads, expands and validates the config file. If filename is
// empty, the file named by RELAXEDBASE_CONFIG or the first existing default
// location is used.
func LoadFile(filename string) (Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	if filename == "" {
		filename = os.Getenv(EnvConfigFile)
	}
	if filename == "" {
		for _, f := range possibleConfigLocations {
			if fileutils.FileExists(f) {
				filename = f
				break
			}
		}
	}
	if filename == "" {
		return Config{}, errors.New("no config file found")
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, errors.Wrapf(err, "could not read config file '%s'", filename)
	}
	return Parse(data)
}

// Parse parses the YAML config, expanding ${VAR} references from the
// environment, and validates the result
func Parse(data []byte) (Config, error) {
	conf := defaultConfig()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &conf); err != nil {
		return Config{}, errors.Wrap(err, "could not parse config")
	}
	if err := conf.validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func (conf *Config) validate() error {
	if conf.Server.Port == 0 {
		conf.Server.Port = defaultServerConf.Port
	}
	if err := conf.Storage.validate(); err != nil {
		return err
	}
	if err := conf.Caching.validate(); err != nil {
		return err
	}
	if err := conf.Logging.validate(); err != nil {
		return err
	}
	if err := conf.Security.validate(); err != nil {
		return err
	}
	return conf.API.validate()
}

var defaultServerConf = relaxedbase.ServerConf{
	Port: 8080,
}
