package storage

import (
	"fmt"
	"net"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DriverType represents the type of database driver
type DriverType string

const (
	// DriverSQLite is the SQLite driver
	DriverSQLite DriverType = "sqlite"
	// DriverMySQL is the MySQL driver
	DriverMySQL DriverType = "mysql"
	// DriverPostgres is the PostgreSQL driver
	DriverPostgres DriverType = "postgres"
)

// SupportedDrivers lists the drivers Connect can open
var SupportedDrivers = []DriverType{
	DriverSQLite,
	DriverMySQL,
	DriverPostgres,
}

// Supported reports whether d is one of SupportedDrivers
func (d DriverType) Supported() bool {
	return slices.Contains(SupportedDrivers, d)
}

// sqliteFile is the database file created in Config.DataDir
const sqliteFile = "relaxedbase.db"

// DSNConf holds the connection parameters a MySQL or PostgreSQL dsn is built
// from. Empty SSLMode and TimeZone fall back to "disable" and "UTC".
type DSNConf struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       string `yaml:"db"`
	// SSLMode is the libpq sslmode; postgres only
	SSLMode  string `yaml:"sslmode"`
	TimeZone string `yaml:"timezone"`
}

func (c DSNConf) timeZone() string {
	if c.TimeZone == "" {
		return "UTC"
	}
	return c.TimeZone
}

// DSN creates and returns a dsn connection string for the passed DriverType and DSNConf
func DSN(driver DriverType, conf DSNConf) (string, error) {
	switch driver {
	case DriverMySQL:
		return mysqlDSN(conf)
	case DriverPostgres:
		return postgresDSN(conf), nil
	case DriverSQLite:
		return "", errors.Errorf("driver %s does not use dsn", driver)
	default:
		return "", errors.Errorf("unsupported driver '%s'", driver)
	}
}

func mysqlDSN(conf DSNConf) (string, error) {
	loc, err := time.LoadLocation(conf.timeZone())
	if err != nil {
		return "", errors.Wrapf(err, "invalid timezone '%s'", conf.TimeZone)
	}
	port := conf.Port
	if port == 0 {
		port = 3306
	}
	c := mysqldriver.NewConfig()
	c.User = conf.User
	c.Passwd = conf.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(conf.Host, strconv.Itoa(port))
	c.DBName = conf.DB
	c.Loc = loc
	c.ParseTime = true
	if err = c.Apply(mysqldriver.Charset("utf8mb4", "")); err != nil {
		return "", errors.WithStack(err)
	}
	return c.FormatDSN(), nil
}

// postgresDSN builds a libpq keyword/value connection string
func postgresDSN(conf DSNConf) string {
	port := conf.Port
	if port == 0 {
		port = 5432
	}
	sslMode := conf.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	pairs := [][2]string{
		{"host", conf.Host},
		{"port", strconv.Itoa(port)},
		{"user", conf.User},
		{"password", conf.Password},
		{"dbname", conf.DB},
		{"sslmode", sslMode},
		{"TimeZone", conf.timeZone()},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", p[0], quoteLibpq(p[1])))
	}
	return strings.Join(parts, " ")
}

var libpqEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteLibpq(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	return "'" + libpqEscaper.Replace(v) + "'"
}

// Config represents the database configuration
type Config struct {
	// Driver is the database driver type
	Driver DriverType `yaml:"driver"`
	// DSN is the connection string for MySQL and PostgreSQL, see DSN.
	// For SQLite it optionally names the database file.
	DSN string `yaml:"dsn"`
	// DataDir holds the SQLite database file if DSN is empty
	DataDir string `yaml:"data_dir"`
	// Debug enables gorm's statement logging
	Debug bool `yaml:"debug"`
	// MaxOpenConns limits the MySQL and PostgreSQL pool; 0 means unlimited.
	// SQLite always uses a single connection.
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	// UsersHash defines parameters for hashing user passwords
	UsersHash Argon2idParams `yaml:"users_hash"`
}

// Argon2idParams configures Argon2id hashing parameters
type Argon2idParams struct {
	Time        uint32 `yaml:"time"`
	MemoryKiB   uint32 `yaml:"memory_kib"`
	Parallelism uint8  `yaml:"parallelism"`
	KeyLen      uint32 `yaml:"key_len"`
	SaltLen     uint32 `yaml:"salt_len"`
}

func (cfg Config) dialector() (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			if cfg.DataDir == "" {
				return nil, errors.New("sqlite needs a dsn or a data dir")
			}
			dsn = filepath.Join(cfg.DataDir, sqliteFile)
		}
		return sqlite.Open(dsn), nil
	case DriverMySQL, DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.Errorf("driver %s needs a dsn", cfg.Driver)
		}
		if cfg.Driver == DriverMySQL {
			return mysql.Open(cfg.DSN), nil
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, errors.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Connect opens the database described by cfg and configures its
// connection pool
func Connect(cfg Config) (*gorm.DB, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}
	logMode := logger.Silent
	if cfg.Debug {
		logMode = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logMode)})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", cfg.Driver)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if cfg.Driver == DriverSQLite {
		// single writer; requests queue for the connection instead of
		// failing with "database is locked"
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}
