package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

const EnvPrefix = "OBJSEED"

type Config struct {
	Database Database `json:"database" mapstructure:"database"`
	Seed     Seed     `json:"seed" mapstructure:"seed"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
	Name     string `json:"name" mapstructure:"name"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
}

type Seed struct {
	// RandomSeed fixes the generator for reproducible runs; 0 seeds from the clock.
	RandomSeed int64 `json:"random_seed" mapstructure:"random_seed"`
}

// BindEnv maps every config key to an OBJSEED_* variable, e.g.
// database.host -> OBJSEED_DB_HOST.
func BindEnv(v *viper.Viper) {
	bindings := map[string]string{
		"database.provider": "PROVIDER",
		"database.url_env":  "URL_ENV",
		"database.name":     "DB_NAME",
		"database.user":     "DB_USER",
		"database.password": "DB_PASSWORD",
		"database.host":     "DB_HOST",
		"database.port":     "DB_PORT",
		"database.sslmode":  "DB_SSLMODE",
		"seed.random_seed":  "RANDOM_SEED",
	}
	for key, env := range bindings {
		_ = v.BindEnv(key, EnvPrefix+"_"+env)
	}
}

func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	cfg.Database.Provider = strings.ToLower(cfg.Database.Provider)
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "my_database"
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "my_user"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = cfg.defaultPort()
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	return &cfg, nil
}

func (c *Config) defaultPort() int {
	if c.Database.Provider == "mysql" {
		return 3306
	}
	return 5432
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.IsSQLite() {
		if c.Database.Name == "" {
			return fmt.Errorf("database.name must be the SQLite file path")
		}
		return nil
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port out of range: %d", c.Database.Port)
	}

	return nil
}

func (c *Config) IsSQLite() bool {
	return c.Database.Provider == "sqlite" || c.Database.Provider == "sqlite3"
}

// GetDatabaseURL returns the connection string for the configured provider.
// The environment variable named by database.url_env wins over the discrete
// settings.
func (c *Config) GetDatabaseURL() (string, error) {
	if dbURL := os.Getenv(c.Database.URLEnv); dbURL != "" {
		return dbURL, nil
	}

	db := c.Database
	switch db.Provider {
	case "postgresql", "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(db.User, db.Password),
			Host:   net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
			Path:   "/" + db.Name,
		}
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
		return u.String(), nil
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = db.User
		cfg.Passwd = db.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
		cfg.DBName = db.Name
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case "sqlite", "sqlite3":
		return db.Name, nil
	default:
		return "", fmt.Errorf("unsupported database provider: %s", db.Provider)
	}
}

// Redacted returns the connection target with the password masked, for logs.
func (c *Config) Redacted(dbURL string) string {
	if u, err := url.Parse(dbURL); err == nil && u.Scheme != "" && u.User != nil {
		return u.Redacted()
	}
	if dsn, err := mysql.ParseDSN(dbURL); err == nil && dsn.Passwd != "" {
		dsn.Passwd = "*****"
		return dsn.FormatDSN()
	}
	if c.Database.Password != "" {
		return strings.ReplaceAll(dbURL, c.Database.Password, "*****")
	}
	return dbURL
}
