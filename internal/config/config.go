// Package config loads modelshare settings from flags, MODELSHARE_*
// environment variables and an optional .env file, in that order of
// precedence, on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix prefixes every environment variable, e.g. MODELSHARE_DB_PATH.
const EnvPrefix = "MODELSHARE"

// Config holds the settings for the seeder and anything else that opens a
// store.
type Config struct {
	DBPath        string `mapstructure:"db_path"`
	LogLevel      string `mapstructure:"log_level"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminEmail    string `mapstructure:"admin_email"`
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
	FakeUsers     int    `mapstructure:"fake_users"`
}

// Load builds a Config from args (without the program name), the
// environment and dotenv, the .env file to read. A missing dotenv file is
// not an error; pass "" to skip it.
func Load(args []string, dotenv string) (*Config, error) {
	if dotenv != "" {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: loading %s: %w", dotenv, err)
		}
	}

	flags := pflag.NewFlagSet("modelshare", pflag.ContinueOnError)
	flags.String("db", "", "path of the SQLite store, or :memory:")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.Int("bcrypt-cost", 0, "bcrypt work factor for new password hashes")
	flags.Int("fake-users", 0, "number of fake community users to seed")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parsing flags: %w", err)
	}

	v := viper.New()
	v.SetDefault("db_path", "data/modelshare.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("admin_username", "ad2989846")
	v.SetDefault("admin_password", "admin")
	v.SetDefault("admin_email", "admin@modelshare.com")
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("fake_users", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"db_path":     "db",
		"log_level":   "log-level",
		"bcrypt_cost": "bcrypt-cost",
		"fake_users":  "fake-users",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("config: binding flag %s: %w", flag, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.AdminUsername == "" || c.AdminPassword == "" {
		return errors.New("admin_username and admin_password are required")
	}
	if c.FakeUsers < 0 {
		return fmt.Errorf("fake_users must not be negative, got %d", c.FakeUsers)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return l, nil
}
