// Package config loads service configuration from file and environment.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	App struct {
		Env  string
		Port string
	} `mapstructure:"app"`

	Log struct {
		Level string
	} `mapstructure:"log"`

	Postgres struct {
		DSN             string
		MaxConns        int32         `mapstructure:"max_conns"`
		MinConns        int32         `mapstructure:"min_conns"`
		MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	} `mapstructure:"postgres"`

	JWT struct {
		Secret         string
		AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	} `mapstructure:"jwt"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

// Load reads configuration from the given file path (optional) with
// APP_-prefixed environment overrides, e.g. APP_POSTGRES_DSN.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("postgres.max_conns", 25)
	v.SetDefault("postgres.min_conns", 5)
	v.SetDefault("postgres.max_conn_lifetime", time.Hour)
	v.SetDefault("jwt.access_token_ttl", 15*time.Minute)
	v.SetDefault("metrics.enabled", true)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
