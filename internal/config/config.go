// This file defines the configuration structure for the application.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`
	Session struct {
		TTLHours        int `mapstructure:"ttl_hours"`
		CleanupInterval int `mapstructure:"cleanup_interval"`
	} `mapstructure:"session"`
	Server struct {
		RequestTimeout int `mapstructure:"request_timeout"`
	} `mapstructure:"server"`
	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
	Storage struct {
		URL    string `mapstructure:"url"`
		Key    string `mapstructure:"key"`
		Bucket string `mapstructure:"bucket"`
	} `mapstructure:"storage"`
	Admin struct {
		Email string `mapstructure:"email"`
	} `mapstructure:"admin"`
}

// SessionTTL is the lifetime of a login session.
func (c *Config) SessionTTL() time.Duration {
	if c.Session.TTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.Session.TTLHours) * time.Hour
}

// RequestTimeout bounds every request, including its queries.
func (c *Config) RequestTimeout() time.Duration {
	if c.Server.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

// Load reads an optional .env file, then configuration from "config.yml"
// in the current directory, and unmarshals it into a Config struct.
func Load() (*Config, error) {
	// .env is a convenience for local runs; real deployments set the env directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")

	// ANIMEDOM_DATABASE_DSN overrides `database.dsn`, and so on.
	v.SetEnvPrefix("ANIMEDOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "./animedom.db")
	v.SetDefault("session.ttl_hours", 168)
	v.SetDefault("session.cleanup_interval", 60)
	v.SetDefault("server.request_timeout", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("storage.url", "")
	v.SetDefault("storage.key", "")
	v.SetDefault("storage.bucket", "covers")
	v.SetDefault("admin.email", "admin@animedom.local")
}
