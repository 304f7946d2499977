// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers  = []string{"postgres", "sqlite"}
	validAlgorithms = []string{"HS256", "HS384", "HS512"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.host", "db_host")
	v.BindEnv("db.port", "db_port")
	v.BindEnv("db.user", "db_user")
	v.BindEnv("db.password", "db_password")
	v.BindEnv("db.name", "db_name")
	v.BindEnv("db.sqlite_path", "db_sqlite_path")

	v.BindEnv("redis.host", "redis_host")
	v.BindEnv("redis.port", "redis_port")
	v.BindEnv("redis.db", "redis_db")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("jwt.algorithm", "jwt_algorithm")
	v.BindEnv("jwt.access_ttl_minutes", "jwt_access_ttl_minutes")
	v.BindEnv("jwt.refresh_ttl_minutes", "jwt_refresh_ttl_minutes")
	v.BindEnv("jwt.verification_ttl_minutes", "jwt_verification_ttl_minutes")

	v.BindEnv("mail.enabled", "mail_enabled")
	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.username", "mail_username")
	v.BindEnv("mail.password", "mail_password")
	v.BindEnv("mail.from", "mail_from")

	v.BindEnv("security.rate_limit", "security_rate_limit")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost:8080")
	v.SetDefault("host.ssl.enabled", false)
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.sqlite_path", "database.db")
	v.SetDefault("db.port", 5432)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.access_ttl_minutes", 15)
	v.SetDefault("jwt.refresh_ttl_minutes", 60*24*7)
	v.SetDefault("jwt.verification_ttl_minutes", 30)

	v.SetDefault("mail.enabled", true)
	v.SetDefault("mail.port", 587)

	v.SetDefault("security.rate_limit", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.driver") == "postgres" {
		if v.GetString("db.host") == "" {
			return errors.New("database host can't be empty")
		}
		if v.GetString("db.user") == "" {
			return errors.New("database user can't be empty")
		}
		if v.GetString("db.name") == "" {
			return errors.New("database name can't be empty")
		}
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if !slices.Contains(validAlgorithms, v.GetString("jwt.algorithm")) {
		return errors.New("invalid jwt algorithm provided, must be HS256, HS384 or HS512")
	}

	for _, key := range []string{"jwt.access_ttl_minutes", "jwt.refresh_ttl_minutes", "jwt.verification_ttl_minutes"} {
		if v.GetInt(key) <= 0 {
			return fmt.Errorf("%v must be bigger than 0", key)
		}
	}

	if v.GetBool("mail.enabled") {
		if v.GetString("mail.host") == "" {
			return errors.New("mail host can't be empty")
		}
		if v.GetString("mail.from") == "" {
			return errors.New("mail sender address can't be empty")
		}
	} else {
		fmt.Println("[WARNING]: Mail sending is disabled. Verification mails will only be logged")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("rate limit must be bigger than 0")
	}

	return nil
}
