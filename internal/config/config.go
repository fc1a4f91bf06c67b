// Package config resolves connection settings for the CLI and gateway.
//
// Precedence, highest first: command-line flags (bound by the cmd package),
// R2OPS_* environment variables, an optional YAML config file, and a .env
// file in the working directory.
package config

import (
	"errors"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. R2OPS_BUCKET_NAME.
const EnvPrefix = "R2OPS"

// DefaultConfigFile is looked up in the working directory when no explicit
// config file is given.
const DefaultConfigFile = "r2ops.yaml"

// Settings holds everything needed to build an operator plus CLI/server
// toggles. Required-field validation is the builder's job, not Load's.
type Settings struct {
	// BucketName is the R2 bucket to operate on.
	BucketName string `mapstructure:"bucket_name"`

	// AccessKeyID is the R2 access key id.
	AccessKeyID string `mapstructure:"access_key_id"`

	// SecretAccessKey is the R2 secret access key.
	SecretAccessKey string `mapstructure:"secret_access_key"`

	// Endpoint is the R2 endpoint URL.
	Endpoint string `mapstructure:"endpoint"`

	// Region is the bucket region; "auto" when unset.
	Region string `mapstructure:"region"`

	// Server configures the local gateway (serve command).
	Server ServerSettings `mapstructure:"server"`
}

// ServerSettings configures the serve command.
type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Load builds Settings from the environment and optional config file.
// If configFile is empty, DefaultConfigFile is used when present; a missing
// config file is not an error. A .env file in the working directory is
// loaded first so the original deployment style keeps working.
func Load(configFile string) (*Settings, error) {
	// Ignore a missing .env; values already in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("region", "auto")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)

	// Keys must be registered for AutomaticEnv to see them during Unmarshal.
	for _, key := range []string{"bucket_name", "access_key_id", "secret_access_key", "endpoint"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s, func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = false
	}); err != nil {
		return nil, err
	}
	return &s, nil
}
