package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Certificate storage modes. Embedded keeps the bytes inside the workout
// document; referenced writes them to the object store and keeps only
// the key.
const (
	StorageModeEmbedded   = "embedded"
	StorageModeReferenced = "referenced"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	S3           S3Config           `mapstructure:"s3"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Certificates CertificatesConfig `mapstructure:"certificates"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// CertificatesConfig controls how workout certificates are stored and
// whether a certificate must accompany every new workout.
type CertificatesConfig struct {
	Mode     string `mapstructure:"mode"`     // "embedded" or "referenced"
	Required bool   `mapstructure:"required"` // treat a missing certificate as a validation error
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	// Nested keys map to env vars, e.g. certificates.mode -> CERTIFICATES_MODE
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "workout_tracker")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("jwt.expiration", "1h")
	viper.SetDefault("certificates.mode", StorageModeReferenced)
	viper.SetDefault("certificates.required", false)

	err = viper.ReadInConfig()
	// Config file is optional; env vars and defaults may be all there is.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if config.Certificates.Mode != StorageModeEmbedded && config.Certificates.Mode != StorageModeReferenced {
		return config, fmt.Errorf("invalid certificates.mode %q: must be %q or %q",
			config.Certificates.Mode, StorageModeEmbedded, StorageModeReferenced)
	}

	return config, nil
}
