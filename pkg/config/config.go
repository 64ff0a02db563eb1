package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/redhat-data-and-ai/addressbook/pkg/cache"
	"github.com/redhat-data-and-ai/addressbook/pkg/logger"
	"github.com/redhat-data-and-ai/addressbook/pkg/telemetry"
	"github.com/redhat-data-and-ai/addressbook/pkg/tracing"
)

const (
	defaultConfigDir = "./appconfig"
	defaultEnv       = "default"
	envPrefix        = "ADDRESSBOOK"
)

var (
	appConfig     *AppConfig
	appConfigErr  error
	appConfigOnce sync.Once
)

type AppConfig struct {
	App       App              `mapstructure:"app"`
	APIServer APIServerConfig  `mapstructure:"apiServer"`
	Cache     cache.Config     `mapstructure:"cache"`
	Logging   logger.Config    `mapstructure:"logging"`
	Telemetry telemetry.Config `mapstructure:"telemetry"`
	Tracing   tracing.Config   `mapstructure:"tracing"`
	Records   Records          `mapstructure:"records"`
}

type App struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type APIServerConfig struct {
	Host string     `mapstructure:"host"`
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
	Auth AuthConfig `mapstructure:"auth"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
	AllowedMethods []string `mapstructure:"allowedMethods"`
	AllowedHeaders []string `mapstructure:"allowedHeaders"`
}

type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	APIKeys []string `mapstructure:"apiKeys"`
}

// Records configures the user record collection
type Records struct {
	// SeedFile is an optional YAML list of records added on startup
	SeedFile string `mapstructure:"seedFile"`
	// Reseed forgets which seed documents were applied, so SeedFile is applied again
	Reseed bool `mapstructure:"reseed"`
}

// GetConfig loads the configuration once, from CONFIG_DIR (default ./appconfig)
// and the environment named by APP_ENV
func GetConfig() (*AppConfig, error) {
	appConfigOnce.Do(func() {
		dir := os.Getenv("CONFIG_DIR")
		if dir == "" {
			dir = defaultConfigDir
		}
		appConfig, appConfigErr = LoadConfig(dir, os.Getenv("APP_ENV"))
	})
	return appConfig, appConfigErr
}

// LoadConfig reads default.yaml from dir, merges <env>.yaml on top when present,
// then applies ADDRESSBOOK_* environment overrides
func LoadConfig(dir, env string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	setDefaults(v)

	v.SetConfigName(defaultEnv)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read default config from %s: %w", dir, err)
	}

	if env != "" && env != defaultEnv {
		v.SetConfigName(env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to merge %s config: %w", env, err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.expandEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "addressbook")
	v.SetDefault("app.environment", "local")
	v.SetDefault("apiServer.host", "0.0.0.0")
	v.SetDefault("apiServer.port", 8080)
	v.SetDefault("cache.driver", cache.DriverMemory)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", logger.FormatJSON)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("records.reseed", false)
}

// expandEnv resolves ${VAR} references in secrets
func (c *AppConfig) expandEnv() {
	for i, key := range c.APIServer.Auth.APIKeys {
		c.APIServer.Auth.APIKeys[i] = os.ExpandEnv(key)
	}
	if c.Cache.Redis != nil {
		c.Cache.Redis.Password = os.ExpandEnv(c.Cache.Redis.Password)
	}
}

func (c *AppConfig) validate() error {
	if c.APIServer.Port <= 0 || c.APIServer.Port > 65535 {
		return fmt.Errorf("invalid apiServer.port: %d", c.APIServer.Port)
	}
	if c.APIServer.Auth.Enabled && len(c.APIServer.Auth.APIKeys) == 0 {
		return fmt.Errorf("apiServer.auth is enabled but no apiKeys are configured")
	}
	return nil
}
