package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps validation failures of a loaded Config.
var ErrInvalidConfig = errors.New("invalid config")

const envPrefix = "POOLPULSE"

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Dialect            string        `validate:"required,oneof=elastic classic"`
	BlockURL           string        `validate:"required,url"`
	PoolURL            string        `validate:"required,url"`
	PageSize           int           `validate:"min=1,max=1000"`
	BlockWindow        time.Duration `validate:"gt=0"`
	BlockCandidates    int           `validate:"min=1,max=1000"`
	HTTPTimeout        time.Duration `validate:"gt=0"`
	At                 time.Time
	Offset             int    `validate:"min=0"`
	Limit              int    `validate:"min=0"`
	AllowMissingBlocks bool
	Pretty             bool
	LogLevel           string `validate:"required,oneof=debug info warn error"`
}

var validate = validator.New()

// Load merges .env, config file, environment variables, and flags into Config.
// Dialect presets fill endpoint, candidate and preview settings that were not set explicitly.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("page-size", 200)
	v.SetDefault("block-window", 10*time.Minute)
	v.SetDefault("http-timeout", 30*time.Second)
	v.SetDefault("allow-missing-blocks", false)
	v.SetDefault("pretty", false)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// No viper default for dialect: a command's own flag default must win over it.
	dialect := strings.ToLower(strings.TrimSpace(v.GetString("dialect")))
	if dialect == "" {
		dialect = DefaultDialect
	}
	preset, err := PresetFor(dialect)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	at, err := ParseTimestamp(v.GetString("at"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: at: %v", ErrInvalidConfig, err)
	}

	cfg := Config{
		Dialect:            dialect,
		BlockURL:           stringOr(v, "block-url", preset.BlockURL),
		PoolURL:            stringOr(v, "pool-url", preset.PoolURL),
		PageSize:           v.GetInt("page-size"),
		BlockWindow:        v.GetDuration("block-window"),
		BlockCandidates:    intOr(v, "block-candidates", preset.BlockCandidates),
		HTTPTimeout:        v.GetDuration("http-timeout"),
		At:                 at,
		Offset:             intOr(v, "offset", preset.Offset),
		Limit:              intOr(v, "limit", preset.Limit),
		AllowMissingBlocks: v.GetBool("allow-missing-blocks"),
		Pretty:             v.GetBool("pretty"),
		LogLevel:           strings.ToLower(v.GetString("log-level")),
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// ReferenceTime returns the configured run instant, or now when none was given.
func (c Config) ReferenceTime(now func() time.Time) time.Time {
	if c.At.IsZero() {
		return now().UTC()
	}
	return c.At
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func stringOr(v *viper.Viper, key, fallback string) string {
	if !v.IsSet(key) {
		return fallback
	}
	if val := strings.TrimSpace(v.GetString(key)); val != "" {
		return val
	}
	return fallback
}

func intOr(v *viper.Viper, key string, fallback int) int {
	if !v.IsSet(key) {
		return fallback
	}
	return v.GetInt(key)
}
