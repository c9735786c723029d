package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

var (
	ErrDefaults = errors.New("failed to apply config defaults")
	ErrParse    = errors.New("failed to parse config")
	ErrInvalid  = errors.New("invalid config")
)

var (
	_config *Config
	once    sync.Once
)

func GetConfig() *Config {
	if _config == nil {
		log.Info().Msg("config is nil trying to init")
		if err := InitConfig(); err != nil {
			log.Error().Msgf("error initializing config: %v", err)
		}
	}

	return _config
}

// GetLoaded returns the config if InitConfig already ran, nil otherwise.
func GetLoaded() *Config {
	return _config
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// InitConfig loads the process-wide config once from CONFIG_FILE
// (default .env.toml) and .env.
func InitConfig() error {
	var err error
	once.Do(func() {
		configFile := GetEnv("CONFIG_FILE", ".env.toml")

		var cfg *Config
		cfg, err = Load(configFile, ".env")
		if err != nil {
			return
		}
		_config = cfg
	})

	return err
}

// Load builds a Config from a TOML file and a dotenv file, on top of the
// struct defaults. Missing files are skipped.
func Load(tomlFile, envFile string) (*Config, error) {
	k := koanf.New(".")

	if exists(tomlFile) {
		if err := k.Load(file.Provider(tomlFile), toml.Parser()); err != nil {
			return nil, fmt.Errorf("%w [TOML] %s: %w", ErrParse, tomlFile, err)
		}
	} else {
		log.Debug().Str("file", tomlFile).Msg("config file not found, using defaults")
	}

	if exists(envFile) {
		if err := k.Load(file.Provider(envFile), dotenv.Parser()); err != nil {
			return nil, fmt.Errorf("%w [DOTENV] %s: %w", ErrParse, envFile, err)
		}
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Join(ErrDefaults, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Join(ErrParse, err)
	}

	log.Trace().Msgf("k: %+v", cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Join(ErrInvalid, err)
	}
	return nil
}

func IsDevMode() bool {
	if _config == nil {
		return true
	}

	return (_config.APP.Environment == "development")
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
