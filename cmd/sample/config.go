package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the sample service configuration, read from a YAML file.
type Config struct {
	Addr     string `yaml:"addr" validate:"required,hostname_port"`
	LogLevel string `yaml:"logLevel" validate:"oneof=debug info warn error"`

	API struct {
		Title       string   `yaml:"title" validate:"required"`
		Version     string   `yaml:"version" validate:"required"`
		Description string   `yaml:"description"`
		Servers     []string `yaml:"servers" validate:"dive,url"`
	} `yaml:"api"`

	RateLimit struct {
		Rate  float64 `yaml:"rate" validate:"gte=0"`
		Burst int     `yaml:"burst" validate:"gte=0"`
	} `yaml:"rateLimit"`

	CORS struct {
		Origins []string `yaml:"origins" validate:"dive,required"`
	} `yaml:"cors"`

	RequestTimeout time.Duration `yaml:"requestTimeout" validate:"gte=0"`
	MaxBodySize    int64         `yaml:"maxBodySize" validate:"gte=0"`
}

func defaultConfig() Config {
	var c Config
	c.Addr = "localhost:8080"
	c.LogLevel = "info"
	c.API.Title = "Labs API"
	c.API.Version = "1.0.0"
	c.RequestTimeout = 30 * time.Second
	return c
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			errs := make([]error, len(verrs))
			for i, fe := range verrs {
				errs[i] = fmt.Errorf("%s: failed %q", fe.Namespace(), fe.Tag())
			}
			return cfg, fmt.Errorf("invalid config: %w", errors.Join(errs...))
		}
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c Config) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
