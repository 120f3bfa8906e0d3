package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// BloomFPRate is the target false-positive rate of the per-collection prefilters.
	BloomFPRate float64 `koanf:"bloom_fp_rate" validate:"gt=0,lt=1"`

	// CacheSize is the number of decisions kept in the LRU cache; 0 disables it.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// Collection is the collection checked when the caller names none.
	Collection string `koanf:"collection" validate:"required"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// MaxLength bounds names passed to lint; 0 means unbounded.
	MaxLength int `koanf:"max_length" validate:"gte=0"`

	// Source is a YAML, JSON or TOML document, or a compiled .db snapshot.
	// Empty selects the embedded default document.
	Source string `koanf:"source" validate:"omitempty,blacklist_source"`
}

// DEFAULT_APP_CONFIG is applied before the environment is read.
var DEFAULT_APP_CONFIG = AppConfig{
	BloomFPRate: 0.01,
	CacheSize:   1024,
	Collection:  "all",
	Env:         "prod",
	LogLevel:    "warn",
	MaxLength:   0,
	Source:      "",
}

// SourceExtensions lists the file extensions accepted for Source.
var SourceExtensions = []string{".yaml", ".yml", ".json", ".toml", ".db"}

// validSource accepts paths whose extension names a supported format.
func validSource(fl validator.FieldLevel) bool {
	path := strings.ToLower(fl.Field().String())
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// envLoader loads NAMES_* environment variables, lowercased and without the
// prefix. Empty values are skipped so they keep the defaults. Tests replace it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "NAMES_",
		TransformFunc: func(key, value string) (string, any) {
			value = strings.TrimSpace(value)
			if value == "" {
				return "", nil
			}
			return strings.ToLower(strings.TrimPrefix(key, "NAMES_")), value
		},
	}), nil)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("blacklist_source", validSource); err != nil {
		return nil, fmt.Errorf("error registering validators: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
