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
	// CacheSize is the maximum number of assembled responses kept in the
	// packed-response cache.
	CacheSize uint `koanf:"cache_size" validate:"required,gte=1"`

	// DisableCache disables response caching when set to true. Useful for
	// testing scenarios where cache behavior needs to be bypassed.
	DisableCache bool `koanf:"disable_cache"`

	// EDNSUDPSize is the maximum UDP payload the server advertises in its
	// OPT record (RFC 6891 requires at least 512).
	EDNSUDPSize uint16 `koanf:"edns_udp_size" validate:"required,gte=512"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// JournalPath is the bbolt database file holding journaled RRset
	// replacements. Empty disables the journal.
	JournalPath string `koanf:"journal_path"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Port is the network port the DNS server will bind to.
	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`

	// TCPEnabled also serves DNS over TCP on the same port (RFC 7766).
	TCPEnabled bool `koanf:"tcp_enabled"`

	// ZoneDir is the directory where zone files are located.
	ZoneDir string `koanf:"zone_dir" validate:"required"`
}

// DEFAULT_APP_CONFIG defines the default application configuration for the
// authoritative DNS service.
var DEFAULT_APP_CONFIG = AppConfig{
	CacheSize:    1000,
	DisableCache: false,
	EDNSUDPSize:  1232,
	Env:          "prod",
	JournalPath:  "",
	LogLevel:     "info",
	Port:         53,
	TCPEnabled:   true,
	ZoneDir:      "/etc/rr-authd/zones/",
}

// envLoader loads environment variables with the prefix "DNS_", lowercasing
// keys and trimming the prefix. It can be replaced in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNS_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DNS_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads default configuration values into the provided Koanf
// instance using the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
