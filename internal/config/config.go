// Package config loads the hexforge service configuration from YAML with
// HEXFORGE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/hexforge/internal/antispam"
	"github.com/lawnchairsociety/hexforge/internal/database"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
	"github.com/lawnchairsociety/hexforge/internal/tables"
	"github.com/lawnchairsociety/hexforge/internal/terrain"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HEXFORGE_"

// Config holds server-wide configuration settings.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" envPrefix:"HTTP_"`
	WebSocket   WebSocketConfig   `yaml:"websocket" envPrefix:"WS_"`
	Connections ConnectionsConfig `yaml:"connections" envPrefix:"CONN_"`
	Admin       AdminConfig       `yaml:"admin" envPrefix:"ADMIN_"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"`
	Throttle    antispam.Config   `yaml:"throttle" envPrefix:"THROTTLE_"`
	Password    PasswordConfig    `yaml:"password" envPrefix:"PASSWORD_"`
	Data        DataConfig        `yaml:"data" envPrefix:"DATA_"`
	Database    database.Config   `yaml:"database" envPrefix:"DB_"`
	Map         MapConfig         `yaml:"map" envPrefix:"MAP_"`
}

// HTTPConfig holds the listener settings.
type HTTPConfig struct {
	Addr         string        `yaml:"addr" env:"ADDR"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited (not recommended).
	MaxPerIP int `yaml:"max_per_ip" env:"MAX_PER_IP"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total" env:"MAX_TOTAL"`
}

// AdminConfig protects the admin endpoints. An empty PasswordHash
// disables them.
type AdminConfig struct {
	Username     string `yaml:"username" env:"USERNAME"`
	PasswordHash string `yaml:"password_hash" env:"PASSWORD_HASH"`
}

// Enabled reports whether admin credentials are configured.
func (a AdminConfig) Enabled() bool {
	return a.Username != "" && a.PasswordHash != ""
}

// RateLimitConfig holds rate limiting settings for admin login attempts.
type RateLimitConfig struct {
	// MaxAttempts is the maximum login attempts before lockout.
	MaxAttempts int `yaml:"max_attempts" env:"MAX_ATTEMPTS"`

	// LockoutSeconds is the initial lockout duration in seconds.
	LockoutSeconds int `yaml:"lockout_seconds" env:"LOCKOUT_SECONDS"`

	// MaxLockoutSeconds is the maximum lockout duration (for exponential backoff).
	MaxLockoutSeconds int `yaml:"max_lockout_seconds" env:"MAX_LOCKOUT_SECONDS"`
}

// PasswordConfig holds the rules an admin password must meet before it is hashed.
type PasswordConfig struct {
	// MinLength is the minimum password length (default: 12)
	MinLength int `yaml:"min_length" env:"MIN_LENGTH"`

	RequireUppercase bool `yaml:"require_uppercase" env:"REQUIRE_UPPERCASE"`
	RequireLowercase bool `yaml:"require_lowercase" env:"REQUIRE_LOWERCASE"`
	RequireDigit     bool `yaml:"require_digit" env:"REQUIRE_DIGIT"`
	RequireSpecial   bool `yaml:"require_special" env:"REQUIRE_SPECIAL"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size" env:"MAX_MESSAGE_SIZE"`
}

// DataConfig locates the authored content.
type DataConfig struct {
	CitiesDir string `yaml:"cities_dir" env:"CITIES_DIR"`
	// TablesFile seeds global tables when no database is configured.
	TablesFile string `yaml:"tables_file" env:"TABLES_FILE"`
	LoreFile   string `yaml:"lore_file" env:"LORE_FILE"`
	// HelpFile replaces the built-in session help when set.
	HelpFile string `yaml:"help_file" env:"HELP_FILE"`
	Language string `yaml:"language" env:"LANGUAGE"`
}

// MapConfig sizes the overland map.
type MapConfig struct {
	Bounds      hexgrid.Bounds `yaml:",inline"`
	Parallelism int            `yaml:"parallelism" env:"PARALLELISM"`
	Terrain     terrain.Config `yaml:"terrain" envPrefix:"TERRAIN_"`
}

// DefaultConfig returns a Config with secure defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
		},
		Connections: ConnectionsConfig{
			MaxPerIP: 5,
			MaxTotal: 100,
		},
		Admin: AdminConfig{Username: "admin"},
		RateLimit: RateLimitConfig{
			MaxAttempts:       5,
			LockoutSeconds:    30,
			MaxLockoutSeconds: 300, // 5 minutes
		},
		Throttle: antispam.DefaultConfig(),
		Password: PasswordConfig{
			MinLength:        12,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireDigit:     true,
		},
		Data: DataConfig{
			CitiesDir: "data/cities",
			LoreFile:  "data/lore.yaml",
			Language:  tables.DefaultLanguage,
		},
		// Driver left empty: tables come from TablesFile and hexes are not persisted.
		Database: database.Config{
			SQLitePath: "data/hexforge.db",
			Postgres:   database.DefaultPostgresConfig(),
		},
		Map: MapConfig{
			Bounds:      hexgrid.Bounds{Cols: 40, Rows: 30},
			Parallelism: 4,
			Terrain:     terrain.DefaultConfig(),
		},
	}
}

// LoadConfig loads configuration from a YAML file and applies environment
// overrides. A missing file yields the defaults; a file that can't be
// parsed returns the defaults with the error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Use defaults if file doesn't exist
		case err != nil:
			return config, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return config, fmt.Errorf("failed to parse environment: %w", err)
	}

	return config, config.Validate()
}

// Validate checks values that would otherwise fail at request time.
func (c *Config) Validate() error {
	if err := c.Map.Bounds.Validate(); err != nil {
		return fmt.Errorf("map: %w", err)
	}
	if c.Map.Parallelism < 1 {
		return fmt.Errorf("map: parallelism must be at least 1, got %d", c.Map.Parallelism)
	}
	switch c.Database.Driver {
	case "", string(database.DialectSQLite), string(database.DialectPostgres):
	default:
		return fmt.Errorf("database: unknown driver %q", c.Database.Driver)
	}
	return nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., the hexgen CLI)
	}

	// "http://localhost:3000/" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}

// ValidatePassword checks a password against the configured rules.
func (c *PasswordConfig) ValidatePassword(password string) error {
	if n := c.minLength(); len(password) < n {
		return fmt.Errorf("password must be at least %d characters", n)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	switch {
	case c.RequireUppercase && !hasUpper:
		return errors.New("password must contain at least one uppercase letter")
	case c.RequireLowercase && !hasLower:
		return errors.New("password must contain at least one lowercase letter")
	case c.RequireDigit && !hasDigit:
		return errors.New("password must contain at least one digit")
	case c.RequireSpecial && !hasSpecial:
		return errors.New("password must contain at least one special character")
	}
	return nil
}

// RequirementsText returns a human-readable description of password requirements.
func (c *PasswordConfig) RequirementsText() string {
	parts := []string{fmt.Sprintf("min %d chars", c.minLength())}
	if c.RequireUppercase {
		parts = append(parts, "uppercase")
	}
	if c.RequireLowercase {
		parts = append(parts, "lowercase")
	}
	if c.RequireDigit {
		parts = append(parts, "digit")
	}
	if c.RequireSpecial {
		parts = append(parts, "special char")
	}
	return strings.Join(parts, ", ")
}

func (c *PasswordConfig) minLength() int {
	if c.MinLength <= 0 {
		return 12
	}
	return c.MinLength
}
