package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

// Search engines.
const (
	EngineAlgolia     = "algolia"
	EngineMeilisearch = "meilisearch"
)

// Config holds the searchsync service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Backend  BackendConfig  `yaml:"backend"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Types    []TypeConfig   `yaml:"types"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API keys. Search keys may only read; admin keys may also rebuild.
type AuthConfig struct {
	SearchKeys []string `yaml:"search_keys"`
	AdminKeys  []string `yaml:"admin_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// BackendConfig holds the search index settings.
type BackendConfig struct {
	Engine        string            `yaml:"engine"` // algolia, meilisearch (default: algolia)
	IndexName     string            `yaml:"index_name"`
	ApplicationID string            `yaml:"application_id"`
	AdminAPIKey   string            `yaml:"admin_api_key"`
	Meilisearch   MeilisearchConfig `yaml:"meilisearch"`
	IndexSettings map[string]any    `yaml:"index_settings"`
}

// MeilisearchConfig holds Meilisearch connection settings.
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// DatabaseConfig holds PostgreSQL settings for the object store.
type DatabaseConfig struct {
	DSN              string `yaml:"dsn"`
	MaxConns         int32  `yaml:"max_conns"`
	MinConns         int32  `yaml:"min_conns"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds hit cache settings. The cache is off without addrs.
type CacheConfig struct {
	Driver     string   `yaml:"driver"` // redis, valkey (default: redis)
	Addrs      []string `yaml:"addrs"`
	Password   string   `yaml:"password"`
	Standalone bool     `yaml:"standalone"`
	TTLSec     int      `yaml:"ttl_sec"`
}

// Enabled reports whether a cache server is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// TypeConfig declares an indexed type backed by a table or view.
type TypeConfig struct {
	Namespace      string        `yaml:"namespace"`
	Name           string        `yaml:"name"`
	Parent         string        `yaml:"parent"` // qualified name of an earlier type
	Table          string        `yaml:"table"`
	IDColumn       string        `yaml:"id_column"`
	IDType         string        `yaml:"id_type"` // SQL type of id_column, default bigint
	LocaleColumn   string        `yaml:"locale_column"`
	RootCondition  string        `yaml:"root_condition"`
	ExactCondition string        `yaml:"exact_condition"`
	Fields         []FieldConfig `yaml:"fields"`
}

// QualifiedName returns "<namespace>.<name>".
func (t TypeConfig) QualifiedName() string { return t.Namespace + "." + t.Name }

// FieldConfig declares a search field. Column and Expr are mutually
// exclusive; both empty reads the column named after the field.
// Nested fields apply to related fields only and read jsonb keys.
type FieldConfig struct {
	Name   string        `yaml:"name"`
	Kind   string        `yaml:"kind"` // text, autocomplete, filter, related
	Column string        `yaml:"column"`
	Expr   string        `yaml:"expr"`
	Fields []FieldConfig `yaml:"fields"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Backend.Engine == "" {
		c.Backend.Engine = EngineAlgolia
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "redis"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	for i := range c.Types {
		if c.Types[i].IDColumn == "" {
			c.Types[i].IDColumn = "id"
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if err := c.Backend.validate(); err != nil {
		return err
	}
	switch c.Cache.Driver {
	case "redis", "valkey":
	default:
		return fmt.Errorf("cache.driver must be \"redis\" or \"valkey\", got %q", c.Cache.Driver)
	}
	if len(c.Types) > 0 && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when types are declared")
	}
	return validateTypes(c.Types)
}

func (b BackendConfig) validate() error {
	if b.IndexName == "" {
		return fmt.Errorf("backend.index_name is required")
	}
	switch b.Engine {
	case EngineAlgolia:
		if b.ApplicationID == "" || b.AdminAPIKey == "" {
			return fmt.Errorf("backend.application_id and backend.admin_api_key are required for algolia")
		}
	case EngineMeilisearch:
		if b.Meilisearch.Host == "" {
			return fmt.Errorf("backend.meilisearch.host is required for meilisearch")
		}
	default:
		return fmt.Errorf("backend.engine must be %q or %q, got %q", EngineAlgolia, EngineMeilisearch, b.Engine)
	}
	return nil
}

func validateTypes(types []TypeConfig) error {
	seen := make(map[string]bool, len(types))
	for i, t := range types {
		if t.Namespace == "" || t.Name == "" {
			return fmt.Errorf("types[%d]: namespace and name are required", i)
		}
		if t.Table == "" {
			return fmt.Errorf("types[%d] %s: table is required", i, t.QualifiedName())
		}
		if t.Parent != "" && !seen[t.Parent] {
			return fmt.Errorf("types[%d] %s: parent %q must be declared before it", i, t.QualifiedName(), t.Parent)
		}
		if err := validateFields(t.QualifiedName(), t.Fields); err != nil {
			return fmt.Errorf("types[%d]: %w", i, err)
		}
		seen[t.QualifiedName()] = true
	}
	return nil
}

func validateFields(path string, fields []FieldConfig) error {
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("%s: field name is required", path)
		}
		kind, err := schema.ParseKind(f.Kind)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", path, f.Name, err)
		}
		if f.Column != "" && f.Expr != "" {
			return fmt.Errorf("%s.%s: column and expr are mutually exclusive", path, f.Name)
		}
		if len(f.Fields) > 0 && kind != schema.Related {
			return fmt.Errorf("%s.%s: only related fields have nested fields", path, f.Name)
		}
		if err := validateFields(path+"."+f.Name, f.Fields); err != nil {
			return err
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
