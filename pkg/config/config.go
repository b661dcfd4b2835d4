// Package config handles ontomod configuration via a YAML file and
// environment variables.
//
// Configuration starts from DefaultConfig(). LoadFile() reads a YAML file on
// top of the defaults and then applies environment overrides, so a variable
// always wins over the file. LoadFromEnv() applies only the environment.
// Validate() should be called before use.
//
// Example Usage:
//
//	cfg, err := config.LoadFile("ontomod.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid config: %v", err)
//	}
//
//	fmt.Println("Reasoner:", cfg.Reasoner.Name)
//
// Environment Variables:
//   - ONTOMOD_DATA_DIR="./data"
//   - ONTOMOD_STORAGE_IN_MEMORY=false
//   - ONTOMOD_STORAGE_SYNC_WRITES=false
//   - ONTOMOD_REASONER="datalog" or "hierarchy"
//   - ONTOMOD_REASONER_CACHE_SIZE=10000
//   - ONTOMOD_REASONER_CACHE_TTL=10m
//   - ONTOMOD_MODULE_TYPE="star", "bottom" or "top"
//   - ONTOMOD_REMOVE_EXCLUDED_ANNOTATIONS=true
//   - ONTOMOD_INFERENCE_KINDS="subclasses,equivalent classes"
//   - ONTOMOD_INFERENCE_ANNOTATE=false
//   - ONTOMOD_INFERENCE_ADD_INVERSES=false
//   - ONTOMOD_LOG_LEVEL="info"
//   - ONTOMOD_LOG_FORMAT="json" or "console"
//   - ONTOMOD_METRICS_FILE=""
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/orneryd/ontomod/pkg/inference"
	"github.com/orneryd/ontomod/pkg/locality"
	"github.com/orneryd/ontomod/pkg/reasoner"
)

// Config holds all ontomod configuration.
//
// Configuration is organized into logical sections:
//   - Storage: where ontology documents are persisted
//   - Reasoner: which reasoner answers queries and how results are cached
//   - Extraction: module extraction behavior
//   - Inference: which inferred axioms are added and how
//   - Logging: log level and encoding
//   - Metrics: where collected metrics are written
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Reasoner   ReasonerConfig   `yaml:"reasoner"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Inference  InferenceConfig  `yaml:"inference"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// StorageConfig holds document store settings.
type StorageConfig struct {
	// DataDir is the BadgerDB directory.
	DataDir string `yaml:"data_dir"`
	// InMemory keeps documents in memory only.
	InMemory bool `yaml:"in_memory"`
	// SyncWrites forces fsync after each write.
	SyncWrites bool `yaml:"sync_writes"`
}

// ReasonerConfig holds reasoner settings.
type ReasonerConfig struct {
	// Name is one of reasoner.Names().
	Name string `yaml:"name"`
	// CacheSize bounds memoized query results. Zero disables caching.
	CacheSize int `yaml:"cache_size"`
	// CacheTTL expires memoized results. Zero means no expiry.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ExtractionConfig holds module extraction settings.
type ExtractionConfig struct {
	// ModuleType is the locality module type (star, bottom, top).
	ModuleType                string `yaml:"module_type"`
	RemoveExcludedAnnotations bool   `yaml:"remove_excluded_annotations"`
}

// InferenceConfig holds inferred axiom settings.
type InferenceConfig struct {
	// Kinds are inference kind names, e.g. "subclasses".
	Kinds       []string `yaml:"kinds"`
	Annotate    bool     `yaml:"annotate"`
	AddInverses bool     `yaml:"add_inverses"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level (debug, info, warn, error)
	Level string `yaml:"level"`
	// Format (json, console)
	Format string `yaml:"format"`
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	// File receives metrics in the Prometheus text format after each
	// command. Empty disables writing.
	File string `yaml:"file"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir: "./data",
		},
		Reasoner: ReasonerConfig{
			Name:      reasoner.DatalogName,
			CacheSize: 10000,
			CacheTTL:  10 * time.Minute,
		},
		Extraction: ExtractionConfig{
			ModuleType:                locality.Star.String(),
			RemoveExcludedAnnotations: true,
		},
		Inference: InferenceConfig{
			Kinds: []string{inference.Subclasses.String()},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromEnv returns the default configuration with environment overrides
// applied.
func LoadFromEnv() *Config {
	config := DefaultConfig()
	config.applyEnv()
	return config
}

// LoadFile reads a YAML configuration file over the defaults and then
// applies environment overrides. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	c.Storage.DataDir = getEnv("ONTOMOD_DATA_DIR", c.Storage.DataDir)
	c.Storage.InMemory = getEnvBool("ONTOMOD_STORAGE_IN_MEMORY", c.Storage.InMemory)
	c.Storage.SyncWrites = getEnvBool("ONTOMOD_STORAGE_SYNC_WRITES", c.Storage.SyncWrites)

	c.Reasoner.Name = getEnv("ONTOMOD_REASONER", c.Reasoner.Name)
	c.Reasoner.CacheSize = getEnvInt("ONTOMOD_REASONER_CACHE_SIZE", c.Reasoner.CacheSize)
	c.Reasoner.CacheTTL = getEnvDuration("ONTOMOD_REASONER_CACHE_TTL", c.Reasoner.CacheTTL)

	c.Extraction.ModuleType = getEnv("ONTOMOD_MODULE_TYPE", c.Extraction.ModuleType)
	c.Extraction.RemoveExcludedAnnotations = getEnvBool("ONTOMOD_REMOVE_EXCLUDED_ANNOTATIONS", c.Extraction.RemoveExcludedAnnotations)

	c.Inference.Kinds = getEnvStringSlice("ONTOMOD_INFERENCE_KINDS", c.Inference.Kinds)
	c.Inference.Annotate = getEnvBool("ONTOMOD_INFERENCE_ANNOTATE", c.Inference.Annotate)
	c.Inference.AddInverses = getEnvBool("ONTOMOD_INFERENCE_ADD_INVERSES", c.Inference.AddInverses)

	c.Logging.Level = getEnv("ONTOMOD_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("ONTOMOD_LOG_FORMAT", c.Logging.Format)

	c.Metrics.File = getEnv("ONTOMOD_METRICS_FILE", c.Metrics.File)
}

// Validate checks the configuration for errors.
//
// Returns nil if configuration is valid, or an error describing the problem.
func (c *Config) Validate() error {
	if !c.Storage.InMemory && c.Storage.DataDir == "" {
		return fmt.Errorf("storage data_dir is required unless in_memory is set")
	}

	known := false
	for _, name := range reasoner.Names() {
		if name == c.Reasoner.Name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown reasoner %q (expected one of %s)", c.Reasoner.Name, strings.Join(reasoner.Names(), ", "))
	}
	if c.Reasoner.CacheSize < 0 {
		return fmt.Errorf("invalid reasoner cache size: %d", c.Reasoner.CacheSize)
	}
	if c.Reasoner.CacheTTL < 0 {
		return fmt.Errorf("invalid reasoner cache ttl: %s", c.Reasoner.CacheTTL)
	}

	if _, err := c.LocalityModuleType(); err != nil {
		return err
	}
	if _, err := c.InferenceKinds(); err != nil {
		return err
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	return nil
}

// LocalityModuleType parses Extraction.ModuleType.
func (c *Config) LocalityModuleType() (locality.ModuleType, error) {
	return locality.ParseModuleType(c.Extraction.ModuleType)
}

// InferenceKinds parses Inference.Kinds.
func (c *Config) InferenceKinds() ([]inference.Kind, error) {
	return inference.ParseKinds(strings.Join(c.Inference.Kinds, ","))
}

// ReasonerManagerConfig converts the reasoner section for reasoner.NewManager.
// Logger and metrics are left for the caller to set.
func (c *Config) ReasonerManagerConfig() *reasoner.Config {
	return &reasoner.Config{
		CacheSize: c.Reasoner.CacheSize,
		CacheTTL:  c.Reasoner.CacheTTL,
	}
}

// String returns a compact representation of the Config, suitable for
// logging.
func (c *Config) String() string {
	storage := c.Storage.DataDir
	if c.Storage.InMemory {
		storage = "memory"
	}
	return fmt.Sprintf(
		"Config{Storage: %s, Reasoner: %s, Kinds: [%s], Log: %s/%s}",
		storage,
		c.Reasoner.Name,
		strings.Join(c.Inference.Kinds, ", "),
		c.Logging.Level, c.Logging.Format,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(val)
		return val == "true" || val == "1" || val == "yes" || val == "on"
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		// Try parsing as seconds
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}

func getEnvStringSlice(key string, defaultVal []string) []string {
	if val := os.Getenv(key); val != "" {
		// Split by comma, trim whitespace
		parts := strings.Split(val, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultVal
}
