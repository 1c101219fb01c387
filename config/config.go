// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/opencontainers/go-digest"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/filterx-core/allocator"
	"github.com/stacklok/filterx-core/cel"
	"github.com/stacklok/filterx-core/env"
)

// DefaultFile is the path searched for in the XDG configuration
// directories when no explicit path is given.
const DefaultFile = "filterx/config.yaml"

// Environment variables overriding settings.
const (
	EnvWorkers  = "FILTERX_WORKERS"
	EnvAreaSize = "FILTERX_AREA_SIZE"
	EnvLogLevel = "FILTERX_LOG_LEVEL"
)

const schemaFile = "data/config.schema.json"

//go:embed data/config.schema.json
var embeddedSchemaFS embed.FS

// ErrInvalidDocument is returned when a configuration cannot be parsed.
var ErrInvalidDocument = errors.New("invalid configuration document")

// ValidationError lists the schema violations of a configuration.
type ValidationError struct {
	Errors []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	const prefix = "configuration schema validation failed"
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s: %s", prefix, e.Errors[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s with %d errors:", prefix, len(e.Errors))
	for i, msg := range e.Errors {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, msg)
	}
	return b.String()
}

// Settings are the runtime settings of a filterx process.
type Settings struct {
	Workers                int    `yaml:"workers,omitempty"`
	AreaSize               int    `yaml:"area_size,omitempty"`
	LogFormat              string `yaml:"log_format,omitempty"`
	LogLevel               string `yaml:"log_level,omitempty"`
	CELCostLimit           uint64 `yaml:"cel_cost_limit,omitempty"`
	CELMaxExpressionLength int    `yaml:"cel_max_expression_length,omitempty"`
}

// Config is a parsed configuration document.
type Config struct {
	Settings Settings   `yaml:"settings"`
	Program  Statements `yaml:"program"`

	raw []byte
}

// Locate returns path if it is set, otherwise the first DefaultFile found
// in the XDG configuration directories.
func Locate(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	found, err := xdg.SearchConfigFile(DefaultFile)
	if err != nil {
		return "", fmt.Errorf("no configuration file given and %s not found: %w", DefaultFile, err)
	}
	return found, nil
}

// Load reads, validates and parses the configuration at path, then applies
// environment overrides from r.
func Load(path string, r env.Reader) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.ApplyEnv(r); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse validates data against the configuration schema and decodes it.
// Unset settings receive their defaults.
func Parse(data []byte) (*Config, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	cfg.raw = bytes.Clone(data)
	cfg.Settings.applyDefaults()
	return &cfg, nil
}

// validate checks the YAML document against the embedded JSON schema.
func validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	schemaData, err := embeddedSchemaFS.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read embedded schema %s: %w", schemaFile, err)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return fmt.Errorf("configuration schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return &ValidationError{Errors: msgs}
}

func (s *Settings) applyDefaults() {
	if s.Workers == 0 {
		s.Workers = runtime.NumCPU()
	}
	if s.AreaSize == 0 {
		s.AreaSize = allocator.DefaultAreaSize
	}
	if s.LogFormat == "" {
		s.LogFormat = "json"
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.CELCostLimit == 0 {
		s.CELCostLimit = cel.DefaultCostLimit
	}
	if s.CELMaxExpressionLength == 0 {
		s.CELMaxExpressionLength = cel.DefaultMaxExpressionLength
	}
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(r env.Reader) error {
	if n, ok, err := env.Int(r, EnvWorkers); err != nil {
		return err
	} else if ok {
		c.Settings.Workers = n
	}
	if n, ok, err := env.Int(r, EnvAreaSize); err != nil {
		return err
	} else if ok {
		c.Settings.AreaSize = n
	}
	if level := strings.TrimSpace(r.Getenv(EnvLogLevel)); level != "" {
		c.Settings.LogLevel = level
	}
	return nil
}

// Digest identifies the configuration by the content of its source document.
func (c *Config) Digest() digest.Digest {
	return digest.FromBytes(c.raw)
}

// CELEngine returns a CEL engine configured with the CEL settings.
func (c *Config) CELEngine() *cel.Engine {
	return cel.NewEngine().
		WithCostLimit(c.Settings.CELCostLimit).
		WithMaxExpressionLength(c.Settings.CELMaxExpressionLength)
}
