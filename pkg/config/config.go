// Package config loads .mathlamp.yml.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/mathlamp/pkg/session"
	"github.com/agenthands/mathlamp/pkg/shell"
	"github.com/agenthands/mathlamp/pkg/source"
)

// FileName is the configuration file looked up by Discover.
const FileName = ".mathlamp.yml"

type Config struct {
	Path string `yaml:"-"`

	Engine        string `yaml:"engine"`
	Frontend      string `yaml:"frontend"`
	GasLimit      int    `yaml:"gas_limit"`
	MaxSourceSize int64  `yaml:"max_source_size"`
	Shell         Shell  `yaml:"shell"`
}

type Shell struct {
	Prompt *string `yaml:"prompt"`
	Banner *string `yaml:"banner"`
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config: invalid ")
	if e.Path != "" {
		b.WriteString(e.Path)
	} else {
		b.WriteString("configuration")
	}
	b.WriteString(":")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Default returns the built-in configuration.
func Default() *Config {
	prompt := shell.DefaultPrompt
	banner := shell.DefaultBanner
	return &Config{
		Engine:        string(session.EngineTree),
		Frontend:      string(session.FrontendNative),
		GasLimit:      session.DefaultGasLimit,
		MaxSourceSize: source.DefaultMaxSize,
		Shell:         Shell{Prompt: &prompt, Banner: &banner},
	}
}

// Load parses the file at path over the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg := Default()
	cfg.Path = absPath

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover loads dir/.mathlamp.yml, or the defaults when the file is absent.
func Discover(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var issues []string
	switch session.Engine(c.Engine) {
	case session.EngineTree, session.EngineVM:
	default:
		issues = append(issues, fmt.Sprintf("engine must be %q or %q, got %q", session.EngineTree, session.EngineVM, c.Engine))
	}
	switch session.Frontend(c.Frontend) {
	case session.FrontendNative, session.FrontendPython:
	default:
		issues = append(issues, fmt.Sprintf("frontend must be %q or %q, got %q", session.FrontendNative, session.FrontendPython, c.Frontend))
	}
	if c.GasLimit <= 0 {
		issues = append(issues, fmt.Sprintf("gas_limit must be positive, got %d", c.GasLimit))
	}
	if c.MaxSourceSize <= 0 {
		issues = append(issues, fmt.Sprintf("max_source_size must be positive, got %d", c.MaxSourceSize))
	}
	if len(issues) > 0 {
		return &ValidationError{Path: c.Path, Issues: issues}
	}
	return nil
}

// SessionOptions converts the configuration for session.New.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Engine:   session.Engine(c.Engine),
		Frontend: session.Frontend(c.Frontend),
		GasLimit: c.GasLimit,
	}
}

// Prompt returns the configured prompt; an explicit empty string is kept.
func (c *Config) Prompt() string {
	if c.Shell.Prompt == nil {
		return shell.DefaultPrompt
	}
	return *c.Shell.Prompt
}

// Banner returns the configured banner; an explicit empty string disables it.
func (c *Config) Banner() string {
	if c.Shell.Banner == nil {
		return shell.DefaultBanner
	}
	return *c.Shell.Banner
}
