package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agenthands/mathlamp/pkg/config"
	"github.com/agenthands/mathlamp/pkg/session"
	"github.com/agenthands/mathlamp/pkg/shell"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
engine: vm
frontend: python
gas_limit: 5000
max_source_size: 1024
shell:
  prompt: "lamp> "
  banner: ""
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	opts := cfg.SessionOptions()
	if opts.Engine != session.EngineVM || opts.Frontend != session.FrontendPython || opts.GasLimit != 5000 {
		t.Errorf("unexpected session options: %+v", opts)
	}
	if cfg.MaxSourceSize != 1024 {
		t.Errorf("expected max_source_size 1024, got %d", cfg.MaxSourceSize)
	}
	if cfg.Prompt() != "lamp> " {
		t.Errorf("expected prompt %q, got %q", "lamp> ", cfg.Prompt())
	}
	if cfg.Banner() != "" {
		t.Errorf("expected banner disabled, got %q", cfg.Banner())
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "engine: vm\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := config.Default()
	if cfg.Frontend != def.Frontend || cfg.GasLimit != def.GasLimit || cfg.MaxSourceSize != def.MaxSourceSize {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Prompt() != shell.DefaultPrompt || cfg.Banner() != shell.DefaultBanner {
		t.Errorf("shell defaults lost: %q %q", cfg.Prompt(), cfg.Banner())
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Engine != string(session.EngineTree) {
		t.Errorf("expected default engine, got %q", cfg.Engine)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := config.Load(writeConfig(t, "engnie: vm\n"))
	if err == nil || !strings.Contains(err.Error(), "engnie") {
		t.Errorf("expected unknown key error, got %v", err)
	}
}

func TestLoadValidation(t *testing.T) {
	_, err := config.Load(writeConfig(t, "engine: jit\nfrontend: lisp\ngas_limit: 0\nmax_source_size: -1\n"))

	var ve *config.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *config.ValidationError, got %v", err)
	}
	if len(ve.Issues) != 4 {
		t.Errorf("expected 4 issues, got %d: %v", len(ve.Issues), ve.Issues)
	}
}

func TestDiscover(t *testing.T) {
	cfg, err := config.Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover without file failed: %v", err)
	}
	if cfg.Path != "" || cfg.Engine != string(session.EngineTree) {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	path := writeConfig(t, "engine: vm\n")
	cfg, err = config.Discover(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if cfg.Engine != string(session.EngineVM) {
		t.Errorf("expected engine vm, got %q", cfg.Engine)
	}
}
