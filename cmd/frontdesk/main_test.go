package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avelis/frontdesk/internal/config"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "frontdesk") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLoadConfigMissingDefaultFallsBack(t *testing.T) {
	// Run from an empty directory so no frontdesk.yaml is found.
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	cfg, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Classifier.Backend != "local" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadConfigMissingExplicitPathFails(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config path")
	}
}

func TestBuildClassifier(t *testing.T) {
	cfg := config.Default()
	if _, err := buildClassifier(cfg); err != nil {
		t.Errorf("local backend: %v", err)
	}

	cfg.Classifier.Backend = "openai"
	cfg.Classifier.OpenAIKey = "sk-test"
	if _, err := buildClassifier(cfg); err != nil {
		t.Errorf("openai backend: %v", err)
	}

	cfg.Classifier.Backend = "bayes"
	if _, err := buildClassifier(cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestBuildEngine(t *testing.T) {
	engine, err := buildEngine(config.Default())
	if err != nil {
		t.Fatalf("buildEngine: %v", err)
	}
	if engine == nil {
		t.Fatal("nil engine")
	}
}

func TestBuildManager(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "frontdesk.db")

	mgr, sweeper, err := buildManager(cfg)
	if err != nil {
		t.Fatalf("buildManager: %v", err)
	}
	if mgr == nil || sweeper == nil {
		t.Fatal("nil manager or sweeper")
	}
}

func TestBuildAdapterUnknownPlatform(t *testing.T) {
	if _, err := buildAdapter(config.Default(), "irc"); err == nil {
		t.Error("expected error for unknown platform")
	}
}
