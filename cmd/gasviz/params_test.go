package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/gasviz/internal/config"
)

func newParamCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addParamFlags(cmd)
	return cmd
}

func TestResolveConfigPreset(t *testing.T) {
	configFile = ""
	cfg, err := resolveConfig(newParamCmd(), []string{"bullet"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Experiment != "bullet" {
		t.Errorf("expected bullet, got %s", cfg.Experiment)
	}
	if cfg.Params.Particles != 1000 || cfg.Params.ParticleRadius != 0.008 {
		t.Errorf("expected bullet preset, got %+v", cfg.Params)
	}
}

func TestResolveConfigLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gas.yaml")
	data := "experiment: big_particles\nparams:\n  buckets: 15\n  averaging_weight: 50\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	configFile = path
	defer func() { configFile = "" }()

	cmd := newParamCmd()
	if err := cmd.Flags().Set("weight", "75"); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Experiment != "big_particles" {
		t.Errorf("expected experiment from file, got %s", cfg.Experiment)
	}
	if cfg.Params.Particles != 30 {
		t.Errorf("expected preset particles 30, got %d", cfg.Params.Particles)
	}
	if cfg.Params.Buckets != 15 {
		t.Errorf("expected file buckets 15, got %d", cfg.Params.Buckets)
	}
	if cfg.Params.AveragingWeight != 75 {
		t.Errorf("expected flag weight 75, got %d", cfg.Params.AveragingWeight)
	}
}

func TestResolveConfigRejects(t *testing.T) {
	configFile = ""
	if _, err := resolveConfig(newParamCmd(), []string{"no_such"}); err == nil {
		t.Error("expected error for unknown experiment")
	}

	cmd := newParamCmd()
	if err := cmd.Flags().Set("buckets", "0"); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveConfig(cmd, nil); !errors.Is(err, config.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestNewLoggerFiltersLevel(t *testing.T) {
	logLevel = "warn"
	defer func() { logLevel = "info" }()

	var buf bytes.Buffer
	logger, err := newLogger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	level.Info(logger).Log("msg", "hidden")
	level.Warn(logger).Log("msg", "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected log output %q", out)
	}

	logLevel = "loud"
	if _, err := newLogger(&buf); err == nil {
		t.Error("expected error for unknown level")
	}
}
