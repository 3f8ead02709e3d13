// Package config loads a Seen project's seen.yml/seen.yaml with
// spf13/viper, mirroring the teacher's internal/cli/config/config.go
// load/validate shape. Where the teacher's Config held web-app settings
// (database, server), this one holds what SPEC_FULL.md's AMBIENT STACK
// section assigns to this package: the project's language tag (spec.md
// 6 "Source-file format") and the default backend target (triple plus
// RVV vector flag, spec.md 4.I).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is a Seen project's resolved configuration.
type Config struct {
	ProjectName string       `mapstructure:"project_name"`
	Language    string       `mapstructure:"language"`
	Target      TargetConfig `mapstructure:"target"`
}

// TargetConfig selects the default backend target triple and whether
// the RISC-V vector extension is enabled (spec.md 4.I's Target/Spec).
type TargetConfig struct {
	Triple string `mapstructure:"triple"`
	Vector bool   `mapstructure:"vector"`
}

// Load loads the configuration from seen.yml or seen.yaml in the
// current directory, falling back to defaults when no file is present.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("project_name", "")
	v.SetDefault("language", "en")
	v.SetDefault("target.triple", "x86_64-unknown-linux-gnu")
	v.SetDefault("target.vector", false)

	v.SetConfigName("seen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// InProject reports whether the current directory is a Seen project:
// a seen.yml/seen.yaml is present, or a src directory exists.
func InProject() bool {
	if _, err := os.Stat("seen.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("seen.yaml"); err == nil {
		return true
	}
	if _, err := os.Stat("src"); err == nil {
		return true
	}
	return false
}

// GetProjectRoot walks up from the current directory looking for
// seen.yml/seen.yaml, falling back to a src directory.
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "seen.yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "seen.yaml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "src")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Seen project (no seen.yml found)")
		}
		dir = parent
	}
}

// validateConfig rejects a language tag or target triple that the
// compiler core (internal/compiler/keyword, internal/compiler/backend/llvm)
// has no table or spec for.
func validateConfig(cfg *Config) error {
	switch cfg.Language {
	case "en", "ar":
	default:
		return fmt.Errorf("config: unknown language tag %q (expected \"en\" or \"ar\")", cfg.Language)
	}

	switch cfg.Target.Triple {
	case "riscv64-unknown-linux-gnu", "riscv32-unknown-linux-gnu",
		"x86_64-unknown-linux-gnu", "wasm32-unknown-unknown":
	default:
		return fmt.Errorf("config: unknown target triple %q", cfg.Target.Triple)
	}

	return nil
}
