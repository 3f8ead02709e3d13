package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	cliconfig "github.com/seen-lang/seenc/internal/cli/config"
	"github.com/seen-lang/seenc/internal/compiler/keyword"
)

// resolveLanguage returns the language table for tag, falling back to the
// project's configured language (or "en") when tag is empty.
func resolveLanguage(tag string) (string, *keyword.Table, error) {
	if tag == "" {
		if cfg, err := cliconfig.Load(); err == nil {
			tag = cfg.Language
		} else {
			tag = "en"
		}
	}

	lang, ok := keyword.Lookup(tag)
	if !ok {
		return "", nil, fmt.Errorf("unknown language tag %q", tag)
	}
	return tag, lang.Table, nil
}

// readSource reads the source file at path.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// newLogger builds the zap logger shared by the driver commands, verbose
// at debug level only when explicitly requested.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
