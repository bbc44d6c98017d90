package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-docexport/internal/config"
)

// envPrefix namespaces every environment variable the CLI reads.
const envPrefix = "DOCEXPORT_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // DOCEXPORT_CONFIG: config file name or path
	Style      string        // DOCEXPORT_STYLE: CSS style name or path
	Timeout    time.Duration // DOCEXPORT_TIMEOUT: PDF generation timeout
	InputDir   string        // DOCEXPORT_INPUT_DIR: default input directory
	OutputDir  string        // DOCEXPORT_OUTPUT_DIR: default output directory
	Images     string        // DOCEXPORT_IMAGES: image root
	Formats    []string      // DOCEXPORT_FORMATS: comma separated formats
	Author     string        // DOCEXPORT_AUTHOR: document author
	Language   string        // DOCEXPORT_LANGUAGE: HTML language tag
	PageSize   string        // DOCEXPORT_PAGE_SIZE: a4, letter, legal
	Workers    int           // DOCEXPORT_WORKERS: parallel workers
}

// knownEnvVars lists valid DOCEXPORT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOCEXPORT_CONFIG":     true,
	"DOCEXPORT_STYLE":      true,
	"DOCEXPORT_TIMEOUT":    true,
	"DOCEXPORT_INPUT_DIR":  true,
	"DOCEXPORT_OUTPUT_DIR": true,
	"DOCEXPORT_IMAGES":     true,
	"DOCEXPORT_FORMATS":    true,
	"DOCEXPORT_AUTHOR":     true,
	"DOCEXPORT_LANGUAGE":   true,
	"DOCEXPORT_PAGE_SIZE":  true,
	"DOCEXPORT_WORKERS":    true,
	"DOCEXPORT_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("DOCEXPORT_CONFIG"),
		Style:      os.Getenv("DOCEXPORT_STYLE"),
		InputDir:   os.Getenv("DOCEXPORT_INPUT_DIR"),
		OutputDir:  os.Getenv("DOCEXPORT_OUTPUT_DIR"),
		Images:     os.Getenv("DOCEXPORT_IMAGES"),
		Author:     os.Getenv("DOCEXPORT_AUTHOR"),
		Language:   os.Getenv("DOCEXPORT_LANGUAGE"),
		PageSize:   os.Getenv("DOCEXPORT_PAGE_SIZE"),
	}

	if formats := os.Getenv("DOCEXPORT_FORMATS"); formats != "" {
		cfg.Formats = strings.Split(formats, ",")
	}

	if timeout := os.Getenv("DOCEXPORT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("DOCEXPORT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars reports unrecognized DOCEXPORT_* variables, which are
// usually typos.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig fills config values that are still empty from the
// environment. CLI flags are applied afterwards by mergeFlags.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.HTML.Style == "" {
		cfg.HTML.Style = env.Style
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Images != "" && cfg.Input.Images == "" {
		cfg.Input.Images = env.Images
	}
	if len(env.Formats) > 0 && isDefaultFormats(cfg.Output.Formats) {
		cfg.Output.Formats = env.Formats
	}
	if env.Author != "" && cfg.Document.Author == "" {
		cfg.Document.Author = env.Author
	}
	if env.Language != "" && cfg.HTML.Language == "" {
		cfg.HTML.Language = env.Language
	}
	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
}

// isDefaultFormats reports whether formats is unset or the built-in default.
func isDefaultFormats(formats []string) bool {
	return len(formats) == 0 || slices.Equal(formats, config.DefaultConfig().Output.Formats)
}
