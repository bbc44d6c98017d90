// Package config loads CLI configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docexport/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldInvalid    = errors.New("invalid field value")
)

// Field length limits.
const (
	MaxTitleLength       = 200  // Document title
	MaxNameLength        = 100  // Author, style or highlight style name
	MaxLanguageLength    = 35   // BCP 47 tag
	MaxURLLength         = 2048 // Browser limit
	MaxPathLength        = 4096 // PATH_MAX
	MaxFormatLength      = 10   // "html", "docx", "latex", "pdf"
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
)

// Image width bounds in inches.
const (
	MinImageWidth = 0.5
	MaxImageWidth = 20.0
)

// Config holds all configuration for document export.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	HTML     HTMLConfig     `yaml:"html"`
	Document DocumentConfig `yaml:"document"`
	Math     MathConfig     `yaml:"math"`
	Assets   AssetsConfig   `yaml:"assets"`
	Page     PageConfig     `yaml:"page"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
	Images     string `yaml:"images"`     // Image root (empty = next to the input file)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string   `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Formats    []string `yaml:"formats"`    // Artifacts to produce (empty = html)
}

// HTMLConfig defines options for the HTML page.
type HTMLConfig struct {
	Title      string `yaml:"title"`      // <title> (empty = built-in default)
	Language   string `yaml:"language"`   // lang attribute (empty = built-in default)
	Style      string `yaml:"style"`      // Style name, path or CSS content (empty = default)
	MathJaxURL string `yaml:"mathjaxURL"` // MathJax script (empty = CDN)
	Highlight  string `yaml:"highlight"`  // chroma style name (empty = no highlighting)
}

// DocumentConfig defines options for the word-processing document.
type DocumentConfig struct {
	Title      string  `yaml:"title"`
	Author     string  `yaml:"author"`
	ImageWidth float64 `yaml:"imageWidth"` // inches (0 = default 6)
}

// MathConfig defines math cleanup options.
type MathConfig struct {
	DisableSanitizer bool `yaml:"disableSanitizer"` // Normalizer only
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"input.images", c.Input.Images, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"html.title", c.HTML.Title, MaxTitleLength},
		{"html.language", c.HTML.Language, MaxLanguageLength},
		{"html.mathjaxURL", c.HTML.MathJaxURL, MaxURLLength},
		{"html.highlight", c.HTML.Highlight, MaxNameLength},
		{"document.title", c.Document.Title, MaxTitleLength},
		{"document.author", c.Document.Author, MaxNameLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
	}
	for _, check := range checks {
		if err := validateFieldLength(check.field, check.value, check.max); err != nil {
			return err
		}
	}

	for i, f := range c.Output.Formats {
		if err := validateFieldLength(fmt.Sprintf("output.formats[%d]", i), f, MaxFormatLength); err != nil {
			return err
		}
	}

	if c.HTML.MathJaxURL != "" && !strings.HasPrefix(c.HTML.MathJaxURL, "https://") &&
		!strings.HasPrefix(c.HTML.MathJaxURL, "http://") {
		return fmt.Errorf("%w: html.mathjaxURL must be an http(s) URL, got %q", ErrFieldInvalid, c.HTML.MathJaxURL)
	}

	if w := c.Document.ImageWidth; w != 0 && (w < MinImageWidth || w > MaxImageWidth) {
		return fmt.Errorf("%w: document.imageWidth must be between %.1f and %.1f, got %.2f",
			ErrFieldInvalid, MinImageWidth, MaxImageWidth, w)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: HTML output, embedded
// assets, sanitizer enabled.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Formats: []string{"html"}},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// UserConfigDirName is the directory searched under the user config dir.
const UserConfigDirName = "go-docexport"

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-docexport/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, UserConfigDirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
