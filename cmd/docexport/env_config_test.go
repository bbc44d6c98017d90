package main

// Tests here use t.Setenv, which rules out t.Parallel.

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-docexport/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("DOCEXPORT_CONFIG", "/path/to/config.yaml")
		t.Setenv("DOCEXPORT_STYLE", "academic")
		t.Setenv("DOCEXPORT_TIMEOUT", "2m")
		t.Setenv("DOCEXPORT_INPUT_DIR", "/input")
		t.Setenv("DOCEXPORT_OUTPUT_DIR", "/output")
		t.Setenv("DOCEXPORT_IMAGES", "/images")
		t.Setenv("DOCEXPORT_FORMATS", "docx,latex")
		t.Setenv("DOCEXPORT_AUTHOR", "Survey Team")
		t.Setenv("DOCEXPORT_LANGUAGE", "en")
		t.Setenv("DOCEXPORT_PAGE_SIZE", "a4")
		t.Setenv("DOCEXPORT_WORKERS", "4")

		want := &envConfig{
			ConfigPath: "/path/to/config.yaml",
			Style:      "academic",
			Timeout:    2 * time.Minute,
			InputDir:   "/input",
			OutputDir:  "/output",
			Images:     "/images",
			Formats:    []string{"docx", "latex"},
			Author:     "Survey Team",
			Language:   "en",
			PageSize:   "a4",
			Workers:    4,
		}
		if got := loadEnvConfig(); !reflect.DeepEqual(got, want) {
			t.Errorf("loadEnvConfig() = %+v, want %+v", got, want)
		}
	})

	t.Run("malformed values ignored", func(t *testing.T) {
		t.Setenv("DOCEXPORT_TIMEOUT", "soon")
		t.Setenv("DOCEXPORT_WORKERS", "-2")

		cfg := loadEnvConfig()
		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", cfg.Timeout)
		}
		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0", cfg.Workers)
		}
	})

	t.Run("non-numeric workers ignored", func(t *testing.T) {
		t.Setenv("DOCEXPORT_WORKERS", "many")

		if cfg := loadEnvConfig(); cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0", cfg.Workers)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("DOCEXPORT_STYEL", "academic")
	t.Setenv("DOCEXPORT_STYLE", "academic")
	t.Setenv("DOCEXPORT_CONTAINER", "1")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "unknown environment variable DOCEXPORT_STYEL (typo?)") {
		t.Errorf("typo not reported:\n%s", out)
	}
	if strings.Contains(out, "DOCEXPORT_STYLE ") || strings.Contains(out, "DOCEXPORT_CONTAINER") {
		t.Errorf("known variable reported:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Config values win over the environment
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	env := &envConfig{
		Style:     "academic",
		InputDir:  "/env/in",
		OutputDir: "/env/out",
		Images:    "/env/images",
		Formats:   []string{"pdf"},
		Author:    "Env Author",
		Language:  "fr",
		PageSize:  "legal",
	}

	t.Run("fills empty fields", func(t *testing.T) {
		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		if cfg.HTML.Style != "academic" || cfg.HTML.Language != "fr" {
			t.Errorf("HTML = %+v", cfg.HTML)
		}
		if cfg.Input.DefaultDir != "/env/in" || cfg.Input.Images != "/env/images" {
			t.Errorf("Input = %+v", cfg.Input)
		}
		if cfg.Output.DefaultDir != "/env/out" || !reflect.DeepEqual(cfg.Output.Formats, []string{"pdf"}) {
			t.Errorf("Output = %+v", cfg.Output)
		}
		if cfg.Document.Author != "Env Author" || cfg.Page.Size != "legal" {
			t.Errorf("Document/Page = %+v/%+v", cfg.Document, cfg.Page)
		}
	})

	t.Run("keeps config values", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.HTML.Style = "default"
		cfg.Output.Formats = []string{"docx"}
		cfg.Document.Author = "Config Author"
		applyEnvConfig(env, cfg)

		if cfg.HTML.Style != "default" {
			t.Errorf("Style = %q, want config value", cfg.HTML.Style)
		}
		if !reflect.DeepEqual(cfg.Output.Formats, []string{"docx"}) {
			t.Errorf("Formats = %v, want config value", cfg.Output.Formats)
		}
		if cfg.Document.Author != "Config Author" {
			t.Errorf("Author = %q, want config value", cfg.Document.Author)
		}
	})
}

func TestIsDefaultFormats(t *testing.T) {
	tests := []struct {
		formats []string
		want    bool
	}{
		{nil, true},
		{[]string{"html"}, true},
		{[]string{"html", "pdf"}, false},
		{[]string{"docx"}, false},
	}
	for _, tt := range tests {
		if got := isDefaultFormats(tt.formats); got != tt.want {
			t.Errorf("isDefaultFormats(%v) = %v, want %v", tt.formats, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert_EnvOverrides - Environment reaches the exporter
// ---------------------------------------------------------------------------

func TestRunConvert_EnvOverrides(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	path := writeFile(t, in, "doc.json", sampleContentList)
	t.Setenv("DOCEXPORT_OUTPUT_DIR", out)
	t.Setenv("DOCEXPORT_FORMATS", "docx")
	t.Setenv("DOCEXPORT_AUTHOR", "Env Author")

	env, _, _ := testEnv()
	if err := runConvert(t.Context(), []string{path}, &convertFlags{}, env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	zr, err := zip.OpenReader(filepath.Join(out, "doc.docx"))
	if err != nil {
		t.Fatalf("opening docx: %v", err)
	}
	defer zr.Close()

	core, err := zr.Open("docProps/core.xml")
	if err != nil {
		t.Fatalf("opening core properties: %v", err)
	}
	defer core.Close()
	data, err := io.ReadAll(core)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<dc:creator>Env Author</dc:creator>") {
		t.Errorf("author from environment missing:\n%s", data)
	}
}
