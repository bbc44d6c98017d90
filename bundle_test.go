package docexport

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"slices"
	"testing"
)

// ---------------------------------------------------------------------------
// TestBundleLaTeX - Zip Layout
// ---------------------------------------------------------------------------

func TestBundleLaTeX(t *testing.T) {
	t.Parallel()

	loader := staticImages(map[string]*RenderAsset{
		"images/a.png": testPNG,
		"images/b.jpg": {Name: "b.jpg", Data: []byte("jpeg"), MIME: "image/jpeg"},
	})
	refs := []string{"images/a.png", `images\b.jpg`, "images/a.png", "images/gone.png", "../secret.png", "/etc/passwd"}

	var buf bytes.Buffer
	missing, err := BundleLaTeX(&buf, "paper", `\documentclass{article}`, refs, func(p string) (*RenderAsset, bool) {
		if p == `images\b.jpg` {
			p = "images/b.jpg"
		}
		return loader(p)
	})
	if err != nil {
		t.Fatalf("BundleLaTeX() error = %v", err)
	}

	wantMissing := []string{"images/gone.png", "../secret.png", "/etc/passwd"}
	if !slices.Equal(missing, wantMissing) {
		t.Errorf("missing = %v, want %v", missing, wantMissing)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	wantNames := []string{"paper.tex", "images/a.png", "images/b.jpg"}
	if !slices.Equal(names, wantNames) {
		t.Errorf("entries = %v, want %v", names, wantNames)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open paper.tex: %v", err)
	}
	defer rc.Close()
	source, _ := io.ReadAll(rc)
	if string(source) != `\documentclass{article}` {
		t.Errorf("paper.tex = %q", source)
	}
}

func TestBundleLaTeX_WriteError(t *testing.T) {
	t.Parallel()

	_, err := BundleLaTeX(failingWriter{}, "paper", "x", nil, nil)
	if !errors.Is(err, ErrBundleWrite) {
		t.Errorf("BundleLaTeX() error = %v, want ErrBundleWrite", err)
	}
}

func TestBundleName(t *testing.T) {
	t.Parallel()

	if got := BundleName("report"); got != "report_latex.zip" {
		t.Errorf("BundleName() = %q, want %q", got, "report_latex.zip")
	}
}

func TestArchivePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref    string
		want   string
		wantOK bool
	}{
		{"images/a.png", "images/a.png", true},
		{"./images/../images/a.png", "images/a.png", true},
		{`images\a.png`, "images/a.png", true},
		{"../a.png", "", false},
		{"/abs.png", "", false},
		{".", "", false},
		{"..", "", false},
	}

	for _, tt := range tests {
		got, ok := archivePath(tt.ref)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("archivePath(%q) = %q, %v; want %q, %v", tt.ref, got, ok, tt.want, tt.wantOK)
		}
	}
}
