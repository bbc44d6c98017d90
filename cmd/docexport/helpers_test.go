package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	docexport "github.com/alnah/go-docexport"
)

// mockExporter records inputs and returns a canned result.
type mockExporter struct {
	mu     sync.Mutex
	inputs []docexport.Input
	result *docexport.Result
	err    error
}

func (m *mockExporter) Export(_ context.Context, input docexport.Input) (*docexport.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockPool hands out a single shared exporter.
type mockPool struct {
	exp    CLIExporter
	size   int
	closed bool
}

func (p *mockPool) Acquire() CLIExporter { return p.exp }
func (p *mockPool) Release(CLIExporter)  {}
func (p *mockPool) Size() int            { return p.size }

func (p *mockPool) Close() error {
	p.closed = true
	return nil
}

// testEnv returns an environment writing to buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:     time.Now,
		Stdout:  &stdout,
		Stderr:  &stderr,
		NewPool: newExporterPool,
	}
	return env, &stdout, &stderr
}

// writeFile creates dir/name with content, making parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// sampleContentList references images/fig.png, which tests may or may not
// create.
const sampleContentList = `[
  {"type": "text", "text": "Results", "text_level": 1},
  {"type": "text", "text": "Energy $E = mc^2$ holds."},
  {"type": "equation", "text": "$$\\frac{a}{b}$$"},
  {"type": "image", "img_path": "images/fig.png", "image_caption": ["Figure 1"]}
]`

// pngBytes is a 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
