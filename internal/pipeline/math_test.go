package pipeline

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestMathPipeline - Delimiter extraction and cleanup configurations
// ---------------------------------------------------------------------------

func TestMathPipeline_Extract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		wantBody    string
		wantDisplay bool
	}{
		{"display dollars", "$$x^2 + y^2 = z^2$$", "x^2 + y^2 = z^2", true},
		{"inline parens", `\( a _ 1 \)`, "a_1", false},
		{"undelimited", `\text{f o o}`, `\text{foo}`, false},
		{"empty display", "$$ $$", "", true},
		{"blank", "   ", "", false},
		{"multiline", "$$\na +\nb\n$$", "a + b", true},
	}

	pipelines := []struct {
		name string
		p    *MathPipeline
	}{
		{"with sanitizer", NewMathPipeline()},
		{"normalizer only", NewMathPipeline(WithoutSanitizer())},
	}

	for _, pp := range pipelines {
		for _, tt := range tests {
			t.Run(pp.name+"/"+tt.name, func(t *testing.T) {
				t.Parallel()

				body, display := pp.p.Extract(tt.input)
				if body != tt.wantBody {
					t.Errorf("Extract(%q) body = %q, want %q", tt.input, body, tt.wantBody)
				}
				if display != tt.wantDisplay {
					t.Errorf("Extract(%q) display = %v, want %v", tt.input, display, tt.wantDisplay)
				}
			})
		}
	}
}

func TestMathPipeline_SanitizerStage(t *testing.T) {
	t.Parallel()

	t.Run("default pipeline sanitizes", func(t *testing.T) {
		t.Parallel()

		p := NewMathPipeline()
		if !p.Sanitizing() {
			t.Fatal("Sanitizing() = false, want true")
		}
		if got := p.Clean(`a\ b`); got != `a\b` {
			t.Errorf("Clean() = %q, want %q", got, `a\b`)
		}
	})

	t.Run("normalizer only leaves structure alone", func(t *testing.T) {
		t.Parallel()

		p := NewMathPipeline(WithoutSanitizer())
		if p.Sanitizing() {
			t.Fatal("Sanitizing() = true, want false")
		}
		if got := p.Clean(`a\ b`); got != `a\ b` {
			t.Errorf("Clean() = %q, want %q", got, `a\ b`)
		}
	})

	t.Run("custom sanitizer", func(t *testing.T) {
		t.Parallel()

		p := NewMathPipeline(WithSanitizer(upperSanitizer{}))
		if got := p.Clean("x"); got != "X" {
			t.Errorf("Clean() = %q, want %q", got, "X")
		}
	})

	t.Run("sanitizer skipped for empty body", func(t *testing.T) {
		t.Parallel()

		p := NewMathPipeline(WithSanitizer(upperSanitizer{}))
		if got := p.Clean(" "); got != "" {
			t.Errorf("Clean() = %q, want empty", got)
		}
	})
}

type upperSanitizer struct{}

func (upperSanitizer) Sanitize(expr string) string { return strings.ToUpper(expr) }
