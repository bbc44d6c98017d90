// Package hints turns common failures into one-line advice. A Hint prints as
// "\n  hint: <text>" so it can be appended straight to an error message.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-docexport/internal/fileutil"
)

// Hint is a piece of advice. The zero value prints as nothing.
type Hint string

// String returns the hint with its "\n  hint: " prefix, or "".
func (h Hint) String() string {
	if h == "" {
		return ""
	}
	return "\n  hint: " + string(h)
}

// join combines hints into one, skipping empty ones.
func join(hs ...Hint) Hint {
	parts := make([]string, 0, len(hs))
	for _, h := range hs {
		if h != "" {
			parts = append(parts, string(h))
		}
	}
	return Hint(strings.Join(parts, "; "))
}

// Runtime describes the environment the PDF browser runs in.
type Runtime struct {
	CI              bool
	Container       bool
	ContainerSignal string // what revealed the container
	NoSandbox       bool   // ROD_NO_SANDBOX=1
	BrowserBin      string // ROD_BROWSER_BIN
}

// dockerenv is the marker file Docker creates in every container.
var dockerenv = "/.dockerenv"

var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// Detect reads the Runtime from the process environment.
func Detect() Runtime {
	rt := Runtime{
		NoSandbox:  os.Getenv("ROD_NO_SANDBOX") == "1",
		BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			rt.CI = true
			break
		}
	}

	switch {
	case os.Getenv("DOCEXPORT_CONTAINER") == "1":
		rt.ContainerSignal = "DOCEXPORT_CONTAINER=1"
	case fileutil.FileExists(dockerenv):
		rt.ContainerSignal = dockerenv
	case os.Getenv("container") != "":
		rt.ContainerSignal = "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		rt.ContainerSignal = "KUBERNETES_SERVICE_HOST"
	}
	rt.Container = rt.ContainerSignal != ""
	return rt
}

// Sandboxed reports whether Chrome runs with its sandbox. CI runners and
// containers rarely allow it, and a custom ROD_BROWSER_BIN usually comes
// from a container image, so all of these turn it off.
func (rt Runtime) Sandboxed() bool {
	return !rt.NoSandbox && !rt.CI && !rt.Container && rt.BrowserBin == ""
}

// Browser advises on Chrome launch failures.
func Browser(rt Runtime) Hint {
	var sandbox, bin Hint
	if rt.Sandboxed() {
		sandbox = "set ROD_NO_SANDBOX=1 if Chrome cannot start its sandbox"
	}
	if rt.BrowserBin == "" {
		bin = "set ROD_BROWSER_BIN to use custom Chrome"
	}
	return join(sandbox, bin)
}

// Timeout advises on PDF deadlines. MathJax typesetting dominates the time
// for formula-heavy documents.
func Timeout() Hint {
	return "for large or formula-heavy documents, use --timeout flag"
}

// ConfigNotFound suggests --config, or creating the user config file when
// one of the searched paths is under ~/.config/go-docexport.
func ConfigNotFound(searched []string) Hint {
	h := "use --config /path/to/file.yaml"
	for _, p := range searched {
		if strings.Contains(p, ".config/go-docexport") {
			return Hint(h + " or create " + p)
		}
	}
	return Hint(h)
}

// OutputDirectory advises on output directory creation failures.
func OutputDirectory() Hint {
	return "check parent directory exists and is writable"
}

// Choices lists the accepted values for a named option, e.g. styles or
// formats. Returns "" when there is nothing to list.
func Choices(label string, values []string) Hint {
	if len(values) == 0 {
		return ""
	}
	return Hint(label + ": " + strings.Join(values, ", "))
}

// ImageRoot explains where image references were resolved from.
func ImageRoot(root string) Hint {
	return Hint("images are resolved against " + root + "; use --images to point at the extraction output directory")
}
