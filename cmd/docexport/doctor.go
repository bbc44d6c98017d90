package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	docexport "github.com/alnah/go-docexport"
	"github.com/alnah/go-docexport/internal/hints"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

type doctorResult struct {
	Status   string        `json:"status"`
	Chrome   chromeInfo    `json:"chrome"`
	Env      envInfo       `json:"environment"`
	Backends []backendInfo `json:"backends"`
	System   systemInfo    `json:"system"`
	Warnings []string      `json:"warnings,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
}

type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS              string `json:"os"`
	Arch            string `json:"arch"`
	Container       bool   `json:"container"`
	ContainerSignal string `json:"container_signal,omitempty"`
	CI              bool   `json:"ci"`
	NoSandbox       bool   `json:"rod_no_sandbox"`
	BrowserBin      string `json:"rod_browser_bin,omitempty"`
}

// backendInfo is the outcome of rendering the sample document in one format.
type backendInfo struct {
	Format string `json:"format"`
	OK     bool   `json:"ok"`
	Bytes  int    `json:"bytes,omitempty"`
	Error  string `json:"error,omitempty"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorSample touches every block kind the offline backends handle.
var doctorSample = []docexport.Block{
	docexport.TextBlock{Body: "Doctor", Level: 1},
	docexport.TextBlock{Body: "Inline $a^2+b^2=c^2$ math."},
	docexport.EquationBlock{Body: `$$\frac{1}{2}\sum_{i=1}^{n} x_i$$`},
	docexport.ListBlock{Items: []string{"1. one", "2. two"}},
	docexport.TableBlock{HTMLBody: "<table><tr><td>a</td><td>b</td></tr></table>"},
	docexport.CodeBlock{Body: "x := 1", Language: "go"},
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Only PDF output needs Chrome, so a missing browser is reported but the
// offline formats are still checked.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		default:
			fmt.Fprintf(env.Stderr, "unknown doctor flag: %s\n", arg)
			return ExitUsage
		}
	}

	result := runDoctor(context.Background(), hints.Detect(), launcher.LookPath)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitBrowser
	}
	return ExitSuccess
}

func runDoctor(ctx context.Context, rt hints.Runtime, lookPath func() (string, bool)) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:              runtime.GOOS,
			Arch:            runtime.GOARCH,
			Container:       rt.Container,
			ContainerSignal: rt.ContainerSignal,
			CI:              rt.CI,
			NoSandbox:       rt.NoSandbox,
			BrowserBin:      rt.BrowserBin,
		},
	}

	checkChrome(result, rt, lookPath)
	checkBackends(ctx, result)
	checkSystem(result)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	}
	return result
}

// checkChrome locates Chrome through ROD_BROWSER_BIN or lookPath.
func checkChrome(result *doctorResult, rt hints.Runtime, lookPath func() (string, bool)) {
	path := rt.BrowserBin
	if path == "" {
		var found bool
		if path, found = lookPath(); !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found; PDF output is unavailable"+hints.Browser(rt).String())
			return
		}
	}

	if _, err := os.Stat(path); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s", path))
		return
	}

	result.Chrome = chromeInfo{Found: true, Path: path, Sandbox: rt.Sandboxed()}

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser path from env or rod lookup
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

// checkBackends renders doctorSample in every format that works without a
// browser.
func checkBackends(ctx context.Context, result *doctorResult) {
	formats := []docexport.Format{docexport.FormatHTML, docexport.FormatDOCX, docexport.FormatLaTeX, docexport.FormatJSON}

	exporter, err := docexport.NewExporter()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Exporter setup failed: %v", err))
		return
	}
	defer func() { _ = exporter.Close() }()

	for _, f := range formats {
		info := backendInfo{Format: string(f)}
		res, err := exporter.Export(ctx, docexport.Input{Blocks: doctorSample, Formats: []docexport.Format{f}})
		if err != nil {
			info.Error = err.Error()
			result.Errors = append(result.Errors, fmt.Sprintf("%s export failed: %v", f, err))
		} else {
			info.OK = true
			info.Bytes = len(res.HTML) + len(res.DOCX) + len(res.LaTeX) + len(res.JSON)
		}
		result.Backends = append(result.Backends, info)
	}
}

// checkSystem verifies the temp directory used to hand HTML to Chrome.
func checkSystem(result *doctorResult) {
	dir := os.TempDir()
	probe := filepath.Join(dir, "docexport-doctor-test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", dir))
		return
	}
	_ = os.Remove(probe)
	result.System.TempWritable = true
}

// printDoctorResult writes the human-readable report.
func printDoctorResult(w io.Writer, r *doctorResult) {
	line := func(level, format string, args ...any) {
		fmt.Fprintf(w, "  [%s] %s\n", level, fmt.Sprintf(format, args...))
	}

	fmt.Fprintln(w, "docexport doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (PDF output)")
	switch {
	case !r.Chrome.Found:
		line("ERROR", "Not found")
	default:
		line("OK", "Found at %s", r.Chrome.Path)
		if r.Chrome.Version != "" {
			line("OK", "Version: %s", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			line("OK", "Sandbox: enabled")
		} else {
			line("OK", "Sandbox: disabled (CI, container, ROD_NO_SANDBOX or ROD_BROWSER_BIN)")
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	line("OK", "Platform: %s/%s", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		line("OK", "Container: detected (%s)", r.Env.ContainerSignal)
	}
	if r.Env.CI {
		line("OK", "CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Backends) > 0 {
		fmt.Fprintln(w, "Offline formats")
		for _, b := range r.Backends {
			if b.OK {
				line("OK", "%s: %d bytes", b.Format, b.Bytes)
			} else {
				line("ERROR", "%s: %s", b.Format, b.Error)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		line("OK", "Temp directory: writable")
	} else {
		line("ERROR", "Temp directory: not writable")
	}
	fmt.Fprintln(w)

	for _, group := range []struct {
		title, level string
		items        []string
	}{
		{"Warnings:", "WARN", r.Warnings},
		{"Errors:", "ERROR", r.Errors},
	} {
		if len(group.items) == 0 {
			continue
		}
		fmt.Fprintln(w, group.title)
		for _, item := range group.items {
			line(group.level, "%s", item)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to export")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		if r.Chrome.Found {
			fmt.Fprintln(w, "Status: Not ready (see errors above)")
		} else {
			fmt.Fprintln(w, "Status: HTML, DOCX and LaTeX only (see errors above)")
		}
	}
}
