package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	docexport "github.com/alnah/go-docexport"
	"github.com/alnah/go-docexport/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput         = errors.New("no input specified")
	ErrNoFiles         = errors.New("no content lists or markdown files found")
	ErrReadInput       = errors.New("failed to read input file")
	ErrReadCSS         = errors.New("failed to read CSS file")
	ErrWriteOutput     = errors.New("failed to write output file")
	ErrCreateOutputDir = errors.New("failed to create output directory")
)

// ConversionResult holds the outcome of a single input.
type ConversionResult struct {
	InputPath string
	Outputs   []string
	Err       error
	Duration  time.Duration
}

// batchParams groups parameters shared by every input of a batch.
type batchParams struct {
	formats   []docexport.Format
	page      *docexport.PageSettings
	imageRoot string // "" = directory of each input
	logger    *log.Logger
}

// convertBatch processes files concurrently using the exporter pool.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *batchParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp := pool.Acquire()
			defer pool.Release(exp)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, exp, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile decodes one input, exports every requested format and writes
// the artifacts.
func convertFile(ctx context.Context, exp CLIExporter, f FileToConvert, params *batchParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: f.InputPath}
	logger := params.logger.With("input", f.InputPath)

	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadInput, err))
	}

	input := docexport.Input{
		Formats: params.formats,
		Page:    params.page,
	}
	switch f.Kind {
	case kindMarkdown:
		doc, err := docexport.ParseMarkdown(ctx, content)
		if err != nil {
			return fail(err)
		}
		input.Blocks = doc.Blocks
		if !doc.Meta.IsZero() {
			input.Meta = &doc.Meta
		}
	default:
		input.Blocks, err = docexport.DecodeContentList(bytes.NewReader(content))
		if err != nil {
			return fail(err)
		}
	}

	imageRoot := params.imageRoot
	if imageRoot == "" {
		imageRoot = filepath.Dir(f.InputPath)
	}
	input.Images = docexport.DirImageLoader(imageRoot)
	logger.Debug("exporting", "blocks", len(input.Blocks), "images", imageRoot)

	res, err := exp.Export(ctx, input)
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputStem), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrCreateOutputDir, err))
	}

	for _, format := range params.formats {
		outputs, err := writeArtifact(f, format, res, imageRoot, logger)
		if err != nil {
			return fail(err)
		}
		result.Outputs = append(result.Outputs, outputs...)
	}

	result.Duration = time.Since(start)
	return result
}

// writeArtifact writes the file for one format and returns the paths it
// created. LaTeX also produces the zip bundle, reading images from imageRoot.
func writeArtifact(f FileToConvert, format docexport.Format, res *docexport.Result, imageRoot string, logger *log.Logger) ([]string, error) {
	path := artifactPath(f.OutputStem, format)

	var data []byte
	switch format {
	case docexport.FormatHTML:
		data = res.HTML
	case docexport.FormatDOCX:
		data = res.DOCX
	case docexport.FormatLaTeX:
		data = res.LaTeX
	case docexport.FormatPDF:
		data = res.PDF
	case docexport.FormatJSON:
		if sameFile(path, f.InputPath) {
			logger.Warn("content list output would overwrite its input, skipped", "path", path)
			return nil, nil
		}
		data = res.JSON
	}

	// #nosec G306 -- exported documents are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if format != docexport.FormatLaTeX {
		return []string{path}, nil
	}

	bundle, err := writeBundle(f.OutputStem, string(res.LaTeX), res.Images, imageRoot, logger)
	if err != nil {
		return nil, err
	}
	return []string{path, bundle}, nil
}

// writeBundle writes <stem>_latex.zip next to the .tex file.
func writeBundle(outputStem, source string, refs []string, imageRoot string, logger *log.Logger) (string, error) {
	name := filepath.Base(outputStem)
	path := filepath.Join(filepath.Dir(outputStem), docexport.BundleName(name))

	file, err := os.Create(path) // #nosec G304 -- derived from the output directory
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	missing, err := docexport.BundleLaTeX(file, name, source, refs, docexport.DirImageLoader(imageRoot))
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: %v", ErrWriteOutput, closeErr)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	for _, ref := range missing {
		logger.Warn("image missing from LaTeX bundle", "image", ref)
	}
	if len(missing) > 0 {
		logger.Info(string(hints.ImageRoot(imageRoot)))
	}
	return path, nil
}

// sameFile reports whether a and b name the same path once cleaned.
func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs conversion results using the environment writers.
// Returns the number of failures.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		for _, out := range r.Outputs {
			if verbose {
				fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, out, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "Created %s\n", out)
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
