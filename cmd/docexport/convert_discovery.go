package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	docexport "github.com/alnah/go-docexport"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must be a .json content list or a .md/.markdown file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// contentListSuffix marks extraction output files in a directory walk.
const contentListSuffix = "_content_list.json"

// inputKind tells how an input file is decoded.
type inputKind int

const (
	kindContentList inputKind = iota
	kindMarkdown
)

// FileToConvert represents a single input to process.
type FileToConvert struct {
	InputPath  string
	OutputStem string // output path without extension
	Kind       inputKind
}

// discoverFiles finds every input to convert. A file argument may be any
// .json content list or markdown file; a directory walk only picks
// *_content_list.json and markdown files so sibling extraction artifacts
// are skipped.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		kind, err := kindOf(inputPath)
		if err != nil {
			return nil, err
		}
		return []FileToConvert{{
			InputPath:  inputPath,
			OutputStem: resolveOutputStem(inputPath, outputDir, ""),
			Kind:       kind,
		}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		var kind inputKind
		switch {
		case strings.HasSuffix(path, contentListSuffix):
			kind = kindContentList
		case looksLikeMarkdown(path):
			kind = kindMarkdown
		default:
			return nil
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputStem: resolveOutputStem(path, outputDir, inputPath),
			Kind:       kind,
		})
		return nil
	})

	return files, err
}

// kindOf classifies a file argument by extension.
func kindOf(path string) (inputKind, error) {
	switch {
	case filepath.Ext(path) == ".json":
		return kindContentList, nil
	case looksLikeMarkdown(path):
		return kindMarkdown, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
}

// looksLikeMarkdown reports whether path has a .md or .markdown extension.
// Case sensitive.
func looksLikeMarkdown(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".md" || ext == ".markdown"
}

// stem returns the base name without extension and without the
// _content_list suffix extraction tools append.
func stem(path string) string {
	base := filepath.Base(path)
	if s, ok := strings.CutSuffix(base, contentListSuffix); ok && s != "" {
		return s
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// resolveOutputStem determines where artifacts for inputPath are written.
// Without an output directory they land next to the input; for a directory
// walk the relative layout under baseInputDir is kept.
func resolveOutputStem(inputPath, outputDir, baseInputDir string) string {
	name := stem(inputPath)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > docexport.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, docexport.MaxPoolSize)
	}
	return nil
}

// artifactPath returns the output file for format f.
func artifactPath(outputStem string, f docexport.Format) string {
	switch f {
	case docexport.FormatLaTeX:
		return outputStem + ".tex"
	case docexport.FormatJSON:
		return outputStem + contentListSuffix
	default:
		return outputStem + "." + string(f)
	}
}
