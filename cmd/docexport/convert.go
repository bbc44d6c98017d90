package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	docexport "github.com/alnah/go-docexport"
	"github.com/alnah/go-docexport/internal/config"
)

// ErrInvalidTimeout is returned for a timeout that is not a positive duration.
var ErrInvalidTimeout = errors.New("invalid timeout")

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	logger := env.logger()

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()

	// Load configuration
	cfg := config.DefaultConfig()
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName != "" {
		loaded, err := config.LoadConfig(configName)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		logger.Debug("loaded config", "name", configName)
	}

	// Precedence: CLI flags > config file > env vars > defaults
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	formats, err := docexport.ParseFormats(cfg.Output.Formats...)
	if err != nil {
		return err
	}
	if len(formats) == 0 {
		formats = []docexport.Format{docexport.FormatHTML}
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	page, err := buildPageSettings(cfg)
	if err != nil {
		return err
	}

	opts, err := buildExporterOptions(cfg, flags.assets.css, timeout, logger)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoFiles, inputPath)
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	size := min(docexport.ResolvePoolSize(workers), len(files))
	logger.Debug("starting batch", "files", len(files), "workers", size, "formats", formats)

	pool, err := env.NewPool(size, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing exporter pool", "err", err)
		}
	}()

	results := convertBatch(ctx, pool, files, &batchParams{
		formats:   formats,
		page:      page,
		imageRoot: cfg.Input.Images,
		logger:    logger,
	})

	if failed := printResults(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstError(results))
	}
	return nil
}

// firstError returns the first failure in results.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Content flags
	if len(flags.content.formats) > 0 {
		cfg.Output.Formats = flags.content.formats
	}
	if flags.content.images != "" {
		cfg.Input.Images = flags.content.images
	}
	if flags.content.title != "" {
		cfg.Document.Title = flags.content.title
	}
	if flags.content.author != "" {
		cfg.Document.Author = flags.content.author
	}
	if flags.content.language != "" {
		cfg.HTML.Language = flags.content.language
	}
	if flags.content.imageWidth > 0 {
		cfg.Document.ImageWidth = flags.content.imageWidth
	}
	if flags.content.noSanitizer {
		cfg.Math.DisableSanitizer = true
	}

	// HTML flags
	if flags.html.mathJaxURL != "" {
		cfg.HTML.MathJaxURL = flags.html.mathJaxURL
	}
	if flags.html.highlight != "" {
		cfg.HTML.Highlight = flags.html.highlight
	}

	// Asset flags
	if flags.assets.style != "" {
		cfg.HTML.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin > 0 {
		cfg.Page.Margin = flags.page.margin
	}
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// resolveTimeout parses the --timeout flag, falling back to the
// environment value. Zero means the library default.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// buildPageSettings creates docexport.PageSettings from config.
// Returns nil when nothing is configured so the library defaults apply.
func buildPageSettings(cfg *config.Config) (*docexport.PageSettings, error) {
	if cfg.Page.Size == "" && cfg.Page.Orientation == "" && cfg.Page.Margin == 0 {
		return nil, nil
	}

	ps := docexport.DefaultPageSettings()
	if cfg.Page.Size != "" {
		ps.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		ps.Orientation = cfg.Page.Orientation
	}
	if cfg.Page.Margin != 0 {
		ps.Margin = cfg.Page.Margin
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// buildExporterOptions translates the merged config into exporter options.
// cssFile is read here so a missing file fails before any browser starts.
func buildExporterOptions(cfg *config.Config, cssFile string, timeout time.Duration, logger *log.Logger) ([]docexport.Option, error) {
	opts := []docexport.Option{docexport.WithLogger(logger)}

	title := cfg.Document.Title
	if title == "" {
		title = cfg.HTML.Title
	}
	if title != "" {
		opts = append(opts, docexport.WithTitle(title))
	}
	if cfg.Document.Author != "" {
		opts = append(opts, docexport.WithAuthor(cfg.Document.Author))
	}
	if cfg.HTML.Language != "" {
		opts = append(opts, docexport.WithLanguage(cfg.HTML.Language))
	}
	if cfg.HTML.Style != "" {
		opts = append(opts, docexport.WithStyle(cfg.HTML.Style))
	}
	if cfg.HTML.MathJaxURL != "" {
		opts = append(opts, docexport.WithMathJaxURL(cfg.HTML.MathJaxURL))
	}
	if cfg.HTML.Highlight != "" {
		opts = append(opts, docexport.WithCodeHighlighting(cfg.HTML.Highlight))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, docexport.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Document.ImageWidth > 0 {
		opts = append(opts, docexport.WithImageWidth(cfg.Document.ImageWidth))
	}
	if cfg.Math.DisableSanitizer {
		opts = append(opts, docexport.WithoutSanitizer())
	}
	if timeout > 0 {
		opts = append(opts, docexport.WithTimeout(timeout))
	}

	if cssFile != "" {
		content, err := os.ReadFile(cssFile) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		opts = append(opts, docexport.WithCSS(string(content)))
	}

	return opts, nil
}

// configSearchPaths extracts the locations listed by a config lookup error.
func configSearchPaths(err error) []string {
	_, tried, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(tried, ", ")
}
