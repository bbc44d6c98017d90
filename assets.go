package docexport

import (
	"errors"

	"github.com/alnah/go-docexport/internal/assets"
)

// Built-in asset names.
const (
	DefaultStyle     = assets.DefaultStyleName
	TemplatePage     = assets.PageTemplate
	TemplateMathJax  = assets.MathJaxTemplate
	TemplatePreamble = assets.PreambleTemplate
)

// StyleNames lists the built-in style names accepted by WithStyle.
func StyleNames() []string {
	return assets.Names(assets.Style)
}

// AssetLoader supplies stylesheets and templates by name.
//
// NewAssetLoader covers directory-based overrides; implement the interface
// to serve assets from elsewhere.
type AssetLoader interface {
	// LoadStyle returns the CSS called name (without .css), or an error
	// matching ErrStyleNotFound.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns the template called name (without .tmpl):
	// "page", "mathjax" or "preamble". Unknown names match
	// ErrTemplateNotFound.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader returns an AssetLoader that reads styles/{name}.css and
// templates/{name}.tmpl under basePath, falling back to the built-in copies
// for files basePath does not provide. An empty basePath serves built-ins
// only.
//
// Returns ErrInvalidAssetPath if basePath is not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	set, err := assets.NewSet(basePath)
	if err != nil {
		return nil, publicAssetError(err)
	}
	return assetSet{set}, nil
}

// WithAssetLoader sets a custom asset loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(e *Exporter) {
		e.assetLoader = loader
	}
}

type assetSet struct {
	set *assets.Set
}

func (a assetSet) LoadStyle(name string) (string, error) {
	css, err := a.set.LoadStyle(name)
	return css, publicAssetError(err)
}

func (a assetSet) LoadTemplate(name string) (string, error) {
	tmpl, err := a.set.LoadTemplate(name)
	return tmpl, publicAssetError(err)
}

// assetError keeps the internal message while matching a public sentinel.
type assetError struct {
	public error
	cause  error
}

func (e *assetError) Error() string { return e.cause.Error() }
func (e *assetError) Unwrap() error { return e.public }

func publicAssetError(err error) error {
	var public error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, assets.ErrStyleNotFound), errors.Is(err, assets.ErrInvalidName):
		public = ErrStyleNotFound
	case errors.Is(err, assets.ErrTemplateNotFound):
		public = ErrTemplateNotFound
	case errors.Is(err, assets.ErrInvalidBasePath), errors.Is(err, assets.ErrAssetRead):
		public = ErrInvalidAssetPath
	default:
		return err
	}
	return &assetError{public: public, cause: err}
}
