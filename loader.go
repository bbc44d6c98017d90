package docexport

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docexport/internal/fileutil"
)

// OpenImage reads the image at rel inside root and detects its MIME type.
// Paths leaving root return ErrPathTraversal; missing files return
// ErrImageNotFound.
func OpenImage(root, rel string) (*RenderAsset, error) {
	path, err := fileutil.ResolveWithin(root, rel)
	if err != nil {
		if errors.Is(err, fileutil.ErrPathEscape) {
			return nil, fmt.Errorf("%w: %v", ErrPathTraversal, err)
		}
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- contained in root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, rel)
		}
		return nil, fmt.Errorf("reading image %q: %w", rel, err)
	}

	return &RenderAsset{
		Name: filepath.Base(path),
		Data: data,
		MIME: detectMIME(path, data),
	}, nil
}

// DirImageLoader resolves image paths relative to root. Paths escaping root
// and unreadable files are reported as unavailable.
func DirImageLoader(root string) ImageLoader {
	return func(path string) (*RenderAsset, bool) {
		asset, err := OpenImage(root, path)
		if err != nil {
			return nil, false
		}
		return asset, true
	}
}

// detectMIME sniffs data, falling back to the file extension for formats
// sniffing does not recognize (SVG is sniffed as XML).
func detectMIME(path string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		return byExt
	}
	return sniffed
}
