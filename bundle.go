package docexport

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// BundleName returns the archive name for a LaTeX bundle of stem.
func BundleName(stem string) string {
	return stem + "_latex.zip"
}

// BundleLaTeX writes a zip archive holding stem.tex and every image the
// source references, stored under its referenced path so the document
// compiles once extracted. Each image is stored once. Images that cannot
// be loaded, or whose path would leave the archive root, are skipped and
// returned in missing.
func BundleLaTeX(w io.Writer, stem, source string, images []string, loader ImageLoader) (missing []string, err error) {
	zw := zip.NewWriter(w)

	if err := writeZipEntry(zw, stem+".tex", []byte(source)); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, ref := range images {
		name, ok := archivePath(ref)
		if !ok {
			missing = append(missing, ref)
			continue
		}
		if seen[name] {
			continue
		}
		asset, ok := loader.load(ref)
		if !ok {
			missing = append(missing, ref)
			continue
		}
		seen[name] = true
		if err := writeZipEntry(zw, name, asset.Data); err != nil {
			return missing, err
		}
	}

	if err := zw.Close(); err != nil {
		return missing, fmt.Errorf("%w: %v", ErrBundleWrite, err)
	}
	return missing, nil
}

// archivePath cleans a referenced path into a relative, slash-separated
// archive entry name.
func archivePath(ref string) (string, bool) {
	name := path.Clean(strings.ReplaceAll(ref, `\`, "/"))
	if name == "." || path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
		return "", false
	}
	return name, true
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBundleWrite, name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBundleWrite, name, err)
	}
	return nil
}
