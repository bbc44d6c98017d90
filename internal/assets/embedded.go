package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed styles/*.css templates/*.tmpl
var embedded embed.FS

func readEmbedded(k Kind, name string) ([]byte, error) {
	return embedded.ReadFile(path.Join(k.dir, name+k.ext))
}

// Names lists the embedded asset names of kind k, sorted.
func Names(k Kind) []string {
	entries, err := fs.ReadDir(embedded, k.dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), k.ext); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
