package catalog

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/jcmacallan-svg/ww1/internal/ports"
)

//go:embed data/*.yaml
var dataFS embed.FS

// NewEmbeddedSource loads the catalogue datasets shipped with the binary.
func NewEmbeddedSource() (*Source, error) {
	names, err := fs.Glob(dataFS, "data/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("embedded catalogues: glob: %w", err)
	}

	catalogs := make([]*ports.Catalog, 0, len(names))
	for _, name := range names {
		data, err := dataFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("embedded catalogues: read %s: %w", name, err)
		}
		cat, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("embedded catalogues: %s: %w", name, err)
		}
		catalogs = append(catalogs, cat)
	}
	return NewSource(catalogs...)
}
