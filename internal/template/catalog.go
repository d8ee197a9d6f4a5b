package template

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"
)

//go:embed all:templates
var templatesFS embed.FS

const templatesRoot = "templates"

var builtins = []struct {
	lang        Language
	description string
	source      string
}{
	{C, "C library with header, source and assert-based test", "src/hello.c"},
	{CXX, "C++ library with namespaced header, source and test", "src/hello.cpp"},
	{Python, "Python package with pytest test", "src/__NAME__/main.py"},
}

// Catalog is the set of built-in templates.
type Catalog struct {
	templates map[Language]*Template
}

// LoadCatalog reads the embedded templates.
func LoadCatalog() (*Catalog, error) {
	return loadCatalog(templatesFS, templatesRoot)
}

func loadCatalog(fsys fs.FS, root string) (*Catalog, error) {
	c := &Catalog{templates: make(map[Language]*Template)}

	for _, b := range builtins {
		dir := path.Join(root, string(b.lang))

		var files []File
		err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return err
			}
			files = append(files, File{
				Path:    p[len(dir)+1:],
				Content: string(data),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load %s template: %w", b.lang, err)
		}

		slices.SortFunc(files, func(a, b File) int {
			return strings.Compare(a.Path, b.Path)
		})

		t := &Template{
			Language:    b.lang,
			Description: b.description,
			Source:      b.source,
			Files:       files,
		}
		if _, ok := t.File(t.Source); !ok {
			return nil, fmt.Errorf("%s template has no source file %q", b.lang, t.Source)
		}
		c.templates[b.lang] = t
	}

	return c, nil
}

// Get returns the template for lang.
func (c *Catalog) Get(lang Language) (*Template, bool) {
	t, ok := c.templates[lang]
	return t, ok
}

// Languages returns the available languages, sorted.
func (c *Catalog) Languages() []Language {
	return slices.Sorted(maps.Keys(c.templates))
}

// Templates returns the templates keyed by language. The map is shared
// with the catalog.
func (c *Catalog) Templates() map[Language]*Template {
	return c.templates
}
