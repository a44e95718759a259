// Package theme locates scheme and template sources on disk and loads them
// in build order.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"base16builder/model"
)

// Catalog reads sources below a root directory.
type Catalog struct {
	root string
}

// NewCatalog creates a catalog for the sources root.
func NewCatalog(root string) *Catalog {
	return &Catalog{root: root}
}

// Root returns the sources root.
func (c *Catalog) Root() string { return c.root }

func (c *Catalog) path(rel ...string) string {
	return filepath.Join(append([]string{c.root}, rel...)...)
}

func (c *Catalog) read(rel string) ([]byte, error) {
	data, err := os.ReadFile(c.path(rel))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSourceRead, err)
	}
	return data, nil
}

func (c *Catalog) sourceList(rel string) ([]Source, error) {
	data, err := c.read(rel)
	if err != nil {
		return nil, err
	}
	sources, err := ParseSourceList(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	return sources, nil
}

// Sources returns the top-level sources.yaml entries (the repositories
// holding the scheme and template lists).
func (c *Catalog) Sources() ([]Source, error) {
	return c.sourceList(SourcesFile)
}

// SchemeSources returns the scheme repositories in list order.
func (c *Catalog) SchemeSources() ([]Source, error) {
	return c.sourceList(SchemesList)
}

// TemplateSources returns the template repositories in list order.
func (c *Catalog) TemplateSources() ([]Source, error) {
	return c.sourceList(TemplatesList)
}

// TemplateSpecs loads the config.yaml of a template repository. Paths in
// the returned specs are relative to the catalog root.
func (c *Catalog) TemplateSpecs(src string) ([]model.TemplateFileSpec, error) {
	rel := filepath.Join(TemplatesDir, src, "templates", ConfigFile)
	data, err := c.read(rel)
	if err != nil {
		return nil, err
	}
	specs, err := ParseTemplateConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	tplDir := filepath.Join(TemplatesDir, src, "templates")
	for i := range specs {
		s := &specs[i]
		s.TemplatePath = filepath.Join(tplDir, s.Name+TemplateExt)
		s.OutputDir = filepath.Join(TemplatesDir, src, s.OutputDir)
		if s.ColorProfileTemplate != "" {
			s.ColorProfileTemplate = filepath.Join(tplDir, s.ColorProfileTemplate)
		}
		if s.BaseProfileTemplate != "" {
			s.BaseProfileTemplate = filepath.Join(tplDir, s.BaseProfileTemplate)
		}
	}
	return specs, nil
}

// SchemeFiles returns the scheme files of a scheme repository in lexical
// order, relative to the catalog root.
func (c *Catalog) SchemeFiles(src string) ([]string, error) {
	dir := filepath.Join(SchemesDir, src)
	entries, err := os.ReadDir(c.path(dir))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSourceRead, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// LoadPalette reads and parses a scheme file.
func (c *Catalog) LoadPalette(rel string) (model.Palette, error) {
	data, err := c.read(rel)
	if err != nil {
		return model.Palette{}, err
	}
	p, err := ParseScheme(data)
	if err != nil {
		return model.Palette{}, fmt.Errorf("%s: %w", rel, err)
	}
	return p, nil
}

// Abs resolves a catalog-relative path.
func (c *Catalog) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return c.path(rel)
}
