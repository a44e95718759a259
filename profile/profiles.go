// Package profile patches rendered key/value data into terminal profile
// property lists.
package profile

import (
	"errors"
	"fmt"
	"os"

	"base16builder/model"
	"base16builder/plist"
)

// ColorObject is the object-pool index holding the active colour.
const ColorObject = 1

// ColorField is the field of the colour object that carries the
// component triple.
const ColorField = "NSRGB"

// Profiles is the per-spec accumulator: the base profile being patched and
// the colour scratch template. The base document is mutated across every
// palette processed for one spec; Reset reloads both from disk.
type Profiles struct {
	BasePath  string
	ColorPath string

	base  *plist.Document
	color *plist.Document
}

// Load reads the base and colour scratch documents.
func Load(basePath, colorPath string) (*Profiles, error) {
	p := &Profiles{BasePath: basePath, ColorPath: colorPath}
	if err := p.Reset(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reset reloads both documents from their paths, discarding every change
// made since the last load.
func (p *Profiles) Reset() error {
	base, err := loadBase(p.BasePath)
	if err != nil {
		return err
	}
	color, err := loadDocument(p.ColorPath)
	if err != nil {
		return err
	}
	if _, err := colorField(color); err != nil {
		return fmt.Errorf("%s: %w", p.ColorPath, err)
	}
	p.base, p.color = base, color
	return nil
}

// CheckBase reports whether path holds a usable base profile.
func CheckBase(path string) error {
	_, err := loadBase(path)
	return err
}

func loadBase(path string) (*plist.Document, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	if k := doc.Kind(doc.Root()); k != plist.Dict {
		return nil, fmt.Errorf("%w: %s: root is %s, want dict", model.ErrProfileInvariant, path, k)
	}
	return doc, nil
}

// Base returns the working base document.
func (p *Profiles) Base() *plist.Document { return p.base }

// scratch returns a fresh copy of the colour template and the handle of its
// NSRGB field. Every colour key starts from the template as loaded, never
// from a previously patched value.
func (p *Profiles) scratch() (*plist.Document, plist.NodeID, error) {
	doc := p.color.Clone()
	id, err := colorField(doc)
	if err != nil {
		return nil, plist.NoNode, err
	}
	return doc, id, nil
}

func colorField(doc *plist.Document) (plist.NodeID, error) {
	obj, err := doc.Object(ColorObject)
	if err != nil {
		return plist.NoNode, fmt.Errorf("%w: %v", model.ErrProfileInvariant, err)
	}
	if doc.Kind(obj) != plist.Dict {
		return plist.NoNode, fmt.Errorf("%w: %s[%d] is %s, want dict", model.ErrProfileInvariant, plist.ObjectsKey, ColorObject, doc.Kind(obj))
	}
	id, ok := doc.Get(obj, ColorField)
	if !ok {
		return plist.NoNode, fmt.Errorf("%w: %s[%d] has no %s", model.ErrProfileInvariant, plist.ObjectsKey, ColorObject, ColorField)
	}
	return id, nil
}

// loadDocument reads a property list, escaping ESC bytes before parsing.
func loadDocument(path string) (*plist.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrSourceRead, path, err)
	}
	doc, err := plist.Parse(Escape(data))
	if err != nil {
		var pe *plist.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return doc, nil
}
