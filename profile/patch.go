package profile

import (
	"context"
	"fmt"

	"base16builder/model"
	"base16builder/plist"
)

// Patcher merges rendered entries into a profile accumulator.
type Patcher struct {
	enc Encoder
}

// NewPatcher returns a Patcher that converts colour objects with enc.
func NewPatcher(enc Encoder) *Patcher {
	return &Patcher{enc: enc}
}

// Patch applies entries to the base document in order. Existing keys are
// overwritten in place; absent keys are appended. Keys ending in "Color"
// are replaced by a binary colour archive built from the colour scratch
// template. On error the base document is left as it was.
func (p *Patcher) Patch(ctx context.Context, prof *Profiles, entries []Entry) error {
	doc, err := p.patched(ctx, prof, entries)
	if err != nil {
		return err
	}
	prof.base = doc
	return nil
}

// patched applies entries to a copy of the base document.
func (p *Patcher) patched(ctx context.Context, prof *Profiles, entries []Entry) (*plist.Document, error) {
	doc := prof.Base().Clone()
	root := doc.Root()
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v := e.Value
		if IsColorKey(e.Key) {
			blob, err := p.encodeColor(ctx, prof, e)
			if err != nil {
				return nil, err
			}
			v = plist.DataValue(blob)
		}
		if id, ok := doc.Get(root, e.Key); ok {
			if err := doc.SetValue(id, v); err != nil {
				return nil, fmt.Errorf("set %s: %w", e.Key, err)
			}
			continue
		}
		if _, err := doc.Add(root, e.Key, v); err != nil {
			return nil, fmt.Errorf("add %s: %w", e.Key, err)
		}
	}
	return doc, nil
}

func (p *Patcher) encodeColor(ctx context.Context, prof *Profiles, e Entry) ([]byte, error) {
	if !e.Value.Kind.Scalar() {
		return nil, fmt.Errorf("%w: %s: colour value must be a scalar", model.ErrDocumentParse, e.Key)
	}
	scratch, field, err := prof.scratch()
	if err != nil {
		return nil, err
	}
	// NSRGB keeps the kind it has in the template (data in Terminal
	// profiles).
	v := plist.StringValue(e.Raw)
	if scratch.Kind(field) == plist.Data {
		v = plist.DataValue(Unescape([]byte(e.Raw)))
	}
	if err := scratch.SetValue(field, v); err != nil {
		return nil, err
	}
	xml, err := scratch.Marshal(plist.XMLFormat)
	if err != nil {
		return nil, err
	}
	blob, err := p.enc.EncodeBinary(ctx, xml)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Key, err)
	}
	return blob, nil
}

// Apply parses rendered text, patches it into the base document and
// returns the serialised XML profile with ESC bytes restored. The base
// document only takes the changes when every step succeeds.
func (p *Patcher) Apply(ctx context.Context, prof *Profiles, rendered string) ([]byte, error) {
	entries, err := ParseRender(rendered)
	if err != nil {
		return nil, err
	}
	doc, err := p.patched(ctx, prof, entries)
	if err != nil {
		return nil, err
	}
	out, err := doc.Marshal(plist.XMLFormat)
	if err != nil {
		return nil, err
	}
	if _, err := plist.Parse(out); err != nil {
		return nil, fmt.Errorf("%w: patched profile does not parse: %v", model.ErrProfileInvariant, err)
	}
	prof.base = doc
	return Unescape(out), nil
}
