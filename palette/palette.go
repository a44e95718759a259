// Package palette builds model.Palette values from scheme sources and
// derives the template variable set from them.
package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"base16builder/model"
	"base16builder/render"
)

// FromSource builds a palette from a flat scheme mapping with keys
// scheme, author and base00..base0F.
func FromSource(fields map[string]string) (model.Palette, error) {
	name := strings.TrimSpace(fields["scheme"])
	if name == "" {
		return model.Palette{}, fmt.Errorf("%w: missing scheme name", model.ErrDocumentParse)
	}
	p := model.Palette{
		Name:   name,
		Author: strings.TrimSpace(fields["author"]),
		Slug:   Slug(name),
	}
	for i, key := range model.ColorNames {
		raw, ok := fields[key]
		if !ok {
			return model.Palette{}, fmt.Errorf("%w: missing %s", model.ErrDocumentParse, key)
		}
		c, err := parseColor(key, raw)
		if err != nil {
			return model.Palette{}, err
		}
		p.Colors[i] = c
	}
	return p, nil
}

func parseColor(name, raw string) (model.Color, error) {
	hex := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if len(hex) != 6 {
		return model.Color{}, fmt.Errorf("%w: %s: want 6 hex digits, got %q", model.ErrDocumentParse, name, raw)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return model.Color{}, fmt.Errorf("%w: %s: %v", model.ErrDocumentParse, name, err)
	}
	r, g, b := c.RGB255()
	return model.Color{Name: name, Hex: hex, R: r, G: g, B: b}, nil
}

// Slug returns the lower-kebab-case identifier for a scheme name.
func Slug(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			dash = false
			sb.WriteRune(r)
			continue
		}
		dash = true
	}
	return sb.String()
}

// Variables returns the template variables for p.
func Variables(p model.Palette) *render.Vars {
	v := render.NewVars()
	v.Set("scheme-name", p.Name)
	v.Set("scheme-author", p.Author)
	v.Set("scheme-slug", p.Slug)
	for _, c := range p.Colors {
		v.Set(c.Name+"-hex", c.Hex)
		v.Set(c.Name+"-hex-r", c.Hex[0:2])
		v.Set(c.Name+"-hex-g", c.Hex[2:4])
		v.Set(c.Name+"-hex-b", c.Hex[4:6])
		v.Set(c.Name+"-hex-bgr", c.Hex[4:6]+c.Hex[2:4]+c.Hex[0:2])
		v.Set(c.Name+"-rgb-r", strconv.Itoa(int(c.R)))
		v.Set(c.Name+"-rgb-g", strconv.Itoa(int(c.G)))
		v.Set(c.Name+"-rgb-b", strconv.Itoa(int(c.B)))
		v.Set(c.Name+"-dec-r", decimal(c.R))
		v.Set(c.Name+"-dec-g", decimal(c.G))
		v.Set(c.Name+"-dec-b", decimal(c.B))
	}
	return v
}

// decimal formats an 8-bit component as a fraction of 255.
func decimal(c uint8) string {
	s := strconv.FormatFloat(float64(c)/255, 'f', 8, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
