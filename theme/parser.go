package theme

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"base16builder/model"
	"base16builder/palette"
)

// Field is one key of a YAML mapping, in document order.
type Field struct {
	Key  string
	Node *yaml.Node
}

// ParseMapping parses a YAML document whose root is a mapping and returns
// its fields in order. An empty document yields no fields.
func ParseMapping(data []byte) ([]Field, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDocumentParse, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: document root is not a mapping", model.ErrDocumentParse)
	}
	fields := make([]Field, 0, len(root.Content)/2)
	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate key %q at line %d", model.ErrDocumentParse, key, root.Content[i].Line)
		}
		seen[key] = true
		fields = append(fields, Field{Key: key, Node: root.Content[i+1]})
	}
	return fields, nil
}

// ParseSourceList parses a "name: url" list.
func ParseSourceList(data []byte) ([]Source, error) {
	fields, err := ParseMapping(data)
	if err != nil {
		return nil, err
	}
	sources := make([]Source, 0, len(fields))
	for _, f := range fields {
		if f.Node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: source %q: want a url", model.ErrDocumentParse, f.Key)
		}
		sources = append(sources, Source{Name: f.Key, URL: f.Node.Value})
	}
	return sources, nil
}

// ParseScheme parses a scheme source into a palette. Scalar text is used
// as written, so unquoted colours such as 000000 keep their digits.
func ParseScheme(data []byte) (model.Palette, error) {
	fields, err := ParseMapping(data)
	if err != nil {
		return model.Palette{}, err
	}
	flat := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.Node.Kind == yaml.ScalarNode {
			flat[f.Key] = f.Node.Value
		}
	}
	return palette.FromSource(flat)
}

// ParseTemplateConfig parses a template config.yaml into specs, in file
// order. Paths are left for the caller to resolve.
func ParseTemplateConfig(data []byte) ([]model.TemplateFileSpec, error) {
	fields, err := ParseMapping(data)
	if err != nil {
		return nil, err
	}
	specs := make([]model.TemplateFileSpec, 0, len(fields))
	for _, f := range fields {
		var spec model.TemplateFileSpec
		if err := f.Node.Decode(&spec); err != nil {
			return nil, fmt.Errorf("%w: template %q: %v", model.ErrDocumentParse, f.Key, err)
		}
		spec.Name = f.Key
		specs = append(specs, spec)
	}
	return specs, nil
}
