package profile

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"base16builder/model"
	"base16builder/plist"
)

// ColorSuffix marks rendered keys whose values are colour triples.
const ColorSuffix = "Color"

// IsColorKey reports whether key ends with the exact, case-sensitive
// suffix "Color".
func IsColorKey(key string) bool {
	return strings.HasSuffix(key, ColorSuffix)
}

// Entry is one key/value pair of a rendered profile fragment.
type Entry struct {
	Key   string
	Raw   string // scalar text as written, escape placeholders intact
	Value plist.Value
}

// escapeRune stands in for ESC while the YAML parser runs. Backslash
// sequences are live in double-quoted scalars, so EscapePlaceholder itself
// cannot pass through; a private-use rune is never interpreted.
const escapeRune = "\uE01B"

// ParseRender parses rendered template text as a YAML mapping, keeping
// document order. ESC bytes come back as EscapePlaceholder in every key
// and value, whatever the scalar style.
func ParseRender(text string) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(strings.ReplaceAll(text, "\x1b", escapeRune)), &doc); err != nil {
		return nil, fmt.Errorf("%w: rendered profile data: %v", model.ErrDocumentParse, err)
	}
	restoreEscapes(&doc)
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: rendered profile data is not a mapping", model.ErrDocumentParse)
	}
	entries := make([]Entry, 0, len(root.Content)/2)
	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if seen[key] {
			return nil, fmt.Errorf("%w: rendered profile data: duplicate key %q", model.ErrDocumentParse, key)
		}
		seen[key] = true
		val := resolveAlias(root.Content[i+1])
		e := Entry{Key: key, Value: nodeValue(val)}
		if val.Kind == yaml.ScalarNode {
			e.Raw = val.Value
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func restoreEscapes(n *yaml.Node) {
	n.Value = strings.ReplaceAll(n.Value, escapeRune, EscapePlaceholder)
	for _, c := range n.Content {
		restoreEscapes(c)
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func nodeValue(n *yaml.Node) plist.Value {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		members := make([]plist.Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			members = append(members, plist.Member{Key: n.Content[i].Value, Value: nodeValue(n.Content[i+1])})
		}
		return plist.DictValue(members...)
	case yaml.SequenceNode:
		items := make([]plist.Value, 0, len(n.Content))
		for _, c := range n.Content {
			items = append(items, nodeValue(c))
		}
		return plist.ArrayValue(items...)
	case yaml.ScalarNode:
		if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
			return plist.StringValue(n.Value)
		}
		if n.Tag == "!!null" {
			return plist.StringValue("")
		}
		return DetectValue(n.Value)
	}
	return plist.StringValue(n.Value)
}

type typeProbe func(s string) (plist.Value, bool)

// probes run in order; the first match decides the node type.
var probes = []typeProbe{
	probeInteger,
	probeReal,
	probeBool,
}

// DetectValue maps an untyped scalar to the nearest property-list type:
// integer, then real, then the literals true/false, else string.
func DetectValue(s string) plist.Value {
	for _, probe := range probes {
		if v, ok := probe(s); ok {
			return v
		}
	}
	return plist.StringValue(s)
}

func probeInteger(s string) (plist.Value, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return plist.Value{}, false
	}
	return plist.IntegerValue(n), true
}

func probeReal(s string) (plist.Value, bool) {
	// ParseFloat also accepts "inf" and "nan"; only numeric literals count.
	if !strings.ContainsAny(s, "0123456789") || strings.ContainsAny(s, "xXpP_") {
		return plist.Value{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return plist.Value{}, false
	}
	return plist.RealValue(f), true
}

func probeBool(s string) (plist.Value, bool) {
	switch s {
	case "true":
		return plist.BoolValue(true), true
	case "false":
		return plist.BoolValue(false), true
	}
	return plist.Value{}, false
}
