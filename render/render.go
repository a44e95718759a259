// Package render implements the flat tag-substitution template language
// used by theme templates.
//
// Supported tags:
//
//	{{name}}     value of name, HTML-escaped
//	{{{name}}}   value of name, raw
//	{{&name}}    value of name, raw
//	{{! text}}   comment, removed
//
// Unknown names render as the empty string. Section, inverted-section,
// partial and delimiter-change tags are rejected with ErrUnsupportedTag.
package render

import (
	"errors"
	"fmt"
	"html"
	"os"
	"strings"

	"base16builder/model"
)

var (
	ErrUnsupportedTag = errors.New("unsupported tag")
	ErrUnclosedTag    = errors.New("unclosed tag")
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

type tokenKind uint8

const (
	tokenText tokenKind = iota
	tokenEscaped
	tokenRaw
)

type token struct {
	kind tokenKind
	text string // literal text, or the variable name
}

// Template is a parsed template ready for repeated execution.
type Template struct {
	name   string
	tokens []token
}

// Name returns the name the template was parsed with (its path for
// templates read from disk).
func (t *Template) Name() string { return t.name }

// ParseFile reads and parses the template at path.
func ParseFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrTemplateRead, path, err)
	}
	return parse(path, string(data))
}

// Parse parses template text.
func Parse(text string) (*Template, error) {
	return parse("", text)
}

func parse(name, text string) (*Template, error) {
	t := &Template{name: name}
	pos := 0
	line := 1
	for pos < len(text) {
		start := strings.Index(text[pos:], openDelim)
		if start == -1 {
			t.tokens = append(t.tokens, token{kind: tokenText, text: text[pos:]})
			break
		}
		start += pos
		if start > pos {
			t.tokens = append(t.tokens, token{kind: tokenText, text: text[pos:start]})
		}
		line += strings.Count(text[pos:start], "\n")

		// Triple mustache: {{{name}}}
		if strings.HasPrefix(text[start:], "{{{") {
			end := strings.Index(text[start+3:], "}}}")
			if end == -1 {
				return nil, fmt.Errorf("%w at line %d", ErrUnclosedTag, line)
			}
			body := text[start+3 : start+3+end]
			t.tokens = append(t.tokens, token{kind: tokenRaw, text: strings.TrimSpace(body)})
			line += strings.Count(body, "\n")
			pos = start + 3 + end + 3
			continue
		}

		end := strings.Index(text[start+2:], closeDelim)
		if end == -1 {
			return nil, fmt.Errorf("%w at line %d", ErrUnclosedTag, line)
		}
		body := strings.TrimSpace(text[start+2 : start+2+end])
		line += strings.Count(text[start:start+2+end], "\n")
		pos = start + 2 + end + 2

		if body == "" {
			t.tokens = append(t.tokens, token{kind: tokenEscaped})
			continue
		}
		switch body[0] {
		case '!':
			// comment
		case '&':
			t.tokens = append(t.tokens, token{kind: tokenRaw, text: strings.TrimSpace(body[1:])})
		case '#', '^', '/', '>', '=', '<', '$':
			return nil, fmt.Errorf("%w %q at line %d", ErrUnsupportedTag, openDelim+body+closeDelim, line)
		default:
			t.tokens = append(t.tokens, token{kind: tokenEscaped, text: body})
		}
	}
	return t, nil
}

// Execute renders the template against vars.
func (t *Template) Execute(vars *Vars) string {
	var sb strings.Builder
	for _, tok := range t.tokens {
		switch tok.kind {
		case tokenText:
			sb.WriteString(tok.text)
		case tokenEscaped:
			v, _ := vars.Get(tok.text)
			sb.WriteString(html.EscapeString(v))
		case tokenRaw:
			v, _ := vars.Get(tok.text)
			sb.WriteString(v)
		}
	}
	return sb.String()
}

// Render parses text and executes it against vars in one step.
func Render(text string, vars *Vars) (string, error) {
	t, err := Parse(text)
	if err != nil {
		return "", err
	}
	return t.Execute(vars), nil
}
