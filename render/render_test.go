package render

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"base16builder/model"
)

func testVars() *Vars {
	v := NewVars()
	v.Set("base00-hex", "181818")
	v.Set("scheme-name", "Tom & Jerry <dark>")
	return v
}

func TestRenderSubstitution(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "background: {{base00-hex}}", "background: 181818"},
		{"spaces", "background: {{ base00-hex }}", "background: 181818"},
		{"escaped", "name={{scheme-name}}", "name=Tom &amp; Jerry &lt;dark&gt;"},
		{"triple", "name={{{scheme-name}}}", "name=Tom & Jerry <dark>"},
		{"ampersand", "name={{& scheme-name}}", "name=Tom & Jerry <dark>"},
		{"comment", "a{{! ignored }}b", "ab"},
		{"unknown", "x={{missing}};", "x=;"},
		{"no tags", "just text\n", "just text\n"},
		{"adjacent", "{{base00-hex}}{{base00-hex}}", "181818181818"},
		{"lone brace", "{ {base00-hex} }", "{ {base00-hex} }"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Render(tc.in, testVars())
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderRejectsSections(t *testing.T) {
	for _, in := range []string{"{{#list}}x{{/list}}", "{{^empty}}", "{{> partial}}", "{{=<% %>=}}"} {
		if _, err := Render(in, testVars()); !errors.Is(err, ErrUnsupportedTag) {
			t.Fatalf("%q: expected ErrUnsupportedTag, got %v", in, err)
		}
	}
}

func TestRenderUnclosedTag(t *testing.T) {
	for _, in := range []string{"a {{base00-hex", "a {{{base00-hex}}"} {
		if _, err := Render(in, testVars()); !errors.Is(err, ErrUnclosedTag) {
			t.Fatalf("%q: expected ErrUnclosedTag, got %v", in, err)
		}
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.mustache"))
	if !errors.Is(err, model.ErrTemplateRead) {
		t.Fatalf("expected ErrTemplateRead, got %v", err)
	}
}

func TestParseFileExecuteTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.mustache")
	if err := os.WriteFile(path, []byte("bg={{base00-hex}}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tmpl, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.Name() != path {
		t.Fatalf("unexpected name %q", tmpl.Name())
	}
	first := tmpl.Execute(testVars())
	v := NewVars()
	v.Set("base00-hex", "ffffff")
	second := tmpl.Execute(v)
	if first != "bg=181818\n" || second != "bg=ffffff\n" {
		t.Fatalf("unexpected output %q / %q", first, second)
	}
}

func TestVarsKeepInsertionOrder(t *testing.T) {
	v := NewVars()
	v.Set("b", "1")
	v.Set("a", "2")
	v.Set("b", "3")
	keys := v.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if s, _ := v.Get("b"); s != "3" {
		t.Fatalf("expected overwrite, got %q", s)
	}
}
