package theme

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"base16builder/model"
)

const schemeYAML = `scheme: "Example Scheme"
author: "Jane Doe"
base00: 181818
base01: "282828"
base02: "383838"
base03: "585858"
base04: "b8b8b8"
base05: "d8d8d8"
base06: "e8e8e8"
base07: "f8f8f8"
base08: "ab4642"
base09: "dc9656"
base0A: "f7ca88"
base0B: "a1b56c"
base0C: "86c1b9"
base0D: "7cafc2"
base0E: "ba8baf"
base0F: 000000
`

const configYAML = `default:
  extension: .txt
  output: themes
iterm:
  extension: .terminal
  output: profiles
  noPrefix: true
  niceFilename: true
  colorTemplate: color.plist
  plistTemplate: Base.terminal
`

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseMappingKeepsOrder(t *testing.T) {
	fields, err := ParseMapping([]byte("zeta: 1\nalpha: 2\nmid: 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 3 || fields[0].Key != "zeta" || fields[1].Key != "alpha" || fields[2].Key != "mid" {
		t.Fatalf("unexpected order: %+v", fields)
	}
}

func TestParseMappingErrors(t *testing.T) {
	for name, in := range map[string]string{
		"sequence":  "- a\n",
		"duplicate": "a: 1\na: 2\n",
		"syntax":    "a: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseMapping([]byte(in)); !errors.Is(err, model.ErrDocumentParse) {
				t.Fatalf("expected ErrDocumentParse, got %v", err)
			}
		})
	}
}

func TestParseSchemeKeepsUnquotedDigits(t *testing.T) {
	p, err := ParseScheme([]byte(schemeYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Slug != "example-scheme" {
		t.Fatalf("unexpected slug %q", p.Slug)
	}
	if c := p.Colors[0]; c.Hex != "181818" {
		t.Fatalf("base00 = %q", c.Hex)
	}
	if c := p.Colors[15]; c.Hex != "000000" {
		t.Fatalf("base0F = %q", c.Hex)
	}
}

func TestParseTemplateConfig(t *testing.T) {
	specs, err := ParseTemplateConfig([]byte(configYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 || specs[0].Name != "default" || specs[1].Name != "iterm" {
		t.Fatalf("unexpected specs %+v", specs)
	}
	if specs[0].Patching() || !specs[1].Patching() {
		t.Fatalf("unexpected patching flags")
	}
	if !specs[1].NoPrefix || !specs[1].NiceFilename || specs[1].Extension != ".terminal" {
		t.Fatalf("unexpected iterm spec %+v", specs[1])
	}
}

func TestCatalog(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, SchemesList, "default: https://example.com/schemes\nextra: https://example.com/extra\n")
	writeFile(t, root, TemplatesList, "shell: https://example.com/shell\n")
	writeFile(t, root, "schemes/default/zz.yaml", schemeYAML)
	writeFile(t, root, "schemes/default/aa.yaml", schemeYAML)
	writeFile(t, root, "schemes/default/README.md", "docs")
	writeFile(t, root, "templates/shell/templates/config.yaml", configYAML)

	c := NewCatalog(root)
	schemes, err := c.SchemeSources()
	if err != nil {
		t.Fatal(err)
	}
	if len(schemes) != 2 || schemes[0].Name != "default" || schemes[1].URL != "https://example.com/extra" {
		t.Fatalf("unexpected scheme sources %+v", schemes)
	}

	files, err := c.SchemeFiles("default")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "aa.yaml" || filepath.Base(files[1]) != "zz.yaml" {
		t.Fatalf("unexpected scheme files %v", files)
	}
	if _, err := c.LoadPalette(files[0]); err != nil {
		t.Fatalf("load palette: %v", err)
	}

	specs, err := c.TemplateSpecs("shell")
	if err != nil {
		t.Fatal(err)
	}
	if specs[0].TemplatePath != filepath.Join("templates", "shell", "templates", "default.mustache") {
		t.Fatalf("unexpected template path %s", specs[0].TemplatePath)
	}
	if specs[0].OutputDir != filepath.Join("templates", "shell", "themes") {
		t.Fatalf("unexpected output dir %s", specs[0].OutputDir)
	}
	if specs[1].BaseProfileTemplate != filepath.Join("templates", "shell", "templates", "Base.terminal") {
		t.Fatalf("unexpected base profile %s", specs[1].BaseProfileTemplate)
	}
	if c.Abs(specs[0].TemplatePath) != filepath.Join(root, specs[0].TemplatePath) {
		t.Fatalf("unexpected abs path")
	}
}

func TestCatalogMissingSources(t *testing.T) {
	c := NewCatalog(t.TempDir())
	if _, err := c.TemplateSources(); !errors.Is(err, model.ErrSourceRead) {
		t.Fatalf("expected ErrSourceRead, got %v", err)
	}
	if _, err := c.SchemeFiles("nope"); !errors.Is(err, model.ErrSourceRead) {
		t.Fatalf("expected ErrSourceRead, got %v", err)
	}
}

func TestUpdateClonesThenPulls(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, SourcesFile, "schemes: https://example.com/s\ntemplates: https://example.com/t\n")
	writeFile(t, root, SchemesList, "default: https://example.com/default\n")
	writeFile(t, root, TemplatesList, "shell: https://example.com/shell\n")
	writeFile(t, root, "templates/shell/.git/HEAD", "ref: refs/heads/main\n")

	var calls []string
	orig := Git
	Git = func(_ context.Context, args ...string) error {
		calls = append(calls, strings.Join(args, " "))
		return nil
	}
	defer func() { Git = orig }()

	var seen []string
	if err := NewCatalog(root).Update(context.Background(), func(name, _ string) { seen = append(seen, name) }); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(calls) != 4 {
		t.Fatalf("expected 4 git calls, got %v", calls)
	}
	if !strings.HasPrefix(calls[0], "clone --depth 1 https://example.com/s ") {
		t.Fatalf("unexpected first call %q", calls[0])
	}
	if !strings.HasSuffix(calls[3], "pull --ff-only") {
		t.Fatalf("expected pull for existing checkout, got %q", calls[3])
	}
	if strings.Join(seen, ",") != "schemes,templates,default,shell" {
		t.Fatalf("unexpected progress %v", seen)
	}
}

func TestUpdateCollectsFailures(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, SourcesFile, "schemes: https://example.com/s\ntemplates: https://example.com/t\n")

	orig := Git
	Git = func(context.Context, ...string) error { return errors.New("network down") }
	defer func() { Git = orig }()

	err := NewCatalog(root).Update(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "network down") {
		t.Fatalf("expected aggregated failure, got %v", err)
	}
	if !errors.Is(err, model.ErrSourceRead) {
		t.Fatalf("expected missing lists to be reported, got %v", err)
	}
}

func TestRenderList(t *testing.T) {
	p, err := ParseScheme([]byte(schemeYAML))
	if err != nil {
		t.Fatal(err)
	}
	out := RenderList([]model.Palette{p})
	if !strings.Contains(out, "example-scheme") || !strings.Contains(out, "Example Scheme") || !strings.Contains(out, "Jane Doe") {
		t.Fatalf("unexpected list:\n%s", out)
	}
	if n := strings.Count(out, "\n"); n != 2 {
		t.Fatalf("expected header plus one row, got %d lines", n)
	}
}
