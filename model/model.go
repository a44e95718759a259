package model

import (
	"strings"
)

// ColorCount is the number of colours in every palette.
const ColorCount = 16

// ColorNames lists the palette slots in canonical order.
var ColorNames = [ColorCount]string{
	"base00", "base01", "base02", "base03",
	"base04", "base05", "base06", "base07",
	"base08", "base09", "base0A", "base0B",
	"base0C", "base0D", "base0E", "base0F",
}

// Color is one palette slot.
type Color struct {
	Name string // "base00".."base0F"
	Hex  string // six lower-case hex digits, no leading '#'
	R    uint8
	G    uint8
	B    uint8
}

// Palette is a named 16-colour scheme.
type Palette struct {
	Name   string
	Author string
	Slug   string
	Colors [ColorCount]Color
}

// DefaultPrefix is prepended to output file names unless NoPrefix is set.
const DefaultPrefix = "base16-"

// TemplateFileSpec describes how one template file is rendered and where
// its outputs land.
type TemplateFileSpec struct {
	Name                 string `yaml:"-"`
	TemplatePath         string `yaml:"-"`
	OutputDir            string `yaml:"output"`
	Extension            string `yaml:"extension"`
	NoPrefix             bool   `yaml:"noPrefix"`
	NiceFilename         bool   `yaml:"niceFilename"`
	ColorProfileTemplate string `yaml:"colorTemplate,omitempty"`
	BaseProfileTemplate  string `yaml:"plistTemplate,omitempty"`
}

// Patching reports whether both profile references are set.
func (s TemplateFileSpec) Patching() bool {
	return s.ColorProfileTemplate != "" && s.BaseProfileTemplate != ""
}

// PartialPatching reports whether exactly one profile reference is set.
func (s TemplateFileSpec) PartialPatching() bool {
	return (s.ColorProfileTemplate != "") != (s.BaseProfileTemplate != "")
}

// Prefix returns the file name prefix used for outputs of this spec.
func (s TemplateFileSpec) Prefix() string {
	if s.NoPrefix {
		return ""
	}
	return DefaultPrefix
}

// FileName composes the output file name for a palette slug.
func (s TemplateFileSpec) FileName(slug string) string {
	name := slug
	if s.NiceFilename {
		name = NiceCase(slug)
	}
	return s.Prefix() + name + s.Extension
}

// NiceCase title-cases each hyphen-delimited component of slug and joins
// them without separators: "example-scheme" -> "ExampleScheme".
func NiceCase(slug string) string {
	parts := strings.Split(slug, "-")
	var sb strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}
