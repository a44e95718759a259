package theme

// Source is one named entry of a sources list: a scheme or template
// repository and where it is fetched from.
type Source struct {
	Name string
	URL  string
}

// Layout of a sources root, relative to the root directory.
const (
	SourcesFile   = "sources.yaml"
	SchemesList   = "sources/schemes/list.yaml"
	TemplatesList = "sources/templates/list.yaml"
	SchemesDir    = "schemes"
	TemplatesDir  = "templates"

	// ConfigFile is the per-repository template configuration, relative
	// to the repository's templates/ directory.
	ConfigFile = "config.yaml"

	// TemplateExt is appended to a template file identifier to find its
	// template text.
	TemplateExt = ".mustache"
)
