package styles

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Conceptual-Machines/story-api/internal/llm"
	"github.com/Conceptual-Machines/story-api/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// RetiredModels lists model ids the hosting providers have decommissioned
var RetiredModels = map[string]string{
	"mixtral-8x7b-32768":      "groq retired Mixtral 8x7B; use llama-3.1-8b-instant or llama-3.3-70b-versatile",
	"llama-3.1-70b-versatile": "groq replaced it with llama-3.3-70b-versatile",
	"llama2-70b-4096":         "groq retired Llama 2",
	"gemma-7b-it":             "groq retired Gemma 7B",
}

var errEmptyCatalog = errors.New("style catalog has no entries")

// Style maps a user-facing narrative style label to a backend model
type Style struct {
	Label    string `yaml:"label" json:"label"`
	Provider string `yaml:"provider" json:"provider"`
	Model    string `yaml:"model" json:"model"`
}

// Catalog is the ordered list of offered styles. The first entry is the default.
type Catalog struct {
	styles []Style
}

type catalogFile struct {
	Styles []Style `yaml:"styles"`
}

// Parse reads a catalog from YAML
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse style catalog: %w", err)
	}

	c := &Catalog{styles: make([]Style, 0, len(file.Styles))}
	for _, s := range file.Styles {
		s.Label = strings.TrimSpace(s.Label)
		s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
		s.Model = strings.TrimSpace(s.Model)
		c.styles = append(c.styles, s)
	}
	return c, nil
}

// Load reads the catalog at path, or the embedded default when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style catalog: %w", err)
	}
	return Parse(data)
}

// DefaultCatalog returns the embedded catalog
func DefaultCatalog() (*Catalog, error) {
	return Parse(embedded.StylesYAML)
}

// New builds a catalog from styles in display order
func New(styles ...Style) *Catalog {
	return &Catalog{styles: append([]Style(nil), styles...)}
}

// Validate checks that every entry is usable. All problems are reported together.
func (c *Catalog) Validate() error {
	if len(c.styles) == 0 {
		return errEmptyCatalog
	}

	var errs []error
	seen := make(map[string]bool, len(c.styles))
	for i, s := range c.styles {
		switch {
		case s.Label == "":
			errs = append(errs, fmt.Errorf("style %d: empty label", i))
		case seen[s.Label]:
			errs = append(errs, fmt.Errorf("style %q: duplicate label", s.Label))
		}
		seen[s.Label] = true

		if !llm.KnownProvider(s.Provider) {
			errs = append(errs, fmt.Errorf("style %q: %w %q", s.Label, llm.ErrUnknownProvider, s.Provider))
		}
		if s.Model == "" {
			errs = append(errs, fmt.Errorf("style %q: empty model", s.Label))
		}
	}
	return errors.Join(errs...)
}

// Deprecated returns the entries whose model id is known to be retired
func (c *Catalog) Deprecated() []Style {
	var out []Style
	for _, s := range c.styles {
		if _, retired := RetiredModels[s.Model]; retired {
			out = append(out, s)
		}
	}
	return out
}

// IsDeprecated reports whether s points at a retired model
func IsDeprecated(s Style) bool {
	_, retired := RetiredModels[s.Model]
	return retired
}

// Styles returns a copy of the entries in display order
func (c *Catalog) Styles() []Style {
	return append([]Style(nil), c.styles...)
}

// Labels returns the display labels in order
func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.styles))
	for i, s := range c.styles {
		labels[i] = s.Label
	}
	return labels
}

// Lookup finds a style by its label
func (c *Catalog) Lookup(label string) (Style, bool) {
	for _, s := range c.styles {
		if s.Label == label {
			return s, true
		}
	}
	return Style{}, false
}

// Default returns the first style, or the zero Style for an empty catalog
func (c *Catalog) Default() Style {
	if len(c.styles) == 0 {
		return Style{}
	}
	return c.styles[0]
}

// Resolve returns the style for label, falling back to the default
func (c *Catalog) Resolve(label string) Style {
	if s, ok := c.Lookup(label); ok {
		return s
	}
	return c.Default()
}

// Len returns the number of styles
func (c *Catalog) Len() int {
	return len(c.styles)
}
