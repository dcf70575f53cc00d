// Package survey describes the pairwise-comparison questionnaire: its sections,
// the criteria compared in each, and their localized labels.
package survey

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/ahpsurvey/internal/ahp"
)

//go:embed default.yaml
var defaultDefinition []byte

// Definition is the whole questionnaire.
type Definition struct {
	Locales       []string  `yaml:"locales"`
	DefaultLocale string    `yaml:"default_locale"`
	Sections      []Section `yaml:"sections"`
}

// Section is one comparison matrix. Criteria order is the matrix row order.
type Section struct {
	Key       string            `yaml:"key"`
	TitleI18n map[string]string `yaml:"title"`
	Criteria  []Criterion       `yaml:"criteria"`
}

// Criterion is one row/column of a section's matrix.
type Criterion struct {
	Key       string            `yaml:"key"`
	LabelI18n map[string]string `yaml:"label"`
}

// SectionView is a section rendered in a single locale.
type SectionView struct {
	Key      string          `json:"key"`
	Title    string          `json:"title"`
	Criteria []CriterionView `json:"criteria"`
}

// CriterionView is a criterion rendered in a single locale.
type CriterionView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Default returns the embedded questionnaire.
func Default() (*Definition, error) {
	return Parse(defaultDefinition)
}

// Load reads the questionnaire at path, or the embedded default when path is empty.
func Load(path string) (*Definition, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("survey: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML questionnaire.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("survey: parse yaml: %w", err)
	}
	if len(def.Locales) == 0 {
		def.Locales = []string{"en"}
	}
	if def.DefaultLocale == "" {
		def.DefaultLocale = def.Locales[0]
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("survey: %w", err)
	}
	return &def, nil
}

// Validate checks structural constraints: unique keys and a criteria count the
// consistency ratio is defined for.
func (d *Definition) Validate() error {
	found := false
	for _, l := range d.Locales {
		if l == d.DefaultLocale {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("default_locale %q not in locales %v", d.DefaultLocale, d.Locales)
	}
	if len(d.Sections) == 0 {
		return fmt.Errorf("at least one section is required")
	}
	seen := map[string]struct{}{}
	for i, s := range d.Sections {
		if strings.TrimSpace(s.Key) == "" {
			return fmt.Errorf("sections[%d]: key is required", i)
		}
		if _, dup := seen[s.Key]; dup {
			return fmt.Errorf("sections[%d]: duplicate key %q", i, s.Key)
		}
		seen[s.Key] = struct{}{}
		if n := len(s.Criteria); n < 1 || n > ahp.MaxOrder {
			return fmt.Errorf("section %q: %d criteria, want 1..%d", s.Key, n, ahp.MaxOrder)
		}
		ckeys := map[string]struct{}{}
		for j, c := range s.Criteria {
			if strings.TrimSpace(c.Key) == "" {
				return fmt.Errorf("section %q criteria[%d]: key is required", s.Key, j)
			}
			if _, dup := ckeys[c.Key]; dup {
				return fmt.Errorf("section %q: duplicate criterion %q", s.Key, c.Key)
			}
			ckeys[c.Key] = struct{}{}
		}
	}
	return nil
}

// Section returns the section with the given key.
func (d *Definition) Section(key string) (*Section, bool) {
	for i := range d.Sections {
		if d.Sections[i].Key == key {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// Localize renders every section in locale.
func (d *Definition) Localize(locale string) []SectionView {
	out := make([]SectionView, 0, len(d.Sections))
	for i := range d.Sections {
		out = append(out, d.Sections[i].Localize(locale, d.DefaultLocale))
	}
	return out
}

// Size returns the matrix order of the section.
func (s *Section) Size() int { return len(s.Criteria) }

// CriterionKeys returns the criteria keys in matrix order.
func (s *Section) CriterionKeys() []string {
	keys := make([]string, len(s.Criteria))
	for i, c := range s.Criteria {
		keys[i] = c.Key
	}
	return keys
}

// Localize renders the section in locale, falling back to fallback and then to keys.
func (s *Section) Localize(locale, fallback string) SectionView {
	view := SectionView{
		Key:      s.Key,
		Title:    pick(s.TitleI18n, locale, fallback, s.Key),
		Criteria: make([]CriterionView, 0, len(s.Criteria)),
	}
	for _, c := range s.Criteria {
		view.Criteria = append(view.Criteria, CriterionView{
			Key:   c.Key,
			Label: pick(c.LabelI18n, locale, fallback, c.Key),
		})
	}
	return view
}

func pick(m map[string]string, locale, fallback, def string) string {
	if v := m[locale]; v != "" {
		return v
	}
	if v := m[fallback]; v != "" {
		return v
	}
	return def
}
