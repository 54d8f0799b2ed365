package browser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TableMap maps one source query onto one canonical table. Query is a full
// SELECT against the source database with exactly one placeholder for the
// minimum-date cutoff, already converted to the source's native epoch inline.
// Columns lists the canonical column each selected expression lands in, in
// SELECT order.
type TableMap struct {
	Canonical string   `yaml:"canonical"`
	Query     string   `yaml:"query"`
	Columns   []string `yaml:"columns"`
}

// Spec describes one browser family: where its history artifact lives per
// OS, which file names to look for, and how its schema maps onto the
// canonical store. Specs are data consumed by the locator and extractors,
// never authored by them.
type Spec struct {
	Name Browser `yaml:"name"`

	// Paths holds candidate directory templates keyed by runtime.GOOS
	// value. A missing key means the combination is impossible (e.g.
	// Safari outside darwin) and the locator reports not-found
	// immediately. Templates may contain {user}, replaced with the
	// current username.
	Paths map[string][]string `yaml:"paths"`

	// FileNames are artifact file-name candidates, tried in order.
	FileNames []string `yaml:"file_names"`

	// ProfilePattern, when set, is a regexp matched against subdirectory
	// names of each candidate path to find the default profile.
	ProfilePattern string `yaml:"profile_pattern,omitempty"`

	// CopyBeforeOpen stages the artifact into the working directory
	// before opening, for sources the running browser keeps locked.
	CopyBeforeOpen bool `yaml:"copy_before_open"`

	// Tables maps the relational source schema onto the canonical
	// store. Empty for sources that are not relational (IE11's ESE
	// store, which has a fixed layout handled by its extractor).
	Tables []TableMap `yaml:"tables,omitempty"`
}

// SupportsOS reports whether the browser can exist on the given GOOS.
func (s *Spec) SupportsOS(goos string) bool {
	_, ok := s.Paths[goos]
	return ok
}

// Specs holds the full browser configuration, keyed by identifier.
type Specs map[Browser]*Spec

// Get returns the spec for a browser.
func (s Specs) Get(b Browser) (*Spec, error) {
	spec, ok := s[b]
	if !ok {
		return nil, fmt.Errorf("no spec for browser %q", b)
	}
	return spec, nil
}

// Load reads a YAML spec file at path and merges it over the defaults.
// Browsers present in the file replace the default spec wholesale.
func Load(path string) (Specs, error) {
	specs := DefaultSpecs()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	var override map[Browser]*Spec
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parsing spec file: %w", err)
	}

	for name, spec := range override {
		if _, err := Parse(string(name)); err != nil {
			return nil, err
		}
		spec.Name = name
		specs[name] = spec
	}

	return specs, nil
}

// LoadOrDefault loads the spec file if path is non-empty, else the defaults.
func LoadOrDefault(path string) (Specs, error) {
	if path == "" {
		return DefaultSpecs(), nil
	}
	return Load(path)
}
