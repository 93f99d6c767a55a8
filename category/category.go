// Package category holds the controlled vocabulary of document categories.
// The taxonomy is loaded from a versioned YAML table (an embedded default, or
// an external file) so that category changes ship as data, not code.
package category

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Kind identifies which entity type a category may be attached to.
type Kind uint8

const (
	KindCompany Kind = iota
	KindPerson
	KindLoan
)

// String returns the YAML spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindCompany:
		return "company"
	case KindPerson:
		return "person"
	case KindLoan:
		return "loan"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Category is one entry of the taxonomy. The zero value is not a valid
// category; obtain values via Taxonomy.ByID or Taxonomy.ByName.
type Category struct {
	ID    int
	Name  string
	kinds map[Kind]bool
}

// Allows reports whether an entity of kind k may hold a file in this category.
func (c Category) Allows(k Kind) bool {
	return c.kinds[k]
}

// Valid reports whether the category came from a taxonomy lookup.
func (c Category) Valid() bool {
	return c.ID != 0
}

// Taxonomy is an immutable lookup table of categories keyed by ID and name.
type Taxonomy struct {
	version int
	byID    map[int]Category
	byName  map[string]Category
	ordered []Category
}

type taxonomyDoc struct {
	Version    int `yaml:"version"`
	Categories []struct {
		ID    int      `yaml:"id"`
		Name  string   `yaml:"name"`
		Kinds []string `yaml:"kinds"`
	} `yaml:"categories"`
}

//go:embed default.yaml
var defaultYAML []byte

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default returns the embedded taxonomy, parsed on first use.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		t, err := Load(strings.NewReader(string(defaultYAML)))
		if err != nil {
			// The embedded table is shipped with the binary; failing to
			// parse it is a build defect, not a runtime condition.
			panic(fmt.Sprintf("category: embedded taxonomy: %v", err))
		}
		defaultTax = t
	})
	return defaultTax
}

// Load parses a taxonomy document from r.
func Load(r io.Reader) (*Taxonomy, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}

	var doc taxonomyDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	if doc.Version <= 0 {
		return nil, fmt.Errorf("taxonomy version must be positive, got %d", doc.Version)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy has no categories")
	}

	t := &Taxonomy{
		version: doc.Version,
		byID:    make(map[int]Category, len(doc.Categories)),
		byName:  make(map[string]Category, len(doc.Categories)),
	}
	for _, e := range doc.Categories {
		if e.ID <= 0 {
			return nil, fmt.Errorf("category %q: id must be positive, got %d", e.Name, e.ID)
		}
		if e.Name == "" {
			return nil, fmt.Errorf("category %d: name is required", e.ID)
		}
		if _, dup := t.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %d", e.ID)
		}
		kinds := make(map[Kind]bool, len(e.Kinds))
		for _, ks := range e.Kinds {
			k, err := parseKind(ks)
			if err != nil {
				return nil, fmt.Errorf("category %d: %w", e.ID, err)
			}
			kinds[k] = true
		}
		if len(kinds) == 0 {
			return nil, fmt.Errorf("category %d: at least one kind is required", e.ID)
		}
		c := Category{ID: e.ID, Name: e.Name, kinds: kinds}
		t.byID[c.ID] = c
		t.byName[strings.ToLower(c.Name)] = c
		t.ordered = append(t.ordered, c)
	}
	return t, nil
}

// LoadFile parses a taxonomy document from a file on disk.
func LoadFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open taxonomy %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

func parseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "company":
		return KindCompany, nil
	case "person":
		return KindPerson, nil
	case "loan":
		return KindLoan, nil
	default:
		return 0, fmt.Errorf("unknown entity kind %q", s)
	}
}

// Version returns the version stamp of the loaded table.
func (t *Taxonomy) Version() int { return t.version }

// ByID looks a category up by its numeric identifier.
func (t *Taxonomy) ByID(id int) (Category, bool) {
	c, ok := t.byID[id]
	return c, ok
}

// ByName looks a category up by display name, case-insensitively.
func (t *Taxonomy) ByName(name string) (Category, bool) {
	c, ok := t.byName[strings.ToLower(name)]
	return c, ok
}

// All returns the categories in document order.
func (t *Taxonomy) All() []Category {
	out := make([]Category, len(t.ordered))
	copy(out, t.ordered)
	return out
}
