package index

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"qcirc/internal/circuit"
	"qcirc/internal/crawler"
)

// Entry is one benchmark circuit and the file it came from.
type Entry struct {
	Name    string           `json:"name"`
	Path    string           `json:"path"`
	Circuit *circuit.Circuit `json:"circuit"`
}

// Catalog is the set of benchmarks found under Root, ordered by name.
type Catalog struct {
	Root    string  `json:"root"`
	Entries []Entry `json:"entries"`

	byName map[string]int
}

// Lookup finds a benchmark by name.
func (c *Catalog) Lookup(name string) (*circuit.Circuit, bool) {
	i, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.Entries[i].Circuit, true
}

// Names lists the benchmark names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.Name
	}
	return out
}

// Circuits returns the catalog circuits in order.
func (c *Catalog) Circuits() []*circuit.Circuit {
	out := make([]*circuit.Circuit, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.Circuit
	}
	return out
}

func (c *Catalog) rebuildIndex() error {
	sort.SliceStable(c.Entries, func(i, j int) bool { return c.Entries[i].Name < c.Entries[j].Name })
	c.byName = make(map[string]int, len(c.Entries))
	for i, e := range c.Entries {
		if prev, dup := c.byName[e.Name]; dup {
			return fmt.Errorf("duplicate benchmark name %q: %s and %s", e.Name, c.Entries[prev].Path, e.Path)
		}
		c.byName[e.Name] = i
	}
	return nil
}

// Indexer orchestrates benchmark discovery and catalog persistence.
type Indexer struct {
	crawler *crawler.Crawler
}

// NewIndexer creates a new indexer.
func NewIndexer(c *crawler.Crawler) *Indexer {
	return &Indexer{
		crawler: c,
	}
}

// BuildCatalog scans root for benchmark circuits. Two files with the same stem are an error.
func (i *Indexer) BuildCatalog(root string) (*Catalog, error) {
	cat := &Catalog{Root: root}

	err := i.crawler.ScanBenchmarks(root, func(path string, c *circuit.Circuit) error {
		cat.Entries = append(cat.Entries, Entry{Name: c.Name, Path: path, Circuit: c})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	if err := cat.rebuildIndex(); err != nil {
		return nil, err
	}
	return cat, nil
}

// SaveCatalog persists the catalog to a JSON file.
func (i *Indexer) SaveCatalog(cat *Catalog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cat); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return nil
}

// LoadCatalog loads a catalog from a JSON file.
func (i *Indexer) LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	cat := &Catalog{}
	decoder := json.NewDecoder(f)
	if err := decoder.Decode(cat); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	// The name index is not serialized.
	if err := cat.rebuildIndex(); err != nil {
		return nil, err
	}
	return cat, nil
}
