package crawler

import (
	"io/fs"
	"path/filepath"
	"strings"

	"qcirc/internal/circuit"
	"qcirc/internal/qasm"
)

// Crawler scans a directory tree for OpenQASM benchmark files.
type Crawler struct {
	ignored []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler() *Crawler {
	return &Crawler{
		ignored: []string{".git", "vendor", "node_modules"},
	}
}

// ScanBenchmarks walks root and parses every .qasm file in lexical order, naming each circuit
// after its file stem. It streams circuits through onCircuit and stops at the first file that
// fails to parse; that error is a *qasm.ParseError.
func (c *Crawler) ScanBenchmarks(root string, onCircuit func(path string, circ *circuit.Circuit) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign && path != root {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(d.Name()), ".qasm") {
			return nil
		}

		circ, err := qasm.ParseFile(path)
		if err != nil {
			return err
		}
		return onCircuit(path, circ)
	})
}
