package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"qcirc/internal/crawler"
	"qcirc/internal/index"
	"qcirc/internal/storage"

	"go.uber.org/zap"
)

// Bench loads a benchmark directory, optionally records it in the circuit store, and runs a batch
// over every circuit.
type Bench struct {
	Root string
	// DBPath enables the store stage when non-empty.
	DBPath string
	// CouplingName labels Options.Coupling in the store.
	CouplingName string
	Options      Options
	Out          io.Writer
	Logger       *zap.Logger
}

func NewBench(root string, opts Options) *Bench {
	return &Bench{
		Root:    root,
		Options: opts,
		Out:     os.Stdout,
	}
}

func (s *Bench) Run(ctx context.Context) ([]Result, error) {
	cat, err := s.loadStage()
	if err != nil {
		return nil, err
	}
	if len(cat.Entries) == 0 {
		fmt.Fprintln(s.Out, "✅ No benchmarks found.")
		return nil, nil
	}

	if s.DBPath != "" {
		if err := s.storeStage(ctx, cat); err != nil {
			return nil, err
		}
	}

	return s.processStage(ctx, cat)
}

func (s *Bench) loadStage() (*index.Catalog, error) {
	start := time.Now()
	idx := index.NewIndexer(crawler.NewCrawler())
	cat, err := idx.BuildCatalog(s.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmarks: %w", err)
	}
	fmt.Fprintf(s.Out, "📂 Loaded %d benchmarks from %s in %v.\n", len(cat.Entries), s.Root, time.Since(start))
	return cat, nil
}

func (s *Bench) storeStage(ctx context.Context, cat *index.Catalog) error {
	store, err := storage.NewSQLiteStore(s.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	for _, e := range cat.Entries {
		if _, err := store.SaveCircuit(ctx, e.Circuit); err != nil {
			return err
		}
	}
	if s.Options.Coupling != nil && s.CouplingName != "" {
		if err := store.SaveCouplingMap(ctx, s.CouplingName, s.Options.Coupling); err != nil {
			return err
		}
	}
	fmt.Fprintf(s.Out, "💾 Stored %d circuits in %s.\n", len(cat.Entries), s.DBPath)
	return nil
}

func (s *Bench) processStage(ctx context.Context, cat *index.Catalog) ([]Result, error) {
	mode := "Decomposing"
	if s.Options.Coupling != nil {
		mode = "Routing"
	}
	fmt.Fprintf(s.Out, "🔄 %s %d circuits...\n", mode, len(cat.Entries))

	batch, err := NewBatch(s.Options, s.Logger)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	results, err := batch.Run(ctx, cat.Circuits())
	if err != nil {
		return nil, err
	}

	swaps := 0
	for _, r := range results {
		swaps += r.Swaps
	}
	fmt.Fprintf(s.Out, "📊 Processed %d circuits in %v. Swaps=%d\n", len(results), time.Since(start), swaps)
	return results, nil
}
