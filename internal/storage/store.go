package storage

import (
	"context"
	"time"

	"qcirc/internal/circuit"
	"qcirc/internal/graph"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

// Store combines the circuit and coupling-map catalogs.
type Store interface {
	CircuitStore
	CouplingStore
	Close() error
}

// CircuitInfo summarises a stored circuit without decoding its gates.
type CircuitInfo struct {
	ID        string
	Name      string
	NumQubits int
	NumClbits int
	Size      int
	Depth     int
	CreatedAt time.Time
}

// CircuitStore persists circuits keyed by name.
type CircuitStore interface {
	// SaveCircuit upserts c by name and returns its stable ID.
	SaveCircuit(ctx context.Context, c *circuit.Circuit) (string, error)

	GetCircuit(ctx context.Context, id string) (*circuit.Circuit, error)

	GetCircuitByName(ctx context.Context, name string) (*circuit.Circuit, error)

	// ListCircuits returns every stored circuit ordered by name.
	ListCircuits(ctx context.Context) ([]CircuitInfo, error)

	DeleteCircuit(ctx context.Context, id string) error
}

// CouplingStore persists named hardware coupling graphs.
type CouplingStore interface {
	SaveCouplingMap(ctx context.Context, name string, g *graph.Graph) error
	GetCouplingMap(ctx context.Context, name string) (*graph.Graph, error)
	ListCouplingMaps(ctx context.Context) ([]string, error)
}
