package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"qcirc/internal/circuit"
	"qcirc/internal/graph"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to init schema")
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS circuits (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			num_qubits INTEGER,
			num_clbits INTEGER,
			size INTEGER,
			depth INTEGER,
			body JSON,
			created_at INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS coupling_maps (
			name TEXT PRIMARY KEY,
			num_qubits INTEGER,
			edges JSON
		);`,
		`CREATE INDEX IF NOT EXISTS idx_circuits_qubits ON circuits(num_qubits);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- CircuitStore Implementation ---

func (s *SQLiteStore) SaveCircuit(ctx context.Context, c *circuit.Circuit) (string, error) {
	if c.Name == "" {
		return "", errors.New("circuit name is required")
	}
	body, err := json.Marshal(c)
	if err != nil {
		return "", errors.Wrapf(err, "encode circuit %s", c.Name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	// Re-saving a name keeps its ID.
	var id string
	err = tx.QueryRowContext(ctx, "SELECT id FROM circuits WHERE name = ?", c.Name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.New().String()
	case err != nil:
		return "", err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO circuits (id, name, num_qubits, num_clbits, size, depth, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			num_qubits=excluded.num_qubits,
			num_clbits=excluded.num_clbits,
			size=excluded.size,
			depth=excluded.depth,
			body=excluded.body
	`, id, c.Name, c.NumQubits, c.NumClbits, c.Size(), c.Depth(), body, time.Now().UnixNano())
	if err != nil {
		return "", errors.Wrapf(err, "save circuit %s", c.Name)
	}

	return id, tx.Commit()
}

func (s *SQLiteStore) GetCircuit(ctx context.Context, id string) (*circuit.Circuit, error) {
	row := s.db.QueryRowContext(ctx, "SELECT body FROM circuits WHERE id = ?", id)
	return scanCircuit(row, id)
}

func (s *SQLiteStore) GetCircuitByName(ctx context.Context, name string) (*circuit.Circuit, error) {
	row := s.db.QueryRowContext(ctx, "SELECT body FROM circuits WHERE name = ?", name)
	return scanCircuit(row, name)
}

func scanCircuit(row *sql.Row, key string) (*circuit.Circuit, error) {
	var body []byte
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "circuit %s", key)
		}
		return nil, err
	}
	var c circuit.Circuit
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, errors.Wrapf(err, "decode circuit %s", key)
	}
	return &c, nil
}

func (s *SQLiteStore) ListCircuits(ctx context.Context) ([]CircuitInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, num_qubits, num_clbits, size, depth, created_at FROM circuits ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query circuits")
	}
	defer rows.Close()

	var out []CircuitInfo
	for rows.Next() {
		var info CircuitInfo
		var created int64
		if err := rows.Scan(&info.ID, &info.Name, &info.NumQubits, &info.NumClbits, &info.Size, &info.Depth, &created); err != nil {
			return nil, errors.Wrap(err, "failed to scan circuit")
		}
		info.CreatedAt = time.Unix(0, created)
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteCircuit(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM circuits WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNotFound, "circuit %s", id)
	}
	return nil
}

// --- CouplingStore Implementation ---

func (s *SQLiteStore) SaveCouplingMap(ctx context.Context, name string, g *graph.Graph) error {
	edges, err := json.Marshal(g.Edges)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO coupling_maps (name, num_qubits, edges) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET num_qubits=excluded.num_qubits, edges=excluded.edges
	`, name, g.N, edges)
	return errors.Wrapf(err, "save coupling map %s", name)
}

func (s *SQLiteStore) GetCouplingMap(ctx context.Context, name string) (*graph.Graph, error) {
	var n int
	var raw []byte
	err := s.db.QueryRowContext(ctx, "SELECT num_qubits, edges FROM coupling_maps WHERE name = ?", name).Scan(&n, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "coupling map %s", name)
		}
		return nil, err
	}
	var edges []graph.Edge
	if err := json.Unmarshal(raw, &edges); err != nil {
		return nil, errors.Wrapf(err, "decode coupling map %s", name)
	}
	return graph.FromEdges(n, edges)
}

func (s *SQLiteStore) ListCouplingMaps(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM coupling_maps ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
