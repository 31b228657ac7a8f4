// Package store persists generated networks in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chazu/rct/pkg/graph"
)

// ErrNotFound is returned when a network id does not exist.
var ErrNotFound = errors.New("store: network not found")

const schema = `
CREATE TABLE IF NOT EXISTS networks (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL,
	grammar    TEXT    NOT NULL,
	seed       TEXT    NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS masses (
	network_id INTEGER NOT NULL REFERENCES networks(id) ON DELETE CASCADE,
	idx        INTEGER NOT NULL,
	x          REAL    NOT NULL,
	y          REAL    NOT NULL,
	type       TEXT    NOT NULL,
	PRIMARY KEY (network_id, idx)
);
CREATE TABLE IF NOT EXISTS springs (
	network_id      INTEGER NOT NULL REFERENCES networks(id) ON DELETE CASCADE,
	idx             INTEGER NOT NULL,
	source          INTEGER NOT NULL,
	destination     INTEGER NOT NULL,
	connection_type INTEGER NOT NULL,
	PRIMARY KEY (network_id, idx)
);
`

// Store wraps a SQLite database holding networks.
type Store struct {
	db *sql.DB
}

// Summary describes a stored network without loading its graph.
type Summary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Masses    int       `json:"masses"`
	Springs   int       `json:"springs"`
	CreatedAt time.Time `json:"createdAt"`
}

// Network is a stored network with the inputs it was grown from.
type Network struct {
	Summary
	Grammar string              `json:"grammar"`
	Seed    string              `json:"seed"`
	Graph   *graph.NetworkGraph `json:"-"`
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores g together with the grammar and seed that produced it and
// returns the new network id. Mass order, spring order and connection
// types are preserved.
func (s *Store) Save(ctx context.Context, name, grammar, seed string, g *graph.NetworkGraph) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO networks (name, grammar, seed, created_at) VALUES (?, ?, ?, ?)`,
		name, grammar, seed, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert network: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read network id: %w", err)
	}

	massStmt, err := tx.PrepareContext(ctx, `INSERT INTO masses (network_id, idx, x, y, type) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare mass insert: %w", err)
	}
	defer massStmt.Close()

	for i, m := range g.Masses() {
		if _, err := massStmt.ExecContext(ctx, id, i, m.X, m.Y, m.Type.String()); err != nil {
			return 0, fmt.Errorf("failed to insert mass %d: %w", i, err)
		}
	}

	springStmt, err := tx.PrepareContext(ctx, `INSERT INTO springs (network_id, idx, source, destination, connection_type) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare spring insert: %w", err)
	}
	defer springStmt.Close()

	for i, sp := range g.Springs() {
		_, err := springStmt.ExecContext(ctx, id, i,
			g.Index(sp.Source), g.Index(sp.Destination), sp.ConnectionType().Code())
		if err != nil {
			return 0, fmt.Errorf("failed to insert spring %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit network: %w", err)
	}
	return id, nil
}

// Load reads a network and rebuilds its graph.
func (s *Store) Load(ctx context.Context, id int64) (*Network, error) {
	n := &Network{}
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, grammar, seed, created_at FROM networks WHERE id = ?`, id,
	).Scan(&n.ID, &n.Name, &n.Grammar, &n.Seed, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load network %d: %w", id, err)
	}
	n.CreatedAt = time.Unix(created, 0)

	g, err := s.loadGraph(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Graph = g
	n.Masses = g.MassCount()
	n.Springs = g.SpringCount()
	return n, nil
}

func (s *Store) loadGraph(ctx context.Context, id int64) (*graph.NetworkGraph, error) {
	g := graph.New()

	rows, err := s.db.QueryContext(ctx, `SELECT x, y, type FROM masses WHERE network_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query masses: %w", err)
	}
	var masses []*graph.Mass
	for rows.Next() {
		var x, y float64
		var name string
		if err := rows.Scan(&x, &y, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan mass: %w", err)
		}
		var t graph.MassType
		if err := t.UnmarshalText([]byte(name)); err != nil {
			rows.Close()
			return nil, fmt.Errorf("network %d: %w", id, err)
		}
		masses = append(masses, graph.NewTypedMass(x, y, t))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read masses: %w", err)
	}
	g.AddMasses(masses...)

	rows, err = s.db.QueryContext(ctx, `SELECT source, destination, connection_type FROM springs WHERE network_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query springs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var src, dst, code int
		if err := rows.Scan(&src, &dst, &code); err != nil {
			return nil, fmt.Errorf("failed to scan spring: %w", err)
		}
		if src < 0 || src >= len(masses) || dst < 0 || dst >= len(masses) {
			return nil, fmt.Errorf("network %d: spring references missing mass", id)
		}
		typ := graph.ConnectionType(code)
		if !typ.Valid() {
			return nil, fmt.Errorf("network %d: unknown connection type %d", id, code)
		}
		g.AddSpring(masses[src], masses[dst]).SetConnectionType(typ)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read springs: %w", err)
	}
	return g, nil
}

// List returns all stored networks, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.id, n.name, n.created_at,
		       (SELECT COUNT(*) FROM masses m WHERE m.network_id = n.id),
		       (SELECT COUNT(*) FROM springs s WHERE s.network_id = n.id)
		FROM networks n
		ORDER BY n.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		var created int64
		if err := rows.Scan(&sum.ID, &sum.Name, &created, &sum.Masses, &sum.Springs); err != nil {
			return nil, fmt.Errorf("failed to scan network: %w", err)
		}
		sum.CreatedAt = time.Unix(created, 0)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	return out, nil
}

// Delete removes a network and its masses and springs.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM networks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete network %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete network %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}
