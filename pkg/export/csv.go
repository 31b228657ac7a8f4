// Package export writes networks in the simulator's CSV layout and reads
// them back.
//
// A network is stored as two files. The masses file has one row per mass in
// insertion order: type code, x, y, a fixed flag and the indices of every
// connected mass that comes earlier in the file. The connection map has one
// row per spring in canonical order: higher index, lower index, connection
// type code.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/chazu/rct/pkg/graph"
)

const (
	MassesPreamble        = "# type,x,y,fixed[,connections to prior masses]\n"
	ConnectionMapPreamble = "# higher,lower,type\n"

	MassesFile        = "masses.csv"
	ConnectionMapFile = "connectionMap.csv"
)

// ErrMalformedRow is wrapped by every read error caused by file content.
var ErrMalformedRow = errors.New("export: malformed row")

// FormatFloat prints v in plain decimal notation with at least one
// fractional digit, e.g. 5.0 or -0.25.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// priorConnections returns the ascending indices of masses connected to m
// that come before it.
func priorConnections(g *graph.NetworkGraph, m *graph.Mass) []int {
	self := g.Index(m)
	var out []int
	for _, s := range g.SpringsOf(m) {
		i := g.Index(s.Other(m))
		if i < self && !slices.Contains(out, i) {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}

// WriteMasses writes the masses file for g.
func WriteMasses(w io.Writer, g *graph.NetworkGraph) error {
	if _, err := io.WriteString(w, MassesPreamble); err != nil {
		return fmt.Errorf("failed to write masses preamble: %w", err)
	}

	cw := csv.NewWriter(w)
	for _, m := range g.Masses() {
		record := []string{m.Type.Code(), FormatFloat(m.X), FormatFloat(m.Y), "0"}
		for _, i := range priorConnections(g, m) {
			record = append(record, strconv.Itoa(i))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write mass row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush masses: %w", err)
	}
	return nil
}

// WriteConnectionMap writes the connection map for g.
func WriteConnectionMap(w io.Writer, g *graph.NetworkGraph) error {
	if _, err := io.WriteString(w, ConnectionMapPreamble); err != nil {
		return fmt.Errorf("failed to write connection map preamble: %w", err)
	}

	cw := csv.NewWriter(w)
	for _, s := range g.SortedSprings() {
		lo, hi := g.EndpointIndices(s)
		record := []string{strconv.Itoa(hi), strconv.Itoa(lo), strconv.Itoa(s.ConnectionType().Code())}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write spring row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush connection map: %w", err)
	}
	return nil
}

// MassesCSV returns the masses file for g as a string.
func MassesCSV(g *graph.NetworkGraph) string {
	var buf bytes.Buffer
	_ = WriteMasses(&buf, g) // bytes.Buffer writes do not fail
	return buf.String()
}

// ConnectionMapCSV returns the connection map for g as a string.
func ConnectionMapCSV(g *graph.NetworkGraph) string {
	var buf bytes.Buffer
	_ = WriteConnectionMap(&buf, g)
	return buf.String()
}

// WriteDir writes MassesFile and ConnectionMapFile into dir, creating it if
// needed. A network with validation errors is refused.
func WriteDir(dir string, g *graph.NetworkGraph) error {
	if err := graph.Validate(g).Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, MassesFile), []byte(MassesCSV(g)), 0o644); err != nil {
		return fmt.Errorf("failed to write masses: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConnectionMapFile), []byte(ConnectionMapCSV(g)), 0o644); err != nil {
		return fmt.Errorf("failed to write connection map: %w", err)
	}
	return nil
}

// ReadDir reads the two files written by WriteDir.
func ReadDir(dir string) (*graph.NetworkGraph, error) {
	masses, err := os.Open(filepath.Join(dir, MassesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open masses: %w", err)
	}
	defer masses.Close()

	connections, err := os.Open(filepath.Join(dir, ConnectionMapFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open connection map: %w", err)
	}
	defer connections.Close()

	return ReadGraph(masses, connections)
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// ReadGraph rebuilds a network from a masses file and a connection map.
// Connection types come from the map. When connections is nil the springs
// are taken from the masses file's prior-index columns and their types are
// derived from the endpoints. The code "i" is read back as an input.
func ReadGraph(masses, connections io.Reader) (*graph.NetworkGraph, error) {
	g := graph.New()
	var prior [][]int

	rows, err := newReader(masses).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	for n, row := range rows {
		if len(row) < 4 {
			return nil, fmt.Errorf("%w: mass %d has %d fields, want at least 4", ErrMalformedRow, n, len(row))
		}
		typ, err := graph.MassTypeByCode(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: mass %d: %v", ErrMalformedRow, n, err)
		}
		x, errX := strconv.ParseFloat(row[1], 64)
		y, errY := strconv.ParseFloat(row[2], 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("%w: mass %d has invalid coordinates %q, %q", ErrMalformedRow, n, row[1], row[2])
		}

		var links []int
		for _, field := range row[4:] {
			i, err := strconv.Atoi(field)
			if err != nil || i < 0 || i >= n {
				return nil, fmt.Errorf("%w: mass %d references %q", ErrMalformedRow, n, field)
			}
			links = append(links, i)
		}
		prior = append(prior, links)
		g.AddMasses(graph.NewTypedMass(x, y, typ))
	}

	all := g.Masses()
	if connections == nil {
		for n, links := range prior {
			for _, i := range links {
				g.AddSpring(all[n], all[i])
			}
		}
		return g, nil
	}

	rows, err = newReader(connections).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	for n, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("%w: spring %d has %d fields, want 3", ErrMalformedRow, n, len(row))
		}
		hi, errHi := strconv.Atoi(row[0])
		lo, errLo := strconv.Atoi(row[1])
		code, errCode := strconv.Atoi(row[2])
		if errHi != nil || errLo != nil || errCode != nil {
			return nil, fmt.Errorf("%w: spring %d: %q", ErrMalformedRow, n, strings.Join(row, ","))
		}
		if hi < 0 || hi >= len(all) || lo < 0 || lo >= len(all) {
			return nil, fmt.Errorf("%w: spring %d references a missing mass", ErrMalformedRow, n)
		}
		typ := graph.ConnectionType(code)
		if !typ.Valid() {
			return nil, fmt.Errorf("%w: spring %d has unknown type %d", ErrMalformedRow, n, code)
		}
		s := g.AddSpring(all[hi], all[lo])
		s.SetConnectionType(typ)
	}
	return g, nil
}
