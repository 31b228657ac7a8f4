package export

import (
	"encoding/json"

	"github.com/chazu/rct/pkg/graph"
)

// MassRecord is one mass of a Snapshot.
type MassRecord struct {
	Index int            `json:"index"`
	Type  graph.MassType `json:"type"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Color string         `json:"color"`
}

// SpringRecord is one spring of a Snapshot, endpoints given by index.
type SpringRecord struct {
	Higher int                  `json:"higher"`
	Lower  int                  `json:"lower"`
	Type   graph.ConnectionType `json:"type"`
	Length float64              `json:"length"`
}

// Snapshot is a JSON view of a network. Springs are in canonical order.
type Snapshot struct {
	Masses  []MassRecord   `json:"masses"`
	Springs []SpringRecord `json:"springs"`
}

// TakeSnapshot captures g. Both slices are non-nil.
func TakeSnapshot(g *graph.NetworkGraph) Snapshot {
	snap := Snapshot{
		Masses:  make([]MassRecord, 0, g.MassCount()),
		Springs: make([]SpringRecord, 0, g.SpringCount()),
	}
	for i, m := range g.Masses() {
		snap.Masses = append(snap.Masses, MassRecord{
			Index: i,
			Type:  m.Type,
			X:     m.X,
			Y:     m.Y,
			Color: m.Type.Color(),
		})
	}
	for _, s := range g.SortedSprings() {
		lo, hi := g.EndpointIndices(s)
		snap.Springs = append(snap.Springs, SpringRecord{
			Higher: hi,
			Lower:  lo,
			Type:   s.ConnectionType(),
			Length: s.Length(),
		})
	}
	return snap
}

// SnapshotJSON returns the indented JSON encoding of TakeSnapshot(g).
func SnapshotJSON(g *graph.NetworkGraph) ([]byte, error) {
	return json.MarshalIndent(TakeSnapshot(g), "", "  ")
}
