package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/rct/pkg/graph"
)

func TestTakeSnapshot(t *testing.T) {
	shoulder := graph.NewTypedMass(0, 0, graph.MassShoulder)
	net := graph.NewMass(3, 4)
	g := graph.New()
	g.AddMasses(shoulder, net)
	g.AddSpring(net, shoulder)

	snap := TakeSnapshot(g)
	require.Len(t, snap.Masses, 2)
	require.Len(t, snap.Springs, 1)

	assert.Equal(t, MassRecord{Index: 1, Type: graph.MassNetwork, X: 3, Y: 4, Color: graph.MassNetwork.Color()}, snap.Masses[1])
	assert.Equal(t, 1, snap.Springs[0].Higher)
	assert.Equal(t, 0, snap.Springs[0].Lower)
	assert.InDelta(t, 5.0, snap.Springs[0].Length, 1e-9)
}

func TestSnapshotJSONUsesNames(t *testing.T) {
	g := graph.New()
	g.AddMasses(graph.NewTypedMass(1, 2, graph.MassHand))

	b, err := SnapshotJSON(g)
	require.NoError(t, err)

	var decoded struct {
		Masses []struct {
			Type string `json:"type"`
		} `json:"masses"`
		Springs []any `json:"springs"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded.Masses, 1)
	assert.Equal(t, "hand", decoded.Masses[0].Type)
	assert.NotNil(t, decoded.Springs)
	assert.Empty(t, decoded.Springs)
}
