package export

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/rct/pkg/graph"
)

func fourMasses() (*graph.NetworkGraph, []*graph.Mass) {
	m := []*graph.Mass{
		graph.NewMass(5, 6),
		graph.NewMass(11, 12),
		graph.NewMass(7, 13),
		graph.NewMass(8, 14),
	}
	return graph.New(), m
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "5.0", FormatFloat(5))
	assert.Equal(t, "-0.25", FormatFloat(-0.25))
	assert.Equal(t, "10000000.0", FormatFloat(1e7))
	assert.Equal(t, "0.1", FormatFloat(0.1))
}

func TestMassesCSV(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		assert.Equal(t, MassesPreamble, MassesCSV(graph.New()))
	})

	t.Run("single mass", func(t *testing.T) {
		g, m := fourMasses()
		g.AddMasses(m[0])
		assert.Equal(t, MassesPreamble+"t,5.0,6.0,0\n", MassesCSV(g))
	})

	t.Run("independent masses", func(t *testing.T) {
		g, m := fourMasses()
		g.AddMasses(m[0], m[1])
		assert.Equal(t, MassesPreamble+"t,5.0,6.0,0\nt,11.0,12.0,0\n", MassesCSV(g))
	})

	t.Run("connected masses", func(t *testing.T) {
		g, m := fourMasses()
		g.AddMasses(m[0], m[1])
		g.AddSpring(m[0], m[1])
		assert.Equal(t, MassesPreamble+"t,5.0,6.0,0\nt,11.0,12.0,0,0\n", MassesCSV(g))
	})

	t.Run("connection direction does not matter", func(t *testing.T) {
		g, m := fourMasses()
		g.AddMasses(m[0], m[1])
		g.AddSpring(m[1], m[0])
		assert.Equal(t, MassesPreamble+"t,5.0,6.0,0\nt,11.0,12.0,0,0\n", MassesCSV(g))
	})

	t.Run("type codes", func(t *testing.T) {
		g, m := fourMasses()
		m[0].Type = graph.MassShoulder
		m[1].Type = graph.MassArmSegment
		m[2].Type = graph.MassHand
		m[3].Type = graph.MassInput
		g.AddMasses(m...)
		assert.Equal(t, MassesPreamble+
			"f,5.0,6.0,0\n"+
			"r,11.0,12.0,0\n"+
			"e,7.0,13.0,0\n"+
			"i,8.0,14.0,0\n", MassesCSV(g))
	})

	t.Run("several prior connections ascend", func(t *testing.T) {
		g, m := fourMasses()
		g.AddMasses(m...)
		g.AddSpring(m[3], m[2])
		g.AddSpring(m[0], m[3])
		g.AddSpring(m[3], m[1])
		lines := strings.Split(MassesCSV(g), "\n")
		assert.Equal(t, "t,8.0,14.0,0,0,1,2", lines[4])
	})
}

func TestConnectionMapCSV(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		assert.Equal(t, ConnectionMapPreamble, ConnectionMapCSV(graph.New()))
	})

	t.Run("sorting order", func(t *testing.T) {
		g := graph.New()
		m := make([]*graph.Mass, 8)
		for i := range m {
			m[i] = graph.NewMass(5, 5)
		}
		g.AddMasses(m...)
		g.AddSpring(m[3], m[2])
		g.AddSpring(m[0], m[1])
		g.AddSpring(m[0], m[7])
		g.AddSpring(m[4], m[5])
		g.AddSpring(m[7], m[6])

		assert.Equal(t, ConnectionMapPreamble+
			"1,0,1\n"+
			"3,2,1\n"+
			"5,4,1\n"+
			"7,0,1\n"+
			"7,6,1\n", ConnectionMapCSV(g))
	})

	t.Run("overridden type and ascending order", func(t *testing.T) {
		g, m := fourMasses()
		g.AddMasses(m...)
		g.AddSpring(m[0], m[1]).SetConnectionType(graph.ConnectionFixed)
		g.AddSpring(m[1], m[2])
		g.AddSpring(m[3], m[2])
		g.AddSpring(m[3], m[1])

		assert.Equal(t, ConnectionMapPreamble+
			"1,0,5\n"+
			"2,1,1\n"+
			"3,1,1\n"+
			"3,2,1\n", ConnectionMapCSV(g))
	})
}

func completeArm() (*graph.NetworkGraph, map[string]*graph.Mass) {
	m := map[string]*graph.Mass{
		"shoulder":      graph.NewTypedMass(0, 1, graph.MassShoulder),
		"upperArm":      graph.NewTypedMass(0, 1, graph.MassArmSegment),
		"shoulderInput": graph.NewTypedMass(0, 2, graph.MassInput),
		"upperInput":    graph.NewTypedMass(0, 10, graph.MassInput),
		"elbow":         graph.NewTypedMass(0, 11, graph.MassElbow),
		"lowerArm":      graph.NewTypedMass(0, 11, graph.MassArmSegment),
		"lowerInput":    graph.NewTypedMass(0, 12, graph.MassInput),
		"handInput":     graph.NewTypedMass(0, 20, graph.MassInput),
		"hand":          graph.NewTypedMass(0, 21, graph.MassHand),
	}
	g := graph.New()
	for _, name := range []string{"shoulder", "upperArm", "shoulderInput", "upperInput", "elbow", "lowerArm", "lowerInput", "handInput", "hand"} {
		g.AddMasses(m[name])
	}
	return g, m
}

const completeArmMap = ConnectionMapPreamble +
	"1,0,6\n" +
	"2,1,5\n" +
	"3,1,5\n" +
	"5,1,7\n" +
	"6,5,5\n" +
	"7,5,5\n" +
	"8,5,5\n"

func TestConnectionMapCompleteArm(t *testing.T) {
	pairs := [][2]string{
		{"shoulder", "upperArm"},
		{"upperArm", "shoulderInput"},
		{"upperArm", "upperInput"},
		{"upperArm", "lowerArm"},
		{"lowerArm", "lowerInput"},
		{"lowerArm", "handInput"},
		{"lowerArm", "hand"},
	}

	t.Run("forward", func(t *testing.T) {
		g, m := completeArm()
		for _, p := range pairs {
			g.AddSpring(m[p[0]], m[p[1]])
		}
		assert.Equal(t, completeArmMap, ConnectionMapCSV(g))
	})

	t.Run("reversed", func(t *testing.T) {
		g, m := completeArm()
		for _, p := range pairs {
			g.AddSpring(m[p[1]], m[p[0]])
		}
		assert.Equal(t, completeArmMap, ConnectionMapCSV(g))
	})
}

func TestReadGraphRoundTrip(t *testing.T) {
	g, m := completeArm()
	g.AddSpring(m["shoulder"], m["upperArm"])
	g.AddSpring(m["upperArm"], m["lowerArm"])
	n := graph.NewMass(3.25, -4.5)
	g.AddMasses(n)
	g.AddSpring(n, m["handInput"])
	g.AddSpring(m["upperInput"], n).SetConnectionType(graph.ConnectionSlider)

	masses := MassesCSV(g)
	connections := ConnectionMapCSV(g)

	back, err := ReadGraph(strings.NewReader(masses), strings.NewReader(connections))
	require.NoError(t, err)

	require.Equal(t, g.MassCount(), back.MassCount())
	for i, want := range g.Masses() {
		got := back.Masses()[i]
		assert.Equal(t, want.X, got.X)
		assert.Equal(t, want.Y, got.Y)
		if want.Type == graph.MassElbow {
			assert.Equal(t, graph.MassInput, got.Type, "elbow and input share a code")
		} else {
			assert.Equal(t, want.Type, got.Type)
		}
	}

	assert.Equal(t, masses, MassesCSV(back))
	assert.Equal(t, connections, ConnectionMapCSV(back))
}

func TestReadGraphFromMassesOnly(t *testing.T) {
	g, m := fourMasses()
	g.AddMasses(m...)
	g.AddSpring(m[0], m[1])
	g.AddSpring(m[3], m[1])

	back, err := ReadGraph(strings.NewReader(MassesCSV(g)), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, back.SpringCount())
	assert.Equal(t, ConnectionMapCSV(g), ConnectionMapCSV(back))
}

func TestReadGraphErrors(t *testing.T) {
	tests := []struct {
		name        string
		masses      string
		connections string
	}{
		{"short mass row", "t,1.0,2.0\n", ""},
		{"unknown code", "z,1.0,2.0,0\n", ""},
		{"bad coordinate", "t,one,2.0,0\n", ""},
		{"forward reference", "t,1.0,2.0,0,1\nt,1.0,2.0,0\n", ""},
		{"short spring row", "t,1.0,2.0,0\nt,1.0,2.0,0\n", "1,0\n"},
		{"missing mass", "t,1.0,2.0,0\n", "1,0,1\n"},
		{"unknown type", "t,1.0,2.0,0\nt,1.0,2.0,0\n", "1,0,9\n"},
		{"not a number", "t,1.0,2.0,0\nt,1.0,2.0,0\n", "1,a,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.masses), strings.NewReader(tt.connections))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRow), "got %v", err)
		})
	}
}

func TestWriteAndReadDir(t *testing.T) {
	g, m := completeArm()
	g.AddSpring(m["shoulder"], m["upperArm"])
	dir := t.TempDir() + "/out"

	require.NoError(t, WriteDir(dir, g))
	back, err := ReadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, ConnectionMapCSV(g), ConnectionMapCSV(back))
	assert.Equal(t, g.MassCount(), back.MassCount())
}

func TestReadDirMissing(t *testing.T) {
	_, err := ReadDir(t.TempDir())
	assert.Error(t, err)
}

func TestWriteDirRefusesInvalidNetwork(t *testing.T) {
	g, m := completeArm()
	g.AddSpring(m["shoulder"], m["shoulder"])
	dir := t.TempDir() + "/out"

	err := WriteDir(dir, g)
	assert.ErrorIs(t, err, graph.ErrInvalidNetwork)
	_, err = ReadDir(dir)
	assert.Error(t, err, "nothing should have been written")
}
