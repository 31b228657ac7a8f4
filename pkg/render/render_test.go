package render

import (
	"errors"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/rct/pkg/graph"
)

func triangle() *graph.NetworkGraph {
	g := graph.New()
	in := graph.NewTypedMass(0, 0, graph.MassInput)
	a := graph.NewMass(10, 0)
	b := graph.NewMass(0, 10)
	g.AddMasses(in, a, b)
	g.AddSpring(in, a)
	g.AddSpring(a, b)
	g.AddSpring(b, in)
	return g
}

func TestDrawSpringsAndMasses(t *testing.T) {
	var d Drawing
	Draw(triangle(), &d)

	// 3 springs + 2 lines per mass cross.
	if d.SegmentCount() != 9 {
		t.Fatalf("expected 9 segments, got %d", d.SegmentCount())
	}
	first := d.Segments[0]
	if first.P0 != (v2.Vec{X: 0, Y: 0}) || first.P1 != (v2.Vec{X: 10, Y: 0}) {
		t.Errorf("first segment should be the first spring, got %+v", first)
	}
}

func TestDrawOptions(t *testing.T) {
	var springsOnly Drawing
	Draw(triangle(), &springsOnly, WithoutMasses())
	if springsOnly.SegmentCount() != 3 {
		t.Errorf("springs only: expected 3 segments, got %d", springsOnly.SegmentCount())
	}

	var massesOnly Drawing
	Draw(triangle(), &massesOnly, WithoutSprings(), WithMassSize(2))
	if massesOnly.SegmentCount() != 6 {
		t.Errorf("masses only: expected 6 segments, got %d", massesOnly.SegmentCount())
	}
	min, max := massesOnly.Bounds()
	if min != (v2.Vec{X: -2, Y: -2}) || max != (v2.Vec{X: 12, Y: 12}) {
		t.Errorf("unexpected bounds %v %v", min, max)
	}

	var network Drawing
	Draw(triangle(), &network, OnlyTypes(graph.MassNetwork))
	// One spring between the two network masses, two crosses.
	if network.SegmentCount() != 5 {
		t.Errorf("network only: expected 5 segments, got %d", network.SegmentCount())
	}
}

func TestWithMassSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero mass size")
		}
	}()
	WithMassSize(0)
}

func TestDrawingBoundsEmpty(t *testing.T) {
	var d Drawing
	min, max := d.Bounds()
	if !d.IsEmpty() || min != (v2.Vec{}) || max != (v2.Vec{}) {
		t.Errorf("empty drawing should have zero bounds, got %v %v", min, max)
	}
}

func TestReplay(t *testing.T) {
	var src, dst Drawing
	Draw(triangle(), &src)
	src.Replay(&dst)
	if dst.SegmentCount() != src.SegmentCount() {
		t.Fatalf("replay copied %d of %d segments", dst.SegmentCount(), src.SegmentCount())
	}
}

type failingSurface struct{ Drawing }

func (failingSurface) Save() error { return errors.New("disk full") }

func TestRenderWrapsSaveError(t *testing.T) {
	err := Render(triangle(), &failingSurface{})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "render: failed to save drawing: disk full" {
		t.Errorf("unexpected error %q", got)
	}
}
