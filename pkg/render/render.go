// Package render draws a network as 2-D line work. Backends (see the sdfx
// subpackage) write the lines to DXF or SVG; Drawing keeps them in memory.
package render

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/rct/pkg/graph"
)

// Surface is a line sink backed by some output format.
type Surface interface {
	Line(p0, p1 v2.Vec)
	Save() error
}

// DefaultMassSize is the half-width of the cross drawn for a mass.
const DefaultMassSize = 0.5

type options struct {
	massSize float64
	masses   bool
	springs  bool
	filter   func(*graph.Mass) bool
}

// Option adjusts what Draw emits.
type Option func(*options)

// WithMassSize sets the half-width of mass crosses. Panics on size <= 0.
func WithMassSize(size float64) Option {
	if size <= 0 {
		panic("render: WithMassSize(size<=0)")
	}
	return func(o *options) {
		o.massSize = size
	}
}

// WithoutMasses draws springs only.
func WithoutMasses() Option {
	return func(o *options) {
		o.masses = false
	}
}

// WithoutSprings draws masses only.
func WithoutSprings() Option {
	return func(o *options) {
		o.springs = false
	}
}

// OnlyTypes restricts drawing to masses of the given types and springs
// between them.
func OnlyTypes(types ...graph.MassType) Option {
	return func(o *options) {
		o.filter = func(m *graph.Mass) bool {
			for _, t := range types {
				if m.Type == t {
					return true
				}
			}
			return false
		}
	}
}

// Draw emits every spring as a line and every mass as a small cross, in
// insertion order. It never mutates the graph and does not call Save.
func Draw(g *graph.NetworkGraph, s Surface, opts ...Option) {
	o := options{massSize: DefaultMassSize, masses: true, springs: true}
	for _, opt := range opts {
		opt(&o)
	}
	keep := func(m *graph.Mass) bool { return o.filter == nil || o.filter(m) }

	if o.springs {
		for _, sp := range g.Springs() {
			if keep(sp.Source) && keep(sp.Destination) {
				s.Line(sp.Segment())
			}
		}
	}

	if o.masses {
		d := o.massSize
		for _, m := range g.Masses() {
			if !keep(m) {
				continue
			}
			p := m.Pos()
			s.Line(p.Add(v2.Vec{X: -d, Y: -d}), p.Add(v2.Vec{X: d, Y: d}))
			s.Line(p.Add(v2.Vec{X: -d, Y: d}), p.Add(v2.Vec{X: d, Y: -d}))
		}
	}
}

// Render draws g onto s and saves it.
func Render(g *graph.NetworkGraph, s Surface, opts ...Option) error {
	Draw(g, s, opts...)
	if err := s.Save(); err != nil {
		return fmt.Errorf("render: failed to save drawing: %w", err)
	}
	return nil
}
