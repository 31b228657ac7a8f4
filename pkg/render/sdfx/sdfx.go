// Package sdfx provides render.Surface backends on top of the
// github.com/deadsy/sdfx DXF and SVG writers.
package sdfx

import (
	"fmt"
	"path/filepath"
	"strings"

	sdfrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/rct/pkg/graph"
	"github.com/chazu/rct/pkg/render"
)

// Compile-time interface checks.
var (
	_ render.Surface = (*dxfSurface)(nil)
	_ render.Surface = (*sdfrender.SVG)(nil)
)

// DefaultLineStyle is the SVG style applied to every line.
const DefaultLineStyle = "fill:none;stroke:black;stroke-width:0.1"

// dxfSurface adapts the sdfx DXF writer, which takes sdf.Line2 values.
type dxfSurface struct {
	d *sdfrender.DXF
}

func (s *dxfSurface) Line(p0, p1 v2.Vec) {
	s.d.Line(&sdf.Line2{p0, p1})
}

func (s *dxfSurface) Save() error {
	return s.d.Save()
}

// NewDXF returns a surface that writes a DXF file to path on Save.
func NewDXF(path string) render.Surface {
	return &dxfSurface{d: sdfrender.NewDXF(path)}
}

// NewSVG returns a surface that writes an SVG file to path on Save.
func NewSVG(path string) render.Surface {
	return sdfrender.NewSVG(path, DefaultLineStyle)
}

// NewSurface picks the backend from the file extension.
func NewSurface(path string) (render.Surface, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dxf":
		return NewDXF(path), nil
	case ".svg":
		return NewSVG(path), nil
	default:
		return nil, fmt.Errorf("sdfx: unsupported drawing format %q", filepath.Ext(path))
	}
}

// WriteFile draws g into path, choosing DXF or SVG by extension.
func WriteFile(path string, g *graph.NetworkGraph, opts ...render.Option) error {
	s, err := NewSurface(path)
	if err != nil {
		return err
	}
	if err := render.Render(g, s, opts...); err != nil {
		return fmt.Errorf("sdfx: %s: %w", path, err)
	}
	return nil
}

// WriteDrawing replays a recorded drawing into path.
func WriteDrawing(path string, d *render.Drawing) error {
	s, err := NewSurface(path)
	if err != nil {
		return err
	}
	d.Replay(s)
	if err := s.Save(); err != nil {
		return fmt.Errorf("sdfx: %s: %w", path, err)
	}
	return nil
}
