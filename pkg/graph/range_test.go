package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTighter(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want Range
	}{
		{"inner range wins", NewRange(-5, 5), NewRange(-2, 2), NewRange(-2, 2)},
		{"mixed bounds", NewRange(-5, 5), NewRange(-2, 10), NewRange(-2, 5)},
		{"wide first", NewRange(-500, 500), NewRange(-2, 10), NewRange(-2, 10)},
		{"wide second", NewRange(-2, 10), NewRange(-500, 500), NewRange(-2, 10)},
		{"reversed input", NewRange(5, -5), NewRange(-2, 2), NewRange(5, -5)},
		{"disjoint", NewRange(0, 1), NewRange(3, 4), NewRange(3, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tighter(tt.a, tt.b)
			assert.InDelta(t, tt.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-9)
		})
	}
}

func TestTighterIsMaxOfMinsMinOfMaxs(t *testing.T) {
	values := []float64{-7, -1.5, 0, 2, 9}
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				for _, d := range values {
					got := Tighter(NewRange(a, b), NewRange(c, d))
					assert.Equal(t, max(a, c), got.Min)
					assert.Equal(t, min(b, d), got.Max)
				}
			}
		}
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(1, 3)

	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(2.5))
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(0.999))
	assert.False(t, r.Contains(3.001))
	assert.False(t, NewRange(3, 1).Contains(2))
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, "[-1000, 1000]", NewRange(-1000, 1000).String())
	assert.Equal(t, "[0.5, 2]", NewRange(0.5, 2).String())
}
