// Package graph defines the mass-spring network graph for rct.
// A NetworkGraph owns an ordered sequence of masses and springs. Insertion
// order is the only notion of mass index and drives the canonical export
// ordering of springs; later operations never reorder it except by removal.
package graph
