// Package flat is an exact in-process nearest-neighbour index (brute-force L2).
// Suited to corpora of a few thousand vectors; search is O(n*dim).
package flat

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrDimMismatch is returned when a vector does not match the index dimension.
var ErrDimMismatch = errors.New("flat: vector dimension mismatch")

// Neighbor is a search hit: the vector's insertion position and its L2 distance.
type Neighbor struct {
	Pos      int
	Distance float32
}

// Index stores vectors in insertion order. Not safe for concurrent Add;
// concurrent Search after the last Add is safe.
type Index struct {
	dim     int
	vectors [][]float32
}

// New creates an index. dim <= 0 means "take the dimension of the first vector".
func New(dim int) *Index {
	return &Index{dim: dim}
}

// Dim returns the vector dimension, 0 while unknown.
func (x *Index) Dim() int { return x.dim }

// Len returns the number of stored vectors.
func (x *Index) Len() int { return len(x.vectors) }

// Add appends vectors. Positions continue from the current length.
func (x *Index) Add(vectors ...[]float32) error {
	for i, v := range vectors {
		if x.dim <= 0 {
			if len(v) == 0 {
				return fmt.Errorf("vector %d is empty: %w", i, ErrDimMismatch)
			}
			x.dim = len(v)
		}
		if len(v) != x.dim {
			return fmt.Errorf("vector %d has dim %d, index has %d: %w", i, len(v), x.dim, ErrDimMismatch)
		}
		cp := make([]float32, len(v))
		copy(cp, v)
		x.vectors = append(x.vectors, cp)
	}
	return nil
}

// Search returns up to k nearest vectors by Euclidean distance, ascending.
// Ties keep insertion order. An empty index returns no neighbours.
func (x *Index) Search(query []float32, k int) ([]Neighbor, error) {
	if len(x.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("query has dim %d, index has %d: %w", len(query), x.dim, ErrDimMismatch)
	}

	all := make([]Neighbor, len(x.vectors))
	for i, v := range x.vectors {
		all[i] = Neighbor{Pos: i, Distance: L2(query, v)}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Distance < all[j].Distance
	})

	if k < len(all) {
		all = all[:k]
	}
	return all, nil
}

// L2 is the Euclidean distance between equal-length vectors.
func L2(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}
