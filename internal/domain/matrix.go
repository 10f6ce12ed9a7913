package domain

import (
	"fmt"
	"math"
)

type Unit string

const (
	Meters  Unit = "m"
	Seconds Unit = "s"
)

// Square table of non-negative pairwise costs.
// +Inf marks an unreachable pair; the diagonal is ignored.
type PairMatrix struct {
	Unit   Unit
	Values [][]float64
}

// NewPairMatrix validates that values is an n×n table without negative or NaN
// entries and returns a private copy of it.
func NewPairMatrix(values [][]float64, n int, unit Unit) (PairMatrix, error) {
	if len(values) != n {
		return PairMatrix{}, fmt.Errorf("%s matrix: %d rows, want %d: %w", unit, len(values), n, ErrShapeMismatch)
	}

	out := make([][]float64, n)
	for i, row := range values {
		if len(row) != n {
			return PairMatrix{}, fmt.Errorf("%s matrix: row %d has %d columns, want %d: %w", unit, i, len(row), n, ErrShapeMismatch)
		}
		out[i] = make([]float64, n)
		for j, v := range row {
			if i == j {
				continue
			}
			if math.IsNaN(v) || v < 0 {
				return PairMatrix{}, fmt.Errorf("%s matrix: entry [%d][%d]=%v must be non-negative: %w", unit, i, j, v, ErrShapeMismatch)
			}
			out[i][j] = v
		}
	}

	return PairMatrix{Unit: unit, Values: out}, nil
}

func (m PairMatrix) Size() int { return len(m.Values) }

func (m PairMatrix) At(i, j int) float64 { return m.Values[i][j] }

// Reachable reports whether the pair i→j has a finite cost.
func (m PairMatrix) Reachable(i, j int) bool { return !math.IsInf(m.Values[i][j], 1) }
