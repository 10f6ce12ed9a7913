package routing

import (
	"fmt"
	"route-cost-service/internal/domain"
)

// StartRef selects the start location either by identifier or by index.
// A non-empty Name wins over Index.
type StartRef struct {
	Index int
	Name  string
}

func StartAt(i int) StartRef { return StartRef{Index: i} }

func StartNamed(name string) StartRef { return StartRef{Name: name} }

// Validated planning input: locations, both matrices in location order and
// the resolved start index.
type Problem struct {
	Locations *domain.LocationSet
	Distance  domain.PairMatrix
	Time      domain.PairMatrix
	Start     int
}

// BuildProblem validates a location list and its distance (meters) and time
// (seconds) matrices and resolves the start reference.
func BuildProblem(names []string, distance, duration [][]float64, start StartRef) (*Problem, error) {
	set, err := domain.NewLocationSet(names)
	if err != nil {
		return nil, fmt.Errorf("build problem: %w", err)
	}
	n := set.Len()

	dist, err := domain.NewPairMatrix(distance, n, domain.Meters)
	if err != nil {
		return nil, fmt.Errorf("build problem: %w", err)
	}
	tm, err := domain.NewPairMatrix(duration, n, domain.Seconds)
	if err != nil {
		return nil, fmt.Errorf("build problem: %w", err)
	}

	idx := start.Index
	if start.Name != "" {
		idx, err = set.IndexOf(start.Name)
		if err != nil {
			return nil, fmt.Errorf("build problem: start: %w", err)
		}
	} else if idx < 0 || idx >= n {
		return nil, fmt.Errorf("build problem: start index %d not in [0, %d): %w", idx, n, domain.ErrIndexOutOfRange)
	}

	return &Problem{Locations: set, Distance: dist, Time: tm, Start: idx}, nil
}
