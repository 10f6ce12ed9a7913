package domain

import (
	"fmt"
	"strings"
)

// Ordered universe of stops for one planning request.
// The position of a name is its row/column in every matrix of the request.
type LocationSet struct {
	names []string
	index map[string]int
}

// NewLocationSet validates the identifiers (at least two, non-empty, unique)
// and freezes their order.
func NewLocationSet(names []string) (*LocationSet, error) {
	if len(names) < 2 {
		return nil, fmt.Errorf("new location set: need at least 2 locations, got %d: %w", len(names), ErrInvalidLocations)
	}

	set := &LocationSet{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			return nil, fmt.Errorf("new location set: empty identifier at index %d: %w", i, ErrInvalidLocations)
		}
		if prev, ok := set.index[n]; ok {
			return nil, fmt.Errorf("new location set: %q repeated at index %d and %d: %w", n, prev, i, ErrInvalidLocations)
		}
		set.index[n] = i
		set.names[i] = n
	}

	return set, nil
}

func (s *LocationSet) Len() int { return len(s.names) }

func (s *LocationSet) Name(i int) string { return s.names[i] }

// Names returns a copy of the identifiers in matrix order.
func (s *LocationSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// IndexOf resolves an identifier to its matrix index.
func (s *LocationSet) IndexOf(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("location %q: %w", name, ErrUnknownLocation)
	}
	return i, nil
}

// A named stop known to the location directory. Coordinates, when known,
// spare the distance provider a geocoding round trip.
type Location struct {
	Name        string
	Address     string
	Coordinates *Coordinates
}

// Query is the key the distance provider resolves for this stop: the
// "lat,lon" pair when coordinates are known, the address otherwise.
func (l Location) Query() string {
	if l.Coordinates != nil {
		return l.Coordinates.String()
	}
	return l.Address
}
