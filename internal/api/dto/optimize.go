package dto

import "math"

// OptimizeRequest carries raw matrices in meters and seconds. A null entry
// marks an unreachable pair. Start, when set, overrides StartIndex.
type OptimizeRequest struct {
	DistanceMatrix [][]*float64 `json:"distance_matrix"`
	TimeMatrix     [][]*float64 `json:"time_matrix"`
	LocationNames  []string     `json:"location_names"`
	StartIndex     int          `json:"start_index"`
	Start          string       `json:"start,omitempty"`
}

type BaselineRequest struct {
	OptimizeRequest
	Seed *uint64 `json:"seed,omitempty"`
}

type RouteResponse struct {
	Route            []string `json:"route"`
	TotalDistanceKm  float64  `json:"total_distance_km"`
	TotalTimeMinutes float64  `json:"total_time_minutes"`
}

// Matrix converts nullable JSON entries into a matrix where null is +Inf.
func Matrix(in [][]*float64) [][]float64 {
	if in == nil {
		return nil
	}
	out := make([][]float64, len(in))
	for i, row := range in {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				out[i][j] = math.Inf(1)
				continue
			}
			out[i][j] = *v
		}
	}
	return out
}
