package handlers

import (
	"net/http"
	"route-cost-service/internal/api/dto"
	"route-cost-service/internal/ports"
)

type LocationHandler struct {
	Repo ports.LocationRepository
}

// List returns the location directory.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	locs, err := h.Repo.ListLocations(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListLocationResponse{Locations: make([]dto.LocationResponse, 0, len(locs))}
	for _, l := range locs {
		item := dto.LocationResponse{Name: l.Name, Address: l.Address}
		if l.Coordinates != nil {
			lat, lon := l.Coordinates.Lat, l.Coordinates.Lon
			item.Latitude, item.Longitude = &lat, &lon
		}
		res.Locations = append(res.Locations, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}
