package dto

type LocationResponse struct {
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type ListLocationResponse struct {
	Locations []LocationResponse `json:"locations"`
}
