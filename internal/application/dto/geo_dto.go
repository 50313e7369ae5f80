package dto

// GeoSuggestion una sugerencia de dirección del proveedor de geocoding.
type GeoSuggestion struct {
	Label       string  `json:"label"`
	Street      string  `json:"street,omitempty"`
	City        string  `json:"city,omitempty"`
	Zip         string  `json:"zip,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Lat         float64 `json:"lat,omitempty"`
	Lon         float64 `json:"lon,omitempty"`
}

// GeoSuggestResponse respuesta de GET /api/v1/geo/suggest.
type GeoSuggestResponse struct {
	Items []GeoSuggestion `json:"items"`
}
