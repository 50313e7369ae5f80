// Package geo implementa el cliente del proveedor de autocompletado de direcciones
// (API de sugerencias de Mapy.cz).
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stavbase/stavbase-api/internal/application/dto"
	appgeo "github.com/stavbase/stavbase-api/internal/application/geo"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/pkg/config"
)

var _ appgeo.SuggestClient = (*Client)(nil)

// Client cliente HTTP del endpoint de sugerencias.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient construye el cliente con la configuración de la app.
func NewClient(cfg config.GeoConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// suggestResponse forma del JSON del proveedor.
type suggestResponse struct {
	Items []struct {
		Name     string `json:"name"`
		Label    string `json:"label"`
		Location string `json:"location"`
		Zip      string `json:"zip"`
		RegionalStructure []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"regionalStructure"`
		Position struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"position"`
	} `json:"items"`
}

// Suggest consulta el proveedor y traduce los resultados.
func (c *Client) Suggest(ctx context.Context, query string, limit int, lang string) ([]dto.GeoSuggestion, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("lang", lang)
	params.Set("type", "regional.address")
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("crear request geo: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: proveedor geo no responde: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: proveedor geo devolvió %d", domain.ErrServiceUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("proveedor geo devolvió %d", resp.StatusCode)
	}

	var body suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decodificar respuesta geo: %w", err)
	}

	suggestions := make([]dto.GeoSuggestion, 0, len(body.Items))
	for _, item := range body.Items {
		s := dto.GeoSuggestion{
			Label:       item.Name,
			Street:      item.Name,
			Zip:         item.Zip,
			CountryCode: "CZ",
			Lat:         item.Position.Lat,
			Lon:         item.Position.Lon,
		}
		if item.Label != "" {
			s.Label = item.Label
		}
		for _, reg := range item.RegionalStructure {
			switch reg.Type {
			case "regional.municipality":
				s.City = reg.Name
			case "regional.country":
				if len(reg.Name) == 2 {
					s.CountryCode = reg.Name
				}
			}
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}
