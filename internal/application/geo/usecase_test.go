package geo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/application/geo"
	"github.com/stavbase/stavbase-api/internal/domain"
)

// fakeSuggestClient captura los argumentos con los que se delega al proveedor.
type fakeSuggestClient struct {
	gotQuery string
	gotLimit int
	gotLang  string
	items    []dto.GeoSuggestion
	err      error
}

func (f *fakeSuggestClient) Suggest(_ context.Context, query string, limit int, lang string) ([]dto.GeoSuggestion, error) {
	f.gotQuery = query
	f.gotLimit = limit
	f.gotLang = lang
	return f.items, f.err
}

func TestSuggest_AcotaElLimite(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"cero usa el valor por defecto", 0, 7},
		{"negativo usa el valor por defecto", -5, 7},
		{"dentro del rango se respeta", 3, 3},
		{"maximo permitido", 10, 10},
		{"por encima del maximo se recorta", 99, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeSuggestClient{}
			uc := geo.NewUseCase(client)
			_, err := uc.Suggest(context.Background(), "Dlouhá 12", tc.limit, "cs")
			require.NoError(t, err)
			assert.Equal(t, tc.want, client.gotLimit)
		})
	}
}

func TestSuggest_ConsultaVacia(t *testing.T) {
	client := &fakeSuggestClient{}
	uc := geo.NewUseCase(client)
	_, err := uc.Suggest(context.Background(), "   ", 5, "cs")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, client.gotQuery, "no debe llegar al proveedor")
}

func TestSuggest_IdiomaPorDefecto(t *testing.T) {
	client := &fakeSuggestClient{}
	uc := geo.NewUseCase(client)
	_, err := uc.Suggest(context.Background(), "Brno", 5, "")
	require.NoError(t, err)
	assert.Equal(t, "cs", client.gotLang)
}

func TestSuggest_RecortaLaConsulta(t *testing.T) {
	client := &fakeSuggestClient{items: []dto.GeoSuggestion{{Label: "Dlouhá 12, Praha", City: "Praha"}}}
	uc := geo.NewUseCase(client)
	resp, err := uc.Suggest(context.Background(), "  Dlouhá 12  ", 5, "cs")
	require.NoError(t, err)
	assert.Equal(t, "Dlouhá 12", client.gotQuery)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Praha", resp.Items[0].City)
}

func TestSuggest_ProveedorCaido(t *testing.T) {
	client := &fakeSuggestClient{err: domain.ErrServiceUnavailable}
	uc := geo.NewUseCase(client)
	_, err := uc.Suggest(context.Background(), "Brno", 5, "cs")
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}
