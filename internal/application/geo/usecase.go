package geo

import (
	"context"
	"strings"

	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/domain"
)

// SuggestClient puerto de salida hacia el proveedor de autocompletado de direcciones.
type SuggestClient interface {
	// Suggest consulta el proveedor. Devuelve domain.ErrServiceUnavailable ante
	// timeout o 5xx remoto.
	Suggest(ctx context.Context, query string, limit int, lang string) ([]dto.GeoSuggestion, error)
}

// Límites del parámetro limit del endpoint de sugerencias.
const (
	DefaultLimit = 7
	MinLimit     = 1
	MaxLimit     = 10
)

// UseCase autocompletado de direcciones (delegado al proveedor externo).
type UseCase struct {
	client SuggestClient
}

// NewUseCase construye el caso de uso.
func NewUseCase(client SuggestClient) *UseCase {
	return &UseCase{client: client}
}

// Suggest valida la consulta, acota limit a [1,10] (7 por defecto) y delega.
func (uc *UseCase) Suggest(ctx context.Context, query string, limit int, lang string) (*dto.GeoSuggestResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if lang == "" {
		lang = "cs"
	}
	items, err := uc.client.Suggest(ctx, query, limit, lang)
	if err != nil {
		return nil, err
	}
	return &dto.GeoSuggestResponse{Items: items}, nil
}
