package files

import (
	"context"
	"io"
)

// Storage puerto de salida hacia el almacenamiento de objetos.
// Implementaciones: disco local y bucket S3 (según configuración).
type Storage interface {
	// Put guarda el objeto bajo la clave dada, sobrescribiendo si existe.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get devuelve el contenido del objeto. domain.ErrNotFound si no existe.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete elimina el objeto. Borrar una clave inexistente no es error.
	Delete(ctx context.Context, key string) error
}
