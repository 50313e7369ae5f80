package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stavbase/stavbase-api/internal/application/files"
	"github.com/stavbase/stavbase-api/internal/domain"
)

var _ files.Storage = (*LocalStorage)(nil)

// LocalStorage guarda los objetos como archivos bajo un directorio raíz.
// La clave "<company_id>/<hash>" se convierte en la ruta relativa del archivo.
type LocalStorage struct {
	root string
}

// NewLocalStorage crea el driver local y asegura el directorio raíz.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("crear directorio de almacenamiento: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Put guarda el objeto, sobrescribiendo si existe. Escribe a un archivo temporal
// y renombra para que nunca quede un objeto a medias.
func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	dst := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("crear directorio del objeto: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("escribir objeto: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("publicar objeto: %w", err)
	}
	return nil
}

// Get devuelve el contenido del objeto.
func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("abrir objeto: %w", err)
	}
	return f, nil
}

// Delete elimina el objeto. Borrar una clave inexistente no es error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("borrar objeto: %w", err)
	}
	return nil
}
