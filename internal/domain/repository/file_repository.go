package repository

import "github.com/stavbase/stavbase-api/internal/domain/entity"

// FileRepository define el puerto de persistencia para StoredFile, etiquetas y vínculos.
type FileRepository interface {
	Create(file *entity.StoredFile) error
	GetByCompanyAndID(companyID, id string) (*entity.StoredFile, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.StoredFile, error)
	CountByCompany(companyID string) (int, error)
	// ListByTarget lista los archivos vinculados a un destino (proyecto, cliente o factura).
	ListByTarget(companyID, targetType, targetID string) ([]*entity.StoredFile, error)
	Delete(companyID, id string) error
	// SetTags reemplaza el conjunto completo de etiquetas del archivo.
	SetTags(fileID string, tags []string) error
	Link(link *entity.FileLink) error
	Unlink(fileID, targetType, targetID string) error
	GetLinks(fileID string) ([]*entity.FileLink, error)
}
