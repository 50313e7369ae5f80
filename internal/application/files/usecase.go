package files

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

// UseCase archivos adjuntos: subida con hash de contenido, descarga, borrado,
// etiquetas y vínculos polimórficos a proyectos, clientes y facturas.
type UseCase struct {
	fileRepo     repository.FileRepository
	projectRepo  repository.ProjectRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	storage      Storage
}

// NewUseCase construye el caso de uso.
func NewUseCase(fileRepo repository.FileRepository, projectRepo repository.ProjectRepository, customerRepo repository.CustomerRepository, invoiceRepo repository.InvoiceRepository, storage Storage) *UseCase {
	return &UseCase{
		fileRepo:     fileRepo,
		projectRepo:  projectRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		storage:      storage,
	}
}

// Upload calcula el SHA-256 del contenido, guarda el objeto bajo
// "<company_id>/<hash>" y registra la fila. Si la fila falla, el objeto se
// limpia best-effort para no dejar huérfanos.
func (uc *UseCase) Upload(ctx context.Context, companyID, uploaderID, originalName, mimeType string, content []byte) (*dto.FileResponse, error) {
	if originalName == "" || len(content) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])
	key := companyID + "/" + hash

	now := time.Now()
	file := &entity.StoredFile{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		UploaderID:   uploaderID,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         int64(len(content)),
		ContentHash:  hash,
		StorageKey:   key,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.storage.Put(ctx, key, bytes.NewReader(content), file.Size, mimeType); err != nil {
		return nil, fmt.Errorf("guardar objeto: %w", err)
	}
	if err := uc.fileRepo.Create(file); err != nil {
		_ = uc.storage.Delete(ctx, key) // limpiar el objeto recién subido
		return nil, err
	}
	return toFileResponse(file, nil), nil
}

// Download devuelve metadatos y contenido. Registro u objeto ausentes -> NotFound.
func (uc *UseCase) Download(ctx context.Context, companyID, fileID string) (*dto.FileResponse, []byte, error) {
	file, err := uc.fileRepo.GetByCompanyAndID(companyID, fileID)
	if err != nil {
		return nil, nil, err
	}
	if file == nil {
		return nil, nil, domain.ErrNotFound
	}
	rc, err := uc.storage.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("leer objeto: %w", err)
	}
	links, err := uc.fileRepo.GetLinks(file.ID)
	if err != nil {
		return nil, nil, err
	}
	return toFileResponse(file, links), content, nil
}

// Delete elimina registro y objeto. Si el registro se borró pero el objeto no,
// se devuelve ErrStorageInconsistent en lugar de tragarse el fallo.
func (uc *UseCase) Delete(ctx context.Context, companyID, fileID string) error {
	file, err := uc.fileRepo.GetByCompanyAndID(companyID, fileID)
	if err != nil {
		return err
	}
	if file == nil {
		return domain.ErrNotFound
	}
	if err := uc.fileRepo.Delete(companyID, fileID); err != nil {
		return err
	}
	if err := uc.storage.Delete(ctx, file.StorageKey); err != nil {
		return fmt.Errorf("%w: registro eliminado pero el objeto %s sigue almacenado: %v",
			domain.ErrStorageInconsistent, file.StorageKey, err)
	}
	return nil
}

// GetByID devuelve los metadatos del archivo con etiquetas y vínculos.
func (uc *UseCase) GetByID(companyID, fileID string) (*dto.FileResponse, error) {
	file, err := uc.fileRepo.GetByCompanyAndID(companyID, fileID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, domain.ErrNotFound
	}
	links, err := uc.fileRepo.GetLinks(file.ID)
	if err != nil {
		return nil, err
	}
	return toFileResponse(file, links), nil
}

// List lista los archivos de la empresa con paginación.
func (uc *UseCase) List(companyID string, page dto.PageRequest) (*dto.FileListResponse, error) {
	page.DefaultPage()
	list, err := uc.fileRepo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.fileRepo.CountByCompany(companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FileResponse, 0, len(list))
	for _, f := range list {
		items = append(items, *toFileResponse(f, nil))
	}
	return &dto.FileListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// SetTags reemplaza el conjunto completo de etiquetas del archivo.
func (uc *UseCase) SetTags(companyID, fileID string, tags []string) error {
	file, err := uc.fileRepo.GetByCompanyAndID(companyID, fileID)
	if err != nil {
		return err
	}
	if file == nil {
		return domain.ErrNotFound
	}
	return uc.fileRepo.SetTags(fileID, tags)
}

// Link vincula el archivo a un proyecto, cliente o factura de la misma empresa.
func (uc *UseCase) Link(companyID, fileID string, in dto.LinkFileRequest) error {
	if !entity.ValidFileTarget(in.TargetType) || in.TargetID == "" {
		return domain.ErrInvalidInput
	}
	file, err := uc.fileRepo.GetByCompanyAndID(companyID, fileID)
	if err != nil {
		return err
	}
	if file == nil {
		return domain.ErrNotFound
	}
	exists, err := uc.targetExists(companyID, in.TargetType, in.TargetID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return uc.fileRepo.Link(&entity.FileLink{
		FileID:     fileID,
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		CreatedAt:  time.Now(),
	})
}

// Unlink elimina un vínculo del archivo.
func (uc *UseCase) Unlink(companyID, fileID, targetType, targetID string) error {
	file, err := uc.fileRepo.GetByCompanyAndID(companyID, fileID)
	if err != nil {
		return err
	}
	if file == nil {
		return domain.ErrNotFound
	}
	return uc.fileRepo.Unlink(fileID, targetType, targetID)
}

// ListByTarget lista los archivos vinculados a un destino.
func (uc *UseCase) ListByTarget(companyID, targetType, targetID string) ([]dto.FileResponse, error) {
	if !entity.ValidFileTarget(targetType) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.fileRepo.ListByTarget(companyID, targetType, targetID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FileResponse, 0, len(list))
	for _, f := range list {
		items = append(items, *toFileResponse(f, nil))
	}
	return items, nil
}

// targetExists verifica que el destino del vínculo pertenezca a la empresa.
func (uc *UseCase) targetExists(companyID, targetType, targetID string) (bool, error) {
	switch targetType {
	case entity.FileTargetProject:
		p, err := uc.projectRepo.GetByCompanyAndID(companyID, targetID)
		return p != nil, err
	case entity.FileTargetCustomer:
		c, err := uc.customerRepo.GetByCompanyAndID(companyID, targetID)
		return c != nil, err
	case entity.FileTargetInvoice:
		inv, err := uc.invoiceRepo.GetByCompanyAndID(companyID, targetID)
		return inv != nil, err
	}
	return false, nil
}

func toFileResponse(f *entity.StoredFile, links []*entity.FileLink) *dto.FileResponse {
	resp := &dto.FileResponse{
		ID:           f.ID,
		CompanyID:    f.CompanyID,
		UploaderID:   f.UploaderID,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		ContentHash:  f.ContentHash,
		Tags:         f.Tags,
		CreatedAt:    f.CreatedAt,
	}
	for _, l := range links {
		resp.Links = append(resp.Links, dto.FileLink{TargetType: l.TargetType, TargetID: l.TargetID})
	}
	return resp
}
