package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

var _ repository.FileRepository = (*FileRepo)(nil)

// FileRepo implementación de FileRepository (usable con pool o tx).
type FileRepo struct {
	q Querier
}

// NewFileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFileRepository(q Querier) *FileRepo {
	return &FileRepo{q: q}
}

const fileColumns = `id, company_id, uploader_id, original_name, mime_type, size,
	content_hash, storage_key, created_at, updated_at`

func scanFile(row pgx.Row) (*entity.StoredFile, error) {
	var f entity.StoredFile
	err := row.Scan(
		&f.ID, &f.CompanyID, &f.UploaderID, &f.OriginalName, &f.MimeType, &f.Size,
		&f.ContentHash, &f.StorageKey, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create persiste el registro del archivo y sus etiquetas iniciales.
func (r *FileRepo) Create(file *entity.StoredFile) error {
	ctx := context.Background()
	query := `
		INSERT INTO stored_files (id, company_id, uploader_id, original_name, mime_type, size,
			content_hash, storage_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		file.ID, file.CompanyID, file.UploaderID, file.OriginalName, file.MimeType, file.Size,
		file.ContentHash, file.StorageKey, file.CreatedAt, file.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert file: %w", err)
	}
	for _, tag := range file.Tags {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO file_tags (file_id, tag) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			file.ID, tag); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

// GetByCompanyAndID obtiene un archivo dentro del tenant, con etiquetas.
func (r *FileRepo) GetByCompanyAndID(companyID, id string) (*entity.StoredFile, error) {
	query := `SELECT ` + fileColumns + ` FROM stored_files WHERE company_id = $1 AND id = $2`
	f, err := scanFile(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	if f.Tags, err = r.loadTags(f.ID); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FileRepo) loadTags(fileID string) ([]string, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT tag FROM file_tags WHERE file_id = $1 ORDER BY tag`, fileID)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()
	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *FileRepo) scanFileRows(rows pgx.Rows) ([]*entity.StoredFile, error) {
	defer rows.Close()
	var list []*entity.StoredFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		list = append(list, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, f := range list {
		var err error
		if f.Tags, err = r.loadTags(f.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// ListByCompany lista archivos de la empresa con paginación.
func (r *FileRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StoredFile, error) {
	query := `SELECT ` + fileColumns + `
		FROM stored_files WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return r.scanFileRows(rows)
}

// CountByCompany cuenta todos los archivos de la empresa.
func (r *FileRepo) CountByCompany(companyID string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM stored_files WHERE company_id = $1`, companyID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return total, nil
}

// ListByTarget lista los archivos vinculados a un destino concreto.
func (r *FileRepo) ListByTarget(companyID, targetType, targetID string) ([]*entity.StoredFile, error) {
	query := `
		SELECT f.id, f.company_id, f.uploader_id, f.original_name, f.mime_type, f.size,
			f.content_hash, f.storage_key, f.created_at, f.updated_at
		FROM stored_files f
		JOIN file_links l ON l.file_id = f.id
		WHERE f.company_id = $1 AND l.target_type = $2 AND l.target_id = $3
		ORDER BY f.created_at DESC`
	rows, err := r.q.Query(context.Background(), query, companyID, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("list files by target: %w", err)
	}
	return r.scanFileRows(rows)
}

// Delete elimina el registro del archivo; etiquetas y vínculos caen en cascada.
func (r *FileRepo) Delete(companyID, id string) error {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM stored_files WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetTags reemplaza el conjunto completo de etiquetas del archivo.
func (r *FileRepo) SetTags(fileID string, tags []string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM file_tags WHERE file_id = $1`, fileID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	for _, tag := range tags {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO file_tags (file_id, tag) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			fileID, tag); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

// Link registra un vínculo polimórfico archivo -> destino.
func (r *FileRepo) Link(link *entity.FileLink) error {
	query := `
		INSERT INTO file_links (file_id, target_type, target_id, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		link.FileID, link.TargetType, link.TargetID, link.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

// Unlink elimina un vínculo concreto.
func (r *FileRepo) Unlink(fileID, targetType, targetID string) error {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM file_links WHERE file_id = $1 AND target_type = $2 AND target_id = $3`,
		fileID, targetType, targetID)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetLinks devuelve los vínculos del archivo.
func (r *FileRepo) GetLinks(fileID string) ([]*entity.FileLink, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT file_id, target_type, target_id, created_at FROM file_links WHERE file_id = $1`,
		fileID)
	if err != nil {
		return nil, fmt.Errorf("get links: %w", err)
	}
	defer rows.Close()
	var list []*entity.FileLink
	for rows.Next() {
		var l entity.FileLink
		if err := rows.Scan(&l.FileID, &l.TargetType, &l.TargetID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
