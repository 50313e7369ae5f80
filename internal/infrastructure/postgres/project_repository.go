package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación de ProjectRepository (usable con pool o tx).
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `id, company_id, code, manager_id, status, created_at, updated_at`

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(&p.ID, &p.CompanyID, &p.Code, &p.ManagerID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo proyecto.
func (r *ProjectRepo) Create(project *entity.Project) error {
	query := `
		INSERT INTO projects (id, company_id, code, manager_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		project.ID, project.CompanyID, project.Code, project.ManagerID, project.Status,
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByCompanyAndID obtiene un proyecto dentro del tenant.
func (r *ProjectRepo) GetByCompanyAndID(companyID, id string) (*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE company_id = $1 AND id = $2`
	p, err := scanProject(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// GetByCompanyAndCode busca por código dentro del tenant.
func (r *ProjectRepo) GetByCompanyAndCode(companyID, code string) (*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE company_id = $1 AND code = $2`
	p, err := scanProject(r.q.QueryRow(context.Background(), query, companyID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project by code: %w", err)
	}
	return p, nil
}

// GetActiveByManager devuelve el proyecto ACTIVO gestionado por el miembro.
func (r *ProjectRepo) GetActiveByManager(companyID, managerID string) (*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE company_id = $1 AND manager_id = $2 AND status = 'ACTIVE'`
	p, err := scanProject(r.q.QueryRow(context.Background(), query, companyID, managerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project by manager: %w", err)
	}
	return p, nil
}

func projectFilterWhere(f repository.ProjectFilter, args []any) (string, []any) {
	where := ""
	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	if f.ManagerID != nil {
		args = append(args, *f.ManagerID)
		where += fmt.Sprintf(" AND p.manager_id = $%d", len(args))
	}
	if f.Search != nil {
		args = append(args, "%"+*f.Search+"%")
		where += fmt.Sprintf(
			" AND (p.code ILIKE $%d OR EXISTS (SELECT 1 FROM project_translations t WHERE t.project_id = p.id AND t.name ILIKE $%d))",
			len(args), len(args))
	}
	return where, args
}

// ListByCompany lista proyectos de la empresa con filtros y paginación.
func (r *ProjectRepo) ListByCompany(companyID string, f repository.ProjectFilter, limit, offset int) ([]*entity.Project, error) {
	args := []any{companyID}
	where, args := projectFilterWhere(f, args)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT p.id, p.company_id, p.code, p.manager_id, p.status, p.created_at, p.updated_at
		FROM projects p WHERE p.company_id = $1%s
		ORDER BY p.code LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var list []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CountByCompany cuenta proyectos con los mismos filtros del listado.
func (r *ProjectRepo) CountByCompany(companyID string, f repository.ProjectFilter) (int, error) {
	args := []any{companyID}
	where, args := projectFilterWhere(f, args)
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM projects p WHERE p.company_id = $1`+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return total, nil
}

// Update actualiza un proyecto.
func (r *ProjectRepo) Update(project *entity.Project) error {
	query := `
		UPDATE projects SET code = $3, manager_id = $4, status = $5, updated_at = $6
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query,
		project.CompanyID, project.ID, project.Code, project.ManagerID, project.Status, project.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia el estado del proyecto (archivar/reactivar).
func (r *ProjectRepo) UpdateStatus(companyID, id, status string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE projects SET status = $3, updated_at = $4 WHERE company_id = $1 AND id = $2`,
		companyID, id, status, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update project status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertTranslation inserta o actualiza la traducción (ProjectID, Locale).
func (r *ProjectRepo) UpsertTranslation(tr *entity.ProjectTranslation) error {
	query := `
		INSERT INTO project_translations (project_id, locale, name, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, locale) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`
	_, err := r.q.Exec(context.Background(), query, tr.ProjectID, tr.Locale, tr.Name, tr.Description)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("upsert translation: %w", err)
	}
	return nil
}

// GetTranslations devuelve todas las traducciones del proyecto.
func (r *ProjectRepo) GetTranslations(projectID string) ([]*entity.ProjectTranslation, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT project_id, locale, name, description FROM project_translations WHERE project_id = $1 ORDER BY locale`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("get translations: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProjectTranslation
	for rows.Next() {
		var t entity.ProjectTranslation
		if err := rows.Scan(&t.ProjectID, &t.Locale, &t.Name, &t.Description); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
