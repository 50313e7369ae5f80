package repository

import "github.com/stavbase/stavbase-api/internal/domain/entity"

// ProjectFilter criterios ya normalizados para listar proyectos.
type ProjectFilter struct {
	Status    *string
	ManagerID *string
	Search    *string // texto libre sobre código y nombre traducido
}

// ProjectRepository define el puerto de persistencia para Project y sus traducciones.
type ProjectRepository interface {
	Create(project *entity.Project) error
	GetByCompanyAndID(companyID, id string) (*entity.Project, error)
	// GetByCompanyAndCode busca por código dentro del tenant (único por empresa).
	GetByCompanyAndCode(companyID, code string) (*entity.Project, error)
	// GetActiveByManager devuelve el proyecto ACTIVO gestionado por el miembro,
	// o nil si no gestiona ninguno (como mucho uno por empresa).
	GetActiveByManager(companyID, managerID string) (*entity.Project, error)
	ListByCompany(companyID string, f ProjectFilter, limit, offset int) ([]*entity.Project, error)
	CountByCompany(companyID string, f ProjectFilter) (int, error)
	Update(project *entity.Project) error
	UpdateStatus(companyID, id, status string) error
	// UpsertTranslation inserta o actualiza la traducción (ProjectID, Locale).
	UpsertTranslation(tr *entity.ProjectTranslation) error
	GetTranslations(projectID string) ([]*entity.ProjectTranslation, error)
}
