package projects

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

// UseCase proyectos de obra: CRUD, archivado y traducciones por locale.
type UseCase struct {
	repo       repository.ProjectRepository
	memberRepo repository.MemberRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ProjectRepository, memberRepo repository.MemberRepository) *UseCase {
	return &UseCase{repo: repo, memberRepo: memberRepo}
}

// Create crea un proyecto con su traducción inicial. El código es único por
// empresa y el manager debe ser miembro de ella.
func (uc *UseCase) Create(companyID string, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || strings.TrimSpace(in.Name) == "" || in.ManagerID == "" {
		return nil, domain.ErrInvalidInput
	}
	manager, err := uc.memberRepo.GetByCompanyAndUser(companyID, in.ManagerID)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetByCompanyAndCode(companyID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	// Un miembro gestiona como mucho un proyecto activo por empresa.
	managed, err := uc.repo.GetActiveByManager(companyID, in.ManagerID)
	if err != nil {
		return nil, err
	}
	if managed != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	project := &entity.Project{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      code,
		ManagerID: in.ManagerID,
		Status:    entity.ProjectStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(project); err != nil {
		return nil, err
	}
	locale := in.Locale
	if locale == "" {
		locale = "cs"
	}
	tr := &entity.ProjectTranslation{
		ProjectID:   project.ID,
		Locale:      locale,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
	}
	if err := uc.repo.UpsertTranslation(tr); err != nil {
		return nil, err
	}
	return toProjectResponse(project, []*entity.ProjectTranslation{tr}), nil
}

// GetByID devuelve el proyecto con todas sus traducciones, acotado al tenant.
func (uc *UseCase) GetByID(companyID, id string) (*dto.ProjectResponse, error) {
	project, err := uc.repo.GetByCompanyAndID(companyID, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	trs, err := uc.repo.GetTranslations(project.ID)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project, trs), nil
}

// List lista proyectos con filtro normalizado y paginación.
func (uc *UseCase) List(companyID string, rawFilter dto.ProjectListFilter, page dto.PageRequest) (*dto.ProjectListResponse, error) {
	f := rawFilter.Normalize()
	if f.Status != nil && !entity.ValidProjectStatus(*f.Status) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()

	repoFilter := repository.ProjectFilter{Status: f.Status, ManagerID: f.ManagerID, Search: f.Search}
	list, err := uc.repo.ListByCompany(companyID, repoFilter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountByCompany(companyID, repoFilter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProjectResponse(p, nil))
	}
	return &dto.ProjectListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update cambia código y manager. Un código ya usado en la empresa, o un manager
// que ya gestiona otro proyecto activo, devuelve domain.ErrDuplicate.
func (uc *UseCase) Update(companyID, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || in.ManagerID == "" {
		return nil, domain.ErrInvalidInput
	}
	project, err := uc.repo.GetByCompanyAndID(companyID, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	if code != project.Code {
		existing, err := uc.repo.GetByCompanyAndCode(companyID, code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	manager, err := uc.memberRepo.GetByCompanyAndUser(companyID, in.ManagerID)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, domain.ErrNotFound
	}
	if in.ManagerID != project.ManagerID && project.Status == entity.ProjectStatusActive {
		managed, err := uc.repo.GetActiveByManager(companyID, in.ManagerID)
		if err != nil {
			return nil, err
		}
		if managed != nil && managed.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	project.Code = code
	project.ManagerID = in.ManagerID
	project.UpdatedAt = time.Now()
	if err := uc.repo.Update(project); err != nil {
		return nil, err
	}
	trs, err := uc.repo.GetTranslations(project.ID)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project, trs), nil
}

// Archive pasa el proyecto a ARCHIVED.
func (uc *UseCase) Archive(companyID, id string) error {
	return uc.setStatus(companyID, id, entity.ProjectStatusArchived)
}

// Unarchive reactiva un proyecto archivado. Falla con domain.ErrDuplicate si su
// manager ya gestiona otro proyecto activo.
func (uc *UseCase) Unarchive(companyID, id string) error {
	project, err := uc.repo.GetByCompanyAndID(companyID, id)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.ErrNotFound
	}
	managed, err := uc.repo.GetActiveByManager(companyID, project.ManagerID)
	if err != nil {
		return err
	}
	if managed != nil && managed.ID != id {
		return domain.ErrDuplicate
	}
	return uc.setStatus(companyID, id, entity.ProjectStatusActive)
}

func (uc *UseCase) setStatus(companyID, id, status string) error {
	project, err := uc.repo.GetByCompanyAndID(companyID, id)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.ErrNotFound
	}
	if project.Status == status {
		return nil
	}
	return uc.repo.UpdateStatus(companyID, id, status)
}

// UpsertTranslation inserta o actualiza la traducción del proyecto para un locale.
func (uc *UseCase) UpsertTranslation(companyID, id, locale string, in dto.UpsertProjectTranslationRequest) error {
	locale = strings.TrimSpace(locale)
	if locale == "" || strings.TrimSpace(in.Name) == "" {
		return domain.ErrInvalidInput
	}
	project, err := uc.repo.GetByCompanyAndID(companyID, id)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.ErrNotFound
	}
	return uc.repo.UpsertTranslation(&entity.ProjectTranslation{
		ProjectID:   project.ID,
		Locale:      locale,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
	})
}

func toProjectResponse(p *entity.Project, trs []*entity.ProjectTranslation) *dto.ProjectResponse {
	resp := &dto.ProjectResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Code:      p.Code,
		ManagerID: p.ManagerID,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, tr := range trs {
		resp.Translations = append(resp.Translations, dto.ProjectTranslationDTO{
			Locale:      tr.Locale,
			Name:        tr.Name,
			Description: tr.Description,
		})
	}
	return resp
}
