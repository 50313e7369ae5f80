package projects_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/application/projects"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

const testCompanyID = "empresa-1"

// ── fakes ───────────────────────────────────────────────────────────

// fakeProjectRepo proyectos en memoria indexados por ID.
type fakeProjectRepo struct {
	repository.ProjectRepository
	projects     map[string]*entity.Project
	translations map[string][]*entity.ProjectTranslation
}

func newFakeProjectRepo(ps ...*entity.Project) *fakeProjectRepo {
	f := &fakeProjectRepo{
		projects:     map[string]*entity.Project{},
		translations: map[string][]*entity.ProjectTranslation{},
	}
	for _, p := range ps {
		f.projects[p.ID] = p
	}
	return f
}

func (f *fakeProjectRepo) Create(p *entity.Project) error {
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjectRepo) GetByCompanyAndID(companyID, id string) (*entity.Project, error) {
	p, ok := f.projects[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectRepo) GetByCompanyAndCode(companyID, code string) (*entity.Project, error) {
	for _, p := range f.projects {
		if p.CompanyID == companyID && p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProjectRepo) GetActiveByManager(companyID, managerID string) (*entity.Project, error) {
	for _, p := range f.projects {
		if p.CompanyID == companyID && p.ManagerID == managerID && p.Status == entity.ProjectStatusActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProjectRepo) Update(p *entity.Project) error {
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) UpdateStatus(_, id, status string) error {
	f.projects[id].Status = status
	return nil
}

func (f *fakeProjectRepo) UpsertTranslation(tr *entity.ProjectTranslation) error {
	for i, t := range f.translations[tr.ProjectID] {
		if t.Locale == tr.Locale {
			f.translations[tr.ProjectID][i] = tr
			return nil
		}
	}
	f.translations[tr.ProjectID] = append(f.translations[tr.ProjectID], tr)
	return nil
}

func (f *fakeProjectRepo) GetTranslations(projectID string) ([]*entity.ProjectTranslation, error) {
	return f.translations[projectID], nil
}

type fakeMemberRepo struct {
	repository.MemberRepository
	members map[string]*entity.CompanyMember
}

func (f *fakeMemberRepo) GetByCompanyAndUser(companyID, userID string) (*entity.CompanyMember, error) {
	m, ok := f.members[userID]
	if !ok || m.CompanyID != companyID {
		return nil, nil
	}
	return m, nil
}

// ── helpers ─────────────────────────────────────────────────────────

func project(id, code, managerID, status string) *entity.Project {
	now := time.Now()
	return &entity.Project{
		ID:        id,
		CompanyID: testCompanyID,
		Code:      code,
		ManagerID: managerID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func buildUseCase(t *testing.T, ps ...*entity.Project) (*projects.UseCase, *fakeProjectRepo) {
	t.Helper()
	repo := newFakeProjectRepo(ps...)
	members := &fakeMemberRepo{members: map[string]*entity.CompanyMember{
		"petr":  {CompanyID: testCompanyID, UserID: "petr", Role: entity.RoleMember},
		"jana":  {CompanyID: testCompanyID, UserID: "jana", Role: entity.RoleMember},
		"karel": {CompanyID: testCompanyID, UserID: "karel", Role: entity.RoleAdmin},
	}}
	return projects.NewUseCase(repo, members), repo
}

// ── Create ──────────────────────────────────────────────────────────

func TestCreate_ProyectoConTraduccionInicial(t *testing.T) {
	uc, repo := buildUseCase(t)

	resp, err := uc.Create(testCompanyID, dto.CreateProjectRequest{
		Code:      " OBRA-01 ",
		ManagerID: "petr",
		Name:      "Bytový dům Karlín",
	})
	require.NoError(t, err)

	assert.Equal(t, "OBRA-01", resp.Code, "código recortado")
	assert.Equal(t, entity.ProjectStatusActive, resp.Status)
	require.Len(t, resp.Translations, 1)
	assert.Equal(t, "cs", resp.Translations[0].Locale, "locale por defecto")
	require.Contains(t, repo.projects, resp.ID)
}

func TestCreate_CodigoDuplicado(t *testing.T) {
	uc, _ := buildUseCase(t, project("p-1", "OBRA-01", "petr", entity.ProjectStatusActive))

	_, err := uc.Create(testCompanyID, dto.CreateProjectRequest{
		Code:      "OBRA-01",
		ManagerID: "jana",
		Name:      "Otro proyecto",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_ManagerNoEsMiembro(t *testing.T) {
	uc, _ := buildUseCase(t)

	_, err := uc.Create(testCompanyID, dto.CreateProjectRequest{
		Code:      "OBRA-01",
		ManagerID: "forastero",
		Name:      "Proyecto",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── un manager, un proyecto activo ──────────────────────────────────

func TestCreate_ManagerYaGestionaProyectoActivo(t *testing.T) {
	uc, repo := buildUseCase(t, project("p-1", "OBRA-01", "petr", entity.ProjectStatusActive))

	_, err := uc.Create(testCompanyID, dto.CreateProjectRequest{
		Code:      "OBRA-02",
		ManagerID: "petr",
		Name:      "Segunda obra",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, repo.projects, 1, "el segundo proyecto no debe crearse")
}

// Un proyecto archivado libera a su manager para una obra nueva.
func TestCreate_ManagerDeProyectoArchivadoQuedaLibre(t *testing.T) {
	uc, _ := buildUseCase(t, project("p-1", "OBRA-01", "petr", entity.ProjectStatusArchived))

	_, err := uc.Create(testCompanyID, dto.CreateProjectRequest{
		Code:      "OBRA-02",
		ManagerID: "petr",
		Name:      "Obra nueva",
	})
	assert.NoError(t, err)
}

func TestUpdate_ReasignarAManagerOcupado(t *testing.T) {
	uc, repo := buildUseCase(t,
		project("p-1", "OBRA-01", "petr", entity.ProjectStatusActive),
		project("p-2", "OBRA-02", "jana", entity.ProjectStatusActive),
	)

	_, err := uc.Update(testCompanyID, "p-2", dto.UpdateProjectRequest{
		Code:      "OBRA-02",
		ManagerID: "petr",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, "jana", repo.projects["p-2"].ManagerID, "el manager no debe cambiar")
}

func TestUpdate_ReasignarAManagerLibre(t *testing.T) {
	uc, repo := buildUseCase(t,
		project("p-1", "OBRA-01", "petr", entity.ProjectStatusActive),
	)

	resp, err := uc.Update(testCompanyID, "p-1", dto.UpdateProjectRequest{
		Code:      "OBRA-01",
		ManagerID: "karel",
	})
	require.NoError(t, err)
	assert.Equal(t, "karel", resp.ManagerID)
	assert.Equal(t, "karel", repo.projects["p-1"].ManagerID)
}

func TestUnarchive_ManagerOcupadoBloqueaReactivacion(t *testing.T) {
	uc, repo := buildUseCase(t,
		project("p-1", "OBRA-01", "petr", entity.ProjectStatusArchived),
		project("p-2", "OBRA-02", "petr", entity.ProjectStatusActive),
	)

	err := uc.Unarchive(testCompanyID, "p-1")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, entity.ProjectStatusArchived, repo.projects["p-1"].Status)
}

func TestUnarchive_ManagerLibreReactiva(t *testing.T) {
	uc, repo := buildUseCase(t,
		project("p-1", "OBRA-01", "petr", entity.ProjectStatusArchived),
	)

	require.NoError(t, uc.Unarchive(testCompanyID, "p-1"))
	assert.Equal(t, entity.ProjectStatusActive, repo.projects["p-1"].Status)
}

// ── Archive ─────────────────────────────────────────────────────────

func TestArchive_CambiaEstado(t *testing.T) {
	uc, repo := buildUseCase(t, project("p-1", "OBRA-01", "petr", entity.ProjectStatusActive))

	require.NoError(t, uc.Archive(testCompanyID, "p-1"))
	assert.Equal(t, entity.ProjectStatusArchived, repo.projects["p-1"].Status)
}

func TestArchive_OtroTenantNoVeElProyecto(t *testing.T) {
	uc, _ := buildUseCase(t, project("p-1", "OBRA-01", "petr", entity.ProjectStatusActive))

	err := uc.Archive("empresa-ajena", "p-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
