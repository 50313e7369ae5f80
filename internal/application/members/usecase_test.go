package members_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/application/members"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

const testCompanyID = "empresa-1"

// ── fakes ───────────────────────────────────────────────────────────

type fakeCompanyRepo struct {
	repository.CompanyRepository
	locked []string
}

func (f *fakeCompanyRepo) LockByID(id string) error {
	f.locked = append(f.locked, id)
	return nil
}

type fakeUserRepo struct {
	repository.UserRepository
	byEmail map[string]*entity.User
	created []*entity.User
}

func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) Create(u *entity.User) error {
	f.created = append(f.created, u)
	return nil
}

// fakeMemberRepo membresías en memoria indexadas por userID.
type fakeMemberRepo struct {
	repository.MemberRepository
	members map[string]*entity.CompanyMember
}

func newFakeMemberRepo(ms ...*entity.CompanyMember) *fakeMemberRepo {
	f := &fakeMemberRepo{members: map[string]*entity.CompanyMember{}}
	for _, m := range ms {
		f.members[m.UserID] = m
	}
	return f
}

func (f *fakeMemberRepo) Create(m *entity.CompanyMember) error {
	f.members[m.UserID] = m
	return nil
}

func (f *fakeMemberRepo) GetByCompanyAndUser(companyID, userID string) (*entity.CompanyMember, error) {
	m, ok := f.members[userID]
	if !ok || m.CompanyID != companyID {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMemberRepo) UpdateRole(_, userID, role string) error {
	f.members[userID].Role = role
	return nil
}

func (f *fakeMemberRepo) UpdateStatus(_, userID, status string) error {
	f.members[userID].Status = status
	return nil
}

func (f *fakeMemberRepo) Delete(_, userID string) error {
	delete(f.members, userID)
	return nil
}

func (f *fakeMemberRepo) CountActiveOwners(companyID string) (int, error) {
	n := 0
	for _, m := range f.members {
		if m.CompanyID == companyID && m.Role == entity.RoleOwner && m.Status == entity.MemberStatusActive {
			n++
		}
	}
	return n, nil
}

type fakeTxRunner struct {
	companies *fakeCompanyRepo
	users     *fakeUserRepo
	members   *fakeMemberRepo
}

func (f *fakeTxRunner) RunMembers(_ context.Context, fn func(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	memberRepo repository.MemberRepository,
) error) error {
	return fn(f.companies, f.users, f.members)
}

// ── helpers ─────────────────────────────────────────────────────────

func member(userID, role, status string) *entity.CompanyMember {
	return &entity.CompanyMember{
		ID:        "m-" + userID,
		CompanyID: testCompanyID,
		UserID:    userID,
		Role:      role,
		Status:    status,
	}
}

func buildUseCase(t *testing.T, ms ...*entity.CompanyMember) (*members.UseCase, *fakeMemberRepo, *fakeCompanyRepo) {
	t.Helper()
	companies := &fakeCompanyRepo{}
	users := &fakeUserRepo{byEmail: map[string]*entity.User{}}
	memberRepo := newFakeMemberRepo(ms...)
	tx := &fakeTxRunner{companies: companies, users: users, members: memberRepo}
	return members.NewUseCase(tx, users, memberRepo), memberRepo, companies
}

// ── Add ─────────────────────────────────────────────────────────────

func TestAdd_CreaUsuarioInvitadoYMembresia(t *testing.T) {
	companies := &fakeCompanyRepo{}
	users := &fakeUserRepo{byEmail: map[string]*entity.User{}}
	memberRepo := newFakeMemberRepo()
	tx := &fakeTxRunner{companies: companies, users: users, members: memberRepo}
	uc := members.NewUseCase(tx, users, memberRepo)

	resp, err := uc.Add(context.Background(), testCompanyID, dto.AddMemberRequest{
		Email: " Petra.Svobodova@Example.cz ",
		Name:  "Petra Svobodová",
		Role:  entity.RoleMember,
	})
	require.NoError(t, err)

	assert.Equal(t, "petra.svobodova@example.cz", resp.Email, "email normalizado a minúsculas")
	assert.Equal(t, entity.RoleMember, resp.Role)
	assert.Equal(t, entity.MemberStatusActive, resp.Status)

	require.Len(t, users.created, 1)
	assert.Equal(t, entity.UserStatusInvited, users.created[0].Status, "el usuario nace INVITED")
	assert.Equal(t, "cs", users.created[0].Locale, "locale por defecto")
	require.Contains(t, memberRepo.members, resp.UserID)
}

func TestAdd_EmailYaRegistrado(t *testing.T) {
	usersFake := &fakeUserRepo{byEmail: map[string]*entity.User{
		"petra@example.cz": {ID: "u-existente"},
	}}
	memberRepo := newFakeMemberRepo()
	uc := members.NewUseCase(&fakeTxRunner{companies: &fakeCompanyRepo{}, users: usersFake, members: memberRepo}, usersFake, memberRepo)

	_, err := uc.Add(context.Background(), testCompanyID, dto.AddMemberRequest{
		Email: "petra@example.cz",
		Name:  "Petra",
		Role:  entity.RoleMember,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, memberRepo.members)
}

func TestAdd_RolDesconocido(t *testing.T) {
	uc, _, _ := buildUseCase(t)
	_, err := uc.Add(context.Background(), testCompanyID, dto.AddMemberRequest{
		Email: "petra@example.cz",
		Name:  "Petra",
		Role:  "SUPERADMIN",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── último OWNER ────────────────────────────────────────────────────

func TestUpdateRole_UltimoOwnerNoSeDegrada(t *testing.T) {
	uc, repo, companies := buildUseCase(t,
		member("owner-1", entity.RoleOwner, entity.MemberStatusActive),
		member("member-1", entity.RoleMember, entity.MemberStatusActive),
	)

	err := uc.UpdateRole(context.Background(), testCompanyID, "owner-1", entity.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrLastOwner)
	assert.Equal(t, entity.RoleOwner, repo.members["owner-1"].Role, "el rol no debe cambiar")
	assert.Contains(t, companies.locked, testCompanyID, "la fila de la empresa se bloquea antes del chequeo")
}

func TestUpdateRole_DegradarConDosOwners(t *testing.T) {
	uc, repo, _ := buildUseCase(t,
		member("owner-1", entity.RoleOwner, entity.MemberStatusActive),
		member("owner-2", entity.RoleOwner, entity.MemberStatusActive),
	)

	require.NoError(t, uc.UpdateRole(context.Background(), testCompanyID, "owner-1", entity.RoleAdmin))
	assert.Equal(t, entity.RoleAdmin, repo.members["owner-1"].Role)
}

// Un OWNER archivado no cuenta: el único OWNER activo restante queda protegido.
func TestUpdateRole_OwnerArchivadoNoCuenta(t *testing.T) {
	uc, _, _ := buildUseCase(t,
		member("owner-1", entity.RoleOwner, entity.MemberStatusActive),
		member("owner-2", entity.RoleOwner, entity.MemberStatusArchived),
	)

	err := uc.UpdateRole(context.Background(), testCompanyID, "owner-1", entity.RoleMember)
	assert.ErrorIs(t, err, domain.ErrLastOwner)
}

func TestRemove_UltimoOwnerProtegido(t *testing.T) {
	uc, repo, _ := buildUseCase(t,
		member("owner-1", entity.RoleOwner, entity.MemberStatusActive),
	)

	err := uc.Remove(context.Background(), testCompanyID, "owner-1")
	assert.ErrorIs(t, err, domain.ErrLastOwner)
	assert.Contains(t, repo.members, "owner-1", "la membresía debe seguir existiendo")
}

func TestRemove_MiembroNormal(t *testing.T) {
	uc, repo, _ := buildUseCase(t,
		member("owner-1", entity.RoleOwner, entity.MemberStatusActive),
		member("member-1", entity.RoleMember, entity.MemberStatusActive),
	)

	require.NoError(t, uc.Remove(context.Background(), testCompanyID, "member-1"))
	assert.NotContains(t, repo.members, "member-1")
}

func TestArchive_UltimoOwnerProtegido(t *testing.T) {
	uc, repo, _ := buildUseCase(t,
		member("owner-1", entity.RoleOwner, entity.MemberStatusActive),
		member("admin-1", entity.RoleAdmin, entity.MemberStatusActive),
	)

	err := uc.Archive(context.Background(), testCompanyID, "owner-1")
	assert.ErrorIs(t, err, domain.ErrLastOwner)
	assert.Equal(t, entity.MemberStatusActive, repo.members["owner-1"].Status)

	require.NoError(t, uc.Archive(context.Background(), testCompanyID, "admin-1"))
	assert.Equal(t, entity.MemberStatusArchived, repo.members["admin-1"].Status)
}

func TestUnarchive_ReactivaMembresia(t *testing.T) {
	uc, repo, _ := buildUseCase(t,
		member("owner-1", entity.RoleOwner, entity.MemberStatusActive),
		member("member-1", entity.RoleMember, entity.MemberStatusArchived),
	)

	require.NoError(t, uc.Unarchive(context.Background(), testCompanyID, "member-1"))
	assert.Equal(t, entity.MemberStatusActive, repo.members["member-1"].Status)
}

func TestUpdateRole_MiembroInexistente(t *testing.T) {
	uc, _, _ := buildUseCase(t)
	err := uc.UpdateRole(context.Background(), testCompanyID, "fantasma", entity.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Cambiar al mismo rol es un no-op, incluso para el último OWNER.
func TestUpdateRole_MismoRolEsNoOp(t *testing.T) {
	uc, repo, _ := buildUseCase(t,
		member("owner-1", entity.RoleOwner, entity.MemberStatusActive),
	)

	require.NoError(t, uc.UpdateRole(context.Background(), testCompanyID, "owner-1", entity.RoleOwner))
	assert.Equal(t, entity.RoleOwner, repo.members["owner-1"].Role)
}
