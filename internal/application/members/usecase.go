package members

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

// UseCase gestión del equipo de la empresa: altas, roles, archivado y listado
// con agregados. Toda mutación que pueda dejar a la empresa sin OWNER activo
// corre dentro de una transacción con la fila de la empresa bloqueada.
type UseCase struct {
	txRunner   TxRunner
	userRepo   repository.UserRepository
	memberRepo repository.MemberRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, userRepo repository.UserRepository, memberRepo repository.MemberRepository) *UseCase {
	return &UseCase{txRunner: txRunner, userRepo: userRepo, memberRepo: memberRepo}
}

// Add invita a un usuario: crea el User en estado INVITED y su membresía activa.
// Devuelve domain.ErrDuplicate si el email ya está registrado.
func (uc *UseCase) Add(ctx context.Context, companyID string, in dto.AddMemberRequest) (*dto.MemberResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(email, "@") || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	if existing, err := uc.userRepo.GetByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	locale := in.Locale
	if locale == "" {
		locale = "cs"
	}
	user := &entity.User{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		Locale:    locale,
		Status:    entity.UserStatusInvited,
		CreatedAt: now,
		UpdatedAt: now,
	}
	member := &entity.CompanyMember{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		UserID:    user.ID,
		Role:      in.Role,
		Status:    entity.MemberStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := uc.txRunner.RunMembers(ctx, func(
		_ repository.CompanyRepository,
		userRepo repository.UserRepository,
		memberRepo repository.MemberRepository,
	) error {
		if err := userRepo.Create(user); err != nil {
			return err
		}
		return memberRepo.Create(member)
	})
	if err != nil {
		return nil, err
	}

	return &dto.MemberResponse{
		UserID:    user.ID,
		CompanyID: companyID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      member.Role,
		Status:    member.Status,
		CreatedAt: member.CreatedAt,
	}, nil
}

// UpdateRole cambia el rol de un miembro. Degradar al último OWNER activo
// devuelve domain.ErrLastOwner y no muta nada.
func (uc *UseCase) UpdateRole(ctx context.Context, companyID, userID, newRole string) error {
	if !entity.ValidRole(newRole) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunMembers(ctx, func(
		companyRepo repository.CompanyRepository,
		_ repository.UserRepository,
		memberRepo repository.MemberRepository,
	) error {
		// Bloquea la empresa: serializa los chequeos de último OWNER concurrentes.
		if err := companyRepo.LockByID(companyID); err != nil {
			return err
		}
		member, err := memberRepo.GetByCompanyAndUser(companyID, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return domain.ErrNotFound
		}
		if member.Role == newRole {
			return nil
		}
		if member.Role == entity.RoleOwner && member.Status == entity.MemberStatusActive {
			owners, err := memberRepo.CountActiveOwners(companyID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return domain.ErrLastOwner
			}
		}
		return memberRepo.UpdateRole(companyID, userID, newRole)
	})
}

// Remove elimina la membresía. Quitar al último OWNER activo devuelve
// domain.ErrLastOwner.
func (uc *UseCase) Remove(ctx context.Context, companyID, userID string) error {
	return uc.txRunner.RunMembers(ctx, func(
		companyRepo repository.CompanyRepository,
		_ repository.UserRepository,
		memberRepo repository.MemberRepository,
	) error {
		if err := companyRepo.LockByID(companyID); err != nil {
			return err
		}
		member, err := memberRepo.GetByCompanyAndUser(companyID, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return domain.ErrNotFound
		}
		if member.Role == entity.RoleOwner && member.Status == entity.MemberStatusActive {
			owners, err := memberRepo.CountActiveOwners(companyID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return domain.ErrLastOwner
			}
		}
		return memberRepo.Delete(companyID, userID)
	})
}

// Archive pasa la membresía a ARCHIVED. Archivar al último OWNER activo está
// prohibido por el mismo invariante que Remove.
func (uc *UseCase) Archive(ctx context.Context, companyID, userID string) error {
	return uc.setStatus(ctx, companyID, userID, entity.MemberStatusArchived)
}

// Unarchive reactiva una membresía archivada.
func (uc *UseCase) Unarchive(ctx context.Context, companyID, userID string) error {
	return uc.setStatus(ctx, companyID, userID, entity.MemberStatusActive)
}

func (uc *UseCase) setStatus(ctx context.Context, companyID, userID, status string) error {
	return uc.txRunner.RunMembers(ctx, func(
		companyRepo repository.CompanyRepository,
		_ repository.UserRepository,
		memberRepo repository.MemberRepository,
	) error {
		if err := companyRepo.LockByID(companyID); err != nil {
			return err
		}
		member, err := memberRepo.GetByCompanyAndUser(companyID, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return domain.ErrNotFound
		}
		if member.Status == status {
			return nil
		}
		if status == entity.MemberStatusArchived &&
			member.Role == entity.RoleOwner && member.Status == entity.MemberStatusActive {
			owners, err := memberRepo.CountActiveOwners(companyID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return domain.ErrLastOwner
			}
		}
		return memberRepo.UpdateStatus(companyID, userID, status)
	})
}

// List devuelve la página de miembros junto con los agregados por rol y estado.
// Los agregados se calculan en la misma consulta lógica, sin caché.
func (uc *UseCase) List(companyID string, rawFilter dto.MemberListFilter, page dto.PageRequest) (*dto.MemberListResponse, error) {
	f := rawFilter.Normalize()
	if f.Role != nil && !entity.ValidRole(*f.Role) {
		return nil, domain.ErrInvalidInput
	}
	if f.Status != nil && !entity.ValidMemberStatus(*f.Status) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()

	repoFilter := repository.MemberFilter{Role: f.Role, Status: f.Status, Search: f.Search}
	list, err := uc.memberRepo.ListByCompany(companyID, repoFilter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.memberRepo.CountByCompany(companyID, repoFilter)
	if err != nil {
		return nil, err
	}
	stats, err := uc.memberRepo.Stats(companyID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MemberResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MemberResponse{
			UserID:    m.Member.UserID,
			CompanyID: m.Member.CompanyID,
			Email:     m.Email,
			Name:      m.Name,
			Role:      m.Member.Role,
			Status:    m.Member.Status,
			CreatedAt: m.Member.CreatedAt,
		})
	}
	return &dto.MemberListResponse{
		Items: items,
		Stats: dto.MemberStatsResponse{
			Total:    stats.Total,
			ByRole:   stats.ByRole,
			ByStatus: stats.ByStatus,
		},
		Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}
