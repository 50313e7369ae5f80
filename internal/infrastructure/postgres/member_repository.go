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

var _ repository.MemberRepository = (*MemberRepo)(nil)

// MemberRepo implementación de MemberRepository (usable con pool o tx).
type MemberRepo struct {
	q Querier
}

// NewMemberRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMemberRepository(q Querier) *MemberRepo {
	return &MemberRepo{q: q}
}

// Create persiste una nueva membresía.
func (r *MemberRepo) Create(member *entity.CompanyMember) error {
	query := `
		INSERT INTO company_members (id, company_id, user_id, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		member.ID, member.CompanyID, member.UserID, member.Role, member.Status,
		member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// GetByCompanyAndUser obtiene la membresía por empresa y usuario.
func (r *MemberRepo) GetByCompanyAndUser(companyID, userID string) (*entity.CompanyMember, error) {
	query := `
		SELECT id, company_id, user_id, role, status, created_at, updated_at
		FROM company_members WHERE company_id = $1 AND user_id = $2`
	var m entity.CompanyMember
	err := r.q.QueryRow(context.Background(), query, companyID, userID).Scan(
		&m.ID, &m.CompanyID, &m.UserID, &m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

// memberFilterWhere arma las condiciones de filtro sobre el join members+users.
func memberFilterWhere(f repository.MemberFilter, args []any) (string, []any) {
	where := ""
	if f.Role != nil {
		args = append(args, *f.Role)
		where += fmt.Sprintf(" AND m.role = $%d", len(args))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND m.status = $%d", len(args))
	}
	if f.Search != nil {
		args = append(args, "%"+*f.Search+"%")
		where += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d)", len(args), len(args))
	}
	return where, args
}

// ListByCompany lista membresías con los datos del usuario, paginadas.
func (r *MemberRepo) ListByCompany(companyID string, f repository.MemberFilter, limit, offset int) ([]*entity.MemberWithUser, error) {
	args := []any{companyID}
	where, args := memberFilterWhere(f, args)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT m.id, m.company_id, m.user_id, m.role, m.status, m.created_at, m.updated_at,
			u.email, u.name
		FROM company_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.company_id = $1%s
		ORDER BY u.name LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()
	var list []*entity.MemberWithUser
	for rows.Next() {
		var mw entity.MemberWithUser
		if err := rows.Scan(
			&mw.Member.ID, &mw.Member.CompanyID, &mw.Member.UserID, &mw.Member.Role, &mw.Member.Status,
			&mw.Member.CreatedAt, &mw.Member.UpdatedAt, &mw.Email, &mw.Name,
		); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		list = append(list, &mw)
	}
	return list, rows.Err()
}

// CountByCompany cuenta membresías con los mismos filtros del listado.
func (r *MemberRepo) CountByCompany(companyID string, f repository.MemberFilter) (int, error) {
	args := []any{companyID}
	where, args := memberFilterWhere(f, args)
	query := `
		SELECT count(*)
		FROM company_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.company_id = $1` + where
	var total int
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return total, nil
}

// UpdateRole cambia el rol de la membresía.
func (r *MemberRepo) UpdateRole(companyID, userID, role string) error {
	return r.update(companyID, userID, "role", role)
}

// UpdateStatus cambia el estado de la membresía (archivar/reactivar).
func (r *MemberRepo) UpdateStatus(companyID, userID, status string) error {
	return r.update(companyID, userID, "status", status)
}

func (r *MemberRepo) update(companyID, userID, column, value string) error {
	query := fmt.Sprintf(
		`UPDATE company_members SET %s = $3, updated_at = $4 WHERE company_id = $1 AND user_id = $2`,
		column)
	tag, err := r.q.Exec(context.Background(), query, companyID, userID, value, time.Now())
	if err != nil {
		return fmt.Errorf("update member %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la membresía (el usuario sobrevive).
func (r *MemberRepo) Delete(companyID, userID string) error {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM company_members WHERE company_id = $1 AND user_id = $2`, companyID, userID)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountActiveOwners cuenta los OWNER activos de la empresa.
func (r *MemberRepo) CountActiveOwners(companyID string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM company_members WHERE company_id = $1 AND role = $2 AND status = $3`,
		companyID, entity.RoleOwner, entity.MemberStatusActive,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count owners: %w", err)
	}
	return total, nil
}

// Stats agrega conteos por rol y por estado sobre el conjunto vigente.
func (r *MemberRepo) Stats(companyID string) (*entity.MemberStats, error) {
	stats := &entity.MemberStats{
		ByRole:   make(map[string]int),
		ByStatus: make(map[string]int),
	}
	rows, err := r.q.Query(context.Background(),
		`SELECT role, status, count(*) FROM company_members WHERE company_id = $1 GROUP BY role, status`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("member stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var role, status string
		var n int
		if err := rows.Scan(&role, &status, &n); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats.Total += n
		stats.ByRole[role] += n
		stats.ByStatus[status] += n
	}
	return stats, rows.Err()
}
