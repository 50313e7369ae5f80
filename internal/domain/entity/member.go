package entity

import "time"

// Roles válidos para CompanyMember.
const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Estados de membresía.
const (
	MemberStatusActive   = "ACTIVE"
	MemberStatusArchived = "ARCHIVED"
)

// ValidRole indica si el rol es uno de los conocidos.
func ValidRole(r string) bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// ValidMemberStatus indica si el estado de membresía es conocido.
func ValidMemberStatus(s string) bool {
	return s == MemberStatusActive || s == MemberStatusArchived
}

// CompanyMember vincula un User a una Company con un rol. (CompanyID, UserID) es único.
// Invariante: toda empresa conserva al menos un OWNER activo.
type CompanyMember struct {
	ID        string
	CompanyID string
	UserID    string
	Role      string // OWNER, ADMIN, MEMBER
	Status    string // ACTIVE, ARCHIVED
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MemberWithUser proyección de membresía con los datos del usuario (para listados).
type MemberWithUser struct {
	Member CompanyMember
	Email  string
	Name   string
}

// MemberStats agregados del equipo: conteos por rol y por estado, calculados
// sobre el conjunto vigente en el momento de la consulta (sin caché).
type MemberStats struct {
	Total    int
	ByRole   map[string]int
	ByStatus map[string]int
}
