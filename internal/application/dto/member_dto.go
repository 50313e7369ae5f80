package dto

import "time"

// AddMemberRequest body para POST /api/members. Crea el usuario en estado INVITED
// y su membresía en la empresa del caller.
type AddMemberRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Locale string `json:"locale,omitempty"`
}

// UpdateMemberRoleRequest body para PUT /api/members/:userId/role.
type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

// MemberResponse miembro con los datos del usuario asociado.
type MemberResponse struct {
	UserID    string    `json:"user_id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberStatsResponse agregados por rol y por estado.
type MemberStatsResponse struct {
	Total    int            `json:"total"`
	ByRole   map[string]int `json:"by_role"`
	ByStatus map[string]int `json:"by_status"`
}

// MemberListResponse página de miembros + agregados.
type MemberListResponse struct {
	Items []MemberResponse    `json:"items"`
	Stats MemberStatsResponse `json:"stats"`
	Page  PageResponse        `json:"page"`
}
