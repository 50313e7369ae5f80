package entity

import "time"

// Estados válidos para User.
const (
	UserStatusInvited  = "INVITED"
	UserStatusCreated  = "CREATED"
	UserStatusActive   = "ACTIVE"
	UserStatusDisabled = "DISABLED"
	UserStatusLocked   = "LOCKED"
)

// ValidUserStatus indica si el estado es uno de los conocidos.
func ValidUserStatus(s string) bool {
	switch s {
	case UserStatusInvited, UserStatusCreated, UserStatusActive, UserStatusDisabled, UserStatusLocked:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
// El email se almacena en minúsculas; la unicidad es case-insensitive.
type User struct {
	ID             string
	CompanyID      string
	Email          string
	PasswordHash   string // bcrypt hash, nunca plano en dominio después de persistir
	Name           string
	Locale         string // ej. "cs"
	TokenVersion   int    // se incrementa en logout global; invalida access tokens previos
	RefreshTokenID string // id opaco del refresh token vigente; vacío = sin sesión
	Status         string // INVITED, CREATED, ACTIVE, DISABLED, LOCKED
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
