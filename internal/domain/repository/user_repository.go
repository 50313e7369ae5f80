package repository

import "github.com/stavbase/stavbase-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	// GetByEmail busca por email sin distinguir mayúsculas (se almacena en minúsculas).
	GetByEmail(email string) (*entity.User, error)
	// GetByCompanyAndID restringe la búsqueda al tenant.
	GetByCompanyAndID(companyID, id string) (*entity.User, error)
	Update(user *entity.User) error
	// UpdateSession actualiza refresh_token_id y token_version sin tocar el resto del usuario.
	UpdateSession(userID, refreshTokenID string, tokenVersion int) error
}
