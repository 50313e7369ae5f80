package auth

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
	"github.com/stavbase/stavbase-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret         string
	ExpMinutes     int
	RefreshExpDays int
	Issuer         string
}

// UseCase casos de uso de autenticación: login, refresh y logout.
// El refresh token rota en cada uso; su jti debe coincidir con el
// refresh_token_id almacenado en el usuario.
type UseCase struct {
	userRepo   repository.UserRepository
	memberRepo repository.MemberRepository
	jwtCfg     JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, memberRepo repository.MemberRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, memberRepo: memberRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera el par de tokens y persiste la sesión.
// Solo usuarios ACTIVE pueden iniciar sesión.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	return uc.issueTokens(user)
}

// Refresh valida el refresh token presentado, lo rota y devuelve un par nuevo.
// Un jti distinto al almacenado o una versión de token desfasada invalidan la sesión.
func (uc *UseCase) Refresh(in dto.RefreshRequest) (*dto.LoginResponse, error) {
	userID, refreshID, tokenVersion, err := jwt.ParseRefresh(uc.jwtCfg.Secret, in.RefreshToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshTokenID == "" || user.RefreshTokenID != refreshID {
		return nil, domain.ErrUnauthorized
	}
	if user.TokenVersion != tokenVersion {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	return uc.issueTokens(user)
}

// Logout limpia la sesión e incrementa token_version, invalidando los access
// tokens emitidos con la versión anterior.
func (uc *UseCase) Logout(userID string) error {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	return uc.userRepo.UpdateSession(user.ID, "", user.TokenVersion+1)
}

func (uc *UseCase) issueTokens(user *entity.User) (*dto.LoginResponse, error) {
	member, err := uc.memberRepo.GetByCompanyAndUser(user.CompanyID, user.ID)
	if err != nil {
		return nil, err
	}
	role := entity.RoleMember
	if member != nil {
		role = member.Role
	}

	refreshID := uuid.New().String()
	access, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, role, user.TokenVersion, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.GenerateRefresh(uc.jwtCfg.Secret, user.ID, refreshID, user.TokenVersion, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshExpDays)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdateSession(user.ID, refreshID, user.TokenVersion); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Locale:    u.Locale,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
