package dto

import "time"

// CreateProjectRequest body para POST /api/projects.
type CreateProjectRequest struct {
	Code        string `json:"code"`
	ManagerID   string `json:"manager_id"`
	Locale      string `json:"locale,omitempty"` // locale de la traducción inicial
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest body para PUT /api/projects/:id.
type UpdateProjectRequest struct {
	Code      string `json:"code"`
	ManagerID string `json:"manager_id"`
}

// UpsertProjectTranslationRequest body para PUT /api/projects/:id/translations/:locale.
type UpsertProjectTranslationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProjectTranslationDTO traducción por locale.
type ProjectTranslationDTO struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProjectResponse proyecto con traducciones.
type ProjectResponse struct {
	ID           string                  `json:"id"`
	CompanyID    string                  `json:"company_id"`
	Code         string                  `json:"code"`
	ManagerID    string                  `json:"manager_id"`
	Status       string                  `json:"status"`
	Translations []ProjectTranslationDTO `json:"translations,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// ProjectListResponse página de proyectos.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
