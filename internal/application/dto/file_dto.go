package dto

import "time"

// FileResponse metadatos de un archivo almacenado.
type FileResponse struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	UploaderID   string     `json:"uploader_id"`
	OriginalName string     `json:"original_name"`
	MimeType     string     `json:"mime_type"`
	Size         int64      `json:"size"`
	ContentHash  string     `json:"content_hash"`
	Tags         []string   `json:"tags,omitempty"`
	Links        []FileLink `json:"links,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FileLink vínculo polimórfico en respuestas.
type FileLink struct {
	TargetType string `json:"target_type"` // PROJECT | CUSTOMER | INVOICE
	TargetID   string `json:"target_id"`
}

// SetFileTagsRequest body para PUT /api/files/:id/tags.
type SetFileTagsRequest struct {
	Tags []string `json:"tags"`
}

// LinkFileRequest body para POST /api/files/:id/links.
type LinkFileRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
}

// FileListResponse página de archivos.
type FileListResponse struct {
	Items []FileResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
