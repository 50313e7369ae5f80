package entity

import "time"

// Tipos de destino para vínculos polimórficos de archivos.
const (
	FileTargetProject  = "PROJECT"
	FileTargetCustomer = "CUSTOMER"
	FileTargetInvoice  = "INVOICE"
)

// ValidFileTarget indica si el tipo de destino es conocido.
func ValidFileTarget(t string) bool {
	switch t {
	case FileTargetProject, FileTargetCustomer, FileTargetInvoice:
		return true
	}
	return false
}

// StoredFile registro de un archivo adjunto subido por un usuario de la empresa.
// StorageKey se deriva del tenant y del hash del contenido: "<company_id>/<sha256 hex>".
type StoredFile struct {
	ID           string
	CompanyID    string
	UploaderID   string
	OriginalName string
	MimeType     string
	Size         int64
	ContentHash  string // SHA-256 hex del contenido
	StorageKey   string
	Tags         []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FileLink vínculo polimórfico de un archivo a un proyecto, cliente o factura.
// El destino debe pertenecer a la misma empresa que el archivo.
type FileLink struct {
	FileID     string
	TargetType string // PROJECT, CUSTOMER, INVOICE
	TargetID   string
	CreatedAt  time.Time
}
