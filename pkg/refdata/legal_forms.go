// Package refdata expone datos de referencia estáticos cargados una sola vez al
// arranque del proceso. Las tablas son inmutables después de la carga.
package refdata

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"strings"
)

//go:embed legal_forms.csv
var legalFormsCSV string

// LegalForms mapeo inmutable código -> nombre de forma jurídica (číselník ČSÚ).
type LegalForms struct {
	byCode map[string]string
}

// LoadLegalForms parsea el CSV embebido (separado por punto y coma, con cabecera).
func LoadLegalForms() (*LegalForms, error) {
	r := csv.NewReader(strings.NewReader(legalFormsCSV))
	r.Comma = ';'
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("refdata: parsear legal_forms.csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("refdata: legal_forms.csv vacío")
	}
	byCode := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] { // saltar cabecera
		if len(row) < 2 {
			continue
		}
		code := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if code == "" || name == "" {
			continue
		}
		byCode[code] = name
	}
	return &LegalForms{byCode: byCode}, nil
}

// Lookup devuelve el nombre de la forma jurídica y si el código existe.
func (lf *LegalForms) Lookup(code string) (string, bool) {
	name, ok := lf.byCode[strings.TrimSpace(code)]
	return name, ok
}

// Valid indica si el código de forma jurídica es conocido.
func (lf *LegalForms) Valid(code string) bool {
	_, ok := lf.Lookup(code)
	return ok
}

// Count devuelve la cantidad de formas jurídicas cargadas.
func (lf *LegalForms) Count() int {
	return len(lf.byCode)
}
