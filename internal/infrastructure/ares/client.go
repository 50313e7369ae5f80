// Package ares implementa el cliente del registro mercantil checo (ARES).
// Consulta el WS XML público del Ministerio de Hacienda y traduce la respuesta
// a la entidad Company del dominio.
package ares

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/sethvargo/go-retry"
	"github.com/stavbase/stavbase-api/internal/application/registration"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/pkg/config"
	"golang.org/x/text/encoding/charmap"
)

var _ registration.RegistryClient = (*Client)(nil)

// Client cliente HTTP del WS ARES darv_std.
type Client struct {
	baseURL string
	http    *http.Client
	retries uint64
}

// NewClient construye el cliente con la configuración de la app.
func NewClient(cfg config.ARESConfig) *Client {
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		retries: uint64(retries),
	}
}

// LookupByICO consulta la empresa por IČO. Reintenta ante fallos transitorios
// (red, 5xx) con backoff Fibonacci; un IČO desconocido no se reintenta.
func (c *Client) LookupByICO(ctx context.Context, ico string) (*entity.Company, error) {
	var company *entity.Company
	backoff := retry.WithMaxRetries(c.retries, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		result, err := c.lookup(ctx, ico)
		if err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		company = result
		return nil
	})
	if err != nil {
		if isTransient(err) {
			return nil, fmt.Errorf("%w: ARES no responde: %v", domain.ErrServiceUnavailable, err)
		}
		return nil, err
	}
	return company, nil
}

// transientError marca fallos de red o 5xx remotos (candidatos a reintento).
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

func (c *Client) lookup(ctx context.Context, ico string) (*entity.Company, error) {
	endpoint := fmt.Sprintf("%s?ico=%s", c.baseURL, url.QueryEscape(ico))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("crear request ARES: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &transientError{fmt.Errorf("llamar ARES: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode >= 500:
		return nil, &transientError{fmt.Errorf("ARES devolvió %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("ARES devolvió %d", resp.StatusCode)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	return parseResponse(body, ico)
}

// decodeBody convierte la respuesta a UTF-8. El WS histórico declara a veces
// windows-1250 en el Content-Type.
func decodeBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "windows-1250") {
		r = charmap.Windows1250.NewDecoder().Reader(r)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer respuesta ARES: %w", err)
	}
	return body, nil
}

// parseResponse extrae los datos de la empresa del XML darv_std.
func parseResponse(body []byte, ico string) (*entity.Company, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("parsear XML ARES: %w", err)
	}
	record := findLocal(doc.Root(), "Zaznam")
	if record == nil {
		return nil, domain.ErrNotFound
	}

	company := &entity.Company{
		ICO:           textOf(record, "ICO", ico),
		LegalName:     textOf(record, "Obchodni_firma", ""),
		DefaultLocale: "cs",
	}
	if pf := findLocal(record, "Pravni_forma"); pf != nil {
		company.LegalFormCode = textOf(pf, "Kod_PF", "")
	}
	if addr := findLocal(record, "Adresa_ARES"); addr != nil {
		street := textOf(addr, "Nazev_ulice", "")
		if n := textOf(addr, "Cislo_domovni", ""); n != "" {
			street = strings.TrimSpace(street + " " + n)
		}
		company.Address = entity.Address{
			Street:      street,
			City:        textOf(addr, "Nazev_obce", ""),
			Zip:         textOf(addr, "PSC", ""),
			CountryCode: "CZ",
		}
	}
	if company.LegalName == "" {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// findLocal busca en profundidad el primer elemento con el nombre local dado,
// ignorando el prefijo de namespace (varía entre versiones del WS).
func findLocal(e *etree.Element, tag string) *etree.Element {
	if e == nil {
		return nil
	}
	if e.Tag == tag {
		return e
	}
	for _, child := range e.ChildElements() {
		if found := findLocal(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func textOf(parent *etree.Element, tag, fallback string) string {
	if el := findLocal(parent, tag); el != nil {
		if t := strings.TrimSpace(el.Text()); t != "" {
			return t
		}
	}
	return fallback
}
