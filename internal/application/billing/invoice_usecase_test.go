package billing_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavbase/stavbase-api/internal/application/billing"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

const testCompanyID = "empresa-1"

// ── fakes ───────────────────────────────────────────────────────────

// fakeInvoiceRepo guarda facturas y líneas en memoria y lleva el consecutivo
// por (empresa, año) igual que la fila invoice_sequences. Los bloqueos de fila
// se emulan con un mutex por factura, retenido hasta el fin de la transacción.
type fakeInvoiceRepo struct {
	repository.InvoiceRepository
	mu        sync.Mutex
	invoices  map[string]*entity.Invoice
	lines     map[string][]*entity.InvoiceLine
	sequences map[int]int64
	rowLocks  map[string]*sync.Mutex
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices:  map[string]*entity.Invoice{},
		lines:     map[string][]*entity.InvoiceLine{},
		sequences: map[int]int64{},
		rowLocks:  map[string]*sync.Mutex{},
	}
}

func (f *fakeInvoiceRepo) rowLock(id string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rowLocks[id] == nil {
		f.rowLocks[id] = &sync.Mutex{}
	}
	return f.rowLocks[id]
}

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) GetByCompanyAndID(companyID, id string) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok || inv.CompanyID != companyID {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) ReplaceLines(invoiceID string, lines []*entity.InvoiceLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines[invoiceID] = lines
	return nil
}

func (f *fakeInvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lines[invoiceID], nil
}

func (f *fakeInvoiceRepo) NextNumber(_ string, year int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sequences[year]++
	return f.sequences[year], nil
}

type fakeProjectRepo struct {
	repository.ProjectRepository
	projects map[string]*entity.Project
}

func (f *fakeProjectRepo) GetByCompanyAndID(companyID, id string) (*entity.Project, error) {
	p, ok := f.projects[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return p, nil
}

type fakeCustomerRepo struct {
	repository.CustomerRepository
	customers map[string]*entity.Customer
}

func (f *fakeCustomerRepo) GetByCompanyAndID(companyID, id string) (*entity.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return c, nil
}

// fakeInvoiceTx vista transaccional del repo: los bloqueos de fila adquiridos
// se retienen hasta que la transacción termina, como FOR UPDATE.
type fakeInvoiceTx struct {
	*fakeInvoiceRepo
	held []*sync.Mutex
}

func (t *fakeInvoiceTx) GetByCompanyAndIDForUpdate(companyID, id string) (*entity.Invoice, error) {
	mu := t.fakeInvoiceRepo.rowLock(id)
	mu.Lock()
	t.held = append(t.held, mu)
	return t.fakeInvoiceRepo.GetByCompanyAndID(companyID, id)
}

func (t *fakeInvoiceTx) release() {
	for _, mu := range t.held {
		mu.Unlock()
	}
	t.held = nil
}

// fakeTxRunner ejecuta fn sobre una vista transaccional del repo en memoria.
type fakeTxRunner struct {
	repo *fakeInvoiceRepo
}

func (f *fakeTxRunner) RunInvoices(_ context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	tx := &fakeInvoiceTx{fakeInvoiceRepo: f.repo}
	defer tx.release()
	return fn(tx)
}

// ── helpers ─────────────────────────────────────────────────────────

func buildInvoiceUseCase(t *testing.T) (*billing.InvoiceUseCase, *fakeInvoiceRepo) {
	t.Helper()
	repo := newFakeInvoiceRepo()
	projects := &fakeProjectRepo{projects: map[string]*entity.Project{
		"proyecto-1": {ID: "proyecto-1", CompanyID: testCompanyID},
	}}
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		"cliente-1": {ID: "cliente-1", CompanyID: testCompanyID},
	}}
	uc := billing.NewInvoiceUseCase(&fakeTxRunner{repo: repo}, repo, projects, customers)
	return uc, repo
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func draftRequest(lines ...dto.InvoiceLineRequest) dto.CreateInvoiceDraftRequest {
	return dto.CreateInvoiceDraftRequest{
		ProjectID:  "proyecto-1",
		CustomerID: "cliente-1",
		Currency:   entity.CurrencyCZK,
		Lines:      lines,
	}
}

func createDraft(t *testing.T, uc *billing.InvoiceUseCase, lines ...dto.InvoiceLineRequest) *dto.InvoiceResponse {
	t.Helper()
	resp, err := uc.CreateDraft(context.Background(), testCompanyID, draftRequest(lines...))
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

// ── totales ─────────────────────────────────────────────────────────

// 2 × 100,00 al 21 % y 1 × 50,00 al 0 %: base 250,00, DPH 42,00, total 292,00.
func TestCreateDraft_TotalesPorLinea(t *testing.T) {
	uc, _ := buildInvoiceUseCase(t)

	resp := createDraft(t, uc,
		dto.InvoiceLineRequest{Description: "Zednické práce", Quantity: dec("2"), UnitPrice: dec("100"), VATRate: dec("0.21")},
		dto.InvoiceLineRequest{Description: "Doprava", Quantity: dec("1"), UnitPrice: dec("50"), VATRate: dec("0")},
	)

	assert.True(t, dec("250").Equal(resp.Subtotal), "base imponible, obtenido %s", resp.Subtotal)
	assert.True(t, dec("42").Equal(resp.VATTotal), "IVA total, obtenido %s", resp.VATTotal)
	assert.True(t, dec("292").Equal(resp.Total), "total, obtenido %s", resp.Total)

	require.Len(t, resp.Lines, 2)
	assert.Equal(t, 1, resp.Lines[0].Position)
	assert.True(t, dec("200").Equal(resp.Lines[0].Subtotal))
	assert.True(t, dec("42").Equal(resp.Lines[0].VATAmount))
	assert.True(t, dec("50").Equal(resp.Lines[1].Subtotal))
	assert.True(t, decimal.Zero.Equal(resp.Lines[1].VATAmount))

	assert.Equal(t, entity.InvoiceStatusDraft, resp.Status)
	assert.Empty(t, resp.Number, "el borrador no tiene número")
}

// El redondeo es por línea, half-up al céntimo: 3 × 0,335 = 1,005 → 1,01.
func TestCreateDraft_RedondeoHalfUpPorLinea(t *testing.T) {
	uc, _ := buildInvoiceUseCase(t)

	resp := createDraft(t, uc,
		dto.InvoiceLineRequest{Description: "Materiál", Quantity: dec("3"), UnitPrice: dec("0.335"), VATRate: dec("0.21")},
	)

	require.Len(t, resp.Lines, 1)
	assert.True(t, dec("1.01").Equal(resp.Lines[0].Subtotal), "subtotal de línea, obtenido %s", resp.Lines[0].Subtotal)
	// IVA sobre el subtotal ya redondeado: 1,01 × 0,21 = 0,2121 → 0,21.
	assert.True(t, dec("0.21").Equal(resp.Lines[0].VATAmount), "IVA de línea, obtenido %s", resp.Lines[0].VATAmount)
	assert.True(t, dec("1.22").Equal(resp.Total))
}

func TestCreateDraft_LineasInvalidas(t *testing.T) {
	cases := []struct {
		name string
		line dto.InvoiceLineRequest
	}{
		{"sin descripcion", dto.InvoiceLineRequest{Quantity: dec("1"), UnitPrice: dec("10"), VATRate: dec("0.21")}},
		{"cantidad cero", dto.InvoiceLineRequest{Description: "x", Quantity: dec("0"), UnitPrice: dec("10"), VATRate: dec("0.21")}},
		{"precio negativo", dto.InvoiceLineRequest{Description: "x", Quantity: dec("1"), UnitPrice: dec("-1"), VATRate: dec("0.21")}},
		{"tasa fuera de rango", dto.InvoiceLineRequest{Description: "x", Quantity: dec("1"), UnitPrice: dec("10"), VATRate: dec("1.5")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _ := buildInvoiceUseCase(t)
			_, err := uc.CreateDraft(context.Background(), testCompanyID, draftRequest(tc.line))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateDraft_ProyectoDeOtraEmpresa(t *testing.T) {
	uc, _ := buildInvoiceUseCase(t)
	req := draftRequest()
	req.ProjectID = "proyecto-ajeno"
	_, err := uc.CreateDraft(context.Background(), testCompanyID, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDraft_MonedaDesconocida(t *testing.T) {
	uc, _ := buildInvoiceUseCase(t)
	req := draftRequest()
	req.Currency = "USD"
	_, err := uc.CreateDraft(context.Background(), testCompanyID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── líneas ──────────────────────────────────────────────────────────

func TestReplaceLines_RecalculaTotales(t *testing.T) {
	uc, _ := buildInvoiceUseCase(t)
	inv := createDraft(t, uc,
		dto.InvoiceLineRequest{Description: "Původní", Quantity: dec("1"), UnitPrice: dec("10"), VATRate: dec("0.21")},
	)

	resp, err := uc.ReplaceLines(context.Background(), testCompanyID, inv.ID, dto.ReplaceInvoiceLinesRequest{
		Lines: []dto.InvoiceLineRequest{
			{Description: "Nové práce", Quantity: dec("4"), UnitPrice: dec("250"), VATRate: dec("0.12")},
		},
	})
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(resp.Subtotal))
	assert.True(t, dec("120").Equal(resp.VATTotal))
	assert.True(t, dec("1120").Equal(resp.Total))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Nové práce", resp.Lines[0].Description)
}

func TestReplaceLines_SoloEnBorrador(t *testing.T) {
	uc, _ := buildInvoiceUseCase(t)
	inv := createDraft(t, uc,
		dto.InvoiceLineRequest{Description: "Práce", Quantity: dec("1"), UnitPrice: dec("10"), VATRate: dec("0.21")},
	)
	_, err := uc.Issue(context.Background(), testCompanyID, inv.ID)
	require.NoError(t, err)

	_, err = uc.ReplaceLines(context.Background(), testCompanyID, inv.ID, dto.ReplaceInvoiceLinesRequest{
		Lines: []dto.InvoiceLineRequest{
			{Description: "Tarde", Quantity: dec("1"), UnitPrice: dec("10"), VATRate: dec("0.21")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "las líneas son inmutables fuera de DRAFT")
}

// ── emisión y numeración ────────────────────────────────────────────

func TestIssue_AsignaConsecutivoSinHuecos(t *testing.T) {
	uc, _ := buildInvoiceUseCase(t)
	line := dto.InvoiceLineRequest{Description: "Práce", Quantity: dec("1"), UnitPrice: dec("100"), VATRate: dec("0.21")}

	first := createDraft(t, uc, line)
	second := createDraft(t, uc, line)

	issued1, err := uc.Issue(context.Background(), testCompanyID, first.ID)
	require.NoError(t, err)
	issued2, err := uc.Issue(context.Background(), testCompanyID, second.ID)
	require.NoError(t, err)

	require.NotNil(t, issued1.IssueDate, "emitir fija la fecha de emisión si falta")
	year := issued1.IssueDate.Year()
	assert.Equal(t, entity.InvoiceStatusIssued, issued1.Status)
	assert.Equal(t, formatNumber(year, 1), issued1.Number)
	assert.Equal(t, formatNumber(year, 2), issued2.Number, "consecutivo sin huecos dentro del año")
}

func formatNumber(year, seq int) string {
	return fmt.Sprintf("%d-%05d", year, seq)
}

func TestIssue_SoloDesdeBorrador(t *testing.T) {
	uc, _ := buildInvoiceUseCase(t)
	inv := createDraft(t, uc,
		dto.InvoiceLineRequest{Description: "Práce", Quantity: dec("1"), UnitPrice: dec("100"), VATRate: dec("0.21")},
	)
	_, err := uc.Issue(context.Background(), testCompanyID, inv.ID)
	require.NoError(t, err)

	_, err = uc.Issue(context.Background(), testCompanyID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "emitir dos veces no es legal")
}

// ── transiciones ────────────────────────────────────────────────────

func TestMarkPaid_RequiereEmitida(t *testing.T) {
	uc, repo := buildInvoiceUseCase(t)
	inv := createDraft(t, uc,
		dto.InvoiceLineRequest{Description: "Práce", Quantity: dec("1"), UnitPrice: dec("100"), VATRate: dec("0.21")},
	)

	err := uc.MarkPaid(context.Background(), testCompanyID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "un borrador no puede pagarse")

	_, err = uc.Issue(context.Background(), testCompanyID, inv.ID)
	require.NoError(t, err)
	require.NoError(t, uc.MarkPaid(context.Background(), testCompanyID, inv.ID))
	assert.Equal(t, entity.InvoiceStatusPaid, repo.invoices[inv.ID].Status)
}

func TestCancel_EstadosTerminales(t *testing.T) {
	uc, repo := buildInvoiceUseCase(t)
	inv := createDraft(t, uc,
		dto.InvoiceLineRequest{Description: "Práce", Quantity: dec("1"), UnitPrice: dec("100"), VATRate: dec("0.21")},
	)

	// DRAFT -> CANCELLED es legal; CANCELLED es terminal.
	require.NoError(t, uc.Cancel(context.Background(), testCompanyID, inv.ID))
	assert.Equal(t, entity.InvoiceStatusCancelled, repo.invoices[inv.ID].Status)
	err := uc.Cancel(context.Background(), testCompanyID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestCancel_PagadaNoSeAnula(t *testing.T) {
	uc, _ := buildInvoiceUseCase(t)
	inv := createDraft(t, uc,
		dto.InvoiceLineRequest{Description: "Práce", Quantity: dec("1"), UnitPrice: dec("100"), VATRate: dec("0.21")},
	)
	_, err := uc.Issue(context.Background(), testCompanyID, inv.ID)
	require.NoError(t, err)
	require.NoError(t, uc.MarkPaid(context.Background(), testCompanyID, inv.ID))

	err = uc.Cancel(context.Background(), testCompanyID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "PAID es terminal")
}

// Dos transiciones concurrentes sobre la misma factura emitida: el bloqueo de
// fila serializa las transacciones, así que exactamente una gana y la otra lee
// el estado ya confirmado y falla. Nunca una factura PAID acaba CANCELLED.
func TestTransicionesConcurrentes_SoloUnaGana(t *testing.T) {
	uc, repo := buildInvoiceUseCase(t)
	inv := createDraft(t, uc,
		dto.InvoiceLineRequest{Description: "Práce", Quantity: dec("1"), UnitPrice: dec("100"), VATRate: dec("0.21")},
	)
	_, err := uc.Issue(context.Background(), testCompanyID, inv.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var payErr, cancelErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		payErr = uc.MarkPaid(context.Background(), testCompanyID, inv.ID)
	}()
	go func() {
		defer wg.Done()
		cancelErr = uc.Cancel(context.Background(), testCompanyID, inv.ID)
	}()
	wg.Wait()

	final := repo.invoices[inv.ID].Status
	if payErr == nil {
		assert.ErrorIs(t, cancelErr, domain.ErrInvalidStateTransition, "anular una factura ya pagada debe fallar")
		assert.Equal(t, entity.InvoiceStatusPaid, final)
	} else {
		require.NoError(t, cancelErr, "al menos una transición debe ganar")
		assert.ErrorIs(t, payErr, domain.ErrInvalidStateTransition, "pagar una factura ya anulada debe fallar")
		assert.Equal(t, entity.InvoiceStatusCancelled, final)
	}
}

// Dos emisiones concurrentes del mismo borrador: solo una consume un número
// del consecutivo; la perdedora no deja hueco en la numeración.
func TestEmisionConcurrente_NoQuemaConsecutivo(t *testing.T) {
	uc, repo := buildInvoiceUseCase(t)
	inv := createDraft(t, uc,
		dto.InvoiceLineRequest{Description: "Práce", Quantity: dec("1"), UnitPrice: dec("100"), VATRate: dec("0.21")},
	)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Issue(context.Background(), testCompanyID, inv.ID)
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactamente una emisión debe fallar")

	issued := repo.invoices[inv.ID]
	assert.Equal(t, entity.InvoiceStatusIssued, issued.Status)
	require.NotNil(t, issued.IssueDate)
	year := issued.IssueDate.Year()
	assert.Equal(t, formatNumber(year, 1), issued.Number)
	assert.Equal(t, int64(1), repo.sequences[year], "el consecutivo avanza una sola vez")
}

func TestGetByID_OtraEmpresaNoVeLaFactura(t *testing.T) {
	uc, _ := buildInvoiceUseCase(t)
	inv := createDraft(t, uc,
		dto.InvoiceLineRequest{Description: "Práce", Quantity: dec("1"), UnitPrice: dec("100"), VATRate: dec("0.21")},
	)
	_, err := uc.GetByID("otra-empresa", inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
