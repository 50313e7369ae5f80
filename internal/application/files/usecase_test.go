package files_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/application/files"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
	"github.com/stavbase/stavbase-api/internal/infrastructure/storage"
)

const testCompanyID = "empresa-1"

// ── fakes ───────────────────────────────────────────────────────────

type fakeFileRepo struct {
	repository.FileRepository
	files     map[string]*entity.StoredFile
	links     map[string][]*entity.FileLink
	createErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{
		files: map[string]*entity.StoredFile{},
		links: map[string][]*entity.FileLink{},
	}
}

func (f *fakeFileRepo) Create(file *entity.StoredFile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.files[file.ID] = file
	return nil
}

func (f *fakeFileRepo) GetByCompanyAndID(companyID, id string) (*entity.StoredFile, error) {
	file, ok := f.files[id]
	if !ok || file.CompanyID != companyID {
		return nil, nil
	}
	return file, nil
}

func (f *fakeFileRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StoredFile, error) {
	var all []*entity.StoredFile
	for _, file := range f.files {
		if file.CompanyID == companyID {
			all = append(all, file)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeFileRepo) CountByCompany(companyID string) (int, error) {
	n := 0
	for _, file := range f.files {
		if file.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFileRepo) Delete(_, id string) error {
	delete(f.files, id)
	return nil
}

func (f *fakeFileRepo) Link(link *entity.FileLink) error {
	f.links[link.FileID] = append(f.links[link.FileID], link)
	return nil
}

func (f *fakeFileRepo) GetLinks(fileID string) ([]*entity.FileLink, error) {
	return f.links[fileID], nil
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
}

func (f *fakeCustomerRepo) GetByCompanyAndID(string, string) (*entity.Customer, error) {
	return nil, nil
}

type fakeInvoiceRepo struct {
	repository.InvoiceRepository
}

func (f *fakeInvoiceRepo) GetByCompanyAndID(string, string) (*entity.Invoice, error) {
	return nil, nil
}

// ── helpers ─────────────────────────────────────────────────────────

// buildUseCase usa el driver de almacenamiento local real sobre un directorio
// temporal; solo los repos son fakes.
func buildUseCase(t *testing.T) (*files.UseCase, *fakeFileRepo) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := newFakeFileRepo()
	projects := &fakeProjectRepo{projects: map[string]*entity.Project{
		"proyecto-1": {ID: "proyecto-1", CompanyID: testCompanyID},
	}}
	uc := files.NewUseCase(repo, projects, &fakeCustomerRepo{}, &fakeInvoiceRepo{}, store)
	return uc, repo
}

// ── Upload / Download ───────────────────────────────────────────────

func TestUpload_DescargaDevuelveElMismoContenido(t *testing.T) {
	uc, _ := buildUseCase(t)
	content := []byte("obsah smlouvy o dílo")

	resp, err := uc.Upload(context.Background(), testCompanyID, "usuario-1", "smlouva.pdf", "application/pdf", content)
	require.NoError(t, err)

	sum := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(sum[:]), resp.ContentHash, "hash SHA-256 del contenido")
	assert.Equal(t, int64(len(content)), resp.Size)
	assert.Equal(t, "smlouva.pdf", resp.OriginalName)

	meta, got, err := uc.Download(context.Background(), testCompanyID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, content, got, "la descarga devuelve los mismos bytes")
	assert.Equal(t, resp.ContentHash, meta.ContentHash)
}

func TestUpload_MimeTypePorDefecto(t *testing.T) {
	uc, _ := buildUseCase(t)
	resp, err := uc.Upload(context.Background(), testCompanyID, "usuario-1", "datos.bin", "", []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", resp.MimeType)
}

func TestUpload_ContenidoVacio(t *testing.T) {
	uc, _ := buildUseCase(t)
	_, err := uc.Upload(context.Background(), testCompanyID, "usuario-1", "vacio.txt", "text/plain", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Si la fila no se puede registrar, el objeto recién subido no debe quedar.
func TestUpload_LimpiaElObjetoSiLaFilaFalla(t *testing.T) {
	uc, repo := buildUseCase(t)
	repo.createErr = domain.ErrDuplicate

	content := []byte("contenido")
	_, err := uc.Upload(context.Background(), testCompanyID, "usuario-1", "f.txt", "text/plain", content)
	require.ErrorIs(t, err, domain.ErrDuplicate)

	// Un segundo intento limpio debe funcionar: el objeto anterior fue retirado.
	repo.createErr = nil
	resp, err := uc.Upload(context.Background(), testCompanyID, "usuario-1", "f.txt", "text/plain", content)
	require.NoError(t, err)

	_, got, err := uc.Download(context.Background(), testCompanyID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestDownload_ArchivoInexistente(t *testing.T) {
	uc, _ := buildUseCase(t)
	_, _, err := uc.Download(context.Background(), testCompanyID, "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownload_OtraEmpresaNoVeElArchivo(t *testing.T) {
	uc, _ := buildUseCase(t)
	resp, err := uc.Upload(context.Background(), testCompanyID, "usuario-1", "f.txt", "text/plain", []byte("x"))
	require.NoError(t, err)

	_, _, err = uc.Download(context.Background(), "otra-empresa", resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── List ────────────────────────────────────────────────────────────

// El total de la página cuenta todas las filas de la empresa, no solo las devueltas.
func TestList_TotalCuentaTodasLasFilas(t *testing.T) {
	uc, _ := buildUseCase(t)
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := uc.Upload(context.Background(), testCompanyID, "usuario-1", name, "text/plain", []byte(name))
		require.NoError(t, err)
	}

	resp, err := uc.List(testCompanyID, dto.PageRequest{Limit: 2})
	require.NoError(t, err)

	assert.Len(t, resp.Items, 2, "la página respeta el límite")
	assert.Equal(t, 3, resp.Page.Total, "el total es el recuento completo de la empresa")
	assert.Equal(t, 2, resp.Page.Limit)

	otra, err := uc.List("otra-empresa", dto.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, otra.Page.Total)
}

// ── Delete ──────────────────────────────────────────────────────────

func TestDelete_EliminaRegistroYObjeto(t *testing.T) {
	uc, _ := buildUseCase(t)
	resp, err := uc.Upload(context.Background(), testCompanyID, "usuario-1", "f.txt", "text/plain", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), testCompanyID, resp.ID))

	_, _, err = uc.Download(context.Background(), testCompanyID, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_Inexistente(t *testing.T) {
	uc, _ := buildUseCase(t)
	err := uc.Delete(context.Background(), testCompanyID, "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── vínculos ────────────────────────────────────────────────────────

func TestLink_ProyectoDeLaEmpresa(t *testing.T) {
	uc, repo := buildUseCase(t)
	resp, err := uc.Upload(context.Background(), testCompanyID, "usuario-1", "f.txt", "text/plain", []byte("x"))
	require.NoError(t, err)

	err = uc.Link(testCompanyID, resp.ID, dto.LinkFileRequest{
		TargetType: entity.FileTargetProject,
		TargetID:   "proyecto-1",
	})
	require.NoError(t, err)
	require.Len(t, repo.links[resp.ID], 1)
	assert.Equal(t, entity.FileTargetProject, repo.links[resp.ID][0].TargetType)
}

func TestLink_TipoDeDestinoDesconocido(t *testing.T) {
	uc, _ := buildUseCase(t)
	resp, err := uc.Upload(context.Background(), testCompanyID, "usuario-1", "f.txt", "text/plain", []byte("x"))
	require.NoError(t, err)

	err = uc.Link(testCompanyID, resp.ID, dto.LinkFileRequest{TargetType: "USER", TargetID: "u-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLink_DestinoDeOtraEmpresa(t *testing.T) {
	uc, _ := buildUseCase(t)
	resp, err := uc.Upload(context.Background(), testCompanyID, "usuario-1", "f.txt", "text/plain", []byte("x"))
	require.NoError(t, err)

	err = uc.Link(testCompanyID, resp.ID, dto.LinkFileRequest{
		TargetType: entity.FileTargetProject,
		TargetID:   "proyecto-ajeno",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "el destino debe pertenecer a la empresa")
}
