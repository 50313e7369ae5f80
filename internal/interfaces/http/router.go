package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/stavbase/stavbase-api/internal/application/auth"
	"github.com/stavbase/stavbase-api/internal/application/billing"
	"github.com/stavbase/stavbase-api/internal/application/company"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/application/files"
	"github.com/stavbase/stavbase-api/internal/application/geo"
	"github.com/stavbase/stavbase-api/internal/application/members"
	"github.com/stavbase/stavbase-api/internal/application/projects"
	"github.com/stavbase/stavbase-api/internal/application/registration"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegistrationUC *registration.UseCase
	AuthUC         *auth.UseCase
	CompanyUC      *company.UseCase
	MemberUC       *members.UseCase
	CustomerUC     *billing.CustomerUseCase
	ProjectUC      *projects.UseCase
	InvoiceUC      *billing.InvoiceUseCase
	InvoicePDFUC   *billing.PDFUseCase
	FileUC         *files.UseCase
	GeoUC          *geo.UseCase
	JWTSecret      string
	RateLimitMax   int
	RateLimitWin   time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rate limit para los endpoints públicos (registro, ARES, geo).
	publicLimiter := limiter.New(limiter.Config{
		Max:        deps.RateLimitMax,
		Expiration: deps.RateLimitWin,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones, inténtalo más tarde"})
		},
	})

	// Registro de empresa (público, con rate limit)
	v1 := api.Group("/v1")
	registrationHandler := NewRegistrationHandler(deps.RegistrationUC)
	v1.Post("/companies/register", publicLimiter, registrationHandler.Register)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Registro mercantil ARES (público, con rate limit)
	api.Get("/companies/lookup/ares", publicLimiter, registrationHandler.LookupRegistry)

	// Geo suggest (público, con rate limit)
	geoHandler := NewGeoHandler(deps.GeoUC)
	v1.Get("/geo/suggest", publicLimiter, geoHandler.Suggest)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Post("/auth/logout", authHandler.Logout)

	// Company (protegido)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company", adminOnly, companyHandler.Update)
	protected.Post("/company/sync-registry", adminOnly, companyHandler.SyncFromRegistry)

	// Members (protegido)
	memberGroup := protected.Group("/members")
	memberHandler := NewMemberHandler(deps.MemberUC)
	memberGroup.Get("/", memberHandler.List)
	memberGroup.Post("/", adminOnly, memberHandler.Add)
	memberGroup.Put("/:userId/role", adminOnly, memberHandler.UpdateRole)
	memberGroup.Delete("/:userId", adminOnly, memberHandler.Remove)
	memberGroup.Post("/:userId/archive", adminOnly, memberHandler.Archive)
	memberGroup.Post("/:userId/unarchive", adminOnly, memberHandler.Unarchive)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", adminOnly, customerHandler.Delete)

	// Projects (protegido)
	projectGroup := protected.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projectGroup.Post("/", adminOnly, projectHandler.Create)
	projectGroup.Get("/", projectHandler.List)
	projectGroup.Get("/:id", projectHandler.GetByID)
	projectGroup.Put("/:id", adminOnly, projectHandler.Update)
	projectGroup.Post("/:id/archive", adminOnly, projectHandler.Archive)
	projectGroup.Post("/:id/unarchive", adminOnly, projectHandler.Unarchive)
	projectGroup.Put("/:id/translations/:locale", projectHandler.UpsertTranslation)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDFUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id/lines", invoiceHandler.ReplaceLines)
	invoices.Post("/:id/issue", adminOnly, invoiceHandler.Issue)
	invoices.Post("/:id/pay", adminOnly, invoiceHandler.MarkPaid)
	invoices.Post("/:id/cancel", adminOnly, invoiceHandler.Cancel)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	// Files (protegido)
	fileGroup := protected.Group("/files")
	fileHandler := NewFileHandler(deps.FileUC)
	fileGroup.Post("/", fileHandler.Upload)
	fileGroup.Get("/", fileHandler.List)
	fileGroup.Get("/by-target/:targetType/:targetId", fileHandler.ListByTarget)
	fileGroup.Get("/:id", fileHandler.GetByID)
	fileGroup.Get("/:id/download", fileHandler.Download)
	fileGroup.Delete("/:id", adminOnly, fileHandler.Delete)
	fileGroup.Put("/:id/tags", fileHandler.SetTags)
	fileGroup.Post("/:id/links", fileHandler.Link)
	fileGroup.Delete("/:id/links/:targetType/:targetId", fileHandler.Unlink)
}
