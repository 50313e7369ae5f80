package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stavbase/stavbase-api/internal/application/auth"
	"github.com/stavbase/stavbase-api/internal/application/billing"
	"github.com/stavbase/stavbase-api/internal/application/company"
	"github.com/stavbase/stavbase-api/internal/application/files"
	appgeo "github.com/stavbase/stavbase-api/internal/application/geo"
	"github.com/stavbase/stavbase-api/internal/application/members"
	"github.com/stavbase/stavbase-api/internal/application/projects"
	"github.com/stavbase/stavbase-api/internal/application/registration"
	"github.com/stavbase/stavbase-api/internal/infrastructure/ares"
	infrageo "github.com/stavbase/stavbase-api/internal/infrastructure/geo"
	infrapdf "github.com/stavbase/stavbase-api/internal/infrastructure/pdf"
	"github.com/stavbase/stavbase-api/internal/infrastructure/postgres"
	"github.com/stavbase/stavbase-api/internal/infrastructure/storage"
	httpRouter "github.com/stavbase/stavbase-api/internal/interfaces/http"
	"github.com/stavbase/stavbase-api/pkg/config"
	"github.com/stavbase/stavbase-api/pkg/logger"
	"github.com/stavbase/stavbase-api/pkg/refdata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	legalForms, err := refdata.LoadLegalForms()
	if err != nil {
		log.Fatal().Err(err).Msg("cargar formas jurídicas")
	}

	// Repositorios sobre el pool; las operaciones transaccionales usan el TxRunner.
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	fileRepo := postgres.NewFileRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Clientes externos
	aresClient := ares.NewClient(cfg.ARES)
	geoClient := infrageo.NewClient(cfg.Geo)

	var fileStorage files.Storage
	switch cfg.Storage.Driver {
	case "s3":
		fileStorage, err = storage.NewS3Storage(ctx, cfg.Storage)
	default:
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.LocalDir)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}

	// Casos de uso
	registrationUC := registration.NewUseCase(txRunner, companyRepo, userRepo, aresClient, legalForms)
	authUC := auth.NewUseCase(userRepo, memberRepo, auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		ExpMinutes:     cfg.JWT.Expiration,
		RefreshExpDays: cfg.JWT.RefreshExpDays,
		Issuer:         cfg.JWT.Issuer,
	})
	companyUC := company.NewUseCase(companyRepo, aresClient, legalForms)
	memberUC := members.NewUseCase(txRunner, userRepo, memberRepo)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	projectUC := projects.NewUseCase(projectRepo, memberRepo)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, projectRepo, customerRepo)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, companyRepo, customerRepo, pdfGenerator)
	fileUC := files.NewUseCase(fileRepo, projectRepo, customerRepo, invoiceRepo, fileStorage)
	geoUC := appgeo.NewUseCase(geoClient)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    30 << 20, // margen sobre el límite de subida de archivos
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stavbase API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegistrationUC: registrationUC,
		AuthUC:         authUC,
		CompanyUC:      companyUC,
		MemberUC:       memberUC,
		CustomerUC:     customerUC,
		ProjectUC:      projectUC,
		InvoiceUC:      invoiceUC,
		InvoicePDFUC:   invoicePDFUC,
		FileUC:         fileUC,
		GeoUC:          geoUC,
		JWTSecret:      cfg.JWT.Secret,
		RateLimitMax:   cfg.RateLimit.Max,
		RateLimitWin:   cfg.RateLimit.Window,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
