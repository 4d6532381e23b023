package main

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Desarrollo-Prime/server-bigc/docs"
	"github.com/Desarrollo-Prime/server-bigc/internal/auth"
	"github.com/Desarrollo-Prime/server-bigc/internal/config"
	"github.com/Desarrollo-Prime/server-bigc/internal/database"
	"github.com/Desarrollo-Prime/server-bigc/internal/database/migration"
	handlers "github.com/Desarrollo-Prime/server-bigc/internal/http/handler"
	"github.com/Desarrollo-Prime/server-bigc/internal/http/middleware"
	"github.com/Desarrollo-Prime/server-bigc/internal/otel"
	"github.com/Desarrollo-Prime/server-bigc/internal/repository/postgres"
	"github.com/Desarrollo-Prime/server-bigc/internal/service"
	"github.com/Desarrollo-Prime/server-bigc/internal/storage"
)

// @title Document Management API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.Local

	// Token signing: refuse to start without an explicit secret. Only the
	// presence and length of the secret are ever logged, never its value.
	codec, err := auth.NewTokenCodec(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	if err != nil {
		log.Fatalf("jwt configuration invalid: %v", err)
	}
	logStartupJSON(loc, map[string]any{
		"component":          "auth",
		"event":              "jwt_configured",
		"secret_present":     true,
		"secret_length":      len(cfg.JWT.Secret),
		"token_expiry_hours": cfg.JWT.ExpiryHours,
	})

	// Tracing first so the DB driver wrapper picks up the provider
	ctx := context.Background()
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserPostgres(db)
	roleRepo := postgres.NewRolePostgres(db)
	companyRepo := postgres.NewCompanyPostgres(db)
	areaRepo := postgres.NewAreaPostgres(db)
	statusRepo := postgres.NewDocumentStatusPostgres(db)
	docRepo := postgres.NewDocumentPostgres(db)

	// Services
	authSvc := auth.NewService(userRepo, codec)
	userSvc := service.NewUserService(userRepo, roleRepo)
	areaSvc := service.NewAreaService(areaRepo, companyRepo)
	docSvc := service.NewDocumentService(objStore, docRepo, companyRepo, areaRepo, statusRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	// Prometheus request counting plus the standard process/go collectors
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register prometheus metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, handlers.Deps{
		DB:        db,
		Auth:      authSvc,
		Users:     userSvc,
		Areas:     areaSvc,
		Documents: docSvc,
		Companies: companyRepo,
		Statuses:  statusRepo,
		Roles:     roleRepo,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func logStartupJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
	}
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
