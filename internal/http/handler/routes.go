package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Desarrollo-Prime/server-bigc/internal/auth"
	"github.com/Desarrollo-Prime/server-bigc/internal/http/middleware"
	"github.com/Desarrollo-Prime/server-bigc/internal/model"
	"github.com/Desarrollo-Prime/server-bigc/internal/repository"
	"github.com/Desarrollo-Prime/server-bigc/internal/service"
)

// Deps bundles everything the route table needs.
type Deps struct {
	DB        *sql.DB
	Auth      auth.Service
	Users     service.UserService
	Areas     service.AreaService
	Documents service.DocumentService
	Companies repository.CompanyRepository
	Statuses  repository.DocumentStatusRepository
	Roles     repository.RoleRepository
}

// adminRoles is the role set shared by most write operations.
var adminRoles = []string{model.RoleAdmin, model.RoleSuperAdmin}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
//
// Every protected route declares its required-role set right here, next
// to its method and path, so the full authorization surface is readable
// in one place. An absent RequireRoles call means authentication alone
// suffices.
func RegisterRoutes(app *fiber.App, d Deps) {
	// Public endpoints
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	app.Post("/auth/login", middleware.NoCache(), Login(d.Auth))

	authRequired := middleware.RequireAuth(d.Auth)
	adminOnly := middleware.RequireRoles(adminRoles...)
	superAdminOnly := middleware.RequireRoles(model.RoleSuperAdmin)

	// Users: Admin/SuperAdmin manage, SuperAdmin deletes.
	users := app.Group("/users", authRequired, adminOnly)
	users.Post("/register", RegisterUser(d.Users))
	users.Get("/", ListUsers(d.Users))
	users.Get("/:id", GetUser(d.Users))
	users.Put("/:id", UpdateUser(d.Users))
	users.Delete("/:id", superAdminOnly, DeleteUser(d.Users))

	// Catalogs: read-only, any authenticated user.
	app.Get("/companies", authRequired, ListCompanies(d.Companies))
	app.Get("/document-statuses", authRequired, ListDocumentStatuses(d.Statuses))
	app.Get("/roles", authRequired, ListRoles(d.Roles))

	// Areas: reads for everyone, writes gated.
	areas := app.Group("/areas", authRequired)
	areas.Get("/", ListAreas(d.Areas))
	areas.Get("/:id", GetArea(d.Areas))
	areas.Post("/", adminOnly, CreateArea(d.Areas))
	areas.Put("/:id", adminOnly, UpdateArea(d.Areas))
	areas.Delete("/:id", superAdminOnly, DeleteArea(d.Areas))

	// Documents: reads for everyone, writes gated.
	documents := app.Group("/documents", authRequired)
	documents.Get("/", ListDocuments(d.Documents))
	documents.Get("/:id", GetDocument(d.Documents))
	documents.Get("/:id/download", middleware.NoCache(), DownloadDocument(d.Documents))
	documents.Post("/", adminOnly, UploadDocument(d.Documents))
	documents.Put("/:id", adminOnly, UpdateDocument(d.Documents))
	documents.Delete("/:id", adminOnly, DeleteDocument(d.Documents))
}
