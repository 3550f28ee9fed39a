package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/roster/internal/api/handler"
	"github.com/daap14/roster/internal/api/middleware"
	"github.com/daap14/roster/internal/auth"
	"github.com/daap14/roster/internal/employee"
	"github.com/daap14/roster/internal/ui"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Store        *employee.Gateway
	StoreBackend string
	Version      string
	Auth         *auth.Service
	OpenAPISpec  []byte
	// NewID overrides external identifier generation for page submissions.
	NewID func() string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.Store, deps.StoreBackend, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	authService := deps.Auth
	if authService == nil {
		authService = auth.NewService("", 0)
	}

	controller := ui.NewController(deps.Store)
	if deps.NewID != nil {
		controller = controller.WithIDGenerator(deps.NewID)
	}
	pageHandler := handler.NewPageHandler(controller)
	r.Get("/", pageHandler.Show)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePageKey(authService))
		// Kept outside /employees so that no employee id can address it.
		r.Post("/clear-all", pageHandler.DeleteAll)
		r.Route("/employees", func(r chi.Router) {
			r.Post("/", pageHandler.Submit)
			r.Post("/{id}", pageHandler.Update)
			r.Post("/{id}/delete", pageHandler.Delete)
		})
	})

	employeeHandler := handler.NewEmployeeHandler(deps.Store)
	r.Route("/api/employees", func(r chi.Router) {
		r.Get("/", employeeHandler.List)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAPIKey(authService))
			r.Post("/", employeeHandler.Create)
			r.Delete("/", employeeHandler.DeleteAll)
			r.Patch("/{id}", employeeHandler.Update)
			r.Delete("/{id}", employeeHandler.Delete)
		})
	})

	return r
}
