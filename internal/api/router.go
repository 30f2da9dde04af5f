package api

import (
	"net/http"

	"github.com/dom/cv-builder-api/internal/api/handlers"
	"github.com/dom/cv-builder-api/internal/api/middleware"
	"github.com/dom/cv-builder-api/internal/config"
	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/repository"
	"github.com/dom/cv-builder-api/internal/service"
	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// bodyOverhead is the room left for form fields next to an upload.
const bodyOverhead = 1 << 20

func NewRouter(services *service.Services, repos *repository.Repositories, store storage.Store, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)
	r.Use(chiMiddleware.RequestSize(cfg.MaxUploadBytes + bodyOverhead))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	imageHandler := handlers.NewImageHandler(store)
	r.Get("/public/{key}", imageHandler.Serve)

	authHandler := handlers.NewAuthHandler(services.Auth, services.User, cfg.MaxUploadBytes)
	userHandler := handlers.NewUserHandler(services.User, cfg.MaxUploadBytes)
	experienceHandler := handlers.NewExperienceHandler(services.Experience, cfg.MaxUploadBytes)
	projectHandler := handlers.NewProjectHandler(services.Project, cfg.MaxUploadBytes)
	feedbackHandler := handlers.NewFeedbackHandler(services.Feedback, cfg.MaxUploadBytes)
	cvHandler := handlers.NewCVHandler(services.CV)

	auth := middleware.Auth(services.Auth)
	adminOnly := middleware.RequireRoles(repos.User, middleware.AllowRoles(domain.RoleAdmin))
	anyRole := middleware.RequireRoles(repos.User, middleware.AllowRoles(domain.RoleAdmin, domain.RoleUser))
	ownerOnly := middleware.RequireRoles(repos.User, middleware.RoleRule{OwnerParam: "id"})
	adminOrOwner := middleware.RequireRoles(repos.User, middleware.AllowRoles(domain.RoleAdmin).OrOwner("id"))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(auth).Get("/me", authHandler.Me)
		})

		r.With(middleware.UUIDParam("userId"), auth).Get("/user/{userId}/cv", cvHandler.Get)

		r.Route("/users", func(r chi.Router) {
			r.With(auth, adminOnly).Post("/", userHandler.Create)
			r.With(middleware.Pagination, auth, adminOnly).Get("/", userHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(middleware.UUIDParam("id"))
				r.Use(auth)
				r.Get("/", userHandler.Get)
				r.With(ownerOnly).Put("/", userHandler.Update)
				r.With(adminOrOwner).Delete("/", userHandler.Delete)
			})
		})

		mountRecords(r, "/experience", auth, adminOnly, anyRole, experienceHandler)
		mountRecords(r, "/projects", auth, adminOnly, anyRole, projectHandler)
		mountRecords(r, "/feedback", auth, adminOnly, anyRole, feedbackHandler)
	})

	return r
}

type recordHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// mountRecords registers the CRUD routes shared by experience, projects and feedback.
func mountRecords(r chi.Router, pattern string, auth, adminOnly, anyRole func(http.Handler) http.Handler, h recordHandler) {
	r.Route(pattern, func(r chi.Router) {
		r.With(auth, anyRole).Post("/", h.Create)
		r.With(middleware.Pagination, auth, adminOnly).Get("/", h.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(middleware.IDParam("id"))
			r.Use(auth)
			r.Get("/", h.Get)
			r.With(anyRole).Put("/", h.Update)
			r.With(anyRole).Delete("/", h.Delete)
		})
	})
}
