package handlers

import (
	"net/http"

	"github.com/dom/cv-builder-api/internal/api/middleware"
	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	maxUpload      int64
}

func NewProjectHandler(projectService *service.ProjectService, maxUpload int64) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, maxUpload: maxUpload}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req service.CreateProjectInput
	upload, err := decodeBody(r, &req, h.maxUpload)
	if err != nil {
		badBody(w)
		return
	}
	req.Image = upload

	project, err := h.projectService.Create(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, "handlers.CreateProject", err)
		return
	}

	writeJSON(w, http.StatusCreated, project.View())
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := middleware.GetPage(r.Context())

	projects, total, err := h.projectService.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, "handlers.ListProjects", err)
		return
	}

	views := make([]domain.CVProject, 0, len(projects))
	for _, e := range projects {
		views = append(views, e.View())
	}
	writeList(w, views, total)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.Get(r.Context(), idParam(r, "id"))
	if err != nil {
		writeServiceError(w, "handlers.GetProject", err)
		return
	}

	writeJSON(w, http.StatusOK, project.View())
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req service.UpdateProjectInput
	upload, err := decodeBody(r, &req, h.maxUpload)
	if err != nil {
		badBody(w)
		return
	}
	req.Image = upload

	project, err := h.projectService.Update(r.Context(), actor, idParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, "handlers.UpdateProject", err)
		return
	}

	writeJSON(w, http.StatusOK, project.View())
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), actor, idParam(r, "id")); err != nil {
		writeServiceError(w, "handlers.DeleteProject", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
