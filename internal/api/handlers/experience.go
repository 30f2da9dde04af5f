package handlers

import (
	"net/http"

	"github.com/dom/cv-builder-api/internal/api/middleware"
	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/service"
)

type ExperienceHandler struct {
	experienceService *service.ExperienceService
	maxUpload         int64
}

func NewExperienceHandler(experienceService *service.ExperienceService, maxUpload int64) *ExperienceHandler {
	return &ExperienceHandler{experienceService: experienceService, maxUpload: maxUpload}
}

func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req service.CreateExperienceInput
	if _, err := decodeBody(r, &req, h.maxUpload); err != nil {
		badBody(w)
		return
	}

	experience, err := h.experienceService.Create(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, "handlers.CreateExperience", err)
		return
	}

	writeJSON(w, http.StatusCreated, experience.View())
}

func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := middleware.GetPage(r.Context())

	experiences, total, err := h.experienceService.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, "handlers.ListExperiences", err)
		return
	}

	views := make([]domain.CVExperience, 0, len(experiences))
	for _, e := range experiences {
		views = append(views, e.View())
	}
	writeList(w, views, total)
}

func (h *ExperienceHandler) Get(w http.ResponseWriter, r *http.Request) {
	experience, err := h.experienceService.Get(r.Context(), idParam(r, "id"))
	if err != nil {
		writeServiceError(w, "handlers.GetExperience", err)
		return
	}

	writeJSON(w, http.StatusOK, experience.View())
}

func (h *ExperienceHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req service.UpdateExperienceInput
	if _, err := decodeBody(r, &req, h.maxUpload); err != nil {
		badBody(w)
		return
	}

	experience, err := h.experienceService.Update(r.Context(), actor, idParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, "handlers.UpdateExperience", err)
		return
	}

	writeJSON(w, http.StatusOK, experience.View())
}

func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.experienceService.Delete(r.Context(), actor, idParam(r, "id")); err != nil {
		writeServiceError(w, "handlers.DeleteExperience", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
