package handlers

import (
	"net/http"

	"github.com/dom/cv-builder-api/internal/api/middleware"
	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/service"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
	maxUpload       int64
}

func NewFeedbackHandler(feedbackService *service.FeedbackService, maxUpload int64) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, maxUpload: maxUpload}
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req service.CreateFeedbackInput
	if _, err := decodeBody(r, &req, h.maxUpload); err != nil {
		badBody(w)
		return
	}

	feedback, err := h.feedbackService.Create(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, "handlers.CreateFeedback", err)
		return
	}

	writeJSON(w, http.StatusCreated, feedback.View())
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := middleware.GetPage(r.Context())

	feedbacks, total, err := h.feedbackService.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, "handlers.ListFeedbacks", err)
		return
	}

	views := make([]domain.CVFeedback, 0, len(feedbacks))
	for _, e := range feedbacks {
		views = append(views, e.View())
	}
	writeList(w, views, total)
}

func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.feedbackService.Get(r.Context(), idParam(r, "id"))
	if err != nil {
		writeServiceError(w, "handlers.GetFeedback", err)
		return
	}

	writeJSON(w, http.StatusOK, feedback.View())
}

func (h *FeedbackHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req service.UpdateFeedbackInput
	if _, err := decodeBody(r, &req, h.maxUpload); err != nil {
		badBody(w)
		return
	}

	feedback, err := h.feedbackService.Update(r.Context(), actor, idParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, "handlers.UpdateFeedback", err)
		return
	}

	writeJSON(w, http.StatusOK, feedback.View())
}

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.feedbackService.Delete(r.Context(), actor, idParam(r, "id")); err != nil {
		writeServiceError(w, "handlers.DeleteFeedback", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
