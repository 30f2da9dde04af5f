package handlers

import (
	"net/http"

	"github.com/dom/cv-builder-api/internal/service"
)

type CVHandler struct {
	cvService *service.CVService
}

func NewCVHandler(cvService *service.CVService) *CVHandler {
	return &CVHandler{cvService: cvService}
}

func (h *CVHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.cvService.GetUserCV(r.Context(), uuidParam(r, "userId"))
	if err != nil {
		writeServiceError(w, "handlers.GetCV", err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}
