package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ImageHandler serves stored avatars and project images.
type ImageHandler struct {
	store storage.Store
}

func NewImageHandler(store storage.Store) *ImageHandler {
	return &ImageHandler{store: store}
}

func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.store.Open(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			http.NotFound(w, r)
			return
		}
		log.Error().Err(err).Str("op", "handlers.ServeImage").Msg("failed to open image")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		log.Warn().Err(err).Str("op", "handlers.ServeImage").Msg("failed to stream image")
	}
}
