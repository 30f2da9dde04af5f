package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/dom/cv-builder-api/internal/api/middleware"
	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const imageField = "image"

var errBadBody = errors.New("invalid request body")

// decodeBody fills dst from a JSON or multipart/form-data body. For
// multipart requests the optional "image" file is returned as an upload.
func decodeBody(r *http.Request, dst any, maxUpload int64) (*storage.Upload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadBody, err)
		}
		return nil, nil
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}

	// Form fields are re-encoded as JSON so optional fields stay nil when absent.
	fields := make(map[string]string, len(r.MultipartForm.Value))
	for key, values := range r.MultipartForm.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}

	file, header, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}
	defer file.Close()

	// Read one byte past the limit so oversized files are detected.
	data, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}
	return &storage.Upload{Filename: header.Filename, Data: data}, nil
}

// badBody reports an unreadable request body.
func badBody(w http.ResponseWriter) {
	writeMessage(w, http.StatusBadRequest, "Invalid request body")
}

func actorFrom(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return actor, ok
}

// The param helpers rely on UUIDParam and IDParam having run first.

func uuidParam(r *http.Request, name string) uuid.UUID {
	id, _ := uuid.Parse(chi.URLParam(r, name))
	return id
}

func idParam(r *http.Request, name string) uint {
	id, _ := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	return uint(id)
}
