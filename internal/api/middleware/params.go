package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dom/cv-builder-api/internal/service"
	"github.com/dom/cv-builder-api/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UUIDParam rejects requests whose path parameter is not a UUID.
func UUIDParam(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := uuid.Parse(chi.URLParam(r, name)); err != nil {
				writeParamErrors(w, validation.FieldError{Field: name, Message: "Invalid user ID parameter"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IDParam rejects requests whose path parameter is not a positive integer.
func IDParam(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := positiveInt(chi.URLParam(r, name)); !ok {
				writeParamErrors(w, validation.FieldError{Field: name, Message: "Invalid id path parameter"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Pagination requires positive pageSize and page query parameters and
// stores them as a service.Page.
func Pagination(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		var errs []validation.FieldError

		size, ok := positiveInt(query.Get("pageSize"))
		if !ok {
			errs = append(errs, validation.FieldError{Field: "pageSize", Message: "Invalid pageSize parameter"})
		}
		number, ok := positiveInt(query.Get("page"))
		if !ok {
			errs = append(errs, validation.FieldError{Field: "page", Message: "Invalid page parameter"})
		}
		if len(errs) > 0 {
			writeParamErrors(w, errs...)
			return
		}

		ctx := context.WithValue(r.Context(), PageKey, service.Page{Size: size, Number: number})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetPage(ctx context.Context) (service.Page, bool) {
	page, ok := ctx.Value(PageKey).(service.Page)
	return page, ok
}

func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func writeParamErrors(w http.ResponseWriter, errs ...validation.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string][]validation.FieldError{"errors": errs})
}
