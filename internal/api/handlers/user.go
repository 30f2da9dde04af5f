package handlers

import (
	"net/http"

	"github.com/dom/cv-builder-api/internal/api/middleware"
	"github.com/dom/cv-builder-api/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	maxUpload   int64
}

func NewUserHandler(userService *service.UserService, maxUpload int64) *UserHandler {
	return &UserHandler{userService: userService, maxUpload: maxUpload}
}

// Create adds an account with an explicit role.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserInput
	upload, err := decodeBody(r, &req, h.maxUpload)
	if err != nil {
		badBody(w)
		return
	}
	req.Image = upload

	user, err := h.userService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, "handlers.CreateUser", err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := middleware.GetPage(r.Context())

	users, total, err := h.userService.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, "handlers.ListUsers", err)
		return
	}

	writeList(w, users, total)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), uuidParam(r, "id"))
	if err != nil {
		writeServiceError(w, "handlers.GetUser", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req service.UpdateUserInput
	upload, err := decodeBody(r, &req, h.maxUpload)
	if err != nil {
		badBody(w)
		return
	}
	req.Image = upload

	user, err := h.userService.Update(r.Context(), actor, uuidParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, "handlers.UpdateUser", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), actor, uuidParam(r, "id")); err != nil {
		writeServiceError(w, "handlers.DeleteUser", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
