package handlers

import (
	"net/http"

	"github.com/dom/cv-builder-api/internal/api/middleware"
	"github.com/dom/cv-builder-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	maxUpload   int64
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, maxUpload int64) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		maxUpload:   maxUpload,
	}
}

// Register creates a regular account. An optional avatar may be sent as multipart.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserInput
	upload, err := decodeBody(r, &req, h.maxUpload)
	if err != nil {
		badBody(w)
		return
	}
	req.Image = upload

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, "handlers.Register", err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if _, err := decodeBody(r, &req, h.maxUpload); err != nil {
		badBody(w)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, "handlers.Login", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "handlers.Me", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
