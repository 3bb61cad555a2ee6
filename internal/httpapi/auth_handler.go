package httpapi

import (
	"errors"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"shop-api/internal/auth"
)

type AuthHandler struct {
	svc      *auth.Service
	validate *validatorv10.Validate
}

func NewAuthHandler(svc *auth.Service, validate *validatorv10.Validate) *AuthHandler {
	return &AuthHandler{svc: svc, validate: validate}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	u := &auth.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.svc.Register(r.Context(), u, req.Password); err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			writeError(w, http.StatusBadRequest, "username or email already taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(w, r, &req, h.validate); err != nil {
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
