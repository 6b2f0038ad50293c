// Package handler exposes the auth service over HTTP.
package handler

import (
	"errors"
	"net/http"
	"time"

	"truedial/internal/auth"
	"truedial/internal/server/httpx"
	"truedial/internal/server/middleware"
	userdomain "truedial/internal/user/domain"
)

// Handler serves registration, login, logout and profile endpoints.
type Handler struct {
	svc *auth.Service
}

// NewHandler returns an auth HTTP handler backed by svc.
func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

type userResponse struct {
	ID          string  `json:"id"`
	PhoneNumber string  `json:"phone_number"`
	Name        string  `json:"name"`
	Email       *string `json:"email"`
}

func toUserResponse(u *userdomain.User) userResponse {
	resp := userResponse{ID: u.ID, PhoneNumber: u.PhoneNumber, Name: u.Name}
	if u.Email != "" {
		email := u.Email
		resp.Email = &email
	}
	return resp
}

type registerRequest struct {
	PhoneNumber     string `json:"phone_number"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	u, err := h.svc.Register(r.Context(), auth.RegisterInput{
		PhoneNumber:     req.PhoneNumber,
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeAuthError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toUserResponse(u))
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	res, err := h.svc.Login(r.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      toUserResponse(res.User),
	})
}

// Logout handles POST /auth/logout. Requires authentication.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	if sessionID == "" {
		httpx.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.svc.Logout(r.Context(), sessionID); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusNoContent, nil)
}

// GetProfile handles GET /me.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetProfile(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeAuthError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(u))
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfile handles PUT /me.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Email)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(u))
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidPhoneNumber),
		errors.Is(err, auth.ErrNameRequired),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrPhoneAlreadyRegistered),
		errors.Is(err, auth.ErrEmailAlreadyRegistered):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		httpx.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
