// Package handler exposes spam reporting over HTTP.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"truedial/internal/server/httpx"
	"truedial/internal/server/middleware"
	"truedial/internal/spam"
)

// Handler serves the spam reporting endpoint. Requires authentication.
type Handler struct {
	svc *spam.Service
}

// NewHandler returns a spam HTTP handler backed by svc.
func NewHandler(svc *spam.Service) *Handler {
	return &Handler{svc: svc}
}

type markRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type markResponse struct {
	PhoneNumber    string  `json:"phone_number"`
	SpamLikelihood float64 `json:"spam_likelihood"`
}

// Mark handles POST /spam/mark.
func (h *Handler) Mark(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	number := strings.TrimSpace(req.PhoneNumber)
	reporterID := middleware.GetUserID(r.Context())
	if err := h.svc.Report(r.Context(), reporterID, number); err != nil {
		writeSpamError(w, err)
		return
	}
	score, err := h.svc.Likelihood(r.Context(), number)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusCreated, markResponse{PhoneNumber: number, SpamLikelihood: score})
}

func writeSpamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, spam.ErrInvalidPhoneNumber),
		errors.Is(err, spam.ErrAlreadyReported),
		errors.Is(err, spam.ErrSelfReport):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
