// Package handler exposes directory search over HTTP.
package handler

import (
	"net/http"

	"truedial/internal/search"
	"truedial/internal/server/httpx"
	"truedial/internal/server/middleware"
)

// Handler serves the search endpoint. Requires authentication.
type Handler struct {
	svc *search.Service
}

// NewHandler returns a search HTTP handler backed by svc.
func NewHandler(svc *search.Service) *Handler {
	return &Handler{svc: svc}
}

type resultResponse struct {
	Name             string  `json:"name"`
	PhoneNumber      string  `json:"phone_number"`
	SpamLikelihood   float64 `json:"spam_likelihood"`
	Email            *string `json:"email"`
	IsRegisteredUser bool    `json:"is_registered_user"`
}

// Search handles GET /search. Exactly one of the `name` and `phone` query
// parameters selects the search mode.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	phone := r.URL.Query().Get("phone")
	if (name == "") == (phone == "") {
		httpx.Error(w, http.StatusBadRequest, "provide exactly one of name or phone")
		return
	}

	requesterID := middleware.GetUserID(r.Context())
	var (
		results []search.Result
		err     error
	)
	if name != "" {
		results, err = h.svc.ByName(r.Context(), requesterID, name)
	} else {
		results, err = h.svc.ByPhone(r.Context(), requesterID, phone)
	}
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]resultResponse, 0, len(results))
	for _, res := range results {
		rr := resultResponse{
			Name:             res.Name,
			PhoneNumber:      res.PhoneNumber,
			SpamLikelihood:   res.SpamLikelihood,
			IsRegisteredUser: res.IsRegistered,
		}
		if res.Email != "" {
			email := res.Email
			rr.Email = &email
		}
		out = append(out, rr)
	}
	httpx.JSON(w, http.StatusOK, out)
}
