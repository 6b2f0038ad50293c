// Package handler exposes the contact service over HTTP.
package handler

import (
	"errors"
	"net/http"

	"truedial/internal/contact"
	contactdomain "truedial/internal/contact/domain"
	"truedial/internal/server/httpx"
	"truedial/internal/server/middleware"
)

// Handler serves the phone book endpoints. All routes require authentication.
type Handler struct {
	svc *contact.Service
}

// NewHandler returns a contact HTTP handler backed by svc.
func NewHandler(svc *contact.Service) *Handler {
	return &Handler{svc: svc}
}

type contactResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	PhoneNumber      string `json:"phone_number"`
	IsRegisteredUser bool   `json:"is_registered_user"`
}

func toContactResponse(c *contactdomain.Contact) contactResponse {
	return contactResponse{
		ID:               c.ID,
		Name:             c.Name,
		PhoneNumber:      c.PhoneNumber,
		IsRegisteredUser: c.RegisteredUserID != "",
	}
}

type addContactRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// Add handles POST /contacts.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req addContactRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	c, err := h.svc.Add(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.PhoneNumber)
	if err != nil {
		writeContactError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toContactResponse(c))
}

// List handles GET /contacts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]contactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toContactResponse(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

type importRequest struct {
	Contacts []addContactRequest `json:"contacts"`
}

type importResultResponse struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Created     bool   `json:"created"`
	Reason      string `json:"reason,omitempty"`
}

// Import handles POST /contacts/import.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	items := make([]contact.ImportItem, 0, len(req.Contacts))
	for _, c := range req.Contacts {
		items = append(items, contact.ImportItem{Name: c.Name, PhoneNumber: c.PhoneNumber})
	}
	results, err := h.svc.Import(r.Context(), middleware.GetUserID(r.Context()), items)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]importResultResponse, 0, len(results))
	for _, res := range results {
		out = append(out, importResultResponse{
			Name:        res.Name,
			PhoneNumber: res.PhoneNumber,
			Created:     res.Created,
			Reason:      res.Reason,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func writeContactError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contact.ErrNameRequired),
		errors.Is(err, contact.ErrInvalidPhoneNumber),
		errors.Is(err, contact.ErrDuplicateContact):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
