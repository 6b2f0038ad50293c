package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	contactdomain "truedial/internal/contact/domain"
	"truedial/internal/search"
	"truedial/internal/server/middleware"
	userdomain "truedial/internal/user/domain"
)

type memUsers struct {
	users []*userdomain.User
}

func (m *memUsers) GetByID(_ context.Context, id string) (*userdomain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByPhone(_ context.Context, phone string) (*userdomain.User, error) {
	for _, u := range m.users {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByIDs(_ context.Context, ids []string) ([]*userdomain.User, error) {
	var out []*userdomain.User
	for _, id := range ids {
		for _, u := range m.users {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (m *memUsers) SearchByName(_ context.Context, q string) ([]*userdomain.User, error) {
	var out []*userdomain.User
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(q)) {
			out = append(out, u)
		}
	}
	return out, nil
}

type memContacts struct {
	contacts []*contactdomain.Contact
}

func (m *memContacts) SearchByName(_ context.Context, q string) ([]*contactdomain.Contact, error) {
	var out []*contactdomain.Contact
	for _, c := range m.contacts {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(q)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memContacts) ListByPhone(_ context.Context, phone string) ([]*contactdomain.Contact, error) {
	var out []*contactdomain.Contact
	for _, c := range m.contacts {
		if c.PhoneNumber == phone {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memContacts) OwnerHasPhone(_ context.Context, ownerID, phone string) (bool, error) {
	for _, c := range m.contacts {
		if c.OwnerID == ownerID && c.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

type noReports struct{}

func (noReports) CountByPhones(_ context.Context, _ []string) (map[string]int, error) {
	return map[string]int{}, nil
}

func newTestHandler() *Handler {
	now := time.Now().UTC()
	users := &memUsers{users: []*userdomain.User{
		{ID: "u1", PhoneNumber: "+14155550001", Name: "Requester", PasswordHash: "x", CreatedAt: now, UpdatedAt: now},
		{ID: "u2", PhoneNumber: "+14155550002", Name: "Alice", PasswordHash: "x", CreatedAt: now, UpdatedAt: now},
	}}
	return NewHandler(search.NewService(users, &memContacts{}, noReports{}))
}

func get(t *testing.T, h *Handler, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/search?"+rawQuery, nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), "u1", "sess-1"))
	rec := httptest.NewRecorder()
	h.Search(rec, req)
	return rec
}

func TestHandler_SearchByName(t *testing.T) {
	h := newTestHandler()

	rec := get(t, h, "name=Ali")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var results []resultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Alice" {
		t.Fatalf("results = %+v", results)
	}
	if !results[0].IsRegisteredUser {
		t.Error("is_registered_user should be true")
	}
	if results[0].Email != nil {
		t.Errorf("email = %v, want null without reciprocity", *results[0].Email)
	}
	if results[0].SpamLikelihood != 0 {
		t.Errorf("spam_likelihood = %v, want 0", results[0].SpamLikelihood)
	}
}

func TestHandler_SearchByPhone(t *testing.T) {
	h := newTestHandler()

	rec := get(t, h, "phone="+strings.ReplaceAll("+14155550002", "+", "%2B"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var results []resultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(results) != 1 || results[0].PhoneNumber != "+14155550002" {
		t.Errorf("results = %+v", results)
	}
}

func TestHandler_Search_ParamValidation(t *testing.T) {
	h := newTestHandler()

	if rec := get(t, h, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("no params status = %d, want 400", rec.Code)
	}
	if rec := get(t, h, "name=Ali&phone=123"); rec.Code != http.StatusBadRequest {
		t.Errorf("both params status = %d, want 400", rec.Code)
	}
}

func TestHandler_Search_ShortQueryEmptyList(t *testing.T) {
	h := newTestHandler()

	rec := get(t, h, "name=A")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}
