package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"truedial/internal/contact"
	contactdomain "truedial/internal/contact/domain"
	"truedial/internal/server/middleware"
	userdomain "truedial/internal/user/domain"
)

type memContactRepo struct {
	contacts []*contactdomain.Contact
}

func (m *memContactRepo) Create(_ context.Context, c *contactdomain.Contact) error {
	cp := *c
	m.contacts = append(m.contacts, &cp)
	return nil
}

func (m *memContactRepo) ListByOwner(_ context.Context, ownerID string) ([]*contactdomain.Contact, error) {
	var out []*contactdomain.Contact
	for _, c := range m.contacts {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memContactRepo) ListByPhone(_ context.Context, phone string) ([]*contactdomain.Contact, error) {
	var out []*contactdomain.Contact
	for _, c := range m.contacts {
		if c.PhoneNumber == phone {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memContactRepo) SearchByName(_ context.Context, q string) ([]*contactdomain.Contact, error) {
	var out []*contactdomain.Contact
	for _, c := range m.contacts {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(q)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memContactRepo) OwnerHasPhone(_ context.Context, ownerID, phone string) (bool, error) {
	for _, c := range m.contacts {
		if c.OwnerID == ownerID && c.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

type memUserRepo struct {
	users []*userdomain.User
}

func (m *memUserRepo) GetByID(_ context.Context, _ string) (*userdomain.User, error) {
	return nil, nil
}

func (m *memUserRepo) GetByPhone(_ context.Context, phone string) (*userdomain.User, error) {
	for _, u := range m.users {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, _ string) (*userdomain.User, error) {
	return nil, nil
}

func (m *memUserRepo) GetByIDs(_ context.Context, _ []string) ([]*userdomain.User, error) {
	return nil, nil
}

func (m *memUserRepo) SearchByName(_ context.Context, _ string) ([]*userdomain.User, error) {
	return nil, nil
}

func (m *memUserRepo) Create(_ context.Context, _ *userdomain.User) error { return nil }

func (m *memUserRepo) UpdateProfile(_ context.Context, _, _, _ string) error { return nil }

func newTestHandler() *Handler {
	return NewHandler(contact.NewService(&memContactRepo{}, &memUserRepo{}))
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(middleware.WithIdentity(req.Context(), userID, "sess-1"))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandler_AddAndList(t *testing.T) {
	h := newTestHandler()

	rec := doJSON(t, h.Add, http.MethodPost, "/contacts", "owner1", map[string]string{
		"name":         "Bob",
		"phone_number": "+14155550001",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h.Add, http.MethodPost, "/contacts", "owner1", map[string]string{
		"name":         "Robert",
		"phone_number": "+14155550001",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate add status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h.List, http.MethodGet, "/contacts", "owner1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []contactResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Bob" {
		t.Errorf("list = %+v", list)
	}
}

func TestHandler_Import(t *testing.T) {
	h := newTestHandler()

	rec := doJSON(t, h.Import, http.MethodPost, "/contacts/import", "owner1", map[string]any{
		"contacts": []map[string]string{
			{"name": "Alice", "phone_number": "+14155550011"},
			{"name": "Bad", "phone_number": "123"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", rec.Code, rec.Body)
	}
	var results []importResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(results) != 2 || !results[0].Created || results[1].Created {
		t.Errorf("results = %+v", results)
	}
}
