package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"truedial/internal/server/middleware"
	"truedial/internal/spam"
	spamdomain "truedial/internal/spam/domain"
	userdomain "truedial/internal/user/domain"
)

type memReportRepo struct {
	reports []*spamdomain.Report
}

func (m *memReportRepo) Create(_ context.Context, r *spamdomain.Report) error {
	c := *r
	m.reports = append(m.reports, &c)
	return nil
}

func (m *memReportRepo) Exists(_ context.Context, phone, reporterID string) (bool, error) {
	for _, r := range m.reports {
		if r.PhoneNumber == phone && r.ReportedBy == reporterID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memReportRepo) CountByPhone(_ context.Context, phone string) (int, error) {
	n := 0
	for _, r := range m.reports {
		if r.PhoneNumber == phone {
			n++
		}
	}
	return n, nil
}

func (m *memReportRepo) CountByPhones(_ context.Context, phones []string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, p := range phones {
		for _, r := range m.reports {
			if r.PhoneNumber == p {
				counts[p]++
			}
		}
	}
	return counts, nil
}

type memUserRepo struct {
	users []*userdomain.User
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*userdomain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByPhone(_ context.Context, _ string) (*userdomain.User, error) {
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

func mark(t *testing.T, h *Handler, userID, number string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(map[string]string{"phone_number": number})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/spam/mark", bytes.NewReader(b))
	req = req.WithContext(middleware.WithIdentity(req.Context(), userID, "sess-1"))
	rec := httptest.NewRecorder()
	h.Mark(rec, req)
	return rec
}

func newTestHandler() *Handler {
	now := time.Now().UTC()
	users := &memUserRepo{users: []*userdomain.User{
		{ID: "u1", PhoneNumber: "+14155550001", Name: "Alice", PasswordHash: "x", CreatedAt: now, UpdatedAt: now},
	}}
	return NewHandler(spam.NewService(&memReportRepo{}, users))
}

func TestHandler_Mark(t *testing.T) {
	h := newTestHandler()

	rec := mark(t, h, "u1", "+14155559999")
	if rec.Code != http.StatusCreated {
		t.Fatalf("mark status = %d, body %s", rec.Code, rec.Body)
	}
	var resp markResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.SpamLikelihood != 10 {
		t.Errorf("spam_likelihood = %v, want 10", resp.SpamLikelihood)
	}
}

func TestHandler_Mark_BadRequests(t *testing.T) {
	h := newTestHandler()

	if rec := mark(t, h, "u1", "123"); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid format status = %d, want 400", rec.Code)
	}
	if rec := mark(t, h, "u1", "+14155550001"); rec.Code != http.StatusBadRequest {
		t.Errorf("self-report status = %d, want 400", rec.Code)
	}

	if rec := mark(t, h, "u1", "+14155559999"); rec.Code != http.StatusCreated {
		t.Fatalf("first report status = %d", rec.Code)
	}
	if rec := mark(t, h, "u1", "+14155559999"); rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate status = %d, want 400", rec.Code)
	}
}
