package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/courtside/courtside/internal/model"
	"github.com/courtside/courtside/internal/repository"
)

type fakeEmailLookup struct {
	profile *model.Profile
	err     error
}

func (f *fakeEmailLookup) GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil {
		return nil, repository.ErrProfileNotFound
	}
	return f.profile, nil
}

func postParentEmail(t *testing.T, h *ValidateHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/validate-parent-email", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ParentEmail(rec, req)
	return rec
}

func decodeValid(t *testing.T, rec *httptest.ResponseRecorder) bool {
	t.Helper()
	var response map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return response["valid"]
}

func TestValidateHandler_ParentEmail_Unused(t *testing.T) {
	h := NewValidateHandler(&fakeEmailLookup{}, discardLogger())

	rec := postParentEmail(t, h, `{"email":"parent@example.com"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !decodeValid(t, rec) {
		t.Error("expected valid true for unused email")
	}
}

func TestValidateHandler_ParentEmail_Malformed(t *testing.T) {
	h := NewValidateHandler(&fakeEmailLookup{}, discardLogger())

	rec := postParentEmail(t, h, `{"email":"not-an-email"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if decodeValid(t, rec) {
		t.Error("expected valid false for malformed email")
	}
}

func TestValidateHandler_ParentEmail_CompetitorOwned(t *testing.T) {
	h := NewValidateHandler(&fakeEmailLookup{
		profile: &model.Profile{ID: "c1", Role: model.RoleCompetitor},
	}, discardLogger())

	rec := postParentEmail(t, h, `{"email":"kid@example.com"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if decodeValid(t, rec) {
		t.Error("expected valid false for competitor-owned email")
	}
}

func TestValidateHandler_ParentEmail_ParentProfileIsFine(t *testing.T) {
	h := NewValidateHandler(&fakeEmailLookup{
		profile: &model.Profile{ID: "p1", Role: model.RoleParent},
	}, discardLogger())

	rec := postParentEmail(t, h, `{"email":"parent@example.com"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !decodeValid(t, rec) {
		t.Error("expected valid true for an existing parent profile")
	}
}

// Lookup failures report valid. The check is advisory and must never block
// the signup form.
func TestValidateHandler_ParentEmail_LookupErrorFailsOpen(t *testing.T) {
	h := NewValidateHandler(&fakeEmailLookup{
		err: errors.New("connection refused"),
	}, discardLogger())

	rec := postParentEmail(t, h, `{"email":"parent@example.com"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !decodeValid(t, rec) {
		t.Error("expected valid true when the lookup fails")
	}
}

func TestValidateHandler_ParentEmail_MissingEmail(t *testing.T) {
	h := NewValidateHandler(&fakeEmailLookup{}, discardLogger())

	rec := postParentEmail(t, h, `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
