package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/cache"
	"github.com/courtside/courtside/internal/model"
)

type fakeAccessKeyLookup struct {
	keys    []*model.AccessKey
	profile *model.Profile
	getErr  error
}

func (f *fakeAccessKeyLookup) GetAccessKeysByPrefix(ctx context.Context, prefix string) ([]*model.AccessKey, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var matched []*model.AccessKey
	for _, k := range f.keys {
		if k.KeyPrefix == prefix {
			matched = append(matched, k)
		}
	}
	return matched, nil
}

func (f *fakeAccessKeyLookup) UpdateAccessKeyLastUsed(ctx context.Context, id string) error {
	return nil
}

func (f *fakeAccessKeyLookup) GetProfileByID(ctx context.Context, id string) (*model.Profile, error) {
	return f.profile, nil
}

func newTokenFixture(t *testing.T) (*TokenHandler, *auth.GeneratedKey, *auth.Sessions) {
	t.Helper()

	generated, err := auth.GenerateAccessKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	store := &fakeAccessKeyLookup{
		keys: []*model.AccessKey{
			{
				ID:        "key-1",
				ProfileID: "user-1",
				KeyHash:   generated.Hash,
				KeyPrefix: generated.Prefix,
				CreatedAt: time.Now(),
			},
		},
		profile: &model.Profile{
			ID:    "user-1",
			Email: "coach@example.com",
			Name:  "Coach",
			Role:  model.RoleCoach,
		},
	}

	sessions := auth.NewSessions("test-secret", time.Hour)
	return NewTokenHandler(store, sessions, nil, false, discardLogger()), generated, sessions
}

func postExchange(h *TokenHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Exchange(rec, req)
	return rec
}

func TestTokenHandler_Exchange_Success(t *testing.T) {
	h, generated, sessions := newTokenFixture(t)

	rec := postExchange(h, `{"access_key":"`+generated.Plaintext+`"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["token"] == "" {
		t.Fatal("expected a token in the response")
	}

	sess, err := sessions.Verify(response["token"])
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if sess.UserID != "user-1" || sess.Role != model.RoleCoach {
		t.Errorf("unexpected session identity: %+v", sess)
	}

	// Session cookie is set alongside the JSON token.
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

func TestTokenHandler_Exchange_WrongKey(t *testing.T) {
	h, generated, _ := newTokenFixture(t)

	// Same prefix, wrong secret.
	wrong := "ck_" + generated.Prefix + "_" + strings.Repeat("0", 32)
	rec := postExchange(h, `{"access_key":"`+wrong+`"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "invalid access key" {
		t.Errorf("unexpected error message: %s", response["error"])
	}
}

func TestTokenHandler_Exchange_BadFormat(t *testing.T) {
	h, _, _ := newTokenFixture(t)

	rec := postExchange(h, `{"access_key":"not-a-key"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestTokenHandler_Exchange_UnknownPrefix(t *testing.T) {
	h, _, _ := newTokenFixture(t)

	rec := postExchange(h, `{"access_key":"ck_aaaaaa_`+strings.Repeat("b", 32)+`"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestTokenHandler_Exchange_MissingKey(t *testing.T) {
	h, _, _ := newTokenFixture(t)

	rec := postExchange(h, `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func newLogoutFixture(t *testing.T) (*TokenHandler, *cache.Cache, *auth.Sessions) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	sessionCache := cache.NewWithClient(client)

	sessions := auth.NewSessions("test-secret", time.Hour)
	h := NewTokenHandler(&fakeAccessKeyLookup{}, sessions, sessionCache, false, discardLogger())
	return h, sessionCache, sessions
}

func TestTokenHandler_Logout_DropsCachedSession(t *testing.T) {
	h, sessionCache, sessions := newLogoutFixture(t)
	ctx := context.Background()

	token, err := sessions.Issue(&model.SessionContext{UserID: "user-1", Role: model.RoleCoach})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	digest := auth.QuickHash(token)
	if err := sessionCache.SetSessionContext(ctx, digest, &model.SessionContext{UserID: "user-1"}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if sess, _ := sessionCache.GetSessionContext(ctx, digest); sess != nil {
		t.Error("expected cached session context to be removed")
	}

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			cleared = c
		}
	}
	if cleared == nil {
		t.Fatal("expected session cookie in response")
	}
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Errorf("expected expired empty cookie, got value=%q max-age=%d", cleared.Value, cleared.MaxAge)
	}
}

func TestTokenHandler_Logout_WithoutSession(t *testing.T) {
	h, _, _ := newLogoutFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
