package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/cache"
	"github.com/courtside/courtside/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSessionTestEnv(t *testing.T) (*auth.Sessions, *cache.Cache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	sessions := auth.NewSessions("test-secret", time.Hour)
	return sessions, cache.NewWithClient(client)
}

func echoSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := auth.SessionFromContext(r.Context())
		if sess == nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-User-ID", sess.UserID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestSession_ValidCookie(t *testing.T) {
	sessions, cacheClient := newSessionTestEnv(t)

	token, err := sessions.Issue(&model.SessionContext{
		UserID: "user-1",
		Email:  "coach@example.com",
		Role:   model.RoleCoach,
	})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	handler := Session(SessionConfig{
		Logger:   discardLogger(),
		Sessions: sessions,
		Cache:    cacheClient,
	})(echoSession())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-User-ID") != "user-1" {
		t.Errorf("unexpected user id: %s", rec.Header().Get("X-User-ID"))
	}

	// Verified identity lands in the cache under the token digest.
	sess, err := cacheClient.GetSessionContext(context.Background(), auth.QuickHash(token))
	if err != nil {
		t.Fatalf("cache lookup: %v", err)
	}
	if sess == nil || sess.UserID != "user-1" {
		t.Errorf("expected cached session, got %+v", sess)
	}
}

func TestSession_BearerFallback(t *testing.T) {
	sessions, cacheClient := newSessionTestEnv(t)

	token, err := sessions.Issue(&model.SessionContext{UserID: "user-2"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	handler := Session(SessionConfig{
		Logger:   discardLogger(),
		Sessions: sessions,
		Cache:    cacheClient,
	})(echoSession())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestSession_MissingToken(t *testing.T) {
	sessions, cacheClient := newSessionTestEnv(t)

	handler := Session(SessionConfig{
		Logger:   discardLogger(),
		Sessions: sessions,
		Cache:    cacheClient,
	})(echoSession())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"Unauthorized"}` {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestSession_InvalidToken(t *testing.T) {
	sessions, cacheClient := newSessionTestEnv(t)

	handler := Session(SessionConfig{
		Logger:   discardLogger(),
		Sessions: sessions,
		Cache:    cacheClient,
	})(echoSession())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "not-a-token"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	// Same envelope as the missing-token case.
	if rec.Body.String() != `{"error":"Unauthorized"}` {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestSession_ExpiredToken(t *testing.T) {
	_, cacheClient := newSessionTestEnv(t)

	expired := auth.NewSessions("test-secret", -time.Minute)
	token, err := expired.Issue(&model.SessionContext{UserID: "user-1"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	handler := Session(SessionConfig{
		Logger:   discardLogger(),
		Sessions: auth.NewSessions("test-secret", time.Hour),
		Cache:    cacheClient,
	})(echoSession())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}
