package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler(t *testing.T, wantIdentity bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantIdentity {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				t.Error("expected identity in request context")
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_MissingToken(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	gate := Middleware(svc)(okHandler(t, false))

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "empty bearer", header: "Bearer"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "extra parts", header: "Bearer one two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tt.header != "" {
				req.Header.Set(AuthorizationHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			gate.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	gate := Middleware(svc)(okHandler(t, false))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set(AuthorizationHeader, "Bearer garbage.token.here")
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	short := &TokenService{secret: []byte(testSecret), ttl: -time.Minute}
	token, err := short.Issue(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gate := Middleware(svc)(okHandler(t, false))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set(AuthorizationHeader, "Bearer "+token)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	token, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gate := Middleware(svc)(okHandler(t, true))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set(AuthorizationHeader, "Bearer "+token)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMiddleware_SkipPaths(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	gate := Middleware(svc, "/health")(okHandler(t, false))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for skipped path, got %d", rec.Code)
	}
}

func TestBearerToken_CaseInsensitiveScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(AuthorizationHeader, "bearer abc123")

	token, err := BearerToken(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "abc123" {
		t.Errorf("expected abc123, got %q", token)
	}
}
