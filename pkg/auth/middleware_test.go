package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func gateRequest(authorization string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func deniedNext(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	})
}

func TestRequireAdmin_MissingHeader_Returns401(t *testing.T) {
	mw := RequireAdmin("strong-secret", false)

	rec := httptest.NewRecorder()
	mw(deniedNext(t)).ServeHTTP(rec, gateRequest(""))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAdmin_WrongToken_Returns401(t *testing.T) {
	mw := RequireAdmin("strong-secret", false)

	rec := httptest.NewRecorder()
	mw(deniedNext(t)).ServeHTTP(rec, gateRequest("Bearer wrong"))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if body := rec.Body.String(); body == "" {
		t.Error("expected a generic error body")
	}
}

func TestRequireAdmin_ValidSecret_CallsNext(t *testing.T) {
	mw := RequireAdmin("strong-secret", false)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, gateRequest("Bearer strong-secret"))

	if !called {
		t.Error("expected next handler to be called")
	}
}

func TestRequireAdmin_DevTokenDisabledByDefault(t *testing.T) {
	mw := RequireAdmin("strong-secret", false)

	rec := httptest.NewRecorder()
	mw(deniedNext(t)).ServeHTTP(rec, gateRequest("Bearer "+DevToken))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("dev token must be rejected when disabled, got %d", rec.Code)
	}
}

func TestRequireAdmin_DevTokenAcceptedWhenEnabled(t *testing.T) {
	mw := RequireAdmin("", true)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, gateRequest("Bearer "+DevToken))

	if !called {
		t.Error("expected next handler to be called with the dev token enabled")
	}
}

func TestRequireAdmin_EmptySecretRejectsEverything(t *testing.T) {
	mw := RequireAdmin("", false)

	for _, header := range []string{"Bearer ", "Bearer anything", "Bearer " + DevToken, ""} {
		rec := httptest.NewRecorder()
		mw(deniedNext(t)).ServeHTTP(rec, gateRequest(header))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestRequireAdmin_NonBearerSchemeRejected(t *testing.T) {
	mw := RequireAdmin("strong-secret", false)

	rec := httptest.NewRecorder()
	mw(deniedNext(t)).ServeHTTP(rec, gateRequest("Basic strong-secret"))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for non-bearer scheme, got %d", rec.Code)
	}
}
