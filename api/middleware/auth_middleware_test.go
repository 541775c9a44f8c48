package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ledgerlite/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func runRequireAuth(t *testing.T, manager *utils.JWTManager, authorization string) (int, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	handler := AuthMiddleware{JWT: manager}.RequireAuth(func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	if err == nil {
		return rec.Code, captured
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("unexpected error type: %v", err)
	}
	return httpErr.Code, captured
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	manager := &utils.JWTManager{Secret: []byte("test-secret")}
	userID := uuid.New()
	sessionID := uuid.New()
	token, _, err := manager.IssueAccessToken(userID.String(), "user", sessionID.String())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	status, c := runRequireAuth(t, manager, "Bearer "+token)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	identity, ok := IdentityFrom(c)
	if !ok {
		t.Fatal("identity not carried through the context")
	}
	if identity.UserID != userID {
		t.Fatalf("user id = %v, want %v", identity.UserID, userID)
	}
	if identity.SessionID != sessionID {
		t.Fatalf("session id = %v, want %v", identity.SessionID, sessionID)
	}
	if identity.Role != "user" {
		t.Fatalf("role = %q, want user", identity.Role)
	}
}

func TestRequireAuthRejects(t *testing.T) {
	manager := &utils.JWTManager{Secret: []byte("test-secret")}
	other := &utils.JWTManager{Secret: []byte("other-secret")}
	foreign, _, err := other.IssueAccessToken(uuid.NewString(), "user", uuid.NewString())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + foreign},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if status, _ := runRequireAuth(t, manager, tc.authorization); status != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", status)
			}
		})
	}
}

func TestRequireAuthRejectsWrongIssuer(t *testing.T) {
	ours := &utils.JWTManager{Secret: []byte("test-secret"), Issuer: "ledgerlite"}
	theirs := &utils.JWTManager{Secret: []byte("test-secret"), Issuer: "someone-else"}
	token, _, err := theirs.IssueAccessToken(uuid.NewString(), "user", uuid.NewString())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if status, _ := runRequireAuth(t, ours, "Bearer "+token); status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer", ""},
		{"Token abc", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := bearerToken(tc.header); got != tc.want {
			t.Errorf("header %q: got %q, want %q", tc.header, got, tc.want)
		}
	}
}

func callWithIdentity(t *testing.T, mw echo.MiddlewareFunc, identity *Identity) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		SetIdentity(c, *identity)
	}

	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	if err == nil {
		return rec.Code
	}
	if httpErr, ok := err.(*echo.HTTPError); ok {
		return httpErr.Code
	}
	t.Fatalf("unexpected error: %v", err)
	return 0
}

func TestRequireRole(t *testing.T) {
	guard := RequireRole("admin", "auditor")

	if code := callWithIdentity(t, guard, &Identity{UserID: uuid.New(), Role: "admin"}); code != http.StatusOK {
		t.Fatalf("admin should pass, got %d", code)
	}
	if code := callWithIdentity(t, guard, &Identity{UserID: uuid.New(), Role: "auditor"}); code != http.StatusOK {
		t.Fatalf("auditor should pass, got %d", code)
	}
	if code := callWithIdentity(t, guard, &Identity{UserID: uuid.New(), Role: "user"}); code != http.StatusForbidden {
		t.Fatalf("user should be forbidden, got %d", code)
	}
	if code := callWithIdentity(t, guard, nil); code != http.StatusUnauthorized {
		t.Fatalf("missing identity should be unauthorized, got %d", code)
	}
}

func TestRateLimiterThrottlesPerIP(t *testing.T) {
	e := echo.New()
	limiter := NewRateLimiter(RateLimitConfig{PerMinute: 60, Burst: 2, IdleTTL: time.Minute})
	handler := limiter.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		err := handler(e.NewContext(req, rec))
		if err == nil {
			return rec.Code
		}
		if httpErr, ok := err.(*echo.HTTPError); ok {
			return httpErr.Code
		}
		t.Fatalf("unexpected error: %v", err)
		return 0
	}

	if code := call("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first call: %d", code)
	}
	if code := call("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("second call inside burst: %d", code)
	}
	if code := call("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("third call should throttle, got %d", code)
	}
	if code := call("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("other ip must not be throttled, got %d", code)
	}
}

func TestRateLimiterDefaults(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{})
	if limiter.config.PerMinute != 60 {
		t.Fatalf("PerMinute = %v, want 60", limiter.config.PerMinute)
	}
	if limiter.config.Burst != 60 {
		t.Fatalf("Burst = %d, want 60", limiter.config.Burst)
	}
}
