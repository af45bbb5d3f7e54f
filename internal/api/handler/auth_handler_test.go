package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, identifier, secret string) (*ports.LoginResult, error)
	logoutFn   func(ctx context.Context, token string) error
}

func (s *stubAuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, secret string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, identifier, secret)
}

func (s *stubAuthService) ResolveSession(context.Context, string) (*domain.Session, bool) {
	return nil, false
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, token)
}

var testCookies = CookieConfig{SessionTTL: 24 * time.Hour, CartTTL: time.Hour}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (*domain.User, error) {
			if username != "alice" || email != "a@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s %s", username, email, password)
			}
			return &domain.User{ID: "u1", Username: username, Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub, testCookies, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", `{"username":"alice","password":"secret","email":"a@example.com"}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeMap(t, rec)
	if resp["id"] != "u1" || resp["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["passwordHash"]; leaked {
		t.Fatalf("response must not carry the password hash")
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, testCookies, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", `{"username":"bob","email":"b@example.com","password":"x"}`), rec)

	_ = handler.Register(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, testCookies, zerolog.Nop())

	for _, body := range []string{"not-json", `{"username":"bob"}`, `{"username":"bob","email":"nope","password":"x"}`} {
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", body), rec)

		_ = handler.Register(c)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
		if _, ok := decodeMap(t, rec)["message"]; !ok {
			t.Fatalf("%s: expected message envelope", body)
		}
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	expires := time.Now().Add(24 * time.Hour)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, identifier, secret string) (*ports.LoginResult, error) {
			if identifier != "admin" || secret != "admin123" {
				t.Fatalf("unexpected args: %s %s", identifier, secret)
			}
			return &ports.LoginResult{Token: "token123", Role: domain.RoleAdmin, ExpiresAt: expires, RedirectURL: "/admin"}, nil
		},
	}
	handler := NewAuthHandler(stub, testCookies, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"username":"admin","password":"admin123"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeMap(t, rec)
	if resp["token"] != "token123" || resp["role"] != "admin" || resp["redirectUrl"] != "/admin" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	cookies := rec.Result().Cookies()
	var session *http.Cookie
	for _, ck := range cookies {
		if ck.Name == middleware.SessionCookie {
			session = ck
		}
	}
	if session == nil {
		t.Fatalf("expected session cookie to be set")
	}
	if session.Value != "token123" || !session.HttpOnly || session.SameSite != http.SameSiteStrictMode {
		t.Fatalf("unexpected cookie: %+v", session)
	}
	if session.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("expected max-age of one day, got %d", session.MaxAge)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, identifier, secret string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, testCookies, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"username":"ghost","password":"bad"}`), rec)

	_ = handler.Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := decodeMap(t, rec)["message"]; msg != "Invalid username or password" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, identifier, secret string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidInput
		},
	}
	handler := NewAuthHandler(stub, testCookies, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"username":""}`), rec)

	_ = handler.Login(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_StoreFailure(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, identifier, secret string) (*ports.LoginResult, error) {
			return nil, errors.New("identity provider unreachable")
		},
	}
	handler := NewAuthHandler(stub, testCookies, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"username":"a","password":"b"}`), rec)

	_ = handler.Login(c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg, _ := decodeMap(t, rec)["message"].(string); strings.Contains(msg, "unreachable") {
		t.Fatalf("internal detail leaked to client: %q", msg)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, identifier, secret string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, testCookies, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", "{"), rec)

	_ = handler.Login(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	var loggedOut string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, token string) error {
			loggedOut = token
			return nil
		},
	}
	handler := NewAuthHandler(stub, testCookies, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "tok"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if loggedOut != "tok" {
		t.Fatalf("expected session tok to be destroyed, got %q", loggedOut)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie && ck.MaxAge >= 0 {
			t.Fatalf("expected session cookie to be cleared, got %+v", ck)
		}
	}
}
