package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/croco-platform/user-service/internal/core/domain"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password string) (string, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return s.loginFn(ctx, username, password)
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (string, error) {
			if username != "carol" || password != "s3cretPass!" {
				t.Fatalf("unexpected credentials: %s %s", username, password)
			}
			return "signed.jwt.token", nil
		},
	}
	h := NewAuthHandler(stub)

	body := `{"username":"carol","password":"s3cretPass!"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp jwtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "signed.jwt.token" {
		t.Fatalf("unexpected token: %q", resp.Token)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	body := `{"username":"carol","password":"wrong"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/login", body)

	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (string, error) {
			t.Fatalf("service must not be reached for invalid input")
			return "", nil
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/api/login", `{"username":""}`)
	if _, ok := h.Login(c).(*ValidationError); !ok {
		t.Fatalf("expected validation error")
	}
}
