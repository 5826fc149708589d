package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/internal/auth"
	pkgAuth "github.com/nithyasundar/bakehouse-backend/pkg/auth"
	"github.com/nithyasundar/bakehouse-backend/pkg/config"
)

type stubAuthService struct {
	adminLoginFn func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	refreshFn    func(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error)
	logoutFn     func(ctx context.Context, accessID string) error
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.LoginResponse, error) {
	panic("unexpected Register call")
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	panic("unexpected Login call")
}

func (s *stubAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.adminLoginFn == nil {
		panic("unexpected AdminLogin call")
	}
	return s.adminLoginFn(ctx, req)
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	if s.refreshFn == nil {
		panic("unexpected Refresh call")
	}
	return s.refreshFn(ctx, req)
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	if s.logoutFn == nil {
		panic("unexpected Logout call")
	}
	return s.logoutFn(ctx, accessID)
}

func TestAdminAuthLogin(t *testing.T) {
	logg := testControllerLogger()

	t.Run("missing fields", func(t *testing.T) {
		body := strings.NewReader(`{"email": "not-an-email"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		AdminAuthLogin(&stubAuthService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid body, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		var captured auth.LoginRequest
		stub := &stubAuthService{
			adminLoginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
				captured = req
				return &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
			},
		}

		body := strings.NewReader(`{"email": "owner@bakehouse.in", "password": "secret-pass"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		AdminAuthLogin(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Email != "owner@bakehouse.in" {
			t.Fatalf("unexpected login email %q", captured.Email)
		}
		if !strings.Contains(rec.Body.String(), "access") {
			t.Fatalf("expected token pair in response, got %s", rec.Body.String())
		}
	})
}

func TestAuthLogout(t *testing.T) {
	logg := testControllerLogger()
	jwtCfg := config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret!",
		Issuer:            "bakehouse-test",
		ExpirationMinutes: 5,
	}

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/logout", nil)
		rec := httptest.NewRecorder()
		AuthLogout(&stubAuthService{}, jwtCfg, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", rec.Code)
		}
	})

	t.Run("revokes session from token", func(t *testing.T) {
		token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now(), pkgAuth.AccessTokenPayload{
			UserID:  uuid.New(),
			Email:   "owner@bakehouse.in",
			IsAdmin: true,
			JTI:     "session-123",
		})
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}

		var revoked string
		stub := &stubAuthService{
			logoutFn: func(ctx context.Context, accessID string) error {
				revoked = accessID
				return nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		AuthLogout(stub, jwtCfg, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if revoked != "session-123" {
			t.Fatalf("expected session-123 revoked, got %q", revoked)
		}
	})
}
