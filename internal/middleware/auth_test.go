package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jcarizon/portfolio-cms-backend/internal/auth"
	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// codecValidator は実際のTokenCodecで署名を検証し、主体の存在確認を関数で差し替えるモック。
type codecValidator struct {
	codec      *auth.TokenCodec
	validateFn func(ctx context.Context, claims *auth.Claims) (*model.Admin, error)
}

func (v *codecValidator) ParseToken(token string) (*auth.Claims, error) {
	return v.codec.Parse(token)
}

func (v *codecValidator) ValidateToken(ctx context.Context, claims *auth.Claims) (*model.Admin, error) {
	if v.validateFn != nil {
		return v.validateFn(ctx, claims)
	}
	return &model.Admin{ID: claims.Subject, Email: claims.Email}, nil
}

const testSecret = "middleware-test-secret"

func issueToken(t *testing.T, adminID string) string {
	t.Helper()
	token, err := auth.NewTokenCodec(testSecret, time.Hour).Issue(adminID, "admin@example.com")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func newAuthHandler(v TokenValidator, captured *string) http.Handler {
	return NewBearerAuthMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		adminID, _ := AdminIDFromContext(r.Context())
		*captured = adminID
		w.WriteHeader(http.StatusOK)
	}))
}

// TestBearerAuth_ValidToken は有効なトークンで管理者IDがコンテキストに入ることを検証する。
func TestBearerAuth_ValidToken(t *testing.T) {
	var captured string
	handler := newAuthHandler(&codecValidator{codec: auth.NewTokenCodec(testSecret, time.Hour)}, &captured)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "admin-1"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if captured != "admin-1" {
		t.Errorf("admin ID = %q, want %q", captured, "admin-1")
	}
}

// TestBearerAuth_Rejects はトークンが不正な場合に401が返ることを検証する。
func TestBearerAuth_Rejects(t *testing.T) {
	otherToken, err := auth.NewTokenCodec("another-secret", time.Hour).Issue("admin-1", "admin@example.com")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"malformed token", "Bearer not-a-jwt"},
		{"foreign signature", "Bearer " + otherToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured string
			handler := newAuthHandler(&codecValidator{codec: auth.NewTokenCodec(testSecret, time.Hour)}, &captured)

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if captured != "" {
				t.Error("handler should not be called")
			}
			var body ErrorResponseBody
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if body.Code != model.ErrCodeUnauthorized {
				t.Errorf("code = %q, want %q", body.Code, model.ErrCodeUnauthorized)
			}
		})
	}
}

// TestBearerAuth_DeletedAdmin は主体が存在しないトークンを拒否することを検証する。
func TestBearerAuth_DeletedAdmin(t *testing.T) {
	v := &codecValidator{
		codec: auth.NewTokenCodec(testSecret, time.Hour),
		validateFn: func(context.Context, *auth.Claims) (*model.Admin, error) {
			return nil, model.NewUnauthorizedError()
		},
	}
	var captured string
	handler := newAuthHandler(v, &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "deleted-admin"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// TestBearerAuth_LookupFailure は主体の確認に失敗した場合に500が返ることを検証する。
func TestBearerAuth_LookupFailure(t *testing.T) {
	v := &codecValidator{
		codec: auth.NewTokenCodec(testSecret, time.Hour),
		validateFn: func(context.Context, *auth.Claims) (*model.Admin, error) {
			return nil, errors.New("connection refused")
		},
	}
	var captured string
	handler := newAuthHandler(v, &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "admin-1"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestAdminIDFromContext(t *testing.T) {
	if _, err := AdminIDFromContext(context.Background()); err == nil {
		t.Error("expected error for empty context")
	}
	id, err := AdminIDFromContext(ContextWithAdminID(context.Background(), "admin-9"))
	if err != nil || id != "admin-9" {
		t.Errorf("AdminIDFromContext() = %q, %v; want admin-9", id, err)
	}
}

// TestOptionalBearerAuth は任意認証ミドルウェアが無効なトークンでも後続に渡すことを検証する。
func TestOptionalBearerAuth(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantAdmin string
	}{
		{"no header", "", ""},
		{"invalid token", "Bearer garbage", ""},
		{"valid token", "Bearer " + issueToken(t, "admin-7"), "admin-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured string
			called := false
			v := &codecValidator{codec: auth.NewTokenCodec(testSecret, time.Hour)}
			handler := NewOptionalBearerAuthMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				captured, _ = AdminIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/projects?all=true", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if !called || w.Code != http.StatusOK {
				t.Fatalf("handler called = %v, status = %d", called, w.Code)
			}
			if captured != tt.wantAdmin {
				t.Errorf("admin ID = %q, want %q", captured, tt.wantAdmin)
			}
		})
	}
}
