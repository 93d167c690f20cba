// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jcarizon/portfolio-cms-backend/internal/auth"
	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// adminIDContextKey はリクエストコンテキストに管理者IDを格納するためのキー。
var adminIDContextKey = contextKey("admin_id")

// TokenValidator はアクセストークンの検証に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type TokenValidator interface {
	ParseToken(token string) (*auth.Claims, error)
	ValidateToken(ctx context.Context, claims *auth.Claims) (*model.Admin, error)
}

// NewBearerAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証するミドルウェアを返す。
// 主体が現存する管理者である場合のみ、管理者IDをリクエストコンテキストに注入する。
// それ以外は401 Unauthorizedを返す。
func NewBearerAuthMiddleware(validator TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. ヘッダーからトークンを取得
			token, ok := bearerToken(r)
			if !ok {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 2. 署名と有効期限を検証
			claims, err := validator.ParseToken(token)
			if err != nil {
				slog.Debug("invalid access token", slog.String("error", err.Error()))
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 3. 主体の存在を確認
			admin, err := validator.ValidateToken(r.Context(), claims)
			if err != nil {
				var apiErr *model.APIError
				if errors.As(err, &apiErr) {
					WriteErrorResponse(w, http.StatusUnauthorized, apiErr)
					return
				}
				slog.Error("failed to validate token subject",
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}

			// 4. 管理者IDをコンテキストに注入
			recordAdminID(r, admin.ID)
			next.ServeHTTP(w, r.WithContext(ContextWithAdminID(r.Context(), admin.ID)))
		})
	}
}

// bearerToken はAuthorizationヘッダーからBearerトークンを取り出す。
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AdminIDFromContext はリクエストコンテキストから管理者IDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func AdminIDFromContext(ctx context.Context) (string, error) {
	adminID, ok := ctx.Value(adminIDContextKey).(string)
	if !ok || adminID == "" {
		return "", fmt.Errorf("admin ID not found in context")
	}
	return adminID, nil
}

// ContextWithAdminID はコンテキストに管理者IDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithAdminID(ctx context.Context, adminID string) context.Context {
	return context.WithValue(ctx, adminIDContextKey, adminID)
}

// NewOptionalBearerAuthMiddleware はBearerトークンがあれば検証し、管理者IDを注入するミドルウェアを返す。
// トークンがない・無効な場合も拒否せず、未認証として後続に渡す。
// 公開GETルートで非公開項目を含めるかの判定に使用する。
func NewOptionalBearerAuthMiddleware(validator TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := validator.ParseToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			admin, err := validator.ValidateToken(r.Context(), claims)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			recordAdminID(r, admin.ID)
			next.ServeHTTP(w, r.WithContext(ContextWithAdminID(r.Context(), admin.ID)))
		})
	}
}
