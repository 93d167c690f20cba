package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jcarizon/portfolio-cms-backend/internal/auth"
	"github.com/jcarizon/portfolio-cms-backend/internal/middleware"
	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

const oauthStateCookie = "oauth_state"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, email, password, name string) (*model.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*model.AuthResponse, error)
	GoogleLoginURL(state string) (string, error)
	HandleGoogleCallback(ctx context.Context, code string) (*model.AuthResponse, error)
	GetProfile(ctx context.Context, id string) (*model.AdminProfile, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	FrontendURL  string // Googleログイン完了後のリダイレクト先の基点
	CookieSecure bool
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register は管理者を登録する。
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Login はメールアドレスとパスワードでログインする。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GoogleLogin はGoogle OAuthフローを開始する。
// GET /api/auth/google
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	loginURL, err := h.service.GoogleLoginURL(state)
	if err != nil {
		if errors.Is(err, auth.ErrOAuthDisabled) {
			middleware.WriteErrorResponse(w, http.StatusNotFound, &model.APIError{
				Code:     model.ErrCodeNotFound,
				Message:  "Google login is not configured",
				Category: "auth",
				Action:   "Sign in with email and password instead.",
			})
			return
		}
		handleServiceError(w, r, err)
		return
	}

	// stateをCookieに保存（CSRF対策）
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10分
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, loginURL, http.StatusTemporaryRedirect)
}

// GoogleCallback はOAuthコールバックを処理し、トークン付きでフロントエンドにリダイレクトする。
// GET /api/auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	// 1. stateの検証（CSRF対策）
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch")
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("invalid state parameter"))
		return
	}

	// stateクッキーを削除
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 2. 認可コードの取得
	code := r.URL.Query().Get("code")
	if code == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("missing authorization code"))
		return
	}

	// 3. 認証処理
	resp, err := h.service.HandleGoogleCallback(r.Context(), code)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	// 4. フロントエンドにリダイレクト
	http.Redirect(w, r, h.callbackURL(resp.AccessToken), http.StatusFound)
}

// Me は現在の管理者のプロフィールを返す。
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.AdminIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	profile, err := h.service.GetProfile(r.Context(), adminID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *AuthHandler) callbackURL(token string) string {
	base := strings.TrimRight(h.config.FrontendURL, "/")
	return base + "/admin/auth/callback?token=" + url.QueryEscape(token)
}

// generateState はCSRF対策用のランダムなstate値を生成する。
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
