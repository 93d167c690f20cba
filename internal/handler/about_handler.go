package handler

import (
	"context"
	"net/http"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// AboutServiceInterface は自己紹介ハンドラーが必要とするサービスインターフェース。
type AboutServiceInterface interface {
	GetAbout(ctx context.Context) (*model.About, error)
	UpdateAbout(ctx context.Context, in *model.AboutInput) (*model.About, error)
}

// AboutHandler は自己紹介セクションのHTTPハンドラー。
type AboutHandler struct {
	service AboutServiceInterface
}

// NewAboutHandler はAboutHandlerを生成する。
func NewAboutHandler(service AboutServiceInterface) *AboutHandler {
	return &AboutHandler{service: service}
}

// Get は自己紹介セクションを返す。
// GET /api/about
func (h *AboutHandler) Get(w http.ResponseWriter, r *http.Request) {
	about, err := h.service.GetAbout(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, about)
}

// Update は段落一覧を置き換える。
// PUT /api/about
func (h *AboutHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.AboutInput
	if !decodeJSON(w, r, &in) {
		return
	}

	about, err := h.service.UpdateAbout(r.Context(), &in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, about)
}
