package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// MessageServiceInterface は問い合わせハンドラーが必要とするサービスインターフェース。
type MessageServiceInterface interface {
	Submit(ctx context.Context, in *model.ContactInput) (*model.ContactMessage, error)
	List(ctx context.Context) ([]*model.ContactMessage, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkAsRead(ctx context.Context, id string) (*model.ContactMessage, error)
	MarkAllAsRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

// MessageHandler は問い合わせのHTTPハンドラー。
type MessageHandler struct {
	service MessageServiceInterface
}

// NewMessageHandler はMessageHandlerを生成する。
func NewMessageHandler(service MessageServiceInterface) *MessageHandler {
	return &MessageHandler{service: service}
}

// Submit は公開フォームからの問い合わせを受け付ける。
// POST /api/settings/messages
func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in model.ContactInput
	if !decodeJSON(w, r, &in) {
		return
	}

	msg, err := h.service.Submit(r.Context(), &in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// List は問い合わせ一覧を新しい順に返す。
// GET /api/settings/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// UnreadCount は未読件数を返す。
// GET /api/settings/messages/unread-count
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.UnreadCount(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: int64(n)})
}

// MarkAsRead は問い合わせを既読にする。
// PUT /api/settings/messages/{id}/read
func (h *MessageHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.MarkAsRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// MarkAllAsRead は未読をすべて既読にする。
// PUT /api/settings/messages/mark-all-read
func (h *MessageHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.MarkAllAsRead(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// Delete は問い合わせを削除する。
// DELETE /api/settings/messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Message deleted successfully"})
}
