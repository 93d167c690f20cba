// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jcarizon/portfolio-cms-backend/internal/middleware"
	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// maxBodyBytes はリクエストボディの上限。
const maxBodyBytes = 1 << 20

// messageResponse は削除などの結果メッセージのレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// countResponse は件数のみを返すレスポンス。
type countResponse struct {
	Count int64 `json:"count"`
}

// reorderRequest は一括並び替えリクエストのボディ。
// items の順序がそのまま新しい表示順になる。
type reorderRequest struct {
	Items []reorderItem `json:"items"`
}

type reorderItem struct {
	ID string `json:"id"`
}

func (req *reorderRequest) ids() []string {
	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.ID
	}
	return ids
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON はリクエストボディをデコードする。
// 失敗した場合は400を書き込み、falseを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		reason := "Request body must be valid JSON"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			reason = "Request body is too large"
		}
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError(reason))
		return false
	}
	return true
}

// handleServiceError はサービス層のエラーを統一フォーマットで書き込む。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	middleware.WriteError(w, r, err)
}

// includeHidden は非公開項目を含めるかを返す。
// ?all=true は認証済みの管理者からのリクエストでのみ有効。
func includeHidden(r *http.Request) bool {
	if r.URL.Query().Get("all") != "true" {
		return false
	}
	_, err := middleware.AdminIDFromContext(r.Context())
	return err == nil
}
