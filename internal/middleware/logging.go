package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// requestLog は内側のミドルウェアからログ項目を受け取るためのリクエスト単位の領域。
type requestLog struct {
	adminID string
}

var requestLogContextKey = contextKey("request_log")

// recordAdminID は外側のロギングミドルウェアに管理者IDを伝える。
func recordAdminID(r *http.Request, adminID string) {
	if rl, ok := r.Context().Value(requestLogContextKey).(*requestLog); ok {
		rl.adminID = adminID
	}
}

// wrapWriter はステータスコードと書き込みバイト数を取得できるWriterを返す。
func wrapWriter(w http.ResponseWriter, r *http.Request) chimw.WrapResponseWriter {
	if ww, ok := w.(chimw.WrapResponseWriter); ok {
		return ww
	}
	return chimw.NewWrapResponseWriter(w, r.ProtoMajor)
}

// responseStatus は書き込みがない場合に200とみなしたステータスコードを返す。
func responseStatus(ww chimw.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}

// levelForStatus は5xxをError、4xxをWarn、それ以外をInfoとする。
func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// NewLoggingMiddleware はリクエストのJSON構造化ログを出力するミドルウェアを返す。
// ログにはmethod、path、status、bytes、duration_msと、
// 取得できる場合はrequest_id、admin_idを含む。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := wrapWriter(w, r)

			info := &requestLog{}
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestLogContextKey, info)))

			status := responseStatus(ww)
			args := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
				slog.String("remote_addr", r.RemoteAddr),
			}
			if reqID := chimw.GetReqID(r.Context()); reqID != "" {
				args = append(args, slog.String("request_id", reqID))
			}

			adminID := info.adminID
			if adminID == "" {
				adminID, _ = AdminIDFromContext(r.Context())
			}
			if adminID != "" {
				args = append(args, slog.String("admin_id", adminID))
			}

			logger.Log(r.Context(), levelForStatus(status), "http_request", args...)
		})
	}
}
