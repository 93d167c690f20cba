package middleware

import (
	"net/http"

	"github.com/jcarizon/portfolio-cms-backend/internal/metrics"
)

// NewMetricsMiddleware はレスポンスのステータスコードをcollectorに記録する。
func NewMetricsMiddleware(collector metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := wrapWriter(w, r)
			next.ServeHTTP(ww, r)
			collector.RecordHTTPStatus(responseStatus(ww))
		})
	}
}
