// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordLogin(result string)
	RecordOAuth(outcome string)
	RecordReorder(table string)
	RecordContactSubmission(result string)
	RecordHTTPStatus(statusCode int)
}

// ログイン結果ラベル
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// OAuth結果ラベル
const (
	OAuthLinked    = "linked"
	OAuthBootstrap = "bootstrap"
	OAuthDenied    = "denied"
)

// 問い合わせ送信結果ラベル
const (
	ContactAccepted    = "accepted"
	ContactRateLimited = "rate_limited"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	logins     *prometheus.CounterVec
	oauth      *prometheus.CounterVec
	reorders   *prometheus.CounterVec
	contacts   *prometheus.CounterVec
	httpStatus *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_login_total",
			Help: "ローカルログイン試行数（結果別）",
		}, []string{"result"}),
		oauth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_oauth_total",
			Help: "外部IdPログインの結果別件数",
		}, []string{"outcome"}),
		reorders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_reorder_total",
			Help: "一括並び替えの成功数（テーブル別）",
		}, []string{"table"}),
		contacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_contact_submissions_total",
			Help: "問い合わせ送信数（結果別）",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.logins,
		c.oauth,
		c.reorders,
		c.contacts,
		c.httpStatus,
	)

	return c
}

// RecordLogin はローカルログインの結果を記録する。
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordOAuth は外部IdPログインの結果を記録する。
func (c *Collector) RecordOAuth(outcome string) {
	c.oauth.WithLabelValues(outcome).Inc()
}

// RecordReorder は一括並び替えの成功を記録する。
func (c *Collector) RecordReorder(table string) {
	c.reorders.WithLabelValues(table).Inc()
}

// RecordContactSubmission は問い合わせ送信の結果を記録する。
func (c *Collector) RecordContactSubmission(result string) {
	c.contacts.WithLabelValues(result).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
