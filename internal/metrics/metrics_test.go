package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// counterValue はレジストリから指定名・ラベル値のカウンタ値を取り出す。
func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) (float64, bool) {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelMatches(m, label) {
				return m.GetCounter().GetValue(), true
			}
		}
	}
	return 0, false
}

func labelMatches(m *dto.Metric, value string) bool {
	for _, l := range m.GetLabel() {
		if l.GetValue() == value {
			return true
		}
	}
	return false
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordLogin_CountsByResult はログイン結果ごとにカウンタが増加することを検証する。
func TestRecordLogin_CountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(LoginSuccess)
	c.RecordLogin(LoginFailure)
	c.RecordLogin(LoginFailure)

	if v, ok := counterValue(t, reg, "portfolio_login_total", LoginSuccess); !ok || v != 1 {
		t.Errorf("login success = %v (found=%v), want 1", v, ok)
	}
	if v, ok := counterValue(t, reg, "portfolio_login_total", LoginFailure); !ok || v != 2 {
		t.Errorf("login failure = %v (found=%v), want 2", v, ok)
	}
}

// TestRecordOAuth_CountsByOutcome はOAuth結果ごとにカウンタが増加することを検証する。
func TestRecordOAuth_CountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOAuth(OAuthBootstrap)
	c.RecordOAuth(OAuthLinked)
	c.RecordOAuth(OAuthLinked)
	c.RecordOAuth(OAuthDenied)

	tests := []struct {
		label string
		want  float64
	}{
		{OAuthBootstrap, 1},
		{OAuthLinked, 2},
		{OAuthDenied, 1},
	}
	for _, tt := range tests {
		v, ok := counterValue(t, reg, "portfolio_oauth_total", tt.label)
		if !ok || v != tt.want {
			t.Errorf("oauth %s = %v (found=%v), want %v", tt.label, v, ok, tt.want)
		}
	}
}

// TestRecordReorder_CountsByTable は並び替えがテーブル別に記録されることを検証する。
func TestRecordReorder_CountsByTable(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordReorder("projects")
	c.RecordReorder("skills")
	c.RecordReorder("skills")

	if v, _ := counterValue(t, reg, "portfolio_reorder_total", "skills"); v != 2 {
		t.Errorf("reorder skills = %v, want 2", v)
	}
	if v, _ := counterValue(t, reg, "portfolio_reorder_total", "projects"); v != 1 {
		t.Errorf("reorder projects = %v, want 1", v)
	}
}

// TestRecordContactSubmission_CountsByResult は問い合わせ送信結果が記録されることを検証する。
func TestRecordContactSubmission_CountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordContactSubmission(ContactAccepted)
	c.RecordContactSubmission(ContactRateLimited)

	if v, _ := counterValue(t, reg, "portfolio_contact_submissions_total", ContactRateLimited); v != 1 {
		t.Errorf("rate_limited = %v, want 1", v)
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はHTTPステータスカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(429)

	if v, _ := counterValue(t, reg, "portfolio_http_status_total", "200"); v != 2 {
		t.Errorf("status 200 = %v, want 2", v)
	}
	if v, _ := counterValue(t, reg, "portfolio_http_status_total", "429"); v != 1 {
		t.Errorf("status 429 = %v, want 1", v)
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat はハンドラーがPrometheus形式で応答することを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin(LoginSuccess)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "portfolio_login_total") {
		t.Error("response should contain portfolio_login_total")
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorがインターフェースを満たすことを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	var _ MetricsCollector = (*Collector)(nil)
}

// TestMultipleCollectors_IndependentRegistries は別レジストリのCollectorが独立していることを検証する。
func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()
	c1 := NewCollector(reg1)
	_ = NewCollector(reg2)

	c1.RecordReorder("projects")

	if _, ok := counterValue(t, reg2, "portfolio_reorder_total", "projects"); ok {
		t.Error("reg2 should not observe reorders recorded on reg1")
	}
}
