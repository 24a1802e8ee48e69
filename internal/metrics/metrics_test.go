package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/deals/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/deals/:id", "200"))
	for _, path := range []string{"/deals/1", "/deals/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/deals/:id", "200"))
	if after-before != 2 {
		t.Fatalf("expected 2 requests recorded on route template, got %v", after-before)
	}

	unmatchedBefore := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")) - unmatchedBefore; got != 1 {
		t.Fatalf("expected unmatched request recorded, got %v", got)
	}
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(payrollStatementsTotal.WithLabelValues("bmw"))
	RecordPayrollStatement("bmw")
	if got := testutil.ToFloat64(payrollStatementsTotal.WithLabelValues("bmw")) - before; got != 1 {
		t.Fatalf("expected payroll statement counter +1, got %v", got)
	}

	before = testutil.ToFloat64(spiffTransitionsTotal.WithLabelValues("approve"))
	RecordSpiffTransition("approve")
	RecordSpiffTransition("approve")
	if got := testutil.ToFloat64(spiffTransitionsTotal.WithLabelValues("approve")) - before; got != 2 {
		t.Fatalf("expected spiff counter +2, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RecordDealEvent("create")
	r := gin.New()
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "deal_events_total") {
		t.Fatalf("expected deal_events_total in metrics output")
	}
}
