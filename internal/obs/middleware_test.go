package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStatusRecorder(t *testing.T) {
	rr := httptest.NewRecorder()
	recorder := NewStatusRecorder(rr)
	recorder.WriteHeader(http.StatusTeapot)
	if _, err := recorder.Write([]byte("short")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if recorder.Status() != http.StatusTeapot {
		t.Fatalf("status = %d", recorder.Status())
	}
	if recorder.BytesWritten() != 5 {
		t.Fatalf("bytes = %d", recorder.BytesWritten())
	}
}

func TestHTTPObsRecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics("test", nil, reg)

	r := chi.NewRouter()
	r.Use(RoutePatternMiddleware)
	r.Use(HTTPObs{Metrics: metrics}.Middleware)
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/7", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var counter *dto.MetricFamily
	for _, fam := range families {
		if fam.GetName() == "test_http_requests_total" {
			counter = fam
		}
	}
	if counter == nil {
		t.Fatal("request counter not registered")
	}
	labels := map[string]string{}
	for _, label := range counter.GetMetric()[0].GetLabel() {
		labels[label.GetName()] = label.GetValue()
	}
	if labels["route"] != "/products/{id}" {
		t.Fatalf("route label = %q, want the chi pattern", labels["route"])
	}
	if labels["status"] != "200" || labels["method"] != http.MethodGet {
		t.Fatalf("unexpected labels %v", labels)
	}
}

func TestParseBucketsCSV(t *testing.T) {
	got := ParseBucketsCSV(" 100, 5,abc, -4, 50 ")
	want := []float64{100, 5, 50}
	if len(got) != len(want) {
		t.Fatalf("unexpected buckets %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
