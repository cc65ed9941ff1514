package freshproxy

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/antonls/freshproxy/metrics"
)

func TestHealthz(t *testing.T) {
	handler := AdminHandler(metrics.New())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))

	if rr.Code != 200 {
		t.Fatalf("Status is %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Body is %q: %v", rr.Body.String(), err)
	}
	if body["status"] != "up" {
		t.Fatalf("Body is %v", body)
	}
}

func TestStatsReflectsCounters(t *testing.T) {
	collector := metrics.New()
	collector.RecordRequest()
	collector.RecordHit()
	handler := AdminHandler(collector)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/stats", nil))

	var snapshot metrics.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("Body is %q: %v", rr.Body.String(), err)
	}
	if snapshot.Requests != 1 || snapshot.Hits != 1 {
		t.Fatalf("Snapshot is %+v", snapshot)
	}
}
