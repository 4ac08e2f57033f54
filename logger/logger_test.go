package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
)

func TestConfigureLevels(t *testing.T) {
	log := Logger()

	for _, level := range []string{"debug", "info", "warn", "error", "report"} {
		if err := log.Configure(level, "json", "stdout", 0); err != nil {
			t.Errorf("Configure(%s): %v", level, err)
		}
	}

	if err := log.Configure("verbose", "json", "stdout", 0); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := log.Configure("info", "xml", "stdout", 0); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestJSONOutputCarriesComponent(t *testing.T) {
	log := Logger()
	if err := log.Configure("info", "json", "stdout", 0); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.WithComponent("scanner").WithFields(Fields{"exchange": "Binance"}).Info("pairs loaded")

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if record["component"] != "scanner" {
		t.Errorf("component = %v", record["component"])
	}
	if record["exchange"] != "Binance" {
		t.Errorf("exchange = %v", record["exchange"])
	}
	if record["message"] != "pairs loaded" {
		t.Errorf("message = %v", record["message"])
	}
	if _, ok := record["timestamp"]; !ok {
		t.Error("timestamp field missing")
	}
}

func TestLogMetricShape(t *testing.T) {
	log := Logger()
	if err := log.Configure("info", "json", "stdout", 0); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.LogMetric("scanner", "OpportunityCount", 7, "gauge", nil)

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["metric"] != "OpportunityCount" {
		t.Errorf("metric = %v", record["metric"])
	}
	if record["value"] != float64(7) {
		t.Errorf("value = %v", record["value"])
	}
	if record["metric_type"] != "gauge" {
		t.Errorf("metric_type = %v", record["metric_type"])
	}
}

func TestErrorCountedByComponent(t *testing.T) {
	log := Logger()
	var buf bytes.Buffer
	log.SetOutput(&buf)

	before := atomic.LoadInt64(&errorsFeed)
	log.WithComponent("delta_reader").Error("boom")
	if after := atomic.LoadInt64(&errorsFeed); after != before+1 {
		t.Fatalf("feed error count = %d, want %d", after, before+1)
	}

	if !strings.Contains(buf.String(), "boom") {
		t.Fatal("error message missing from output")
	}
}
