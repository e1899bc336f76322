package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	job := "low-stock-scan"
	metrics.ObserveDuration(job, 250*time.Millisecond)
	metrics.IncSuccess(job)
	metrics.IncFailure(job)
	metrics.SetLowStockItems(3)
	metrics.IncAlertEmails()
	metrics.IncAlertEmails()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "supplytracker_job_runs_total", "status", "success"); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "supplytracker_job_runs_total", "status", "failure"); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "supplytracker_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	if mf := findMetricFamily(mfs, "supplytracker_low_stock_items"); mf == nil {
		t.Fatal("low stock gauge not exported")
	} else if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 3 {
		t.Fatalf("expected low_stock_items=3, got %f", got)
	}

	if mf := findMetricFamily(mfs, "supplytracker_alert_emails_total"); mf == nil {
		t.Fatal("alert email counter not exported")
	} else if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected alert_emails_total=2, got %f", got)
	}
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var metrics *CronJobMetrics
	metrics.ObserveDuration("job", time.Second)
	metrics.IncSuccess("job")
	metrics.IncFailure("job")
	metrics.SetLowStockItems(1)
	metrics.IncAlertEmails()

	empty := NewCronJobMetrics(nil)
	empty.IncSuccess("job")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
