package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics records execution metadata for scheduled jobs.
type CronJobMetrics struct {
	duration      *prometheus.HistogramVec
	runs          *prometheus.CounterVec
	lowStockItems prometheus.Gauge
	alertEmails   prometheus.Counter
}

// NewCronJobMetrics registers the cron job metrics on the provided registerer.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "supplytracker",
		Name:      "job_duration_seconds",
		Help:      "Duration of cron jobs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplytracker",
		Name:      "job_runs_total",
		Help:      "Cron job executions by outcome.",
	}, []string{"job", "status"})
	lowStockItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "supplytracker",
		Name:      "low_stock_items",
		Help:      "Items at or below their threshold as of the last scan.",
	})
	alertEmails := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "supplytracker",
		Name:      "alert_emails_total",
		Help:      "Low-stock alert emails dispatched.",
	})
	reg.MustRegister(duration, runs, lowStockItems, alertEmails)
	return &CronJobMetrics{
		duration:      duration,
		runs:          runs,
		lowStockItems: lowStockItems,
		alertEmails:   alertEmails,
	}
}

// ObserveDuration records the duration for the named job.
func (c *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.runs == nil {
		return
	}
	c.runs.WithLabelValues(normalizeLabel(job), "success").Inc()
}

// IncFailure increments the failure counter for the named job.
func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.runs == nil {
		return
	}
	c.runs.WithLabelValues(normalizeLabel(job), "failure").Inc()
}

// SetLowStockItems records the size of the last low-stock scan result.
func (c *CronJobMetrics) SetLowStockItems(count int) {
	if c == nil || c.lowStockItems == nil {
		return
	}
	c.lowStockItems.Set(float64(count))
}

// IncAlertEmails counts a dispatched low-stock alert email.
func (c *CronJobMetrics) IncAlertEmails() {
	if c == nil || c.alertEmails == nil {
		return
	}
	c.alertEmails.Inc()
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
