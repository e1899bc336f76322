package cron

import (
	"context"
	"fmt"

	"github.com/Zwubman/team-work-supply-tracker/internal/alerts"
	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
	"github.com/Zwubman/team-work-supply-tracker/pkg/metrics"
)

// LowStockScanJob sweeps the catalog for items at or below their threshold
// and emails a digest to the admins.
type LowStockScanJob struct {
	items    lowStockLister
	notifier alerts.Notifier
	logg     *logger.Logger
	metrics  *metrics.CronJobMetrics
}

type lowStockLister interface {
	ListAtOrBelowThreshold(ctx context.Context) ([]models.Item, error)
}

// LowStockScanJobParams configure the scan job.
type LowStockScanJobParams struct {
	Items    lowStockLister
	Notifier alerts.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.CronJobMetrics
}

// NewLowStockScanJob builds the hourly low stock scan.
func NewLowStockScanJob(params LowStockScanJobParams) (*LowStockScanJob, error) {
	if params.Items == nil {
		return nil, fmt.Errorf("item lister required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &LowStockScanJob{
		items:    params.Items,
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// Name identifies the job in logs and metrics.
func (j *LowStockScanJob) Name() string { return "low-stock-scan" }

// Run performs one scan cycle.
func (j *LowStockScanJob) Run(ctx context.Context) error {
	items, err := j.items.ListAtOrBelowThreshold(ctx)
	if err != nil {
		return fmt.Errorf("list low stock items: %w", err)
	}
	if j.metrics != nil {
		j.metrics.SetLowStockItems(len(items))
	}
	if len(items) == 0 {
		j.logg.Info(ctx, "no items below threshold")
		return nil
	}

	ctx = j.logg.WithField(ctx, "low_stock_items", len(items))
	sent, err := j.notifier.LowStockDigest(ctx, items)
	if j.metrics != nil {
		for i := 0; i < sent; i++ {
			j.metrics.IncAlertEmails()
		}
	}
	if err != nil {
		return fmt.Errorf("dispatch low stock digest: %w", err)
	}
	j.logg.Info(ctx, "low stock digest dispatched")
	return nil
}
