package monitor

import (
	"context"

	"github.com/Max17190/amazon-monitor-v2/internal/client"
	"github.com/Max17190/amazon-monitor-v2/internal/notify"
)

type StockChecker interface {
	CheckStock(ctx context.Context, asins []string) ([]client.ProductStatus, error)
}

type Notifier interface {
	Notify(ctx context.Context, p client.ProductStatus) notify.Report
}

// CycleResult counts what one pass over every watchlist saw.
type CycleResult struct {
	ID string
	// Checked is the number of product records returned across watchlists.
	Checked int
	InStock int
	// Notified counts in-stock products for which at least one webhook send was attempted.
	Notified int
	// FailedChecks is the number of watchlists whose check failed outright.
	FailedChecks int
}
