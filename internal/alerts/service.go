package alerts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
	"github.com/Zwubman/team-work-supply-tracker/pkg/mailer"
)

// Notifier sends operational email to the people who need to act on stock.
type Notifier interface {
	LowStock(ctx context.Context, item *models.Item) error
	LowStockDigest(ctx context.Context, items []models.Item) (int, error)
	SupplyApproved(ctx context.Context, supply *models.Supply, item *models.Item, requesterEmail string) error
}

type adminEmailLister interface {
	ListAdminEmails(ctx context.Context) ([]string, error)
}

type notifier struct {
	admins adminEmailLister
	sender mailer.Sender
	logg   *logger.Logger
}

// NotifierParams bundles the dependencies required to build a notifier.
type NotifierParams struct {
	AdminEmails adminEmailLister
	Sender      mailer.Sender
	Logger      *logger.Logger
}

// NewNotifier wires alert dependencies.
func NewNotifier(params NotifierParams) (Notifier, error) {
	if params.AdminEmails == nil {
		return nil, fmt.Errorf("admin email source is required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &notifier{
		admins: params.AdminEmails,
		sender: params.Sender,
		logg:   params.Logger,
	}, nil
}

// LowStock emails every admin that the item has dropped to or below its
// threshold. Missing admins make this a no-op rather than an error.
func (n *notifier) LowStock(ctx context.Context, item *models.Item) error {
	recipients, err := n.admins.ListAdminEmails(ctx)
	if err != nil {
		return fmt.Errorf("list admin emails: %w", err)
	}
	if len(recipients) == 0 {
		n.logg.Warn(ctx, "no admin recipients for low stock alert")
		return nil
	}

	msg := mailer.Message{
		To:      recipients,
		Subject: fmt.Sprintf("Low stock alert: %s", item.Name),
		Body: fmt.Sprintf(
			"Item %s (SKU %s) is down to %d units, at or below its threshold of %d.\n\nPlease arrange a restock.",
			item.Name, item.SKU, item.Quantity, item.Threshold,
		),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send low stock alert: %w", err)
	}
	return nil
}

// LowStockDigest emails a single summary of all depleted items to the admins
// and returns how many emails went out. Per-recipient failures are collected
// rather than aborting the scan.
func (n *notifier) LowStockDigest(ctx context.Context, items []models.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	recipients, err := n.admins.ListAdminEmails(ctx)
	if err != nil {
		return 0, fmt.Errorf("list admin emails: %w", err)
	}
	if len(recipients) == 0 {
		n.logg.Warn(ctx, "no admin recipients for low stock digest")
		return 0, nil
	}

	var lines []string
	for i := range items {
		item := &items[i]
		lines = append(lines, fmt.Sprintf("- %s (SKU %s): %d units on hand, threshold %d",
			item.Name, item.SKU, item.Quantity, item.Threshold))
	}
	body := fmt.Sprintf("The following items are at or below their restock threshold:\n\n%s\n",
		strings.Join(lines, "\n"))

	var errs error
	sent := 0
	for _, recipient := range recipients {
		msg := mailer.Message{
			To:      []string{recipient},
			Subject: fmt.Sprintf("Low stock digest: %d item(s) need restocking", len(items)),
			Body:    body,
		}
		if err := n.sender.Send(ctx, msg); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("send digest to %s: %w", recipient, err))
			continue
		}
		sent++
	}
	return sent, errs
}

// SupplyApproved tells the requester their restock was accepted.
func (n *notifier) SupplyApproved(ctx context.Context, supply *models.Supply, item *models.Item, requesterEmail string) error {
	if requesterEmail == "" {
		return fmt.Errorf("requester email is required")
	}

	msg := mailer.Message{
		To:      []string{requesterEmail},
		Subject: fmt.Sprintf("Supply request approved: %s", item.Name),
		Body: fmt.Sprintf(
			"Your request to restock %d units of %s (SKU %s) was approved. The new stock level is %d.",
			supply.Quantity, item.Name, item.SKU, item.Quantity,
		),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send approval notice: %w", err)
	}
	return nil
}
