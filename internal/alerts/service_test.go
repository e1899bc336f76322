package alerts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
	"github.com/Zwubman/team-work-supply-tracker/pkg/mailer"
)

type fakeAdminEmails struct {
	emails []string
	err    error
}

func (f *fakeAdminEmails) ListAdminEmails(ctx context.Context) ([]string, error) {
	return f.emails, f.err
}

type fakeSender struct {
	sent   []mailer.Message
	sendFn func(ctx context.Context, msg mailer.Message) error
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message) error {
	if f.sendFn != nil {
		if err := f.sendFn(ctx, msg); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestNotifier(t *testing.T, admins adminEmailLister, sender mailer.Sender) Notifier {
	t.Helper()
	notifier, err := NewNotifier(NotifierParams{
		AdminEmails: admins,
		Sender:      sender,
		Logger:      logger.New(logger.Options{ServiceName: "alerts-test"}),
	})
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	return notifier
}

func TestNotifier_LowStock(t *testing.T) {
	sender := &fakeSender{}
	notifier := newTestNotifier(t, &fakeAdminEmails{emails: []string{"a@example.com", "b@example.com"}}, sender)

	item := &models.Item{Name: "Widget", SKU: "WID-001", Quantity: 2, Threshold: 10}
	if err := notifier.LowStock(context.Background(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if len(msg.To) != 2 {
		t.Fatalf("expected both admins, got %v", msg.To)
	}
	if !strings.Contains(msg.Body, "WID-001") || !strings.Contains(msg.Body, "2 units") {
		t.Fatalf("unexpected body %q", msg.Body)
	}
}

func TestNotifier_LowStockNoAdminsIsNoOp(t *testing.T) {
	sender := &fakeSender{}
	notifier := newTestNotifier(t, &fakeAdminEmails{}, sender)

	item := &models.Item{Name: "Widget", SKU: "WID-001", Quantity: 0, Threshold: 5}
	if err := notifier.LowStock(context.Background(), item); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no messages, got %d", len(sender.sent))
	}
}

func TestNotifier_LowStockDigest(t *testing.T) {
	sender := &fakeSender{}
	notifier := newTestNotifier(t, &fakeAdminEmails{emails: []string{"a@example.com", "b@example.com"}}, sender)

	items := []models.Item{
		{Name: "Widget", SKU: "WID-001", Quantity: 2, Threshold: 10},
		{Name: "Gadget", SKU: "GAD-001", Quantity: 0, Threshold: 3},
	}
	sent, err := notifier.LowStockDigest(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected 2 digests, got %d", sent)
	}
	if !strings.Contains(sender.sent[0].Body, "GAD-001") {
		t.Fatalf("digest missing item: %q", sender.sent[0].Body)
	}
}

func TestNotifier_LowStockDigestCollectsFailures(t *testing.T) {
	sender := &fakeSender{
		sendFn: func(ctx context.Context, msg mailer.Message) error {
			if msg.To[0] == "broken@example.com" {
				return errors.New("smtp refused")
			}
			return nil
		},
	}
	notifier := newTestNotifier(t, &fakeAdminEmails{emails: []string{"broken@example.com", "ok@example.com"}}, sender)

	items := []models.Item{{Name: "Widget", SKU: "WID-001", Quantity: 1, Threshold: 4}}
	sent, err := notifier.LowStockDigest(context.Background(), items)
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if sent != 1 {
		t.Fatalf("expected 1 successful digest, got %d", sent)
	}
}

func TestNotifier_LowStockDigestEmptyItems(t *testing.T) {
	sender := &fakeSender{}
	notifier := newTestNotifier(t, &fakeAdminEmails{emails: []string{"a@example.com"}}, sender)

	sent, err := notifier.LowStockDigest(context.Background(), nil)
	if err != nil || sent != 0 {
		t.Fatalf("expected silent no-op, got sent=%d err=%v", sent, err)
	}
}

func TestNotifier_SupplyApproved(t *testing.T) {
	sender := &fakeSender{}
	notifier := newTestNotifier(t, &fakeAdminEmails{}, sender)

	supply := &models.Supply{Quantity: 50}
	item := &models.Item{Name: "Widget", SKU: "WID-001", Quantity: 75}
	if err := notifier.SupplyApproved(context.Background(), supply, item, "supplier@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].To[0] != "supplier@example.com" {
		t.Fatalf("unexpected messages %+v", sender.sent)
	}
	if !strings.Contains(sender.sent[0].Body, "50 units") {
		t.Fatalf("unexpected body %q", sender.sent[0].Body)
	}
}
