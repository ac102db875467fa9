package notify

import (
	"context"
	"fmt"

	"github.com/gelvpress/gelv-backend/internal/invoice"
	"github.com/gelvpress/gelv-backend/pkg/db/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Notifier composes the storefront's transactional messages.
type Notifier struct {
	mailer   Mailer
	siteName string
}

// NewNotifier builds a notifier on top of the provided mailer.
func NewNotifier(mailer Mailer, siteName string) (*Notifier, error) {
	if mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if siteName == "" {
		siteName = "GELV"
	}
	return &Notifier{mailer: mailer, siteName: siteName}, nil
}

// SendInvoice mails the rendered invoice to the payment's billing address.
func (n *Notifier) SendInvoice(ctx context.Context, payment models.Payment, doc *invoice.Document) error {
	if doc == nil {
		return fmt.Errorf("invoice document required")
	}

	body := fmt.Sprintf(
		"Paldies par pirkumu!\n\nYour order %s has been received. The invoice %s is attached.\nTotal due: %s EUR.\n\n%s",
		doc.Number, doc.Filename, payment.TotalPrice().StringFixed(2), n.siteName,
	)

	return n.mailer.Send(ctx, Message{
		To:      payment.BillingEmail,
		Subject: fmt.Sprintf("Invoice %s", doc.Number),
		Body:    body,
		Attachment: &Attachment{
			Filename:    doc.Filename,
			ContentType: xlsxContentType,
			Content:     doc.Bytes,
		},
	})
}

// SendPaymentConfirmation mails the buyer once their payment is marked paid.
func (n *Notifier) SendPaymentConfirmation(ctx context.Context, payment models.Payment) error {
	to := payment.User.Email
	if to == "" {
		to = payment.BillingEmail
	}

	body := fmt.Sprintf(
		"Payment %s has been confirmed. Your issues are now available for download.\n\n%s",
		payment.Number(), n.siteName,
	)

	return n.mailer.Send(ctx, Message{
		To:      to,
		Subject: "Payment confirmed",
		Body:    body,
	})
}
