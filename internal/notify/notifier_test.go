package notify

import (
	"context"
	"testing"

	"github.com/gelvpress/gelv-backend/internal/invoice"
	"github.com/gelvpress/gelv-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
)

type stubMailer struct {
	sent []Message
	err  error
}

func (s *stubMailer) Send(ctx context.Context, msg Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestSendInvoiceAttachesDocument(t *testing.T) {
	mailer := &stubMailer{}
	notifier, err := NewNotifier(mailer, "GELV")
	require.NoError(t, err)

	payment := models.Payment{ID: 42, BillingEmail: "anna@example.com"}
	doc := &invoice.Document{
		Number:   "GK1000042",
		Filename: "invoice_GK1000042.xlsx",
		Bytes:    []byte("xlsx"),
	}

	require.NoError(t, notifier.SendInvoice(context.Background(), payment, doc))
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	require.Equal(t, "anna@example.com", msg.To)
	require.Contains(t, msg.Subject, "GK1000042")
	require.NotNil(t, msg.Attachment)
	require.Equal(t, "invoice_GK1000042.xlsx", msg.Attachment.Filename)
}

func TestSendPaymentConfirmationPrefersAccountEmail(t *testing.T) {
	mailer := &stubMailer{}
	notifier, err := NewNotifier(mailer, "GELV")
	require.NoError(t, err)

	payment := models.Payment{
		ID:           1,
		BillingEmail: "billing@example.com",
		User:         models.User{Email: "account@example.com"},
	}

	require.NoError(t, notifier.SendPaymentConfirmation(context.Background(), payment))
	require.Len(t, mailer.sent, 1)
	require.Equal(t, "account@example.com", mailer.sent[0].To)
	require.Contains(t, mailer.sent[0].Body, "GK1000001")
}

func TestBuildMIMEWithAttachment(t *testing.T) {
	payload := buildMIME("noreply@gelv.lv", Message{
		To:      "anna@example.com",
		Subject: "Invoice",
		Body:    "hello",
		Attachment: &Attachment{
			Filename: "invoice.xlsx",
			Content:  []byte("data"),
		},
	})
	require.Contains(t, string(payload), "multipart/mixed")
	require.Contains(t, string(payload), "invoice.xlsx")
	require.Contains(t, string(payload), "base64")
}
