package services

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/mail"

	"github.com/pocketbase/pocketbase/tools/mailer"
)

// DeliveryOptions carries the recipient and message fields for one delivery.
type DeliveryOptions struct {
	RecipientEmail string
	RecipientName  string
	Subject        string
	Body           string
}

// DeliveryResult reports the outcome of a delivery attempt.
type DeliveryResult struct {
	Success      bool   `json:"success"`
	FallbackUsed bool   `json:"fallbackUsed"`
	Error        string `json:"error,omitempty"`
}

// Deliverer disposes of rendered document bytes. Download, mail-client
// hand-off and transactional email are interchangeable behind this interface.
type Deliverer interface {
	Deliver(pdf []byte, fileName string, opts DeliveryOptions) DeliveryResult
}

// MailDelivery sends documents as email attachments through the app mailer.
type MailDelivery struct {
	Mailer mailer.Mailer
	From   mail.Address
}

// NewMailDelivery wires a MailDelivery to the given mailer and sender.
func NewMailDelivery(m mailer.Mailer, from mail.Address) *MailDelivery {
	return &MailDelivery{Mailer: m, From: from}
}

// Deliver emails the PDF as an attachment. Failures are reported in the
// result rather than returned, matching the caller-facing contract where a
// failed send is an outcome, not a programming error.
func (d *MailDelivery) Deliver(pdf []byte, fileName string, opts DeliveryOptions) DeliveryResult {
	if opts.RecipientEmail == "" {
		return DeliveryResult{Success: false, Error: "missing recipient email"}
	}

	message := &mailer.Message{
		From:    d.From,
		To:      []mail.Address{{Name: opts.RecipientName, Address: opts.RecipientEmail}},
		Subject: opts.Subject,
		HTML:    opts.Body,
		Attachments: map[string]io.Reader{
			fileName: bytes.NewReader(pdf),
		},
	}

	if err := d.Mailer.Send(message); err != nil {
		log.Printf("delivery: send to %s failed: %v", opts.RecipientEmail, err)
		return DeliveryResult{Success: false, Error: fmt.Sprintf("send email: %v", err)}
	}

	return DeliveryResult{Success: true}
}
