// Package email delivers outgoing school mail, currently invoice reminders.
package email

import (
	"context"
	"errors"
	"time"
)

// ErrNoRecipients is returned for a request without a To address.
var ErrNoRecipients = errors.New("email has no recipients")

// SendRequest is one outgoing message.
type SendRequest struct {
	To      []string
	From    string // empty uses the sender's configured address
	Subject string
	HTML    string
	Text    string // plain-text alternative; the Markdown source works well here
	ReplyTo string
	Tags    map[string]string // provider tags, e.g. {"kind": "invoice_reminder"}
}

func (r SendRequest) validate() error {
	if len(r.To) == 0 {
		return ErrNoRecipients
	}
	return nil
}

// SendResult is the provider's acknowledgement of one message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers email. SendBatch returns results in request order.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}
