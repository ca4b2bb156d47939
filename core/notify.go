package core

import (
	"context"
	"net/mail"
)

type (
	// SMSMessage is a plain text message for a single phone number.
	SMSMessage struct {
		To   string
		Body string
	}

	// SMSService is any service that can deliver text messages.
	SMSService interface {
		// Send delivers msg synchronously and returns the transport's error as is.
		Send(ctx context.Context, msg SMSMessage) error
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		TextContent string
		HTMLContent string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
