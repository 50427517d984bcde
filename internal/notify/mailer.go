// Package notify delivers order-confirmation email. Delivery is always
// best-effort: a failed send is logged by the caller and never blocks
// order creation.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"

	"eshop-order/internal/model"
)

// OrderConfirmation is the data rendered into a confirmation message.
type OrderConfirmation struct {
	Name        string
	Cart        []model.CartLine
	TotalAmount float64
	TrackingURL string
}

// Mailer sends order-confirmation email to purchasing users.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, confirmation OrderConfirmation) error
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// smtpMailer implements Mailer over an SMTP relay.
type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

// NewSMTPMailer creates an SMTP-backed mailer.
func NewSMTPMailer(cfg SMTPConfig, logger zerolog.Logger) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

func (m *smtpMailer) SendOrderConfirmation(ctx context.Context, to string, confirmation OrderConfirmation) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your E-shop order confirmation")
	msg.SetBody("text/html", renderConfirmation(confirmation))

	// gomail dials synchronously; honour cancellation by racing the send
	// against the context so fulfillment's bounded timeout holds.
	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send confirmation email: %w", err)
		}
		m.logger.Debug().Str("to", to).Msg("order confirmation sent")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func renderConfirmation(c OrderConfirmation) string {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Thanks for your order. You paid %.2f for:</p><ul>", c.Name, c.TotalAmount)
	for _, line := range c.Cart {
		body += fmt.Sprintf("<li>%s &times; %d</li>", line.ProductID, line.Quantity)
	}
	body += fmt.Sprintf(`</ul><p>Track it at <a href="%s">%s</a>.</p>`, c.TrackingURL, c.TrackingURL)
	return body
}

// NopMailer drops all messages. Used when SMTP is not configured.
type NopMailer struct{}

func (NopMailer) SendOrderConfirmation(ctx context.Context, to string, confirmation OrderConfirmation) error {
	return nil
}
