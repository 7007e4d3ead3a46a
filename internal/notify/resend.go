package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

type sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Resend delivers confirmations through the Resend API from a fixed address.
type Resend struct {
	emails sender
	from   string
	logger zerolog.Logger
}

// NewResend creates a Resend notifier authenticated with apiKey.
func NewResend(apiKey, from string, logger zerolog.Logger) *Resend {
	return newResend(resend.NewClient(apiKey).Emails, from, logger)
}

func newResend(emails sender, from string, logger zerolog.Logger) *Resend {
	return &Resend{
		emails: emails,
		from:   from,
		logger: logger.With().Str("notifier", "resend").Logger(),
	}
}

func (r *Resend) SendDonationThanks(ctx context.Context, to Recipient) error {
	msg, err := Render(to)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	sent, err := r.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{to.Email},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	r.logger.Info().Str("email", to.Email).Str("message_id", sent.Id).Msg("donation email sent")
	return nil
}

var _ Notifier = (*Resend)(nil)
