package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Log records the email it would have sent. It stands in when no email
// provider is configured, e.g. in local development.
type Log struct {
	logger zerolog.Logger
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("notifier", "log").Logger()}
}

func (l *Log) SendDonationThanks(_ context.Context, to Recipient) error {
	msg, err := Render(to)
	if err != nil {
		return err
	}
	l.logger.Info().Str("email", to.Email).Str("subject", msg.Subject).Msg("sending email")
	return nil
}

var _ Notifier = (*Log)(nil)
