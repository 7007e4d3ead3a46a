// Package notify sends the thank-you email that follows a recorded donation.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
)

// ErrSendFailed wraps every delivery failure returned by a Notifier.
var ErrSendFailed = errors.New("send donation email")

// Recipient is the donor as described by the checkout session. Name may be empty.
type Recipient struct {
	Email string
	Name  string
}

// Notifier delivers the donation confirmation to a donor.
type Notifier interface {
	SendDonationThanks(ctx context.Context, to Recipient) error
}

// Message is a rendered confirmation email.
type Message struct {
	Subject string
	HTML    string
}

var thanksTemplate = template.Must(template.New("thanks").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; line-height: 1.5;">
    <h1>Thank you{{if .Name}}, {{.Name}}{{end}}!</h1>
    <p>Your donation has been received and your account is now marked as a supporter.</p>
    <p>We really appreciate you helping us keep the project going.</p>
  </body>
</html>
`))

// Render builds the subject and HTML body for to.
func Render(to Recipient) (Message, error) {
	var body bytes.Buffer
	if err := thanksTemplate.Execute(&body, to); err != nil {
		return Message{}, fmt.Errorf("render donation email: %w", err)
	}
	subject := "Thank you for your donation!"
	if to.Name != "" {
		subject = fmt.Sprintf("Thank you for your donation, %s!", to.Name)
	}
	return Message{Subject: subject, HTML: body.String()}, nil
}
