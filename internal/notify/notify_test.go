package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

func TestRenderIncludesName(t *testing.T) {
	msg, err := Render(Recipient{Email: "a@example.com", Name: "Ada"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if msg.Subject != "Thank you for your donation, Ada!" {
		t.Fatalf("subject mismatch: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "Thank you, Ada!") {
		t.Fatalf("body should greet by name: %s", msg.HTML)
	}
}

func TestRenderWithoutName(t *testing.T) {
	msg, err := Render(Recipient{Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(msg.Subject, "Thank you") {
		t.Fatalf("subject mismatch: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "<h1>Thank you!</h1>") {
		t.Fatalf("unexpected heading: %s", msg.HTML)
	}
}

func TestRenderEscapesName(t *testing.T) {
	msg, err := Render(Recipient{Email: "a@example.com", Name: "<script>x</script>"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Fatalf("name was not escaped: %s", msg.HTML)
	}
}

type fakeSender struct {
	got *resend.SendEmailRequest
	err error
}

func (f *fakeSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "email_123"}, nil
}

func TestResendSendDonationThanks(t *testing.T) {
	fake := &fakeSender{}
	n := newResend(fake, "Donations <donations@example.com>", zerolog.Nop())

	if err := n.SendDonationThanks(context.Background(), Recipient{Email: "a@example.com", Name: "Ada"}); err != nil {
		t.Fatalf("SendDonationThanks: %v", err)
	}
	if fake.got == nil {
		t.Fatal("expected a send call")
	}
	if fake.got.From != "Donations <donations@example.com>" {
		t.Fatalf("from mismatch: %q", fake.got.From)
	}
	if len(fake.got.To) != 1 || fake.got.To[0] != "a@example.com" {
		t.Fatalf("to mismatch: %#v", fake.got.To)
	}
	if !strings.Contains(fake.got.Subject, "Thank you") || !strings.Contains(fake.got.Html, "Ada") {
		t.Fatalf("unexpected message: %q / %q", fake.got.Subject, fake.got.Html)
	}
}

func TestResendWrapsErrors(t *testing.T) {
	fake := &fakeSender{err: errors.New("rate limited")}
	n := newResend(fake, "from@example.com", zerolog.Nop())

	err := n.SendDonationThanks(context.Background(), Recipient{Email: "a@example.com"})
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLog(zerolog.New(&buf))

	if err := n.SendDonationThanks(context.Background(), Recipient{Email: "a@example.com", Name: "Ada"}); err != nil {
		t.Fatalf("SendDonationThanks: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("a@example.com")) {
		t.Fatalf("expected recipient in log, got %q", buf.String())
	}
}
