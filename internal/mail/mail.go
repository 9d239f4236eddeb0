package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Skotchmaster/lms/internal/logging"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SendgridMailer struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
}

func NewSendgrid(key, appName, fromEmail string) *SendgridMailer {
	return &SendgridMailer{
		key:        key,
		host:       host,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
	}
}

func (s *SendgridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func (s *SendgridMailer) Send(ctx context.Context, msg Message) error {
	req := sendgrid.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// LogMailer writes mail to the log instead of sending it.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	logging.FromContext(ctx).Info("mail_skipped",
		"to", msg.ToEmail,
		"subject", msg.Subject,
		"reason", "sendgrid not configured",
	)
	return nil
}

func Welcome(name, email, role string) Message {
	return Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Welcome aboard",
		Text:    fmt.Sprintf("Hi %s,\n\nyour %s account is ready. Happy learning!", name, role),
		HTML:    fmt.Sprintf("<p>Hi %s,</p><p>your %s account is ready. Happy learning!</p>", name, role),
	}
}

var (
	_ Mailer = (*SendgridMailer)(nil)
	_ Mailer = LogMailer{}
)
