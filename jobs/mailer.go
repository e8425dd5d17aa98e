package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"

	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/vendora/vendora/internal/jobs"
)

// Mailer delivers an email message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP relay. Local development runs
// against Mailpit, which accepts unauthenticated delivery.
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer constructs a mailer for the given host, port and sender.
func NewSMTPMailer(host string, port int, from string) *SMTPMailer {
	return &SMTPMailer{addr: fmt.Sprintf("%s:%d", host, port), from: from}
}

// Send delivers a single message.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")
	return smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg))
}

// MailJob processes TaskTypeSendEmail tasks.
type MailJob struct {
	mailer  Mailer
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewMailJob constructs the send-email job handler.
func NewMailJob(mailer Mailer, logger *slog.Logger, metrics *jobmetrics.Metrics) *MailJob {
	return &MailJob{mailer: mailer, logger: logger, metrics: metrics}
}

// Handle delivers the queued email. A malformed payload is dropped instead of
// retried.
func (j *MailJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track(TaskTypeSendEmail)

	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.logger.Error("decode mail payload", slog.Any("error", err))
		return tracker.End(asynq.SkipRetry)
	}
	if err := j.mailer.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
		j.logger.Error("send email",
			slog.String("to", payload.To),
			slog.Any("error", err))
		return tracker.End(err)
	}
	j.logger.Info("email sent",
		slog.String("to", payload.To),
		slog.String("subject", payload.Subject))
	return tracker.End(nil)
}
