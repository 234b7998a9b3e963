// Package notify sends the post-payment side effects: emails and booking
// events. Every call here is best effort from the booking's point of view.
package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const (
	TemplateBookingConfirmation = "booking_confirmation"
	TemplateAdminBookingNotice  = "admin_booking_notice"
)

//go:embed templates/*.html
var templateFS embed.FS

var subjects = map[string]string{
	TemplateBookingConfirmation: "Your flight reservation {{.BookingID}}",
	TemplateAdminBookingNotice:  "[Booking] {{.BookingID}} paid",
}

type EmailSender interface {
	Send(ctx context.Context, to, templateName string, data any) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	// Timeout bounds one delivery on top of the caller's context.
	Timeout time.Duration
}

type Templates struct {
	bodies   *template.Template
	subjects map[string]*texttemplate.Template
}

// ParseTemplates loads the embedded email templates.
func ParseTemplates() (*Templates, error) {
	bodies, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	t := &Templates{bodies: bodies, subjects: make(map[string]*texttemplate.Template, len(subjects))}
	for name, text := range subjects {
		// subjects are headers, not HTML
		st, err := texttemplate.New(name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse subject %s: %w", name, err)
		}
		t.subjects[name] = st
	}
	return t, nil
}

// Render returns the subject and HTML body for templateName.
func (t *Templates) Render(templateName string, data any) (string, string, error) {
	st, ok := t.subjects[templateName]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", templateName)
	}

	var subject, body bytes.Buffer
	if err := st.Execute(&subject, data); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	if err := t.bodies.ExecuteTemplate(&body, templateName+".html", data); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	return strings.TrimSpace(subject.String()), body.String(), nil
}

type SMTPSender struct {
	config    SMTPConfig
	templates *Templates
	log       *zap.Logger
}

func NewSMTPSender(cfg SMTPConfig, templates *Templates, log *zap.Logger) *SMTPSender {
	return &SMTPSender{
		config:    cfg,
		templates: templates,
		log:       log.With(zap.String("component", "smtp")),
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, templateName string, data any) error {
	subject, body, err := s.templates.Render(templateName, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.From, s.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	if err := s.deliver(ctx, m); err != nil {
		s.log.Error("send email failed",
			zap.String("to", to),
			zap.String("template", templateName),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	s.log.Info("email sent", zap.String("to", to), zap.String("template", templateName))
	return nil
}

// deliver is gomail's DialAndSend over a connection that dies with ctx.
func (s *SMTPSender) deliver(ctx context.Context, m *gomail.Message) error {
	sc, err := s.dial(ctx)
	if err != nil {
		return contextErr(ctx, err)
	}
	defer sc.Close()

	return contextErr(ctx, gomail.Send(sc, m))
}

func (s *SMTPSender) dial(ctx context.Context) (*smtpSession, error) {
	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port)))
	if err != nil {
		return nil, err
	}
	// unblocks any pending read or write once ctx is done
	stop := context.AfterFunc(ctx, func() {
		_ = raw.SetDeadline(time.Now())
	})

	conn := raw
	tlsConfig := &tls.Config{ServerName: s.config.Host}
	if s.config.Port == 465 {
		conn = tls.Client(raw, tlsConfig)
	}

	c, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		stop()
		conn.Close()
		return nil, err
	}
	session := &smtpSession{client: c, stop: stop}

	if ok, _ := c.Extension("STARTTLS"); ok && s.config.Port != 465 {
		if err := c.StartTLS(tlsConfig); err != nil {
			session.abort()
			return nil, err
		}
	}
	if s.config.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)); err != nil {
				session.abort()
				return nil, err
			}
		}
	}
	return session, nil
}

func contextErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}

// smtpSession is a gomail.SendCloser over one SMTP connection.
type smtpSession struct {
	client *smtp.Client
	stop   func() bool
}

func (s *smtpSession) Send(from string, to []string, msg io.WriterTo) error {
	if err := s.client.Mail(from); err != nil {
		return err
	}
	for _, addr := range to {
		if err := s.client.Rcpt(addr); err != nil {
			return err
		}
	}

	w, err := s.client.Data()
	if err != nil {
		return err
	}
	if _, err := msg.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (s *smtpSession) Close() error {
	defer s.stop()
	return s.client.Quit()
}

func (s *smtpSession) abort() {
	s.stop()
	s.client.Close()
}

// LogSender stands in for SMTP when no host is configured.
type LogSender struct {
	templates *Templates
	log       *zap.Logger
}

func NewLogSender(templates *Templates, log *zap.Logger) *LogSender {
	return &LogSender{templates: templates, log: log.With(zap.String("component", "email_log"))}
}

func (s *LogSender) Send(_ context.Context, to, templateName string, data any) error {
	subject, _, err := s.templates.Render(templateName, data)
	if err != nil {
		return err
	}
	s.log.Info("email not sent, smtp disabled",
		zap.String("to", to),
		zap.String("template", templateName),
		zap.String("subject", subject),
	)
	return nil
}
