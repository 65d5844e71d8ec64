// Package notify emails category suggestions to the catalog maintainer.
package notify

import (
	"context"
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

// Sender delivers messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type MailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

// LoadMailConfig reads FITCOOKER_SMTP_* variables. ok is false when no host
// is configured.
func LoadMailConfig() (MailConfig, bool, error) {
	cfg := MailConfig{
		SMTPHost:     strings.TrimSpace(os.Getenv("FITCOOKER_SMTP_HOST")),
		SMTPSender:   strings.TrimSpace(os.Getenv("FITCOOKER_SMTP_SENDER_NAME")),
		SMTPEmail:    strings.TrimSpace(os.Getenv("FITCOOKER_SMTP_AUTH_EMAIL")),
		SMTPPassword: os.Getenv("FITCOOKER_SMTP_AUTH_PASSWORD"),
		SMTPPort:     587,
	}
	if cfg.SMTPHost == "" {
		return cfg, false, nil
	}
	if raw := strings.TrimSpace(os.Getenv("FITCOOKER_SMTP_PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 {
			return cfg, false, fmt.Errorf("invalid FITCOOKER_SMTP_PORT %q", raw)
		}
		cfg.SMTPPort = port
	}
	return cfg, true, nil
}

func (c MailConfig) Dialer() *gomail.Dialer {
	return gomail.NewDialer(c.SMTPHost, c.SMTPPort, c.SMTPEmail, c.SMTPPassword)
}

// Mailer forwards category suggestions by email.
type Mailer struct {
	Config MailConfig
	To     string
	Sender Sender
}

func NewMailer(cfg MailConfig, to string) *Mailer {
	return &Mailer{Config: cfg, To: strings.TrimSpace(to), Sender: cfg.Dialer()}
}

func (m *Mailer) Message(name, suggestedBy string) *gomail.Message {
	msg := gomail.NewMessage()
	if m.Config.SMTPSender != "" {
		msg.SetAddressHeader("From", m.Config.SMTPEmail, m.Config.SMTPSender)
	} else {
		msg.SetHeader("From", m.Config.SMTPEmail)
	}
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", "Nova sugestão de categoria: "+name)
	author := suggestedBy
	if author == "" {
		author = "anônimo"
	}
	msg.SetBody("text/html", fmt.Sprintf("<p>Categoria sugerida: <strong>%s</strong></p>\n<p>Enviada por: %s</p>\n",
		html.EscapeString(name), html.EscapeString(author)))
	return msg
}

func (m *Mailer) SuggestCategory(ctx context.Context, name, suggestedBy string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name is required")
	}
	if m.To == "" {
		return fmt.Errorf("maintainer email is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.Sender.DialAndSend(m.Message(name, strings.TrimSpace(suggestedBy))); err != nil {
		return fmt.Errorf("send suggestion email: %w", err)
	}
	return nil
}
