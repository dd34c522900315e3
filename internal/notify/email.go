package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"text/template"
	"time"
)

// Mailer sends mail over SMTP with PLAIN auth. When credentials are not
// configured it logs the message instead of failing, so local development
// works without a mail account.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	if from == "" {
		from = username
	}
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Enabled reports whether SMTP credentials are configured.
func (m *Mailer) Enabled() bool {
	return m.username != "" && m.password != ""
}

// sendTimeout bounds a whole SMTP session, dial included.
const sendTimeout = 15 * time.Second

// SendEmail delivers a plain-text message to a single recipient. The session
// runs under a deadline on the connection, so a stalled server fails the send
// instead of blocking it.
func (m *Mailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if !m.Enabled() {
		log.Printf("mailer: SMTP not configured, skipping email to %s (subject %q)", to, subject)
		return nil
	}

	message := fmt.Sprintf("From: %s\r\n", m.from)
	message += fmt.Sprintf("To: %s\r\n", to)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	message += "\r\n"
	message += body

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(message)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return c.Quit()
}

var resetTemplate = template.Must(template.New("reset").Parse(`Hi {{.Name}},

You requested a password reset. Open the link below to set a new password:

{{.URL}}

This link will expire in 1 hour. If you did not request a reset, you can
ignore this message.

Flood Alert App
`))

// SendResetLink emails a password-reset link to the user.
func (m *Mailer) SendResetLink(ctx context.Context, to, name, url string) error {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, struct {
		Name string
		URL  string
	}{Name: name, URL: url}); err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	return m.SendEmail(ctx, to, "Password Reset Instructions", buf.String())
}
