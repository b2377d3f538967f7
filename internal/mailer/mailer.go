// Package mailer sends transactional email over SMTP. The standard
// net/smtp client is enough here: plain text plus an optional HTML part,
// one relay, no templating.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer holds relay settings. A zero Host disables sending; Send becomes a
// no-op that reports success so callers never block on a missing relay.
type Mailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func New(host, port, user, pass, from string) *Mailer {
	return &Mailer{Host: host, Port: port, User: user, Pass: pass, From: from}
}

// Send delivers one message. When html is non-empty the body is a
// multipart/alternative with the text part first.
func (m *Mailer) Send(to, subject, text, html string) error {
	if m.Host == "" {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if html == "" {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(text)
	} else {
		const boundary = "=_hospital_mgmt_alt"
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, text)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, html)
		fmt.Fprintf(&b, "--%s--\r\n", boundary)
	}

	addr := m.Host + ":" + m.Port
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(b.String()))
}
