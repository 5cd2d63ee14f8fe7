// Package mail defines the outbound mail transport used by the dispatcher.
//
// A Message is immutable once composed; the transport owns it only for the
// duration of the send call. The SMTP implementation speaks plain net/smtp
// with a hand-built multipart/alternative MIME body, which is all a
// single-recipient notification mail needs.
package mail

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"mime"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strings"
	"time"
)

// Message is one composed outbound mail.
//
// From and To are fixed configuration; ReplyTo is the only user-influenced
// header and is deliberately never used for the sender identity.
type Message struct {
	FromName string
	From     string
	To       string
	ReplyTo  string
	Subject  string
	Text     string
	HTML     string
}

// Sender hands a composed message to the mail transport. Implementations
// must return an error whose message is safe to surface to the caller.
type Sender interface {
	Send(ctx context.Context, m *Message) error
}

// SMTPSender delivers messages through an SMTP relay. Security mode follows
// the relay port: 465 means implicit TLS, anything else dials plain and
// upgrades with STARTTLS when the server offers it.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string

	// Timeout bounds the dial and the whole SMTP conversation.
	Timeout time.Duration
}

// DefaultTimeout bounds a complete SMTP exchange.
const DefaultTimeout = 10 * time.Second

// Send connects to the relay, authenticates when credentials are configured,
// and submits the message. The connection carries a deadline so a stalled
// relay surfaces as a transport error instead of hanging the request.
func (s *SMTPSender) Send(ctx context.Context, m *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	addr := net.JoinHostPort(s.Host, fmt.Sprintf("%d", s.Port))

	var (
		conn net.Conn
		err  error
	)
	if s.Port == 465 {
		dialer := &net.Dialer{Timeout: timeout}
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: s.Host})
	} else {
		conn, err = net.DialTimeout("tcp", addr, timeout)
	}
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(timeout))

	client, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if s.Port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
				return err
			}
		}
	}

	if s.Username != "" && s.Password != "" {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(s.envelopeFrom(m)); err != nil {
		return err
	}
	if err := client.Rcpt(m.To); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(buildMessage(m, s.Host))); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// envelopeFrom picks the SMTP envelope sender: the composed From address,
// or the relay username when the message carries none.
func (s *SMTPSender) envelopeFrom(m *Message) string {
	if m.From != "" {
		return m.From
	}
	return s.Username
}

// buildMessage renders the RFC 5322 message: headers followed by a
// multipart/alternative body holding the plain-text and HTML renditions.
func buildMessage(m *Message, host string) string {
	var b strings.Builder
	from := netmail.Address{Name: m.FromName, Address: m.From}

	fmt.Fprintf(&b, "From: %s\r\n", from.String())
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	// Reply-To is the only user-influenced header. Re-rendering it through
	// the address parser keeps CRLF payloads out of the header block; a value
	// that is not a single valid address drops the header entirely.
	if m.ReplyTo != "" {
		if addr, err := netmail.ParseAddress(m.ReplyTo); err == nil {
			fmt.Fprintf(&b, "Reply-To: %s\r\n", addr.String())
		}
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", randomID(), host)
	b.WriteString("MIME-Version: 1.0\r\n")

	boundary := "alt-" + randomID()
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(m.Text)
	b.WriteString("\r\n\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(m.HTML)
	b.WriteString("\r\n\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}

// randomID returns a hex token for Message-ID and MIME boundaries.
func randomID() string {
	var buf [12]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Degraded but unique enough for a boundary.
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf[:])
}
