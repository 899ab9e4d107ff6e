package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// SMTPSender envia correos via SMTP.
type SMTPSender struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	fromName    string
	useTLS      bool
	frontendURL string
}

func NewSMTPSender(host string, port int, username, password, from, fromName string, useTLS bool, frontendURL string) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		from:        from,
		fromName:    fromName,
		useTLS:      useTLS,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}, nil
}

func (s *SMTPSender) SendOTP(_ context.Context, toEmail, code string, expiresAt time.Time) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("to email is required")
	}
	subject := "Verification code - Campaign platform"
	body := fmt.Sprintf(
		"Your verification code is %s.\nIt expires at %s UTC.\nIf you did not request this code, ignore this message.\n",
		code,
		expiresAt.UTC().Format(time.RFC3339),
	)
	return s.send(toEmail, subject, body)
}

func (s *SMTPSender) SendApproval(_ context.Context, toEmail, firstName string) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("to email is required")
	}
	subject := "Account approved - Campaign platform"
	body := fmt.Sprintf(
		"Congratulations %s!\nYour account has been approved by an administrator.\nYou can now log in at %s/login and create your campaigns.\n",
		firstName,
		s.frontendURL,
	)
	return s.send(toEmail, subject, body)
}

func (s *SMTPSender) SendRejection(_ context.Context, toEmail, firstName, reason string) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("to email is required")
	}
	subject := "Registration not approved - Campaign platform"
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\nWe regret to inform you that your registration was not approved.\n", firstName)
	if strings.TrimSpace(reason) != "" {
		fmt.Fprintf(&b, "Reason: %s\n", reason)
	}
	b.WriteString("If you believe this is a mistake, please contact us.\n")
	return s.send(toEmail, subject, b.String())
}

func (s *SMTPSender) send(toEmail, subject, body string) error {
	msg := buildMessage(s.from, s.fromName, toEmail, subject, body)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if s.useTLS {
		conn, err := tls.Dial("tcp", addr, &tls.Config{
			ServerName: s.host,
		})
		if err != nil {
			return err
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.host)
		if err != nil {
			return err
		}
		defer client.Quit()

		if auth != nil {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
		if err := client.Mail(s.from); err != nil {
			return err
		}
		if err := client.Rcpt(toEmail); err != nil {
			return err
		}
		writer, err := client.Data()
		if err != nil {
			return err
		}
		if _, err := writer.Write([]byte(msg)); err != nil {
			_ = writer.Close()
			return err
		}
		return writer.Close()
	}

	return smtp.SendMail(addr, auth, s.from, []string{toEmail}, []byte(msg))
}

func buildMessage(from, fromName, to, subject, body string) string {
	fromHeader := from
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, from)
	}

	headers := []string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}
