package mailer

import (
	"fmt"
	"io"
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer sends the platform's transactional emails.
type Mailer interface {
	SendAccessCode(to, clientName, code, baseURL string) error
	SendAttestation(to, prestataireName, pdfURL string, pdf []byte) error
}

const fromName = "TGZ Conciergerie"

// SMTP sends mail through a gomail dialer.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

// New returns an SMTP mailer, or the logging no-op when no host is
// configured (dev mode).
func New(host string, port int, user, password, from string) Mailer {
	if host == "" {
		return &disabled{}
	}
	return &SMTP{dialer: gomail.NewDialer(host, port, user, password), from: from}
}

// SendAccessCode emails a freshly issued access code to a client.
func (s *SMTP) SendAccessCode(to, clientName, code, baseURL string) error {
	directLink := baseURL + "/?code=" + code

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, fromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Votre code d'accès TGZ Conciergerie - %s", code))
	m.SetBody("text/plain", accessCodeText(clientName, code, directLink, baseURL))
	m.AddAlternative("text/html", accessCodeHTML(clientName, code, directLink, baseURL))

	return s.dialer.DialAndSend(m)
}

// SendAttestation emails the finalized PDF to the admin recipient.
func (s *SMTP) SendAttestation(to, prestataireName, pdfURL string, pdf []byte) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, fromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Nouvelle attestation finalisée - %s", prestataireName))
	m.SetBody("text/plain", fmt.Sprintf(
		"Bonjour,\n\nUne nouvelle attestation vient d'être finalisée par %s.\n\nDocument : %s\n\nLe PDF est joint à ce message.\n",
		prestataireName, pdfURL))
	m.Attach("attestation.pdf", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	return s.dialer.DialAndSend(m)
}

// disabled logs instead of sending; used when SMTP is not configured.
type disabled struct{}

func (d *disabled) SendAccessCode(to, clientName, code, baseURL string) error {
	log.Printf("mailer disabled: access code %s for %s <%s> not sent", code, clientName, to)
	return nil
}

func (d *disabled) SendAttestation(to, prestataireName, pdfURL string, pdf []byte) error {
	log.Printf("mailer disabled: attestation of %s (%d bytes) not sent to %s", prestataireName, len(pdf), to)
	return nil
}

var (
	_ Mailer = (*SMTP)(nil)
	_ Mailer = (*disabled)(nil)
)
