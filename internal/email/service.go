package email

import (
	"fmt"
	"net/smtp"

	"github.com/example/herbal-backoffice/internal/query"
)

// Service handles email sending via SMTP
type Service struct {
	host     string
	port     string
	from     string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host:     host,
		port:     port,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

// SendOrderConfirmation mails the invoice of a new order to the customer
func (s *Service) SendOrderConfirmation(to string, inv *query.Invoice) error {
	subject := fmt.Sprintf("Order confirmation - Invoice %s", inv.Number)
	return s.send(to, subject, BuildOrderConfirmationBody(inv))
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return s.sendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
