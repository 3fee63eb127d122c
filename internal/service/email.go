package service

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host, port, username, password, from string) EmailService {
	p, _ := strconv.Atoi(port)
	return &emailService{
		host:     host,
		port:     p,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendOfferNotification(ctx context.Context, email, equipmentCode string, rentalRequestID int32, windowHours int) error {
	subject := fmt.Sprintf("Hired Equipment Program: work offer for %s", equipmentCode)
	body := fmt.Sprintf(
		"Your equipment %s is next on the rotation list for rental request #%d.\n\n"+
			"Please respond to your district office within %d hours to accept or refuse this offer. "+
			"If we do not hear from you the offer will expire and the next owner on the list will be called.\n\n"+
			"Hired Equipment Program",
		equipmentCode, rentalRequestID, windowHours)
	return s.send(email, subject, body)
}

func (s *emailService) SendForceHireNotification(ctx context.Context, email, equipmentCode string, rentalRequestID int32) error {
	subject := fmt.Sprintf("Hired Equipment Program: %s hired", equipmentCode)
	body := fmt.Sprintf(
		"Your equipment %s has been hired for rental request #%d by district office assignment.\n\n"+
			"Your district office will contact you with project details.\n\n"+
			"Hired Equipment Program",
		equipmentCode, rentalRequestID)
	return s.send(email, subject, body)
}

func (s *emailService) SendOfferExpiredNotification(ctx context.Context, email, equipmentCode string, rentalRequestID int32) error {
	subject := fmt.Sprintf("Hired Equipment Program: offer expired for %s", equipmentCode)
	body := fmt.Sprintf(
		"The work offer for your equipment %s on rental request #%d has expired because no response "+
			"was received within the offer window. Your position on the seniority list is unaffected.\n\n"+
			"Hired Equipment Program",
		equipmentCode, rentalRequestID)
	return s.send(email, subject, body)
}
