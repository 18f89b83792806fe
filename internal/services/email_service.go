package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationEmail(email, link string) error
	SendOtpEmail(email, code string) error
	SendSubscribeVerifyEmail(email, link string) error
	SendContactEmail(to, name, from, subject, message string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendVerificationEmail(email, link string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Verify your email address")

	body := fmt.Sprintf(`
		<h2>Almost there!</h2>
		<p>Click the link below to verify your email address and activate your account.</p>
		<p><a href="%s">Verify my email</a></p>
		<p>The link expires in 15 minutes.</p>
	`, link)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

func (s *emailService) SendOtpEmail(email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your login code")

	body := fmt.Sprintf(`
		<h3>Two-factor login</h3>
		<p>Your one-time code is: <strong>%s</strong></p>
		<p>It expires in 5 minutes. If you did not try to log in, you can ignore this email.</p>
	`, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	return nil
}

func (s *emailService) SendSubscribeVerifyEmail(email, link string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Confirm your subscription")

	body := fmt.Sprintf(`
		<h3>Confirm your subscription</h3>
		<p>Click the link below to confirm you want our newsletter.</p>
		<p><a href="%s">Confirm subscription</a></p>
		<p>The link expires in 15 minutes.</p>
	`, link)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send subscribe email: %w", err)
	}

	return nil
}

func (s *emailService) SendContactEmail(to, name, from, subject, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Reply-To", from)
	m.SetHeader("Subject", fmt.Sprintf("[contact] %s", subject))

	body := fmt.Sprintf(`
		<h3>New contact form submission</h3>
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p>%s</p>
	`, name, from, message)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}

	return nil
}
