package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"inkpress/internal/models"
	"inkpress/internal/repositories"
)

var (
	ErrContactOpen    = errors.New("open submission already exists")
	ErrSubjectTooLong = errors.New("subject too long")
	ErrMessageTooLong = errors.New("message too long")
)

const (
	subjectWordLimit = 100
	messageWordLimit = 1000
)

// ContactService accepts contact-form submissions, relays them by email and
// optionally to Telegram, and throttles repeats per address.
type ContactService struct {
	contacts repositories.ContactRepository
	email    EmailService
	telegram *TelegramNotifier // nil when not configured

	adminEmail string
}

func NewContactService(
	contacts repositories.ContactRepository,
	email EmailService,
	telegram *TelegramNotifier,
	adminEmail string,
) *ContactService {
	return &ContactService{
		contacts:   contacts,
		email:      email,
		telegram:   telegram,
		adminEmail: adminEmail,
	}
}

func (s *ContactService) Submit(req models.ContactRequest) error {
	if wordCount(req.Subject) > subjectWordLimit {
		return ErrSubjectTooLong
	}
	if wordCount(req.Message) > messageWordLimit {
		return ErrMessageTooLong
	}

	open, err := s.contacts.HasOpenSubmission(req.Email)
	if err != nil {
		return err
	}
	if open {
		return ErrContactOpen
	}

	if err := s.contacts.Create(req.Email); err != nil {
		return err
	}

	if err := s.email.SendContactEmail(s.adminEmail, req.Name, req.Email, req.Subject, req.Message); err != nil {
		return err
	}

	if s.telegram != nil {
		if err := s.telegram.NotifyContact(req.Name, req.Email, req.Subject); err != nil {
			log.Printf("[contact] telegram notify failed: %v", err)
		}
	}
	return nil
}

func wordCount(s string) int {
	return len(strings.Fields(strings.TrimSpace(s)))
}

// SubjectLimitMessage and MessageLimitMessage keep the word limits in one
// place for the handler's responses.
func SubjectLimitMessage() string {
	return fmt.Sprintf("Subject should not exceed %d words.", subjectWordLimit)
}

func MessageLimitMessage() string {
	return fmt.Sprintf("Message should not exceed %d words.", messageWordLimit)
}
