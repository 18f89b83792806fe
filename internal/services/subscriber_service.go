package services

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"inkpress/internal/repositories"
	"inkpress/internal/utils"
)

// ErrSubscribePending is deliberately vague: already-verified addresses and
// addresses with a live pending link get the same answer.
var ErrSubscribePending = errors.New("verification already sent or address verified")

const subscribeTokenTTL = 15 * time.Minute

// SubscriberService runs the newsletter double opt-in.
type SubscriberService struct {
	subscribers repositories.SubscriberRepository
	email       EmailService
	backendURL  string
}

func NewSubscriberService(
	subscribers repositories.SubscriberRepository,
	email EmailService,
	backendURL string,
) *SubscriberService {
	return &SubscriberService{
		subscribers: subscribers,
		email:       email,
		backendURL:  backendURL,
	}
}

func (s *SubscriberService) Subscribe(email string) error {
	existing, err := s.subscribers.GetByEmail(email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	if existing != nil {
		if existing.Verified {
			return ErrSubscribePending
		}
		if existing.VerifyTokenExpires != nil && existing.VerifyTokenExpires.After(time.Now()) {
			return ErrSubscribePending
		}
	}

	token, err := utils.NewVerifyToken(32)
	if err != nil {
		return err
	}
	expiry := time.Now().Add(subscribeTokenTTL)

	if existing != nil {
		err = s.subscribers.RefreshToken(email, token, expiry)
	} else {
		err = s.subscribers.Create(email, token, expiry)
	}
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/subscribe/verify?token=%s&email=%s",
		s.backendURL, token, url.QueryEscape(email))
	return s.email.SendSubscribeVerifyEmail(email, link)
}

// VerifyResult feeds the redirect query the front end shows the user.
type VerifyResult string

const (
	VerifyInvalid  VerifyResult = "invalid"
	VerifyExpired  VerifyResult = "expired"
	VerifyVerified VerifyResult = "verified"
	VerifyError    VerifyResult = "error"
)

func (s *SubscriberService) VerifySubscription(email, token string) VerifyResult {
	if email == "" || token == "" {
		return VerifyInvalid
	}
	sub, err := s.subscribers.GetByEmailAndToken(email, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return VerifyExpired
		}
		return VerifyError
	}
	if sub.VerifyTokenExpires == nil || sub.VerifyTokenExpires.Before(time.Now()) {
		return VerifyExpired
	}
	if err := s.subscribers.MarkVerified(sub.ID); err != nil {
		return VerifyError
	}
	return VerifyVerified
}
