package services

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"inkpress/internal/authz"
	"inkpress/internal/models"
	"inkpress/internal/repositories"
)

var (
	// ErrAccessRestricted covers every rejected register/login branch.
	// Callers must not distinguish them; one message, one status.
	ErrAccessRestricted = errors.New("access restricted")
	ErrOtpNotFound      = errors.New("otp expired or not found")
	ErrOtpInvalid       = errors.New("otp invalid")
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrEmailSend        = errors.New("failed to send email")
)

// LoginResult is either a ready session token or a pending second factor.
type LoginResult struct {
	TwoFactorRequired bool
	UserID            int
	Token             string
}

// AccountService orchestrates registration, verification and login.
type AccountService struct {
	users repositories.UserRepository
	otps  repositories.OtpRepository
	auth  *AuthService
	email EmailService

	adminEmail string
	backendURL string
}

func NewAccountService(
	users repositories.UserRepository,
	otps repositories.OtpRepository,
	auth *AuthService,
	email EmailService,
	adminEmail string,
	backendURL string,
) *AccountService {
	return &AccountService{
		users:      users,
		otps:       otps,
		auth:       auth,
		email:      email,
		adminEmail: adminEmail,
		backendURL: backendURL,
	}
}

// Register only admits the single configured admin address. Wrong address and
// duplicate registration collapse into the same failure so the caller learns
// nothing about existing accounts. An unverified record whose verification
// window has lapsed does not block: it is replaced so registration can be
// retried.
func (s *AccountService) Register(username, email, password string) error {
	email = strings.TrimSpace(email)
	if email != s.adminEmail {
		return ErrAccessRestricted
	}

	if existing, err := s.users.GetByEmail(email); err == nil {
		if existing.IsVerified || time.Since(existing.CreatedAt) < EmailTokenTTL {
			return ErrAccessRestricted
		}
		if err := s.users.DeleteUnverified(existing.ID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				// verified between the read and the delete
				return ErrAccessRestricted
			}
			return err
		}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         authz.RoleAdmin,
		IsVerified:   false,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// lost the race to a concurrent register
			return ErrAccessRestricted
		}
		return err
	}

	token, err := s.auth.SignEmailToken(user.ID)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/api/auth/verify/%s", s.backendURL, token)
	if err := s.email.SendVerificationEmail(user.Email, link); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailSend, err)
	}
	return nil
}

// VerifyEmail reports a single boolean. Invalid token, unknown user and
// already-verified user all look the same to the caller.
func (s *AccountService) VerifyEmail(token string) bool {
	userID, err := s.auth.ParseEmailToken(token)
	if err != nil {
		log.Printf("[auth][verify-email] token rejected: %v", err)
		return false
	}
	user, err := s.users.GetByID(userID)
	if err != nil || user.IsVerified {
		return false
	}
	if err := s.users.VerifyUser(userID); err != nil {
		log.Printf("[auth][verify-email] mark verified failed for userID=%d: %v", userID, err)
		return false
	}
	return true
}

// Login fails uniformly for unknown email, unverified account and wrong
// password. With 2FA enabled it parks the login behind an emailed code
// instead of issuing a session.
func (s *AccountService) Login(email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccessRestricted
		}
		return nil, err
	}
	if !user.IsVerified {
		return nil, ErrAccessRestricted
	}
	if !s.auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrAccessRestricted
	}

	if user.TwoFactorEnabled {
		code, err := generateOtpCode()
		if err != nil {
			return nil, err
		}
		if err := s.otps.Upsert(user.ID, code); err != nil {
			return nil, err
		}
		if err := s.email.SendOtpEmail(user.Email, code); err != nil {
			return nil, err
		}
		log.Printf("[auth][login] otp issued for userID=%d", user.ID)
		return &LoginResult{TwoFactorRequired: true, UserID: user.ID}, nil
	}

	token, err := s.auth.SignSession(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{UserID: user.ID, Token: token}, nil
}

// VerifyOtp completes a 2FA login. The code is single use: a match deletes
// the record before the session is issued.
func (s *AccountService) VerifyOtp(userID int, code string) (string, error) {
	otp, err := s.otps.GetLive(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrOtpNotFound
		}
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		return "", ErrOtpInvalid
	}
	if err := s.otps.Delete(userID); err != nil {
		return "", err
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return "", err
	}
	return s.auth.SignSession(user.ID, user.Role)
}

func (s *AccountService) UpdateAuthorName(userID int, name string) error {
	return s.users.UpdateUsername(userID, strings.TrimSpace(name))
}

func (s *AccountService) ChangePassword(userID int, current, next string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if !s.auth.CheckPassword(user.PasswordHash, current) {
		return ErrWrongPassword
	}
	hash, err := s.auth.HashPassword(next)
	if err != nil {
		return err
	}
	// existing sessions stay valid after a password change; known gap
	return s.users.UpdatePassword(userID, hash)
}

func (s *AccountService) SetTwoFactor(userID int, enable bool) error {
	return s.users.SetTwoFactor(userID, enable)
}

func (s *AccountService) GetUserDetails(userID int) (*models.User, error) {
	return s.users.GetByID(userID)
}

func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
