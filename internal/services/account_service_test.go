package services_test

import (
	"testing"
	"time"

	"inkpress/internal/authz"
	"inkpress/internal/models"
	"inkpress/internal/repositories"
	"inkpress/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const adminEmail = "admin@example.com"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUsername(id int, username string) error {
	args := m.Called(id, username)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(id int, passwordHash string) error {
	args := m.Called(id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetTwoFactor(id int, enabled bool) error {
	args := m.Called(id, enabled)
	return args.Error(0)
}

func (m *MockUserRepository) VerifyUser(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUnverified(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockOtpRepository is a mock implementation of repositories.OtpRepository
type MockOtpRepository struct {
	mock.Mock
}

func (m *MockOtpRepository) Upsert(userID int, code string) error {
	args := m.Called(userID, code)
	return args.Error(0)
}

func (m *MockOtpRepository) GetLive(userID int) (*models.Otp, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Otp), args.Error(1)
}

func (m *MockOtpRepository) Delete(userID int) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockEmailService is a mock implementation of services.EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendVerificationEmail(email, link string) error {
	args := m.Called(email, link)
	return args.Error(0)
}

func (m *MockEmailService) SendOtpEmail(email, code string) error {
	args := m.Called(email, code)
	return args.Error(0)
}

func (m *MockEmailService) SendSubscribeVerifyEmail(email, link string) error {
	args := m.Called(email, link)
	return args.Error(0)
}

func (m *MockEmailService) SendContactEmail(to, name, from, subject, message string) error {
	args := m.Called(to, name, from, subject, message)
	return args.Error(0)
}

func newAccountService(users *MockUserRepository, otps *MockOtpRepository, email *MockEmailService) *services.AccountService {
	auth := services.NewAuthService("test-secret")
	return services.NewAccountService(users, otps, auth, email, adminEmail, "http://localhost:5000")
}

func verifiedUser(auth *services.AuthService, password string, twoFactor bool) *models.User {
	hash, _ := auth.HashPassword(password)
	return &models.User{
		ID:               7,
		Username:         "alice",
		Email:            adminEmail,
		PasswordHash:     hash,
		Role:             authz.RoleAdmin,
		IsVerified:       true,
		TwoFactorEnabled: twoFactor,
	}
}

func TestAccountService_Register_RejectsNonAdminEmail(t *testing.T) {
	users := new(MockUserRepository)
	otps := new(MockOtpRepository)
	email := new(MockEmailService)
	svc := newAccountService(users, otps, email)

	err := svc.Register("bob", "bob@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrAccessRestricted)

	// no lookup, no record, no mail
	users.AssertNotCalled(t, "GetByEmail", mock.Anything)
	users.AssertNotCalled(t, "Create", mock.Anything)
	email.AssertNotCalled(t, "SendVerificationEmail", mock.Anything, mock.Anything)
}

func TestAccountService_Register_RejectsDuplicateUniformly(t *testing.T) {
	users := new(MockUserRepository)
	otps := new(MockOtpRepository)
	email := new(MockEmailService)
	svc := newAccountService(users, otps, email)

	// a verified record refuses
	users.On("GetByEmail", adminEmail).
		Return(&models.User{ID: 1, Email: adminEmail, IsVerified: true}, nil).Once()
	err := svc.Register("alice", adminEmail, "password123")
	assert.ErrorIs(t, err, services.ErrAccessRestricted)

	// so does an unverified one whose verification link is still live
	users.On("GetByEmail", adminEmail).
		Return(&models.User{ID: 1, Email: adminEmail, CreatedAt: time.Now()}, nil).Once()
	err = svc.Register("alice", adminEmail, "password123")
	assert.ErrorIs(t, err, services.ErrAccessRestricted)

	users.AssertNotCalled(t, "Create", mock.Anything)
	users.AssertNotCalled(t, "DeleteUnverified", mock.Anything)
}

func TestAccountService_Register_ReplacesLapsedUnverifiedRecord(t *testing.T) {
	users := new(MockUserRepository)
	otps := new(MockOtpRepository)
	email := new(MockEmailService)
	svc := newAccountService(users, otps, email)

	stale := &models.User{
		ID:        1,
		Email:     adminEmail,
		CreatedAt: time.Now().Add(-services.EmailTokenTTL - time.Minute),
	}
	users.On("GetByEmail", adminEmail).Return(stale, nil).Once()
	users.On("DeleteUnverified", 1).Return(nil).Once()
	users.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = 2
	}).Return(nil).Once()
	email.On("SendVerificationEmail", adminEmail, mock.AnythingOfType("string")).Return(nil).Once()

	assert.NoError(t, svc.Register("alice", adminEmail, "password123"))
	users.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestAccountService_Register_CreatesUnverifiedAdminAndMailsLink(t *testing.T) {
	users := new(MockUserRepository)
	otps := new(MockOtpRepository)
	email := new(MockEmailService)
	svc := newAccountService(users, otps, email)

	users.On("GetByEmail", adminEmail).Return(nil, repositories.ErrNotFound).Once()
	users.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		u := args.Get(0).(*models.User)
		u.ID = 1
		assert.Equal(t, authz.RoleAdmin, u.Role)
		assert.False(t, u.IsVerified)
		assert.NotEqual(t, "password123", u.PasswordHash)
	}).Return(nil).Once()
	email.On("SendVerificationEmail", adminEmail, mock.MatchedBy(func(link string) bool {
		return link != ""
	})).Return(nil).Once()

	err := svc.Register("alice", adminEmail, "password123")
	assert.NoError(t, err)
	users.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestAccountService_Login_UniformFailures(t *testing.T) {
	users := new(MockUserRepository)
	otps := new(MockOtpRepository)
	email := new(MockEmailService)
	svc := newAccountService(users, otps, email)
	auth := services.NewAuthService("test-secret")

	// unknown email
	users.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, err := svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, services.ErrAccessRestricted)

	// unverified user
	unverified := verifiedUser(auth, "password123", false)
	unverified.IsVerified = false
	users.On("GetByEmail", adminEmail).Return(unverified, nil).Once()
	_, err = svc.Login(adminEmail, "password123")
	assert.ErrorIs(t, err, services.ErrAccessRestricted)

	// wrong password
	users.On("GetByEmail", adminEmail).Return(verifiedUser(auth, "password123", false), nil).Once()
	_, err = svc.Login(adminEmail, "wrong-password")
	assert.ErrorIs(t, err, services.ErrAccessRestricted)

	otps.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAccountService_Login_WithoutTwoFactorIssuesSession(t *testing.T) {
	users := new(MockUserRepository)
	otps := new(MockOtpRepository)
	email := new(MockEmailService)
	svc := newAccountService(users, otps, email)
	auth := services.NewAuthService("test-secret")

	users.On("GetByEmail", adminEmail).Return(verifiedUser(auth, "password123", false), nil).Once()

	res, err := svc.Login(adminEmail, "password123")
	assert.NoError(t, err)
	assert.False(t, res.TwoFactorRequired)
	assert.NotEmpty(t, res.Token)

	claims, err := auth.ParseSession(res.Token)
	assert.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, authz.RoleAdmin, claims.Role)

	otps.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAccountService_Login_WithTwoFactorParksBehindOtp(t *testing.T) {
	users := new(MockUserRepository)
	otps := new(MockOtpRepository)
	email := new(MockEmailService)
	svc := newAccountService(users, otps, email)
	auth := services.NewAuthService("test-secret")

	users.On("GetByEmail", adminEmail).Return(verifiedUser(auth, "password123", true), nil).Once()

	var issued string
	otps.On("Upsert", 7, mock.MatchedBy(func(code string) bool {
		issued = code
		return len(code) == 6
	})).Return(nil).Once()
	email.On("SendOtpEmail", adminEmail, mock.MatchedBy(func(code string) bool {
		return code == issued
	})).Return(nil).Once()

	res, err := svc.Login(adminEmail, "password123")
	assert.NoError(t, err)
	assert.True(t, res.TwoFactorRequired)
	assert.Equal(t, 7, res.UserID)
	assert.Empty(t, res.Token)

	otps.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestAccountService_VerifyOtp_SingleUse(t *testing.T) {
	users := new(MockUserRepository)
	otps := new(MockOtpRepository)
	email := new(MockEmailService)
	svc := newAccountService(users, otps, email)
	auth := services.NewAuthService("test-secret")

	otps.On("GetLive", 7).Return(&models.Otp{UserID: 7, Code: "123456"}, nil).Once()
	otps.On("Delete", 7).Return(nil).Once()
	users.On("GetByID", 7).Return(verifiedUser(auth, "password123", true), nil).Once()

	token, err := svc.VerifyOtp(7, "123456")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	otps.AssertExpectations(t)

	// record gone now: a replayed code fails as not found
	otps.On("GetLive", 7).Return(nil, repositories.ErrNotFound).Once()
	_, err = svc.VerifyOtp(7, "123456")
	assert.ErrorIs(t, err, services.ErrOtpNotFound)
}

func TestAccountService_VerifyOtp_WrongCodeKeepsRecord(t *testing.T) {
	users := new(MockUserRepository)
	otps := new(MockOtpRepository)
	email := new(MockEmailService)
	svc := newAccountService(users, otps, email)

	otps.On("GetLive", 7).Return(&models.Otp{UserID: 7, Code: "123456"}, nil).Once()

	_, err := svc.VerifyOtp(7, "654321")
	assert.ErrorIs(t, err, services.ErrOtpInvalid)
	otps.AssertNotCalled(t, "Delete", mock.Anything)
	users.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestAccountService_VerifyEmail(t *testing.T) {
	users := new(MockUserRepository)
	otps := new(MockOtpRepository)
	email := new(MockEmailService)
	svc := newAccountService(users, otps, email)
	auth := services.NewAuthService("test-secret")

	token, err := auth.SignEmailToken(7)
	assert.NoError(t, err)

	// happy path
	users.On("GetByID", 7).Return(&models.User{ID: 7, IsVerified: false}, nil).Once()
	users.On("VerifyUser", 7).Return(nil).Once()
	assert.True(t, svc.VerifyEmail(token))

	// already verified: same token, negative answer
	users.On("GetByID", 7).Return(&models.User{ID: 7, IsVerified: true}, nil).Once()
	assert.False(t, svc.VerifyEmail(token))

	// garbage token
	assert.False(t, svc.VerifyEmail("not-a-token"))
	users.AssertExpectations(t)
}

func TestAccountService_ChangePassword(t *testing.T) {
	users := new(MockUserRepository)
	otps := new(MockOtpRepository)
	email := new(MockEmailService)
	svc := newAccountService(users, otps, email)
	auth := services.NewAuthService("test-secret")

	user := verifiedUser(auth, "old-password", false)

	users.On("GetByID", 7).Return(user, nil).Once()
	err := svc.ChangePassword(7, "wrong-password", "new-password")
	assert.ErrorIs(t, err, services.ErrWrongPassword)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)

	users.On("GetByID", 7).Return(user, nil).Once()
	users.On("UpdatePassword", 7, mock.MatchedBy(func(hash string) bool {
		return hash != "new-password" && hash != ""
	})).Return(nil).Once()
	err = svc.ChangePassword(7, "old-password", "new-password")
	assert.NoError(t, err)
	users.AssertExpectations(t)
}
