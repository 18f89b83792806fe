package services_test

import (
	"strings"
	"testing"

	"inkpress/internal/models"
	"inkpress/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockContactRepository is a mock implementation of repositories.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) HasOpenSubmission(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *MockContactRepository) Create(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func contactReq() models.ContactRequest {
	return models.ContactRequest{
		Name:    "Reader",
		Email:   "reader@example.com",
		Subject: "A question",
		Message: "Hello there",
	}
}

func TestContactService_Submit_Relays(t *testing.T) {
	contacts := new(MockContactRepository)
	email := new(MockEmailService)
	svc := services.NewContactService(contacts, email, nil, "admin@example.com")

	contacts.On("HasOpenSubmission", "reader@example.com").Return(false, nil).Once()
	contacts.On("Create", "reader@example.com").Return(nil).Once()
	email.On("SendContactEmail", "admin@example.com", "Reader", "reader@example.com", "A question", "Hello there").
		Return(nil).Once()

	assert.NoError(t, svc.Submit(contactReq()))
	contacts.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestContactService_Submit_ThrottlesOpenSubmission(t *testing.T) {
	contacts := new(MockContactRepository)
	email := new(MockEmailService)
	svc := services.NewContactService(contacts, email, nil, "admin@example.com")

	contacts.On("HasOpenSubmission", "reader@example.com").Return(true, nil).Once()

	assert.ErrorIs(t, svc.Submit(contactReq()), services.ErrContactOpen)
	contacts.AssertNotCalled(t, "Create", mock.Anything)
	email.AssertNotCalled(t, "SendContactEmail",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestContactService_Submit_WordLimits(t *testing.T) {
	contacts := new(MockContactRepository)
	email := new(MockEmailService)
	svc := services.NewContactService(contacts, email, nil, "admin@example.com")

	longSubject := contactReq()
	longSubject.Subject = strings.Repeat("word ", 101)
	assert.ErrorIs(t, svc.Submit(longSubject), services.ErrSubjectTooLong)

	longMessage := contactReq()
	longMessage.Message = strings.Repeat("word ", 1001)
	assert.ErrorIs(t, svc.Submit(longMessage), services.ErrMessageTooLong)

	// limits count words, not characters
	atLimit := contactReq()
	atLimit.Subject = strings.Repeat("word ", 100)
	contacts.On("HasOpenSubmission", "reader@example.com").Return(false, nil).Once()
	contacts.On("Create", "reader@example.com").Return(nil).Once()
	email.On("SendContactEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
	assert.NoError(t, svc.Submit(atLimit))
}
