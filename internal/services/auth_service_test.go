package services_test

import (
	"errors"
	"testing"

	"thulasibloom/internal/models"
	"thulasibloom/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserStore is a testify mock of repositories.UserRepository.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserStore) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthService_RegisterUserHashesPassword(t *testing.T) {
	mockRepo := new(MockUserStore)
	service := services.NewAuthService(mockRepo, "test-secret")

	mockRepo.On("GetByEmail", "priya@example.com").Return(nil, errors.New("not found")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		user := args.Get(0).(*models.User)
		assert.NotEqual(t, "password123", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	}).Return(nil).Once()

	err := service.RegisterUser(&models.User{Name: "Priya S", Email: "priya@example.com", Password: "password123"})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUserRejectsDuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserStore)
	service := services.NewAuthService(mockRepo, "test-secret")

	mockRepo.On("GetByEmail", "priya@example.com").
		Return(&models.User{ID: "user-1", Email: "priya@example.com"}, nil).Once()

	err := service.RegisterUser(&models.User{Name: "Priya S", Email: "priya@example.com", Password: "password123"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_LoginAndValidateToken(t *testing.T) {
	mockRepo := new(MockUserStore)
	service := services.NewAuthService(mockRepo, "test-secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	mockRepo.On("GetByEmail", "priya@example.com").
		Return(&models.User{ID: "user-1", Name: "Priya S", Email: "priya@example.com", Password: string(hashed)}, nil)

	token, err := service.LoginUser("priya@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "Priya S", claims["name"])
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	mockRepo := new(MockUserStore)
	service := services.NewAuthService(mockRepo, "test-secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	mockRepo.On("GetByEmail", "priya@example.com").
		Return(&models.User{ID: "user-1", Email: "priya@example.com", Password: string(hashed)}, nil).Once()
	mockRepo.On("GetByEmail", "unknown@example.com").Return(nil, errors.New("not found")).Once()

	_, err = service.LoginUser("priya@example.com", "wrong-password")
	assert.EqualError(t, err, "invalid credentials")

	// Unknown email yields the same opaque error.
	_, err = service.LoginUser("unknown@example.com", "password123")
	assert.EqualError(t, err, "invalid credentials")
}

func TestAuthService_ValidateTokenRejectsWrongSecret(t *testing.T) {
	mockRepo := new(MockUserStore)
	service := services.NewAuthService(mockRepo, "test-secret")
	otherService := services.NewAuthService(mockRepo, "another-secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	mockRepo.On("GetByEmail", "priya@example.com").
		Return(&models.User{ID: "user-1", Email: "priya@example.com", Password: string(hashed)}, nil).Once()

	token, err := service.LoginUser("priya@example.com", "password123")
	assert.NoError(t, err)

	_, err = otherService.ValidateToken(token)
	assert.Error(t, err)
}
