package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/airbook-dev/airbook/internal/domain"
	"github.com/airbook-dev/airbook/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, q repository.Querier, u *domain.User) error {
	args := m.Called(ctx, q, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, q repository.Querier, email string) (*domain.User, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, q repository.Querier, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newService() (*AuthService, *MockUserRepository) {
	users := &MockUserRepository{}
	service := &AuthService{
		users:     users,
		jwtSecret: []byte("test-secret"),
		accessTTL: time.Hour,
	}
	return service, users
}

func TestAuthService_Register_Success(t *testing.T) {
	service, users := newService()
	ctx := context.Background()

	users.On("Create", ctx, mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "test@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret-password")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*domain.User).ID = 7
	}).Return(nil).Once()

	user, err := service.Register(ctx, RegisterInput{
		Email:     "  Test@Example.com ",
		Password:  "secret-password",
		FirstName: "Ivan",
		LastName:  "Petrov",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "test@example.com", user.Email)

	users.AssertExpectations(t)
}

func TestAuthService_Register_ValidationErrors(t *testing.T) {
	service, users := newService()
	ctx := context.Background()

	testCases := []struct {
		name  string
		input RegisterInput
	}{
		{name: "empty email", input: RegisterInput{Password: "secret-password"}},
		{name: "malformed email", input: RegisterInput{Email: "not-an-email", Password: "secret-password"}},
		{name: "short password", input: RegisterInput{Email: "test@example.com", Password: "short"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := service.Register(ctx, tc.input)
			assert.Error(t, err)
			assert.Nil(t, user)
			assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
		})
	}

	users.AssertNotCalled(t, "Create")
}

func TestAuthService_Login_Success(t *testing.T) {
	service, users := newService()
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	users.On("GetByEmail", ctx, mock.Anything, "test@example.com").
		Return(&domain.User{ID: 7, Email: "test@example.com", PasswordHash: string(hash)}, nil).Once()

	token, user, err := service.Login(ctx, LoginInput{Email: "Test@Example.com", Password: "secret-password"})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)

	sub, err := parsed.Claims.GetSubject()
	assert.NoError(t, err)
	assert.Equal(t, "7", sub)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, users := newService()
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	users.On("GetByEmail", ctx, mock.Anything, "test@example.com").
		Return(&domain.User{ID: 7, Email: "test@example.com", PasswordHash: string(hash)}, nil).Once()

	token, user, err := service.Login(ctx, LoginInput{Email: "test@example.com", Password: "wrong"})

	assert.Error(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	service, users := newService()
	ctx := context.Background()

	users.On("GetByEmail", ctx, mock.Anything, "ghost@example.com").
		Return(nil, domain.NotFound("user not found")).Once()

	_, _, err := service.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever"})

	// неизвестный email неотличим от неверного пароля
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}
