package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lucid-digital/invoicefacil/internal/lib/jwt"
	"github.com/lucid-digital/invoicefacil/internal/lib/password"
	"github.com/lucid-digital/invoicefacil/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	users := new(UsersMock)
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		// Пароль хэшируется до сохранения
		return u.Email == "user@example.com" &&
			u.PasswordHash != "" &&
			u.PasswordHash != "strongpassword" &&
			password.CompareHash(u.PasswordHash, "strongpassword") == nil
	})).Return("uid-1", nil).Once()

	svc := NewAuthService(users, newMaker())

	uid, err := svc.Register(context.Background(), models.DummyRegister{
		Email:     "user@example.com",
		Password:  "strongpassword",
		FirstName: "Ana",
		LastName:  "Silva",
	})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)

	users.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("strongpassword")
	require.NoError(t, err)

	stored := &models.User{
		UID:          "uid-1",
		Email:        "user@example.com",
		PasswordHash: hash,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(u *UsersMock)
		wantErr    error
	}{
		{
			name:     "успешный вход",
			email:    "user@example.com",
			password: "strongpassword",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByEmail", mock.Anything, "user@example.com").
					Return(stored, nil).Once()
			},
		},
		{
			name:     "неизвестная почта",
			email:    "unknown@example.com",
			password: "strongpassword",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByEmail", mock.Anything, "unknown@example.com").
					Return(nil, errors.New("not found")).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "неверный пароль",
			email:    "user@example.com",
			password: "wrongpassword",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByEmail", mock.Anything, "user@example.com").
					Return(stored, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tt.setupMocks(users)

			svc := NewAuthService(users, newMaker())

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, "uid-1", user.UID)
			}

			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	svc := NewAuthService(new(UsersMock), maker)

	token, err := maker.GenerateToken("user@example.com", "uid-1")
	require.NoError(t, err)

	user, ok, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "uid-1", user.UID)
	assert.Equal(t, "user@example.com", user.Email)

	_, _, err = svc.ValidateToken(context.Background(), "garbage")
	assert.Error(t, err)
}
