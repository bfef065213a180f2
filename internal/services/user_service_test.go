package services

import (
	"context"
	"testing"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(repo *mocks.MockUserRepository) *UserService {
	svc := NewUserService(repo)
	svc.cost = bcrypt.MinCost
	return svc
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestUserService_Register(t *testing.T) {
	valid := RegisterInput{Username: "amine", Email: "Amine@Example.com", Password: "secret1"}

	tests := []struct {
		name          string
		input         RegisterInput
		setupMocks    func(*mocks.MockUserRepository)
		expectedError error
	}{
		{
			name:  "creates a customer",
			input: valid,
			setupMocks: func(r *mocks.MockUserRepository) {
				r.On("FindByUsername", mock.Anything, "amine").Return(nil, nil)
				r.On("FindByEmail", mock.Anything, "amine@example.com").Return(nil, nil)
				r.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
					return !u.IsAdmin && u.PasswordHash != "secret1" &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
				})).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.User).ID = 3
				})
			},
		},
		{
			name:  "username taken",
			input: valid,
			setupMocks: func(r *mocks.MockUserRepository) {
				r.On("FindByUsername", mock.Anything, "amine").Return(&domain.User{ID: 1}, nil)
			},
			expectedError: domain.ErrConflict,
		},
		{
			name:  "email taken",
			input: valid,
			setupMocks: func(r *mocks.MockUserRepository) {
				r.On("FindByUsername", mock.Anything, "amine").Return(nil, nil)
				r.On("FindByEmail", mock.Anything, "amine@example.com").Return(&domain.User{ID: 1}, nil)
			},
			expectedError: domain.ErrConflict,
		},
		{
			name:          "bad email",
			input:         RegisterInput{Username: "amine", Email: "nope", Password: "secret1"},
			setupMocks:    func(r *mocks.MockUserRepository) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "short password",
			input:         RegisterInput{Username: "amine", Email: "a@example.com", Password: "123"},
			setupMocks:    func(r *mocks.MockUserRepository) {},
			expectedError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockUserRepository)
			tt.setupMocks(repo)

			user, err := newTestUserService(repo).Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint64(3), user.ID)
				assert.Equal(t, "amine@example.com", user.Email)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	repo.On("FindByUsername", mock.Anything, "admin").Return(&domain.User{ID: 1, Username: "admin", IsAdmin: true, PasswordHash: hashed(t, "admin123")}, nil)
	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, nil)

	svc := newTestUserService(repo)

	user, err := svc.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: 1, IsAdmin: true}, user.Identity())

	_, err = svc.Authenticate(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	repo.On("FindByID", mock.Anything, uint64(1)).Return(&domain.User{ID: 1, Email: "old@example.com"}, nil)
	repo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := newTestUserService(repo).UpdateProfile(context.Background(), customer, ProfilePatch{
		Email: ptr("New@Example.com"),
		City:  ptr(" Sfax "),
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "Sfax", user.City)
	repo.AssertExpectations(t)
}

func TestUserService_ChangePassword(t *testing.T) {
	newRepo := func() *mocks.MockUserRepository {
		repo := new(mocks.MockUserRepository)
		repo.On("FindByID", mock.Anything, uint64(1)).Return(&domain.User{ID: 1, PasswordHash: hashed(t, "user123")}, nil)
		return repo
	}

	t.Run("wrong current password", func(t *testing.T) {
		repo := newRepo()
		err := newTestUserService(repo).ChangePassword(context.Background(), customer, "nope", "newpass1")
		assert.ErrorIs(t, err, domain.ErrValidation)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("stores a new hash", func(t *testing.T) {
		repo := newRepo()
		repo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpass1")) == nil
		})).Return(nil)

		err := newTestUserService(repo).ChangePassword(context.Background(), customer, "user123", "newpass1")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
