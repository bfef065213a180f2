package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRunSeedsEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockStore()

	var users []*domain.User
	var created []*domain.Product
	nextID := uint64(0)

	store.UserRepo.On("Count", ctx).Return(int64(0), nil)
	store.On("WithinTransaction", ctx).Return(nil)
	store.UserRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { users = append(users, args.Get(1).(*domain.User)) }).
		Return(nil)
	store.CategoryRepo.On("Create", ctx, mock.AnythingOfType("*domain.Category")).
		Run(func(args mock.Arguments) {
			nextID++
			args.Get(1).(*domain.Category).ID = nextID
		}).
		Return(nil)
	store.ProductRepo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) { created = append(created, args.Get(1).(*domain.Product)) }).
		Return(nil)

	seeded, err := Run(ctx, store)

	require.NoError(t, err)
	assert.True(t, seeded)
	store.AssertAll(t)

	require.Len(t, users, 2)
	assert.True(t, users[0].IsAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("admin123")))
	assert.False(t, users[1].IsAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[1].PasswordHash), []byte("user123")))

	store.CategoryRepo.AssertNumberOfCalls(t, "Create", 4)
	require.Len(t, created, len(products))
	for _, p := range created {
		assert.NotZero(t, p.CategoryID, p.Slug)
		if p.OnPromo() {
			assert.True(t, p.DiscountPrice.Decimal.LessThan(p.Price), p.Slug)
		}
	}
}

func TestRunSkipsWhenUsersExist(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockStore()
	store.UserRepo.On("Count", ctx).Return(int64(3), nil)

	seeded, err := Run(ctx, store)

	require.NoError(t, err)
	assert.False(t, seeded)
	store.AssertNotCalled(t, "WithinTransaction", mock.Anything)
}

func TestRunPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockStore()
	store.UserRepo.On("Count", ctx).Return(int64(0), nil)
	store.On("WithinTransaction", ctx).Return(nil)
	store.UserRepo.On("Create", ctx, mock.Anything).Return(errors.New("duplicate"))

	seeded, err := Run(ctx, store)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create user admin")
	assert.False(t, seeded)
}
