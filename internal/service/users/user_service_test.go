package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zvrva/staybook/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Ensure(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *mockUserRepo) UpdateRecentCities(ctx context.Context, id string, cities []string) error {
	args := m.Called(ctx, id, cities)
	return args.Error(0)
}

func TestAddRecentCity_KeepsLastThree(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("GetByID", mock.Anything, "u1").Return(&domain.User{
		ID:                   "u1",
		RecentSearchedCities: []string{"Paris", "Rome", "Berlin"},
	}, nil)
	repo.On("UpdateRecentCities", mock.Anything, "u1", []string{"Rome", "Berlin", "Madrid"}).Return(nil)

	service := NewUserService(repo)

	assert.NoError(t, service.AddRecentCity(context.Background(), "u1", "Madrid"))
	repo.AssertExpectations(t)
}

func TestAddRecentCity_EmptyCity(t *testing.T) {
	repo := new(mockUserRepo)
	service := NewUserService(repo)

	err := service.AddRecentCity(context.Background(), "u1", "")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateRole(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("UpdateRole", mock.Anything, "u1", domain.RoleHotelOwner).Return(nil)

	service := NewUserService(repo)

	role, err := service.UpdateRole(context.Background(), "u1", "hotelOwner")
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleHotelOwner, role)

	_, err = service.UpdateRole(context.Background(), "u1", "superadmin")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.EqualError(t, err, "Invalid role")
}
