package users

import (
	"context"

	"github.com/zvrva/staybook/internal/domain"
	"github.com/zvrva/staybook/internal/repository"
)

type UserUseCase interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	AddRecentCity(ctx context.Context, userID, city string) error
	UpdateRole(ctx context.Context, userID, role string) (domain.Role, error)
}

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) AddRecentCity(ctx context.Context, userID, city string) error {
	if city == "" {
		return domain.NewValidation("City name is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.PushRecentCity(city)
	return s.users.UpdateRecentCities(ctx, userID, user.RecentSearchedCities)
}

func (s *UserService) UpdateRole(ctx context.Context, userID, role string) (domain.Role, error) {
	parsed, ok := domain.ParseRole(role)
	if !ok {
		return "", domain.NewValidation("Invalid role")
	}
	if err := s.users.UpdateRole(ctx, userID, parsed); err != nil {
		return "", err
	}
	return parsed, nil
}

var _ UserUseCase = (*UserService)(nil)
