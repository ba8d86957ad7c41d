package service

import (
	"car_rental/internal/domain/model"
	"car_rental/internal/domain/repository"
	"context"
	"fmt"
)

type UserService struct {
	userRepo   repository.UserRepository
	rentalRepo repository.RentalRepository
}

func NewUserService(userRepo repository.UserRepository, rentalRepo repository.RentalRepository) *UserService {
	return &UserService{userRepo: userRepo, rentalRepo: rentalRepo}
}

type UserDetail struct {
	User    *model.User
	Rentals []model.Rental
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, nil
}

// Get returns ErrNotFound when the user does not exist.
func (s *UserService) Get(ctx context.Context, userID int64) (*UserDetail, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	rentals, err := s.rentalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rentals of user %d: %w", userID, err)
	}
	return &UserDetail{User: user, Rentals: rentals}, nil
}
