package service

import (
	"car_rental/internal/common"
	"car_rental/internal/domain/model"
	"car_rental/internal/domain/repository"
	"car_rental/internal/platform/logger"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type RentalService struct {
	db         *bun.DB
	carRepo    repository.CarRepository
	rentalRepo repository.RentalRepository
	now        func() time.Time
}

func NewRentalService(db *bun.DB, carRepo repository.CarRepository, rentalRepo repository.RentalRepository) *RentalService {
	return &RentalService{
		db:         db,
		carRepo:    carRepo,
		rentalRepo: rentalRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Rent marks the car as rented by userID and opens a rental. A missing car
// yields ErrNotFound and a car that is already out yields ErrCarUnavailable;
// neither changes any row.
func (s *RentalService) Rent(ctx context.Context, carID, userID int64) (*model.Rental, error) {
	var rental *model.Rental
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ok, err := s.carRepo.MarkRented(ctx, tx, carID, userID)
		if err != nil {
			return err
		}
		if !ok {
			if _, err := s.carRepo.FindByID(ctx, tx, carID); err != nil {
				return err
			}
			return common.ErrCarUnavailable
		}

		rental = &model.Rental{UserID: userID, CarID: carID, RentalDate: s.now()}
		if err := s.rentalRepo.Create(ctx, tx, rental); err != nil {
			if errors.Is(err, common.ErrConflict) {
				return common.ErrCarUnavailable
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rent car %d: %w", carID, err)
	}
	logger.L.Info("car rented", "car_id", carID, "user_id", userID, "rental_id", rental.ID)
	return rental, nil
}

// Return releases a car held by userID and closes its open rental. Callers
// that do not hold the car get ErrNotRenter (or ErrNotFound for a missing
// car) and nothing changes.
func (s *RentalService) Return(ctx context.Context, carID, userID int64) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ok, err := s.carRepo.MarkReturned(ctx, tx, carID, userID)
		if err != nil {
			return err
		}
		if !ok {
			if _, err := s.carRepo.FindByID(ctx, tx, carID); err != nil {
				return err
			}
			return common.ErrNotRenter
		}

		closed, err := s.rentalRepo.CloseOpen(ctx, tx, carID, userID, s.now())
		if err != nil {
			return err
		}
		if !closed {
			logger.L.Warn("returned car had no open rental", "car_id", carID, "user_id", userID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("return car %d: %w", carID, err)
	}
	logger.L.Info("car returned", "car_id", carID, "user_id", userID)
	return nil
}

// History lists the rentals of userID, newest first, with their cars.
func (s *RentalService) History(ctx context.Context, userID int64) ([]model.Rental, error) {
	return s.rentalRepo.ListByUser(ctx, userID)
}
