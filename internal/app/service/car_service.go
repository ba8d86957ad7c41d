package service

import (
	"car_rental/internal/common"
	"car_rental/internal/domain/model"
	"car_rental/internal/domain/repository"
	"car_rental/internal/platform/logger"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

type CarService struct {
	carRepo repository.CarRepository
}

func NewCarService(carRepo repository.CarRepository) *CarService {
	return &CarService{carRepo: carRepo}
}

type CarRequest struct {
	Brand string `form:"brand" validate:"required,max=64"`
	Model string `form:"model" validate:"required,max=64"`
}

func (r *CarRequest) normalize() {
	r.Brand = strings.TrimSpace(r.Brand)
	r.Model = strings.TrimSpace(r.Model)
}

func (s *CarService) ListAll(ctx context.Context) ([]model.Car, error) {
	return s.carRepo.ListAll(ctx)
}

func (s *CarService) ListAvailable(ctx context.Context) ([]model.Car, error) {
	return s.carRepo.ListAvailable(ctx)
}

func (s *CarService) ListRentedBy(ctx context.Context, userID int64) ([]model.Car, error) {
	return s.carRepo.ListRentedBy(ctx, userID)
}

func (s *CarService) Create(ctx context.Context, req CarRequest) (*model.Car, error) {
	req.normalize()
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	car := &model.Car{
		Brand:     req.Brand,
		Model:     req.Model,
		Slug:      slug.Make(req.Brand + " " + req.Model),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.carRepo.Create(ctx, car); err != nil {
		return nil, fmt.Errorf("failed to create car: %w", err)
	}
	logger.L.Info("car created", "car_id", car.ID, "slug", car.Slug)
	return car, nil
}

// Edit changes brand and model; rental state is left untouched.
func (s *CarService) Edit(ctx context.Context, carID int64, req CarRequest) (*model.Car, error) {
	req.normalize()
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	car, err := s.carRepo.FindByID(ctx, nil, carID)
	if err != nil {
		return nil, err
	}
	car.Brand = req.Brand
	car.Model = req.Model
	car.Slug = slug.Make(req.Brand + " " + req.Model)
	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, fmt.Errorf("failed to update car %d: %w", carID, err)
	}
	logger.L.Info("car updated", "car_id", car.ID, "slug", car.Slug)
	return car, nil
}

func (s *CarService) Delete(ctx context.Context, carID int64) error {
	if err := s.carRepo.Delete(ctx, carID); err != nil {
		return err
	}
	logger.L.Info("car deleted", "car_id", carID)
	return nil
}
