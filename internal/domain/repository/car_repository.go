package repository

import (
	"car_rental/internal/common"
	"car_rental/internal/domain/model"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// CarRepository methods that take a bun.IDB run inside the caller's
// transaction when one is given and against the pool otherwise.
type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	Update(ctx context.Context, car *model.Car) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, tx bun.IDB, id int64) (*model.Car, error)
	ListAll(ctx context.Context) ([]model.Car, error)
	ListAvailable(ctx context.Context) ([]model.Car, error)
	ListRentedBy(ctx context.Context, userID int64) ([]model.Car, error)

	// MarkRented flips an available car to rented by userID. It reports
	// false when the car is missing or already rented.
	MarkRented(ctx context.Context, tx bun.IDB, carID, userID int64) (bool, error)
	// MarkReturned releases a car only when it is rented by userID.
	MarkReturned(ctx context.Context, tx bun.IDB, carID, userID int64) (bool, error)
}

type bunCarRepository struct {
	db *bun.DB
}

func NewCarRepository(db *bun.DB) CarRepository {
	return &bunCarRepository{db: db}
}

func (r *bunCarRepository) conn(tx bun.IDB) bun.IDB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *bunCarRepository) Create(ctx context.Context, car *model.Car) error {
	if _, err := r.db.NewInsert().Model(car).Exec(ctx); err != nil {
		return fmt.Errorf("carRepository.Create: %w", err)
	}
	return nil
}

func (r *bunCarRepository) Update(ctx context.Context, car *model.Car) error {
	_, err := r.db.NewUpdate().
		Model(car).
		Column("brand", "model", "slug").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("carRepository.Update: %w", err)
	}
	return nil
}

func (r *bunCarRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*model.Car)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("carRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("carRepository.Delete: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *bunCarRepository) FindByID(ctx context.Context, tx bun.IDB, id int64) (*model.Car, error) {
	car := &model.Car{}
	err := r.conn(tx).NewSelect().Model(car).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("carRepository.FindByID: %w", err)
	}
	return car, nil
}

func (r *bunCarRepository) ListAll(ctx context.Context) ([]model.Car, error) {
	var cars []model.Car
	if err := r.db.NewSelect().Model(&cars).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("carRepository.ListAll: %w", err)
	}
	return cars, nil
}

func (r *bunCarRepository) ListAvailable(ctx context.Context) ([]model.Car, error) {
	var cars []model.Car
	err := r.db.NewSelect().Model(&cars).
		Where("is_rented = ?", false).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("carRepository.ListAvailable: %w", err)
	}
	return cars, nil
}

func (r *bunCarRepository) ListRentedBy(ctx context.Context, userID int64) ([]model.Car, error) {
	var cars []model.Car
	err := r.db.NewSelect().Model(&cars).
		Where("rented_by = ?", userID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("carRepository.ListRentedBy: %w", err)
	}
	return cars, nil
}

func (r *bunCarRepository) MarkRented(ctx context.Context, tx bun.IDB, carID, userID int64) (bool, error) {
	res, err := r.conn(tx).NewUpdate().
		Model((*model.Car)(nil)).
		Set("is_rented = ?", true).
		Set("rented_by = ?", userID).
		Where("id = ?", carID).
		Where("is_rented = ?", false).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("carRepository.MarkRented: %w", err)
	}
	return affectedOne(res)
}

func (r *bunCarRepository) MarkReturned(ctx context.Context, tx bun.IDB, carID, userID int64) (bool, error) {
	res, err := r.conn(tx).NewUpdate().
		Model((*model.Car)(nil)).
		Set("is_rented = ?", false).
		Set("rented_by = NULL").
		Where("id = ?", carID).
		Where("rented_by = ?", userID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("carRepository.MarkReturned: %w", err)
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
