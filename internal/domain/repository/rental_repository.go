package repository

import (
	"car_rental/internal/common"
	"car_rental/internal/domain/model"
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type RentalRepository interface {
	Create(ctx context.Context, tx bun.IDB, rental *model.Rental) error
	// CloseOpen stamps returnedAt on the open rental of carID held by userID.
	// It reports false when there is no such rental.
	CloseOpen(ctx context.Context, tx bun.IDB, carID, userID int64, returnedAt time.Time) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Rental, error)
}

type bunRentalRepository struct {
	db *bun.DB
}

func NewRentalRepository(db *bun.DB) RentalRepository {
	return &bunRentalRepository{db: db}
}

func (r *bunRentalRepository) conn(tx bun.IDB) bun.IDB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *bunRentalRepository) Create(ctx context.Context, tx bun.IDB, rental *model.Rental) error {
	if _, err := r.conn(tx).NewInsert().Model(rental).Exec(ctx); err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("car %d already has an open rental: %w", rental.CarID, common.ErrConflict)
		}
		return fmt.Errorf("rentalRepository.Create: %w", err)
	}
	return nil
}

func (r *bunRentalRepository) CloseOpen(ctx context.Context, tx bun.IDB, carID, userID int64, returnedAt time.Time) (bool, error) {
	res, err := r.conn(tx).NewUpdate().
		Model((*model.Rental)(nil)).
		Set("return_date = ?", returnedAt).
		Where("car_id = ?", carID).
		Where("user_id = ?", userID).
		Where("return_date IS NULL").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("rentalRepository.CloseOpen: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rentalRepository.CloseOpen: %w", err)
	}
	return n > 0, nil
}

func (r *bunRentalRepository) ListByUser(ctx context.Context, userID int64) ([]model.Rental, error) {
	var rentals []model.Rental
	err := r.db.NewSelect().Model(&rentals).
		Relation("Car").
		Where("r.user_id = ?", userID).
		OrderExpr("r.rental_date DESC, r.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rentalRepository.ListByUser: %w", err)
	}
	return rentals, nil
}
