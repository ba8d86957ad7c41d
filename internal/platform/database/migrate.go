package database

import (
	"car_rental/internal/domain/model"
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Migrate creates the users, cars and rentals tables and their indexes when
// they do not exist yet. It is safe to run on every startup.
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*model.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*model.Car)(nil)).
		IfNotExists().
		ForeignKey("(rented_by) REFERENCES users (id) ON DELETE SET NULL").
		Exec(ctx); err != nil {
		return fmt.Errorf("create cars table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*model.Rental)(nil)).
		IfNotExists().
		ForeignKey("(user_id) REFERENCES users (id) ON DELETE CASCADE").
		ForeignKey("(car_id) REFERENCES cars (id) ON DELETE CASCADE").
		Exec(ctx); err != nil {
		return fmt.Errorf("create rentals table: %w", err)
	}

	// MySQL has neither partial indexes nor CREATE INDEX IF NOT EXISTS; there
	// the conditional update in the rental repository is the only guard.
	if db.Dialect().Name() == dialect.MySQL {
		return nil
	}

	if _, err := db.NewCreateIndex().
		Model((*model.Rental)(nil)).
		Index("rentals_open_car_idx").
		Unique().
		IfNotExists().
		Column("car_id").
		Where("return_date IS NULL").
		Exec(ctx); err != nil {
		return fmt.Errorf("create open rental index: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*model.Rental)(nil)).
		Index("rentals_user_idx").
		IfNotExists().
		Column("user_id").
		Exec(ctx); err != nil {
		return fmt.Errorf("create rental user index: %w", err)
	}
	return nil
}
