package model

import (
	"time"

	"github.com/uptrace/bun"
)

type Rental struct {
	bun.BaseModel `bun:"table:rentals,alias:r"`

	ID         int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID     int64      `bun:"user_id,notnull" json:"user_id"`
	CarID      int64      `bun:"car_id,notnull" json:"car_id"`
	RentalDate time.Time  `bun:"rental_date,notnull" json:"rental_date"`
	ReturnDate *time.Time `bun:"return_date" json:"return_date,omitempty"`

	Car *Car `bun:"rel:belongs-to,join:car_id=id" json:"car,omitempty"`
}

// IsOpen reports whether the car of this rental is still out.
func (r *Rental) IsOpen() bool {
	return r.ReturnDate == nil
}
