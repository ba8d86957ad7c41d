package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Car.IsRented is true exactly when RentedBy is set; the car repository
// changes both in the same statement.
type Car struct {
	bun.BaseModel `bun:"table:cars,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Brand     string    `bun:"brand,notnull" json:"brand"`
	Model     string    `bun:"model,notnull" json:"model"`
	Slug      string    `bun:"slug,notnull" json:"slug"`
	IsRented  bool      `bun:"is_rented,notnull" json:"is_rented"`
	RentedBy  *int64    `bun:"rented_by" json:"rented_by,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}
