package models

import (
	"fmt"
	"time"
)

// Product is a single listing owned by one user.
// Price is stored in cents to keep arithmetic exact.
type Product struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"price_cents"`
	Description string    `json:"description,omitempty"`
	ImageRef    string    `json:"image_ref,omitempty"` // stored filename under the upload dir
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Price renders the cents amount as a decimal string, e.g. "19.99".
func (p Product) Price() string {
	c := p.PriceCents
	if c < 0 {
		return fmt.Sprintf("-%d.%02d", -c/100, (-c)%100)
	}
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}
