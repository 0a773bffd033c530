package discount

import "time"

const (
	EventDiscountCreated = "DiscountCreated"
	EventDiscountUpdated = "DiscountUpdated"
	EventDiscountDeleted = "DiscountDeleted"
)

type DiscountCreated struct {
	DiscountID string    `json:"discount_id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Target     string    `json:"target"`
	Value      int       `json:"value"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// DiscountUpdated never changes type or target
type DiscountUpdated struct {
	DiscountID string    `json:"discount_id"`
	Name       string    `json:"name"`
	Value      int       `json:"value"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type DiscountDeleted struct {
	DiscountID string    `json:"discount_id"`
	DeletedAt  time.Time `json:"deleted_at"`
}
