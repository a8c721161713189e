package models

import (
	"time"

	"github.com/google/uuid"
)

// Category представляет категорию услуг.
type Category struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	Icon        *string   `db:"icon" json:"icon,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Gig описывает услугу фрилансера с фиксированной ценой и сроком.
type Gig struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FreelancerID uuid.UUID  `db:"freelancer_id" json:"freelancer_id"`
	CategoryID   uuid.UUID  `db:"category_id" json:"category_id"`
	Title        string     `db:"title" json:"title"`
	Slug         string     `db:"slug" json:"slug"`
	Description  string     `db:"description" json:"description"`
	Price        float64    `db:"price" json:"price"`
	DeliveryTime int        `db:"delivery_time" json:"delivery_time"`
	ImageID      *uuid.UUID `db:"image_id" json:"image_id,omitempty"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	Views        int        `db:"views" json:"views"`
	Rating       float64    `db:"rating" json:"rating"`
	TotalReviews int        `db:"total_reviews" json:"total_reviews"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
