package models

import (
	"time"

	"github.com/google/uuid"
)

// Review описывает отзыв покупателя о гиге после завершения заказа.
// Для пары (гиг, автор) допускается не более одного отзыва.
type Review struct {
	ID           uuid.UUID `db:"id" json:"id"`
	GigID        uuid.UUID `db:"gig_id" json:"gig_id"`
	ReviewerID   uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	FreelancerID uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	Rating       int       `db:"rating" json:"rating"`
	Comment      string    `db:"comment" json:"comment"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
