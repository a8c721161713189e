package models

import (
	"time"

	"github.com/google/uuid"
)

// Order описывает покупку услуги.
// Сумма и исполнитель фиксируются в момент создания: последующие изменения
// цены или владельца гига на заказ не влияют.
type Order struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	GigID        uuid.UUID  `db:"gig_id" json:"gig_id"`
	BuyerID      uuid.UUID  `db:"buyer_id" json:"buyer_id"`
	FreelancerID uuid.UUID  `db:"freelancer_id" json:"freelancer_id"`
	Amount       float64    `db:"amount" json:"amount"`
	Status       string     `db:"status" json:"status"`
	Requirements *string    `db:"requirements" json:"requirements,omitempty"`
	DeliveryDate *time.Time `db:"delivery_date" json:"delivery_date,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Payment фиксирует попытку оплаты заказа через внешнего провайдера.
// Pidx — транзакционный токен, выданный при инициации; success callback
// обязан предъявить его.
type Payment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OrderID   uuid.UUID `db:"order_id" json:"order_id"`
	Provider  string    `db:"provider" json:"provider"`
	Pidx      uuid.UUID `db:"pidx" json:"pidx"`
	Amount    float64   `db:"amount" json:"amount"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
