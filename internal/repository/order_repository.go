package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
)

// OrderRepository отвечает за заказы.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository создаёт новый экземпляр.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create сохраняет заказ с зафиксированной суммой и исполнителем.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (gig_id, buyer_id, freelancer_id, amount, status, requirements)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		order.GigID,
		order.BuyerID,
		order.FreelancerID,
		order.Amount,
		order.Status,
		order.Requirements,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("order repository: create %w", err)
	}
	return nil
}

// GetByID возвращает заказ по идентификатору.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: get by id %w", err)
	}
	return &order, nil
}

// UpdateStatus меняет статус заказа и при необходимости дату завершения.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, deliveryDate *time.Time) (*models.Order, error) {
	query := `
		UPDATE orders
		SET status = $2,
		    delivery_date = COALESCE($3, delivery_date),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`
	var order models.Order
	if err := r.db.QueryRowxContext(ctx, query, id, status, deliveryDate).StructScan(&order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: update status %w", err)
	}
	return &order, nil
}

// Delete удаляет заказ. Используется для отмены ещё не оплаченного заказа покупателем.
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("order repository: delete %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("order repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrOrderNotFound
	}
	return nil
}

// ListByBuyer возвращает заказы покупателя, новые первыми.
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	query := `SELECT * FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query, buyerID); err != nil {
		return nil, fmt.Errorf("order repository: list by buyer %w", err)
	}
	return orders, nil
}

// ListByFreelancer возвращает заказы исполнителя, новые первыми.
func (r *OrderRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	query := `SELECT * FROM orders WHERE freelancer_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query, freelancerID); err != nil {
		return nil, fmt.Errorf("order repository: list by freelancer %w", err)
	}
	return orders, nil
}

// HasCompletedOrder проверяет, покупал ли пользователь услугу и завершён ли заказ.
func (r *OrderRepository) HasCompletedOrder(ctx context.Context, gigID, buyerID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM orders WHERE gig_id = $1 AND buyer_id = $2 AND status = $3`
	if err := r.db.GetContext(ctx, &count, query, gigID, buyerID, models.OrderStatusCompleted); err != nil {
		return false, fmt.Errorf("order repository: has completed order %w", err)
	}
	return count > 0, nil
}

// GetUserOrderStats возвращает счётчики заказов пользователя по статусам.
func (r *OrderRepository) GetUserOrderStats(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	query := `
		SELECT
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE status = 'pending') as pending,
			COUNT(*) FILTER (WHERE status = 'in_progress') as in_progress,
			COUNT(*) FILTER (WHERE status = 'completed') as completed,
			COUNT(*) FILTER (WHERE status = 'cancelled') as cancelled
		FROM orders
		WHERE buyer_id = $1 OR freelancer_id = $1
	`

	var result struct {
		Total      int `db:"total"`
		Pending    int `db:"pending"`
		InProgress int `db:"in_progress"`
		Completed  int `db:"completed"`
		Cancelled  int `db:"cancelled"`
	}

	if err := r.db.GetContext(ctx, &result, query, userID); err != nil {
		return nil, fmt.Errorf("order repository: get user order stats %w", err)
	}

	return map[string]int{
		"total":       result.Total,
		"pending":     result.Pending,
		"in_progress": result.InProgress,
		"completed":   result.Completed,
		"cancelled":   result.Cancelled,
	}, nil
}
