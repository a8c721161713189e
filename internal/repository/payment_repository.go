package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
)

// PaymentRepository отвечает за попытки оплаты заказов.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository создаёт новый экземпляр.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create сохраняет инициированный платёж с выданным токеном pidx.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (order_id, provider, pidx, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		payment.OrderID,
		payment.Provider,
		payment.Pidx,
		payment.Amount,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("payment repository: create %w", err)
	}
	return nil
}

// GetByOrderAndPidx возвращает платёж заказа по предъявленному токену.
func (r *PaymentRepository) GetByOrderAndPidx(ctx context.Context, orderID, pidx uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	query := `SELECT * FROM payments WHERE order_id = $1 AND pidx = $2`
	if err := r.db.GetContext(ctx, &payment, query, orderID, pidx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("payment repository: get by order and pidx %w", err)
	}
	return &payment, nil
}

// GetLatestByOrder возвращает последний платёж заказа.
func (r *PaymentRepository) GetLatestByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	query := `SELECT * FROM payments WHERE order_id = $1 ORDER BY created_at DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &payment, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("payment repository: get latest by order %w", err)
	}
	return &payment, nil
}

// ConfirmCompleted помечает платёж завершённым и переводит заказ в работу
// одной транзакцией, чтобы при сбое статусы не разошлись.
func (r *PaymentRepository) ConfirmCompleted(ctx context.Context, paymentID, orderID uuid.UUID) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("payment repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`,
		paymentID,
		models.PaymentStatusCompleted,
		models.PaymentStatusInitiated,
	)
	if err != nil {
		return nil, fmt.Errorf("payment repository: complete payment %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("payment repository: complete payment rows affected %w", err)
	}
	if affected == 0 {
		err = apperror.ErrPaymentNotFound
		return nil, err
	}

	var order models.Order
	orderQuery := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING *`
	if err = tx.GetContext(ctx, &order, orderQuery, orderID, models.OrderStatusInProgress); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = apperror.ErrOrderNotFound
			return nil, err
		}
		return nil, fmt.Errorf("payment repository: start order %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("payment repository: commit %w", err)
	}

	return &order, nil
}

// UpdateStatus меняет статус платежа.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("payment repository: update status %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("payment repository: update status rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrPaymentNotFound
	}
	return nil
}
