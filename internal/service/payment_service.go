package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skillbazar/backend/internal/domain/valueobject"
	"github.com/skillbazar/backend/internal/logger"
	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
)

// PaymentRepository описывает зависимости PaymentService от слоя хранилища.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByOrderAndPidx(ctx context.Context, orderID, pidx uuid.UUID) (*models.Payment, error)
	GetLatestByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	ConfirmCompleted(ctx context.Context, paymentID, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// OrderRepoForPayment описывает операции над заказами при оплате.
type OrderRepoForPayment interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// PaymentConfig несёт внешние реквизиты провайдеров.
type PaymentConfig struct {
	KhaltiPublicKey string
	EsewaMerchantID string
	BaseURL         string
}

// PaymentService инкапсулирует инициацию и подтверждение оплаты.
// Вызовы провайдеров симулируются: наружу отдаются корректные payload,
// а подтверждение проверяется по выданному токену pidx.
type PaymentService struct {
	repo   PaymentRepository
	orders OrderRepoForPayment
	gigs   GigReaderForOrder
	users  UserReader
	cfg    PaymentConfig
}

// NewPaymentService создаёт платёжный сервис.
func NewPaymentService(repo PaymentRepository, orders OrderRepoForPayment, gigs GigReaderForOrder, users UserReader, cfg PaymentConfig) *PaymentService {
	return &PaymentService{repo: repo, orders: orders, gigs: gigs, users: users, cfg: cfg}
}

// KhaltiCustomerInfo содержит данные плательщика для Khalti.
type KhaltiCustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// KhaltiPayload повторяет формат запроса инициации Khalti ePayment.
type KhaltiPayload struct {
	PublicKey       string             `json:"public_key"`
	Amount          int64              `json:"amount"`
	ProductIdentity string             `json:"product_identity"`
	ProductName     string             `json:"product_name"`
	CustomerInfo    KhaltiCustomerInfo `json:"customer_info"`
	SuccessURL      string             `json:"success_url"`
	FailureURL      string             `json:"failure_url"`
}

// EsewaPayload повторяет формат формы eSewa ePay.
type EsewaPayload struct {
	Amt   float64 `json:"amt"`
	Pdc   float64 `json:"pdc"`
	Psc   float64 `json:"psc"`
	TxAmt float64 `json:"txAmt"`
	TAmt  float64 `json:"tAmt"`
	Pid   string  `json:"pid"`
	Scd   string  `json:"scd"`
	Su    string  `json:"su"`
	Fu    string  `json:"fu"`
}

// InitiationResult возвращается покупателю после инициации оплаты.
type InitiationResult struct {
	Pidx       uuid.UUID                     `json:"pidx"`
	PaymentURL string                        `json:"payment_url"`
	ExpiresAt  time.Time                     `json:"expires_at"`
	Breakdown  valueobject.PaymentBreakdown  `json:"payment_breakdown"`
	Khalti     *KhaltiPayload                `json:"khalti,omitempty"`
	Esewa      *EsewaPayload                 `json:"esewa,omitempty"`
}

// Окно действия симулированного платежа.
const paymentTTL = 30 * time.Minute

// InitiateKhalti готовит Khalti payload и выдаёт токен подтверждения.
func (s *PaymentService) InitiateKhalti(ctx context.Context, orderID, buyerID uuid.UUID) (*InitiationResult, error) {
	order, breakdown, err := s.pendingOrderForBuyer(ctx, orderID, buyerID)
	if err != nil {
		return nil, err
	}

	buyer, err := s.users.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	gig, err := s.gigs.GetGigByID(ctx, order.GigID)
	if err != nil {
		return nil, err
	}

	phone := "9800000000"
	if buyer.PhoneNumber != nil && *buyer.PhoneNumber != "" {
		phone = *buyer.PhoneNumber
	}

	payload := &KhaltiPayload{
		PublicKey:       s.cfg.KhaltiPublicKey,
		Amount:          breakdown.MinorUnits(),
		ProductIdentity: fmt.Sprintf("order_%s", order.ID),
		ProductName:     gig.Title,
		CustomerInfo: KhaltiCustomerInfo{
			Name:  buyer.FullName(),
			Email: buyer.Email,
			Phone: phone,
		},
		SuccessURL: fmt.Sprintf("%s/orders/%s/payment-success", s.cfg.BaseURL, order.ID),
		FailureURL: fmt.Sprintf("%s/orders/%s/payment-failure", s.cfg.BaseURL, order.ID),
	}

	result, err := s.storeInitiation(ctx, order, models.PaymentProviderKhalti, breakdown)
	if err != nil {
		return nil, err
	}

	result.PaymentURL = fmt.Sprintf("https://a.khalti.com/api/v2/epayment/initiate/?pidx=%s", payload.ProductIdentity)
	result.Khalti = payload
	return result, nil
}

// InitiateEsewa готовит eSewa payload и выдаёт токен подтверждения.
func (s *PaymentService) InitiateEsewa(ctx context.Context, orderID, buyerID uuid.UUID) (*InitiationResult, error) {
	order, breakdown, err := s.pendingOrderForBuyer(ctx, orderID, buyerID)
	if err != nil {
		return nil, err
	}

	payload := &EsewaPayload{
		Amt:   breakdown.Total,
		Pdc:   0,
		Psc:   0,
		TxAmt: 0,
		TAmt:  breakdown.Total,
		Pid:   fmt.Sprintf("order_%s", order.ID),
		Scd:   s.cfg.EsewaMerchantID,
		Su:    fmt.Sprintf("%s/orders/%s/payment-success", s.cfg.BaseURL, order.ID),
		Fu:    fmt.Sprintf("%s/orders/%s/payment-failure", s.cfg.BaseURL, order.ID),
	}

	result, err := s.storeInitiation(ctx, order, models.PaymentProviderEsewa, breakdown)
	if err != nil {
		return nil, err
	}

	result.PaymentURL = fmt.Sprintf("https://esewa.com.np/epay/main?pid=%s&amt=%.2f&tAmt=%.2f", payload.Pid, payload.Amt, payload.TAmt)
	result.Esewa = payload
	return result, nil
}

// ConfirmSuccess подтверждает оплату: покупатель предъявляет pidx,
// выданный при инициации. Заказ переходит в работу.
func (s *PaymentService) ConfirmSuccess(ctx context.Context, orderID, buyerID, pidx uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, apperror.ErrForbidden
	}

	payment, err := s.repo.GetByOrderAndPidx(ctx, orderID, pidx)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentStatusInitiated {
		return nil, apperror.New(apperror.ErrCodeConflict, "платёж уже обработан")
	}

	current, err := valueobject.NewOrderStatus(order.Status)
	if err != nil {
		return nil, err
	}
	if _, err := current.TransitionTo(valueobject.OrderStatusInProgress); err != nil {
		return nil, err
	}

	// Платёж и заказ меняют статус в одной транзакции
	updated, err := s.repo.ConfirmCompleted(ctx, payment.ID, orderID)
	if err != nil {
		return nil, err
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"order_id": orderID,
			"provider": payment.Provider,
			"amount":   payment.Amount,
		}).Info("Оплата подтверждена")
	}

	return updated, nil
}

// ConfirmFailure фиксирует неудачную оплату, заказ остаётся неоплаченным.
func (s *PaymentService) ConfirmFailure(ctx context.Context, orderID, buyerID, pidx uuid.UUID) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.BuyerID != buyerID {
		return apperror.ErrForbidden
	}

	payment, err := s.repo.GetByOrderAndPidx(ctx, orderID, pidx)
	if err != nil {
		return err
	}
	if payment.Status != models.PaymentStatusInitiated {
		return apperror.New(apperror.ErrCodeConflict, "платёж уже обработан")
	}

	return s.repo.UpdateStatus(ctx, payment.ID, models.PaymentStatusFailed)
}

// LatestPayment возвращает участнику заказа последнюю попытку оплаты.
func (s *PaymentService) LatestPayment(ctx context.Context, orderID, userID uuid.UUID) (*models.Payment, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID && order.FreelancerID != userID {
		return nil, apperror.ErrForbidden
	}
	return s.repo.GetLatestByOrder(ctx, orderID)
}

// pendingOrderForBuyer проверяет права и статус заказа перед оплатой.
func (s *PaymentService) pendingOrderForBuyer(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, valueobject.PaymentBreakdown, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, valueobject.PaymentBreakdown{}, err
	}

	if order.BuyerID != buyerID {
		return nil, valueobject.PaymentBreakdown{}, apperror.ErrForbidden
	}

	if order.Status != models.OrderStatusPending {
		return nil, valueobject.PaymentBreakdown{}, apperror.New(apperror.ErrCodeConflict, "заказ уже оплачен или закрыт")
	}

	breakdown, err := valueobject.NewPaymentBreakdown(order.Amount)
	if err != nil {
		return nil, valueobject.PaymentBreakdown{}, err
	}

	return order, breakdown, nil
}

// storeInitiation сохраняет платёж со свежим pidx.
func (s *PaymentService) storeInitiation(ctx context.Context, order *models.Order, provider string, breakdown valueobject.PaymentBreakdown) (*InitiationResult, error) {
	payment := &models.Payment{
		OrderID:  order.ID,
		Provider: provider,
		Pidx:     uuid.New(),
		Amount:   breakdown.Total,
		Status:   models.PaymentStatusInitiated,
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &InitiationResult{
		Pidx:      payment.Pidx,
		ExpiresAt: time.Now().Add(paymentTTL),
		Breakdown: breakdown,
	}, nil
}
