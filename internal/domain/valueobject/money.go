package valueobject

import (
	"math"

	"github.com/skillbazar/backend/internal/pkg/apperror"
)

// PlatformFeeRate — фиксированная комиссия платформы (5%).
const PlatformFeeRate = 0.05

// PaymentBreakdown раскладывает сумму заказа на комиссию и итог к оплате.
type PaymentBreakdown struct {
	Amount      float64 `json:"amount"`
	PlatformFee float64 `json:"platform_fee"`
	Total       float64 `json:"total"`
}

// NewPaymentBreakdown считает комиссию и итог. Чистая функция:
// используется и для отображения, и при сборке платёжных payload.
func NewPaymentBreakdown(amount float64) (PaymentBreakdown, error) {
	if amount <= 0 {
		return PaymentBreakdown{}, apperror.New(apperror.ErrCodeValidation, "сумма должна быть положительной")
	}
	fee := Round2(amount * PlatformFeeRate)
	return PaymentBreakdown{
		Amount:      Round2(amount),
		PlatformFee: fee,
		Total:       Round2(amount) + fee,
	}, nil
}

// MinorUnits переводит итог в минорные единицы валюты (пайсы).
func (b PaymentBreakdown) MinorUnits() int64 {
	return int64(math.Round(b.Total * 100))
}

// Round2 округляет до двух знаков после запятой.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
