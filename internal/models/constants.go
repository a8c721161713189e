package models

// OrderStatus константы статусов заказов
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// UserType константы типов пользователей
const (
	UserTypeFreelancer = "freelancer"
	UserTypeBuyer      = "buyer"
	UserTypeBoth       = "both"
)

// PaymentProvider константы платёжных провайдеров
const (
	PaymentProviderKhalti = "khalti"
	PaymentProviderEsewa  = "esewa"
)

// PaymentStatus константы статусов платежей
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// ValidOrderStatuses список валидных статусов заказов
var ValidOrderStatuses = map[string]struct{}{
	OrderStatusPending:    {},
	OrderStatusInProgress: {},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// ValidUserTypes список валидных типов пользователей
var ValidUserTypes = map[string]struct{}{
	UserTypeFreelancer: {},
	UserTypeBuyer:      {},
	UserTypeBoth:       {},
}

// ValidPaymentProviders список валидных провайдеров
var ValidPaymentProviders = map[string]struct{}{
	PaymentProviderKhalti: {},
	PaymentProviderEsewa:  {},
}

// CanSell сообщает, может ли пользователь с данным типом продавать услуги.
func CanSell(userType string) bool {
	return userType == UserTypeFreelancer || userType == UserTypeBoth
}

// CanBuy сообщает, может ли пользователь с данным типом покупать услуги.
func CanBuy(userType string) bool {
	return userType == UserTypeBuyer || userType == UserTypeBoth
}
