package paymentprovider

// Запрос на создание сессии оплаты счёта
type CreateCheckoutSessionRequest struct {
	ClientReferenceID string `json:"client_reference_id"` // ID счёта в нашей системе
	CustomerEmail     string `json:"customer_email"`
	Currency          string `json:"currency"`
	AmountTotal       int64  `json:"amount_total"` // сумма в минорных единицах
	Description       string `json:"description"`
	SuccessURL        string `json:"success_url"`
	CancelURL         string `json:"cancel_url"`
}

// Ответ провайдера при создании или чтении сессии оплаты
type CheckoutSession struct {
	ID                string `json:"id"`
	URL               string `json:"url"` // адрес платёжной страницы
	ClientReferenceID string `json:"client_reference_id"`
	PaymentStatus     string `json:"payment_status"` // paid | unpaid
	AmountTotal       int64  `json:"amount_total"`
	Currency          string `json:"currency"`
}
