package models

// InvoiceEmailData содержит данные для письма о счёте: номер, получателя,
// сумму и ссылки на документ и оплату. Структура сериализуется в JSON
// при публикации задания на отправку в очередь уведомлений.
type InvoiceEmailData struct {
	InvoiceNumber string  `json:"invoice_number"`
	ClientName    string  `json:"client_name"`
	ClientEmail   string  `json:"client_email"`
	Amount        float64 `json:"amount"`
	DueDate       string  `json:"due_date"`
	PDFURL        string  `json:"pdf_url,omitempty"`
	PaymentLink   string  `json:"payment_link,omitempty"`
	Message       string  `json:"message,omitempty"` // Произвольное сообщение отправителя
}

// DummyReminder используется для приёма тела запроса на напоминание.
// Все поля необязательны, пустое тело допустимо.
type DummyReminder struct {
	Message string `json:"message"`
}
