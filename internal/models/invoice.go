package models

import "time"

// Статусы счета.
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// Invoice представляет выставленный счёт. Поле ClientID может быть nil —
// связь с клиентом мягкая и обнуляется при удалении клиента.
// RecurringInvoiceID указывает на шаблон, из которого счёт был сгенерирован.
type Invoice struct {
	ID                 string     // Уникальный идентификатор счёта
	UserUID            string     // Владелец счёта
	ClientID           *string    // Клиент (опционально, мягкая связь)
	RecurringInvoiceID *string    // Породивший шаблон (опционально)
	InvoiceNumber      string     // Человекочитаемый номер счёта
	ClientName         string     // Денормализованное имя клиента
	ClientEmail        string     // Денормализованная почта клиента
	IssueDate          time.Time  // Дата выставления
	DueDate            time.Time  // Срок оплаты
	Status             string     // draft | sent | paid | overdue
	Notes              string     // Произвольные заметки
	Total              float64    // Сумма по позициям
	CreatedAt          time.Time  // Дата создания записи
	LineItems          []LineItem // Позиции счёта
}

// LineItem представляет одну позицию счёта.
// Инвариант: Amount = Quantity * Rate на момент последней правки.
type LineItem struct {
	ID          string  // Уникальный идентификатор позиции
	InvoiceID   string  // Счёт, к которому относится позиция
	Description string  // Описание работ или услуг
	Quantity    float64 // Количество
	Rate        float64 // Ставка за единицу
	Amount      float64 // Quantity * Rate
}

// DummyLineItem используется для приёма позиции счёта из JSON-запроса.
// Нулевая ставка допустима: бесплатная позиция остаётся в счёте.
type DummyLineItem struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	Rate        float64 `json:"rate" validate:"gte=0"`
}

// DummyInvoice используется для приёма данных счёта из JSON-запроса.
// Даты приходят строками в формате 2006-01-02 и парсятся в сервисе.
type DummyInvoice struct {
	ClientID      string          `json:"client_id"`
	InvoiceNumber string          `json:"invoice_number" validate:"required"`
	ClientName    string          `json:"client_name" validate:"required"`
	ClientEmail   string          `json:"client_email" validate:"required,email"`
	IssueDate     string          `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate       string          `json:"due_date" validate:"required,datetime=2006-01-02"`
	Status        string          `json:"status" validate:"omitempty,oneof=draft sent paid overdue"`
	Notes         string          `json:"notes"`
	Total         float64         `json:"total"`
	LineItems     []DummyLineItem `json:"line_items" validate:"required,min=1,dive"`
}
