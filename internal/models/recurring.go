package models

import "time"

// Частоты генерации повторяющихся счетов.
const (
	FrequencyWeekly    = "weekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

// Статусы шаблона повторяющегося счёта.
const (
	RecurringStatusActive    = "active"
	RecurringStatusPaused    = "paused"
	RecurringStatusCompleted = "completed"
)

// RecurringInvoice представляет шаблон повторяющегося счёта —
// сохранённое платёжное расписание, периодически порождающее
// конкретные счета. Поле EndDate может быть nil, это означает
// бессрочное расписание.
type RecurringInvoice struct {
	ID                  string              // Уникальный идентификатор шаблона
	UserUID             string              // Владелец шаблона
	ClientID            *string             // Клиент (опционально, мягкая связь)
	InvoiceNumberPrefix string              // Префикс номеров генерируемых счетов
	ClientName          string              // Денормализованное имя клиента
	ClientEmail         string              // Денормализованная почта клиента
	Frequency           string              // weekly | monthly | quarterly | yearly
	StartDate           time.Time           // Дата начала расписания
	EndDate             *time.Time          // Дата окончания (опционально)
	NextDate            time.Time           // Дата следующей генерации
	Status              string              // active | paused | completed
	Notes               string              // Произвольные заметки
	Total               float64             // Сумма по позициям
	CreatedAt           time.Time           // Дата создания записи
	LineItems           []RecurringLineItem // Позиции шаблона
}

// RecurringLineItem представляет одну позицию шаблона.
type RecurringLineItem struct {
	ID                 string  // Уникальный идентификатор позиции
	RecurringInvoiceID string  // Шаблон, к которому относится позиция
	Description        string  // Описание работ или услуг
	Quantity           float64 // Количество
	Rate               float64 // Ставка за единицу
	Amount             float64 // Quantity * Rate
}

// DummyRecurringInvoice используется для приёма данных шаблона из JSON-запроса.
type DummyRecurringInvoice struct {
	ClientID            string          `json:"client_id"`
	InvoiceNumberPrefix string          `json:"invoice_number_prefix" validate:"required"`
	ClientName          string          `json:"client_name" validate:"required"`
	ClientEmail         string          `json:"client_email" validate:"required,email"`
	Frequency           string          `json:"frequency" validate:"required,oneof=weekly monthly quarterly yearly"`
	StartDate           string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate             string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	NextDate            string          `json:"next_date" validate:"omitempty,datetime=2006-01-02"`
	Status              string          `json:"status" validate:"omitempty,oneof=active paused completed"`
	Notes               string          `json:"notes"`
	LineItems           []DummyLineItem `json:"line_items" validate:"required,min=1,dive"`
}

// GenerationResult описывает итог обработки одного шаблона пакетным запуском.
type GenerationResult struct {
	ID        string `json:"id"`
	Status    string `json:"status"` // success | error
	Error     string `json:"error,omitempty"`
	InvoiceID string `json:"invoiceId,omitempty"`
	NextDate  string `json:"nextDate,omitempty"`
}

// GenerationReport агрегирует итоги пакетного запуска генерации счетов.
type GenerationReport struct {
	Processed  int                `json:"processed"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Results    []GenerationResult `json:"results"`
}
