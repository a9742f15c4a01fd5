// Package services содержит бизнес-логику повторяющихся счетов: управление
// шаблонами, генерацию счетов из шаблонов и продвижение расписаний.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lucid-digital/invoicefacil/internal/lib/invoicenum"
	"github.com/lucid-digital/invoicefacil/internal/lib/schedule"
	"github.com/lucid-digital/invoicefacil/internal/lib/sl"
	"github.com/lucid-digital/invoicefacil/internal/models"
)

// Срок оплаты сгенерированного счёта относительно даты генерации.
const generatedInvoiceDueDays = 30

// RecurringRepository определяет методы для работы с шаблонами в хранилище.
type RecurringRepository interface {
	// CreateRecurringInvoice добавляет шаблон с позициями и возвращает его ID.
	CreateRecurringInvoice(ctx context.Context, tpl models.RecurringInvoice, items []models.RecurringLineItem) (string, error)
	// ListRecurringInvoices возвращает шаблоны пользователя.
	ListRecurringInvoices(ctx context.Context, userUID string) ([]*models.RecurringInvoice, error)
	// ReadRecurringInvoice возвращает шаблон с позициями. Пустой userUID отключает проверку владельца.
	ReadRecurringInvoice(ctx context.Context, id, userUID string) (*models.RecurringInvoice, error)
	// UpdateRecurringInvoice обновляет шаблон и заменяет позиции.
	UpdateRecurringInvoice(ctx context.Context, tpl models.RecurringInvoice, items []models.RecurringLineItem, id, userUID string) (int, error)
	// RemoveRecurringInvoice удаляет шаблон.
	RemoveRecurringInvoice(ctx context.Context, id, userUID string) (int, error)
	// FindRecurringInvoicesDue возвращает активные шаблоны с датой генерации не позже дня.
	FindRecurringInvoicesDue(ctx context.Context, day time.Time) ([]*models.RecurringInvoice, error)
	// UpdateRecurringSchedule записывает новую дату генерации и статус шаблона.
	UpdateRecurringSchedule(ctx context.Context, id string, nextDate time.Time, status string) (int, error)
	// CreateInvoice добавляет сгенерированный счёт с позициями.
	CreateInvoice(ctx context.Context, inv models.Invoice, items []models.LineItem) (string, error)
	// ListInvoicesByRecurring возвращает счета, порождённые шаблоном.
	ListInvoicesByRecurring(ctx context.Context, recurringID, userUID string) ([]*models.Invoice, error)
}

// Notifier публикует уведомление о сгенерированном счёте.
// Сбой уведомления не считается сбоем генерации.
type Notifier interface {
	NotifyInvoiceGenerated(ctx context.Context, data models.InvoiceEmailData) error
}

// RecurringService реализует бизнес-логику повторяющихся счетов.
type RecurringService struct {
	repo     RecurringRepository
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// NewRecurringService создает новый экземпляр RecurringService.
// Параметр now позволяет тестам фиксировать текущий день; nil включает time.Now.
func NewRecurringService(repo RecurringRepository, notifier Notifier, log *slog.Logger, now func() time.Time) *RecurringService {
	if now == nil {
		now = time.Now
	}
	return &RecurringService{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      now,
	}
}

// buildRecurringItems пересчитывает суммы позиций шаблона.
func buildRecurringItems(items []models.DummyLineItem) ([]models.RecurringLineItem, float64) {
	var total float64
	result := make([]models.RecurringLineItem, 0, len(items))
	for _, item := range items {
		amount := item.Quantity * item.Rate
		result = append(result, models.RecurringLineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      amount,
		})
		total += amount
	}
	return result, total
}

// Create создает новый шаблон повторяющегося счёта и возвращает его ID.
// Если дата следующей генерации не задана, ей становится дата начала.
func (s *RecurringService) Create(ctx context.Context, userUID string, req models.DummyRecurringInvoice) (string, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return "", fmt.Errorf("invalid start date: %w", err)
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return "", fmt.Errorf("invalid end date: %w", err)
		}
		endDate = &parsed
	}
	nextDate := startDate
	if req.NextDate != "" {
		nextDate, err = time.Parse("2006-01-02", req.NextDate)
		if err != nil {
			return "", fmt.Errorf("invalid next date: %w", err)
		}
	}

	items, total := buildRecurringItems(req.LineItems)
	status := req.Status
	if status == "" {
		status = models.RecurringStatusActive
	}
	var clientID *string
	if req.ClientID != "" {
		clientID = &req.ClientID
	}
	tpl := models.RecurringInvoice{
		UserUID:             userUID,
		ClientID:            clientID,
		InvoiceNumberPrefix: req.InvoiceNumberPrefix,
		ClientName:          req.ClientName,
		ClientEmail:         req.ClientEmail,
		Frequency:           req.Frequency,
		StartDate:           startDate,
		EndDate:             endDate,
		NextDate:            nextDate,
		Status:              status,
		Notes:               req.Notes,
		Total:               total,
	}

	id, err := s.repo.CreateRecurringInvoice(ctx, tpl, items)
	if err != nil {
		return "", err
	}
	s.log.Info("created recurring invoice", slog.String("id", id))
	return id, nil
}

// List возвращает шаблоны пользователя.
func (s *RecurringService) List(ctx context.Context, userUID string) ([]*models.RecurringInvoice, error) {
	return s.repo.ListRecurringInvoices(ctx, userUID)
}

// Read возвращает шаблон по ID.
func (s *RecurringService) Read(ctx context.Context, id, userUID string) (*models.RecurringInvoice, error) {
	return s.repo.ReadRecurringInvoice(ctx, id, userUID)
}

// Update обновляет шаблон и пересчитывает сумму.
func (s *RecurringService) Update(ctx context.Context, req models.DummyRecurringInvoice, id, userUID string) (int, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return 0, fmt.Errorf("invalid end date: %w", err)
		}
		endDate = &parsed
	}
	nextDate := startDate
	if req.NextDate != "" {
		nextDate, err = time.Parse("2006-01-02", req.NextDate)
		if err != nil {
			return 0, fmt.Errorf("invalid next date: %w", err)
		}
	}

	items, total := buildRecurringItems(req.LineItems)
	status := req.Status
	if status == "" {
		status = models.RecurringStatusActive
	}
	tpl := models.RecurringInvoice{
		InvoiceNumberPrefix: req.InvoiceNumberPrefix,
		ClientName:          req.ClientName,
		ClientEmail:         req.ClientEmail,
		Frequency:           req.Frequency,
		StartDate:           startDate,
		EndDate:             endDate,
		NextDate:            nextDate,
		Status:              status,
		Notes:               req.Notes,
		Total:               total,
	}
	return s.repo.UpdateRecurringInvoice(ctx, tpl, items, id, userUID)
}

// Remove удаляет шаблон. Порождённые счета остаются в истории.
func (s *RecurringService) Remove(ctx context.Context, id, userUID string) (int, error) {
	return s.repo.RemoveRecurringInvoice(ctx, id, userUID)
}

// ListInvoices возвращает счета, порождённые шаблоном.
func (s *RecurringService) ListInvoices(ctx context.Context, recurringID, userUID string) ([]*models.Invoice, error) {
	return s.repo.ListInvoicesByRecurring(ctx, recurringID, userUID)
}

// Materialize строит конкретный счёт из шаблона, не сохраняя его.
// Счёт создаётся черновиком с датой выставления "сегодня" и сроком
// оплаты через 30 дней. Номер счёта: префикс шаблона плюс случайный
// суффикс, либо customNumber, если он задан.
func (s *RecurringService) Materialize(tpl *models.RecurringInvoice, customNumber string) (models.Invoice, []models.LineItem) {
	today := s.now().UTC().Truncate(24 * time.Hour)

	number := customNumber
	if number == "" {
		number = invoicenum.Generate(tpl.InvoiceNumberPrefix)
	}

	notes := "Generated from recurring invoice. "
	if tpl.Notes != "" {
		notes += tpl.Notes
	}

	var total float64
	items := make([]models.LineItem, 0, len(tpl.LineItems))
	for _, item := range tpl.LineItems {
		amount := item.Quantity * item.Rate
		items = append(items, models.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      amount,
		})
		total += amount
	}

	recurringID := tpl.ID
	inv := models.Invoice{
		UserUID:            tpl.UserUID,
		ClientID:           tpl.ClientID,
		RecurringInvoiceID: &recurringID,
		InvoiceNumber:      number,
		ClientName:         tpl.ClientName,
		ClientEmail:        tpl.ClientEmail,
		IssueDate:          today,
		DueDate:            today.AddDate(0, 0, generatedInvoiceDueDays),
		Status:             models.InvoiceStatusDraft,
		Notes:              notes,
		Total:              total,
	}
	return inv, items
}

// Advance продвигает расписание шаблона на один период вперёд. Если
// новая дата выходит за дату окончания, шаблон завершает работу.
// Вызывается строго после успешного сохранения сгенерированного счёта.
func (s *RecurringService) Advance(ctx context.Context, tpl *models.RecurringInvoice) (time.Time, string, error) {
	nextDate := schedule.Next(tpl.NextDate, tpl.Frequency)
	status := tpl.Status
	if tpl.EndDate != nil && nextDate.After(*tpl.EndDate) {
		status = models.RecurringStatusCompleted
	}
	if _, err := s.repo.UpdateRecurringSchedule(ctx, tpl.ID, nextDate, status); err != nil {
		return time.Time{}, "", err
	}
	return nextDate, status, nil
}

// Generate генерирует счёт из одного шаблона по запросу пользователя.
// Ручная генерация не трогает расписание: дата следующей автоматической
// генерации остаётся прежней.
func (s *RecurringService) Generate(ctx context.Context, id, userUID, customNumber string) (*models.Invoice, error) {
	tpl, err := s.repo.ReadRecurringInvoice(ctx, id, userUID)
	if err != nil {
		return nil, err
	}

	inv, items := s.Materialize(tpl, customNumber)
	invoiceID, err := s.repo.CreateInvoice(ctx, inv, items)
	if err != nil {
		return nil, err
	}
	inv.ID = invoiceID
	inv.LineItems = items
	s.log.Info("generated invoice from recurring template",
		slog.String("recurring_id", id), slog.String("invoice_id", invoiceID))
	return &inv, nil
}

// GenerateDue обрабатывает все шаблоны, у которых подошла дата генерации.
// Шаблоны обрабатываются последовательно и изолированно: сбой одного
// попадает в отчёт и не мешает остальным. Расписание продвигается только
// после успешного сохранения счёта; уведомление отправляется по
// возможности и на итог не влияет.
func (s *RecurringService) GenerateDue(ctx context.Context, day time.Time) (*models.GenerationReport, error) {
	const op = "services.RecurringService.GenerateDue"

	due, err := s.repo.FindRecurringInvoicesDue(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := &models.GenerationReport{Results: []models.GenerationResult{}}
	for _, tpl := range due {
		report.Processed++
		result := s.generateOne(ctx, tpl)
		if result.Status == "success" {
			report.Successful++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}

	s.log.Info("finished recurring invoice generation",
		slog.Int("processed", report.Processed),
		slog.Int("successful", report.Successful),
		slog.Int("failed", report.Failed))
	return report, nil
}

func (s *RecurringService) generateOne(ctx context.Context, tpl *models.RecurringInvoice) models.GenerationResult {
	// FindRecurringInvoicesDue не загружает позиции, читаем шаблон целиком
	full, err := s.repo.ReadRecurringInvoice(ctx, tpl.ID, "")
	if err != nil {
		s.log.Error("failed to read recurring invoice", slog.String("id", tpl.ID), sl.Err(err))
		return models.GenerationResult{ID: tpl.ID, Status: "error", Error: err.Error()}
	}

	inv, items := s.Materialize(full, "")
	invoiceID, err := s.repo.CreateInvoice(ctx, inv, items)
	if err != nil {
		s.log.Error("failed to create invoice", slog.String("id", tpl.ID), sl.Err(err))
		return models.GenerationResult{ID: tpl.ID, Status: "error", Error: err.Error()}
	}

	nextDate, _, err := s.Advance(ctx, full)
	if err != nil {
		s.log.Error("failed to advance schedule", slog.String("id", tpl.ID), sl.Err(err))
		return models.GenerationResult{ID: tpl.ID, Status: "error", Error: err.Error()}
	}

	if s.notifier != nil {
		data := models.InvoiceEmailData{
			InvoiceNumber: inv.InvoiceNumber,
			ClientName:    inv.ClientName,
			ClientEmail:   inv.ClientEmail,
			Amount:        inv.Total,
			DueDate:       inv.DueDate.Format("2006-01-02"),
		}
		if err := s.notifier.NotifyInvoiceGenerated(ctx, data); err != nil {
			s.log.Warn("failed to notify about generated invoice",
				slog.String("invoice_id", invoiceID), sl.Err(err))
		}
	}

	return models.GenerationResult{
		ID:        tpl.ID,
		Status:    "success",
		InvoiceID: invoiceID,
		NextDate:  nextDate.Format("2006-01-02"),
	}
}
