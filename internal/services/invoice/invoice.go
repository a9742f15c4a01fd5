// Package services содержит бизнес-логику работы со счетами и их кеширование.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lucid-digital/invoicefacil/internal/models"
)

// InvoiceRepository определяет методы для работы со счетами в хранилище.
type InvoiceRepository interface {
	// CreateInvoice добавляет счёт с позициями и возвращает его ID.
	CreateInvoice(ctx context.Context, inv models.Invoice, items []models.LineItem) (string, error)
	// ListInvoices возвращает список счетов пользователя.
	ListInvoices(ctx context.Context, userUID string) ([]*models.Invoice, error)
	// ListInvoicesByClient возвращает счета, выставленные клиенту.
	ListInvoicesByClient(ctx context.Context, clientID, userUID string) ([]*models.Invoice, error)
	// ReadInvoice возвращает счёт с позициями. Пустой userUID отключает проверку владельца.
	ReadInvoice(ctx context.Context, id, userUID string) (*models.Invoice, error)
	// UpdateInvoice обновляет счёт и заменяет позиции, возвращает количество изменённых записей.
	UpdateInvoice(ctx context.Context, inv models.Invoice, items []models.LineItem, id, userUID string) (int, error)
	// UpdateInvoiceStatus переводит счёт в новый статус.
	UpdateInvoiceStatus(ctx context.Context, id, status string) (int, error)
	// RemoveInvoice удаляет счёт и возвращает количество удалённых записей.
	RemoveInvoice(ctx context.Context, id, userUID string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// InvoiceService реализует бизнес-логику работы со счетами, включая кеширование.
type InvoiceService struct {
	repo  InvoiceRepository
	cache Cache
	log   *slog.Logger
}

// NewInvoiceService создает новый экземпляр InvoiceService.
func NewInvoiceService(repo InvoiceRepository, cache Cache, log *slog.Logger) *InvoiceService {
	return &InvoiceService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// BuildLineItems пересчитывает суммы позиций из количества и ставки.
// Сумма позиции всегда вычисляется на сервере, значения клиента игнорируются.
func BuildLineItems(items []models.DummyLineItem) ([]models.LineItem, float64) {
	var total float64
	result := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		amount := item.Quantity * item.Rate
		result = append(result, models.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      amount,
		})
		total += amount
	}
	return result, total
}

// Create создает новый счёт для пользователя, кеширует его и возвращает ID.
func (s *InvoiceService) Create(ctx context.Context, userUID string, req models.DummyInvoice) (string, error) {
	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		return "", fmt.Errorf("invalid issue date: %w", err)
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return "", fmt.Errorf("invalid due date: %w", err)
	}

	items, total := BuildLineItems(req.LineItems)
	status := req.Status
	if status == "" {
		status = models.InvoiceStatusDraft
	}
	var clientID *string
	if req.ClientID != "" {
		clientID = &req.ClientID
	}
	inv := models.Invoice{
		UserUID:       userUID,
		ClientID:      clientID,
		InvoiceNumber: req.InvoiceNumber,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Status:        status,
		Notes:         req.Notes,
		Total:         total,
	}

	id, err := s.repo.CreateInvoice(ctx, inv, items)
	if err != nil {
		return "", err
	}
	s.log.Info("created new invoice", slog.String("id", id))

	inv.ID = id
	inv.LineItems = items
	cacheKey := fmt.Sprintf("invoice:%s", id)
	if err := s.cache.Set(cacheKey, inv, time.Hour); err != nil {
		s.log.Warn("failed to cache invoice", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return id, nil
}

// List возвращает список счетов пользователя.
func (s *InvoiceService) List(ctx context.Context, userUID string) ([]*models.Invoice, error) {
	return s.repo.ListInvoices(ctx, userUID)
}

// ListByClient возвращает счета, выставленные конкретному клиенту.
func (s *InvoiceService) ListByClient(ctx context.Context, clientID, userUID string) ([]*models.Invoice, error) {
	return s.repo.ListInvoicesByClient(ctx, clientID, userUID)
}

// Read возвращает счёт по ID, используя кеш или репозиторий.
// Кеш используется только для чтений в рамках владельца: публичные
// чтения с пустым userUID всегда идут в хранилище.
func (s *InvoiceService) Read(ctx context.Context, id, userUID string) (*models.Invoice, error) {
	if userUID == "" {
		return s.repo.ReadInvoice(ctx, id, userUID)
	}

	var result *models.Invoice
	cacheKey := fmt.Sprintf("invoice:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found && result != nil && result.UserUID == userUID {
		return result, nil
	}
	result, err = s.repo.ReadInvoice(ctx, id, userUID)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// Update обновляет счёт, пересчитывает сумму и инвалидирует кеш.
func (s *InvoiceService) Update(ctx context.Context, req models.DummyInvoice, id, userUID string) (int, error) {
	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		return 0, fmt.Errorf("invalid issue date: %w", err)
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return 0, fmt.Errorf("invalid due date: %w", err)
	}

	items, total := BuildLineItems(req.LineItems)
	status := req.Status
	if status == "" {
		status = models.InvoiceStatusDraft
	}
	var clientID *string
	if req.ClientID != "" {
		clientID = &req.ClientID
	}
	inv := models.Invoice{
		ClientID:      clientID,
		InvoiceNumber: req.InvoiceNumber,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Status:        status,
		Notes:         req.Notes,
		Total:         total,
	}
	res, err := s.repo.UpdateInvoice(ctx, inv, items, id, userUID)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated invoice in storage", slog.String("id", id))

	cacheKey := fmt.Sprintf("invoice:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// UpdateStatus переводит счёт в новый статус и инвалидирует кеш.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id, status string) (int, error) {
	res, err := s.repo.UpdateInvoiceStatus(ctx, id, status)
	if err != nil {
		return 0, err
	}

	cacheKey := fmt.Sprintf("invoice:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// Remove удаляет счёт и инвалидирует кеш.
func (s *InvoiceService) Remove(ctx context.Context, id, userUID string) (int, error) {
	cacheKey := fmt.Sprintf("invoice:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveInvoice(ctx, id, userUID)
	if err != nil {
		return 0, err
	}
	return count, nil
}
