// Package services содержит бизнес-логику для управления клиентами пользователя.
package services

import (
	"context"
	"log/slog"

	"github.com/lucid-digital/invoicefacil/internal/models"
)

// ClientRepository определяет методы для работы с клиентами в хранилище.
type ClientRepository interface {
	// CreateClient добавляет нового клиента и возвращает его ID.
	CreateClient(ctx context.Context, client models.Client) (string, error)
	// ListClients возвращает список клиентов пользователя.
	ListClients(ctx context.Context, userUID string) ([]*models.Client, error)
	// ReadClient возвращает клиента по ID в рамках пользователя.
	ReadClient(ctx context.Context, id, userUID string) (*models.Client, error)
	// UpdateClient обновляет данные клиента и возвращает количество изменённых записей.
	UpdateClient(ctx context.Context, client models.Client, id, userUID string) (int, error)
	// RemoveClient удаляет клиента и возвращает количество удалённых записей.
	RemoveClient(ctx context.Context, id, userUID string) (int, error)
}

// ClientService реализует бизнес-логику работы с клиентами.
type ClientService struct {
	repo ClientRepository
	log  *slog.Logger
}

// NewClientService создает новый экземпляр ClientService.
func NewClientService(repo ClientRepository, log *slog.Logger) *ClientService {
	return &ClientService{
		repo: repo,
		log:  log,
	}
}

// Create создает нового клиента для пользователя и возвращает его ID.
func (s *ClientService) Create(ctx context.Context, userUID string, req models.DummyClient) (string, error) {
	client := models.Client{
		UserUID:      userUID,
		Name:         req.Name,
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
		Country:      req.Country,
		Notes:        req.Notes,
	}
	id, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return "", err
	}
	s.log.Info("created new client", slog.String("id", id))
	return id, nil
}

// List возвращает список клиентов пользователя.
func (s *ClientService) List(ctx context.Context, userUID string) ([]*models.Client, error) {
	return s.repo.ListClients(ctx, userUID)
}

// Read возвращает клиента по ID.
func (s *ClientService) Read(ctx context.Context, id, userUID string) (*models.Client, error) {
	return s.repo.ReadClient(ctx, id, userUID)
}

// Update обновляет данные клиента.
func (s *ClientService) Update(ctx context.Context, req models.DummyClient, id, userUID string) (int, error) {
	client := models.Client{
		Name:         req.Name,
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
		Country:      req.Country,
		Notes:        req.Notes,
	}
	return s.repo.UpdateClient(ctx, client, id, userUID)
}

// Remove удаляет клиента. Счета клиента остаются: связь обнуляется на
// уровне схемы, история выставленных счетов не теряется.
func (s *ClientService) Remove(ctx context.Context, id, userUID string) (int, error) {
	return s.repo.RemoveClient(ctx, id, userUID)
}
