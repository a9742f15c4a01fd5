// Package services содержит бизнес-логику работы с бизнес-профилем пользователя.
package services

import (
	"context"
	"log/slog"

	"github.com/lucid-digital/invoicefacil/internal/models"
)

// ProfileRepository определяет методы для работы с бизнес-профилями в хранилище.
type ProfileRepository interface {
	// UpsertBusinessProfile сохраняет или перезаписывает профиль пользователя.
	UpsertBusinessProfile(ctx context.Context, profile models.BusinessProfile) error
	// GetBusinessProfile возвращает профиль пользователя.
	GetBusinessProfile(ctx context.Context, userUID string) (*models.BusinessProfile, error)
}

// ProfileService реализует бизнес-логику работы с бизнес-профилем.
type ProfileService struct {
	repo ProfileRepository
	log  *slog.Logger
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(repo ProfileRepository, log *slog.Logger) *ProfileService {
	return &ProfileService{
		repo: repo,
		log:  log,
	}
}

// Upsert сохраняет бизнес-профиль пользователя.
func (s *ProfileService) Upsert(ctx context.Context, userUID string, req models.DummyBusinessProfile) error {
	profile := models.BusinessProfile{
		UserUID: userUID,
		Name:    req.Name,
		LogoURL: req.LogoURL,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Zip:     req.Zip,
		Country: req.Country,
	}
	if err := s.repo.UpsertBusinessProfile(ctx, profile); err != nil {
		return err
	}
	s.log.Info("saved business profile", slog.String("user_uid", userUID))
	return nil
}

// Read возвращает бизнес-профиль пользователя.
func (s *ProfileService) Read(ctx context.Context, userUID string) (*models.BusinessProfile, error) {
	return s.repo.GetBusinessProfile(ctx, userUID)
}
