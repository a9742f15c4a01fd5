// Package services запускает периодическую генерацию счетов из шаблонов.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/lucid-digital/invoicefacil/internal/lib/sl"
	"github.com/lucid-digital/invoicefacil/internal/models"
)

// Generator запускает пакетную генерацию счетов из шаблонов, у которых
// подошла дата.
type Generator interface {
	GenerateDue(ctx context.Context, day time.Time) (*models.GenerationReport, error)
}

type SchedulerService struct {
	generator Generator
	log       *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(generator Generator, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		generator: generator,
		log:       log,
	}
}

// RunDailyGeneration запускает генерацию сразу и далее раз в сутки,
// пока контекст не будет отменён.
func (s *SchedulerService) RunDailyGeneration(ctx context.Context) {
	s.runGeneration(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runGeneration(ctx)
		}
	}
}

func (s *SchedulerService) runGeneration(ctx context.Context) {
	s.log.Info("starting recurring invoice generation")
	today := time.Now().UTC().Truncate(24 * time.Hour)
	report, err := s.generator.GenerateDue(ctx, today)
	if err != nil {
		s.log.Error("failed to generate recurring invoices", sl.Err(err))
		return
	}
	if report.Processed == 0 {
		s.log.Info("no recurring invoices due")
		return
	}
	s.log.Info("recurring invoice generation finished",
		slog.Int("processed", report.Processed),
		slog.Int("successful", report.Successful),
		slog.Int("failed", report.Failed))
}
