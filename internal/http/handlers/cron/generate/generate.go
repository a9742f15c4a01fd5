// Package generate реализует HTTP-обработчик запуска пакетной генерации счетов.
//
// Эндпоинт вызывается внешним планировщиком раз в сутки. Вместо
// пользовательского JWT запрос авторизуется служебным ключом в
// заголовке Authorization: Bearer <cron_api_key>.
package generate

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lucid-digital/invoicefacil/internal/http/response"
	"github.com/lucid-digital/invoicefacil/internal/lib/sl"
	"github.com/lucid-digital/invoicefacil/internal/models"
)

// Handler управляет HTTP-запросами на запуск пакетной генерации.
type Handler struct {
	log     *slog.Logger
	service Service
	apiKey  string
	now     func() time.Time
}

// Service описывает интерфейс бизнес-логики пакетной генерации.
type Service interface {
	GenerateDue(ctx context.Context, day time.Time) (*models.GenerationReport, error)
}

// New создает новый Handler с переданными логгером, сервисом и служебным ключом.
func New(log *slog.Logger, service Service, apiKey string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		apiKey:  apiKey,
		now:     time.Now,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на пакетную генерацию счетов из
// шаблонов, у которых подошла дата. Возвращает отчёт по каждому шаблону.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cron.generate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		log.Error("missing or invalid authorization header")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	key := strings.TrimPrefix(authHeader, "Bearer ")
	if h.apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
		log.Error("invalid cron api key")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	today := h.now().UTC().Truncate(24 * time.Hour)
	report, err := h.service.GenerateDue(r.Context(), today)
	if err != nil {
		log.Error("failed to generate recurring invoices", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate recurring invoices"))
		return
	}

	if report.Processed == 0 {
		log.Info("no recurring invoices due")
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"message": "No recurring invoices due for generation",
		}))
		return
	}

	log.Info("batch generation finished",
		slog.Int("processed", report.Processed),
		slog.Int("successful", report.Successful),
		slog.Int("failed", report.Failed))
	render.JSON(w, r, response.StatusOKWithData(report))
}
