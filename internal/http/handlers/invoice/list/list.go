// Package list реализует HTTP-обработчик для получения списка счетов пользователя.
//
// Параметр запроса client_id ограничивает выборку счетами одного клиента.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lucid-digital/invoicefacil/internal/http/middlewarectx"
	"github.com/lucid-digital/invoicefacil/internal/http/response"
	"github.com/lucid-digital/invoicefacil/internal/lib/sl"
	"github.com/lucid-digital/invoicefacil/internal/models"
)

// Handler обрабатывает запросы на получение списка счетов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка счетов.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.Invoice, error)
	ListByClient(ctx context.Context, clientID, userUID string) ([]*models.Invoice, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение списка счетов пользователя.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var invoices []*models.Invoice
	var err error
	if clientID := r.URL.Query().Get("client_id"); clientID != "" {
		invoices, err = h.service.ListByClient(r.Context(), clientID, userUID)
	} else {
		invoices, err = h.service.List(r.Context(), userUID)
	}
	if err != nil {
		log.Error("failed to list invoices", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list invoices"))
		return
	}

	log.Info("success to list invoices", slog.Int("count", len(invoices)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"invoices": invoices,
	}))
}
