// Package confirm реализует HTTP-обработчик подтверждения оплаты счёта.
//
// Статус платёжной сессии запрашивается у провайдера и сверяется со
// счётом по client_reference_id; данным из запроса сервис не доверяет.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/lucid-digital/invoicefacil/internal/http/response"
	"github.com/lucid-digital/invoicefacil/internal/lib/sl"
	payment "github.com/lucid-digital/invoicefacil/internal/services/payment"
)

// Handler управляет HTTP-запросами на подтверждение оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	Confirm(ctx context.Context, sessionID, invoiceID string) error
}

// DummyConfirm используется для приёма данных подтверждения из JSON-запроса.
type DummyConfirm struct {
	SessionID string `json:"session_id" validate:"required"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP обрабатывает HTTP-запрос на подтверждение оплаты счёта.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req DummyConfirm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Confirm(r.Context(), req.SessionID, id); err != nil {
		if errors.Is(err, payment.ErrPaymentMismatch) {
			log.Error("payment mismatch",
				slog.String("invoice_id", id), slog.String("session_id", req.SessionID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("payment could not be verified"))
			return
		}
		log.Error("failed to confirm payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not confirm payment"))
		return
	}

	log.Info("payment confirmed", slog.String("invoice_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"invoice_id": id,
		"status":     "paid",
	}))
}
