// Package remind реализует HTTP-обработчик отправки напоминания об оплате счёта.
//
// Тело запроса необязательно и может содержать произвольное сообщение
// отправителя, которое включается в письмо.
package remind

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lucid-digital/invoicefacil/internal/http/middlewarectx"
	"github.com/lucid-digital/invoicefacil/internal/http/response"
	"github.com/lucid-digital/invoicefacil/internal/lib/sl"
	"github.com/lucid-digital/invoicefacil/internal/models"
	"github.com/lucid-digital/invoicefacil/internal/storage/repository"
)

// Handler управляет HTTP-запросами на отправку напоминаний.
type Handler struct {
	log     *slog.Logger
	service Service
	sender  Sender
	appURL  string
}

// Service описывает интерфейс бизнес-логики чтения счёта.
type Service interface {
	Read(ctx context.Context, id, userUID string) (*models.Invoice, error)
}

// Sender отправляет напоминание об оплате.
type Sender interface {
	SendReminder(data models.InvoiceEmailData) error
}

// New создает новый Handler с переданными логгером, сервисом и отправителем писем.
func New(log *slog.Logger, service Service, sender Sender, appURL string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		sender:  sender,
		appURL:  appURL,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на отправку напоминания об оплате.
// Оплаченные счета напоминаний не получают.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.remind"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyReminder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	inv, err := h.service.Read(r.Context(), id, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("invoice not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("invoice not found"))
			return
		}
		log.Error("failed to read invoice", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read invoice"))
		return
	}

	if inv.Status == models.InvoiceStatusPaid {
		log.Error("invoice is already paid", slog.String("id", id))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("invoice is already paid"))
		return
	}

	data := models.InvoiceEmailData{
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		Amount:        inv.Total,
		DueDate:       inv.DueDate.Format("2006-01-02"),
		PaymentLink:   h.appURL + "/invoice/" + inv.ID,
		Message:       req.Message,
	}
	if err := h.sender.SendReminder(data); err != nil {
		log.Error("failed to send reminder email", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not send reminder email"))
		return
	}

	log.Info("reminder sent", slog.String("id", id), slog.String("to", inv.ClientEmail))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"sent_to": inv.ClientEmail,
	}))
}
