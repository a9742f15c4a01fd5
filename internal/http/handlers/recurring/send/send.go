// Package send реализует HTTP-обработчик отправки клиенту уведомления
// о шаблоне повторяющегося счёта. Счёт при этом не создаётся: письмо
// лишь сообщает сумму и дату следующего выставления.
package send

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lucid-digital/invoicefacil/internal/http/middlewarectx"
	"github.com/lucid-digital/invoicefacil/internal/http/response"
	"github.com/lucid-digital/invoicefacil/internal/lib/sl"
	"github.com/lucid-digital/invoicefacil/internal/models"
	"github.com/lucid-digital/invoicefacil/internal/storage/repository"
)

// Handler управляет HTTP-запросами на отправку уведомления о шаблоне.
type Handler struct {
	log     *slog.Logger
	service Service
	sender  Sender
	appURL  string
	now     func() time.Time
}

// Service описывает интерфейс бизнес-логики чтения шаблона.
type Service interface {
	Read(ctx context.Context, id, userUID string) (*models.RecurringInvoice, error)
}

// Sender отправляет уведомление о повторяющемся счёте.
type Sender interface {
	SendRecurringNotice(data models.InvoiceEmailData) error
}

// New создает новый Handler с переданными логгером, сервисом и отправителем писем.
func New(log *slog.Logger, service Service, sender Sender, appURL string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		sender:  sender,
		appURL:  appURL,
		now:     time.Now,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на отправку уведомления о шаблоне.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recurring.send"
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

	id := chi.URLParam(r, "id")
	tpl, err := h.service.Read(r.Context(), id, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("recurring invoice not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("recurring invoice not found"))
			return
		}
		log.Error("failed to read recurring invoice", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read recurring invoice"))
		return
	}

	// Номера счёта ещё нет, поэтому в письме префикс дополняется месяцем и годом
	today := h.now().UTC()
	data := models.InvoiceEmailData{
		InvoiceNumber: fmt.Sprintf("%s%d%d", tpl.InvoiceNumberPrefix, int(today.Month()), today.Year()),
		ClientName:    tpl.ClientName,
		ClientEmail:   tpl.ClientEmail,
		Amount:        tpl.Total,
		DueDate:       tpl.NextDate.Format("2006-01-02"),
		PaymentLink:   h.appURL + "/recurring-invoices/" + tpl.ID,
	}
	if err := h.sender.SendRecurringNotice(data); err != nil {
		log.Error("failed to send recurring invoice notice", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not send recurring invoice notice"))
		return
	}

	log.Info("recurring invoice notice sent",
		slog.String("id", id), slog.String("to", tpl.ClientEmail))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"sent_to": tpl.ClientEmail,
	}))
}
