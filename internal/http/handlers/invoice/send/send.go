// Package send реализует HTTP-обработчик отправки счёта клиенту по почте.
//
// Handler читает счёт и отправляет письмо с ссылками на просмотр и оплату.
// Статус счёта при отправке не меняется: письмо — побочный эффект,
// состоянием счёта управляет пользователь и подтверждение оплаты.
package send

import (
	"context"
	"errors"
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

// Handler управляет HTTP-запросами на отправку счетов.
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

// Sender отправляет письмо со счётом.
type Sender interface {
	SendInvoice(data models.InvoiceEmailData) error
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

// ServeHTTP обрабатывает HTTP-запрос на отправку счёта клиенту.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.send"
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

	data := models.InvoiceEmailData{
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		Amount:        inv.Total,
		DueDate:       inv.DueDate.Format("2006-01-02"),
		PDFURL:        h.appURL + "/public/invoices/" + inv.ID + "/pdf",
		PaymentLink:   h.appURL + "/invoice/" + inv.ID,
	}
	if err := h.sender.SendInvoice(data); err != nil {
		log.Error("failed to send invoice email", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not send invoice email"))
		return
	}

	log.Info("invoice sent", slog.String("id", id), slog.String("to", inv.ClientEmail))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"sent_to": inv.ClientEmail,
	}))
}
