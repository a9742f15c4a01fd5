// Package generate реализует HTTP-обработчик ручной генерации счёта из шаблона.
//
// Ручная генерация не продвигает расписание шаблона: дата следующей
// автоматической генерации остаётся прежней. По запросу письмо со
// счётом отправляется клиенту сразу.
package generate

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

// Handler управляет HTTP-запросами на ручную генерацию счетов из шаблонов.
type Handler struct {
	log     *slog.Logger
	service Service
	sender  Sender
	appURL  string
}

// Service описывает интерфейс бизнес-логики генерации счёта из шаблона.
type Service interface {
	Generate(ctx context.Context, id, userUID, customNumber string) (*models.Invoice, error)
}

// Sender отправляет письмо со сгенерированным счётом.
type Sender interface {
	SendInvoice(data models.InvoiceEmailData) error
}

// DummyGenerate используется для приёма параметров генерации из JSON-запроса.
// Тело запроса опционально.
type DummyGenerate struct {
	SendEmail           bool   `json:"send_email"`
	CustomInvoiceNumber string `json:"custom_invoice_number"`
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

// ServeHTTP обрабатывает HTTP-запрос на генерацию счёта из шаблона.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recurring.generate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req DummyGenerate
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
	inv, err := h.service.Generate(r.Context(), id, userUID, req.CustomInvoiceNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("recurring invoice not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("recurring invoice not found"))
			return
		}
		log.Error("failed to generate invoice", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate invoice"))
		return
	}

	if req.SendEmail {
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
			// Счёт уже создан, сбой письма не отменяет генерацию
			log.Warn("failed to send invoice email", sl.Err(err))
		}
	}

	log.Info("success to generate invoice",
		slog.String("recurring_id", id), slog.String("invoice_id", inv.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"invoice": inv,
	}))
}
