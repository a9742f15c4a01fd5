// Package read реализует публичный HTTP-обработчик просмотра счёта.
//
// Страница счёта доступна клиенту по прямой ссылке из письма, без
// авторизации. Идентификатор счёта — UUID, он же служит секретом ссылки.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lucid-digital/invoicefacil/internal/http/response"
	"github.com/lucid-digital/invoicefacil/internal/lib/sl"
	"github.com/lucid-digital/invoicefacil/internal/models"
	"github.com/lucid-digital/invoicefacil/internal/storage/repository"
)

// Handler обрабатывает публичные запросы на просмотр счёта.
type Handler struct {
	log      *slog.Logger
	service  Service
	profiles ProfileService
}

// Service описывает интерфейс бизнес-логики чтения счёта.
type Service interface {
	Read(ctx context.Context, id, userUID string) (*models.Invoice, error)
}

// ProfileService возвращает бизнес-профиль владельца счёта.
type ProfileService interface {
	Read(ctx context.Context, userUID string) (*models.BusinessProfile, error)
}

// New создает новый Handler с переданным логгером и сервисами.
func New(log *slog.Logger, service Service, profiles ProfileService) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		profiles: profiles,
	}
}

// ServeHTTP обрабатывает публичный HTTP-запрос на просмотр счёта.
// Внутренние поля владельца в ответ не попадают.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.public.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	inv, err := h.service.Read(r.Context(), id, "")
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

	var business map[string]any
	if profile, err := h.profiles.Read(r.Context(), inv.UserUID); err == nil {
		business = map[string]any{
			"name":     profile.Name,
			"logo_url": profile.LogoURL,
			"email":    profile.Email,
			"phone":    profile.Phone,
			"address":  profile.Address,
			"city":     profile.City,
			"state":    profile.State,
			"zip":      profile.Zip,
			"country":  profile.Country,
		}
	}

	items := make([]map[string]any, 0, len(inv.LineItems))
	for _, item := range inv.LineItems {
		items = append(items, map[string]any{
			"description": item.Description,
			"quantity":    item.Quantity,
			"rate":        item.Rate,
			"amount":      item.Amount,
		})
	}

	log.Info("success to read public invoice", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"invoice": map[string]any{
			"id":             inv.ID,
			"invoice_number": inv.InvoiceNumber,
			"client_name":    inv.ClientName,
			"issue_date":     inv.IssueDate.Format("2006-01-02"),
			"due_date":       inv.DueDate.Format("2006-01-02"),
			"status":         inv.Status,
			"notes":          inv.Notes,
			"total":          inv.Total,
			"line_items":     items,
		},
		"business": business,
	}))
}
