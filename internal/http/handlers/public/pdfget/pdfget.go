// Package pdfget реализует публичный HTTP-обработчик выгрузки счёта в PDF.
package pdfget

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lucid-digital/invoicefacil/internal/http/response"
	"github.com/lucid-digital/invoicefacil/internal/lib/sl"
	"github.com/lucid-digital/invoicefacil/internal/models"
	"github.com/lucid-digital/invoicefacil/internal/storage/repository"
)

// Handler обрабатывает публичные запросы на выгрузку счёта в PDF.
type Handler struct {
	log      *slog.Logger
	service  Service
	profiles ProfileService
	renderer Renderer
}

// Service описывает интерфейс бизнес-логики чтения счёта.
type Service interface {
	Read(ctx context.Context, id, userUID string) (*models.Invoice, error)
}

// ProfileService возвращает бизнес-профиль владельца счёта.
type ProfileService interface {
	Read(ctx context.Context, userUID string) (*models.BusinessProfile, error)
}

// Renderer отрисовывает счёт в PDF-документ.
type Renderer interface {
	Render(inv *models.Invoice, profile *models.BusinessProfile) ([]byte, error)
}

// New создает новый Handler с переданными логгером, сервисами и рендерером.
func New(log *slog.Logger, service Service, profiles ProfileService, renderer Renderer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		profiles: profiles,
		renderer: renderer,
	}
}

// ServeHTTP обрабатывает публичный HTTP-запрос на выгрузку счёта в PDF.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.public.pdfget"
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

	profile, err := h.profiles.Read(r.Context(), inv.UserUID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to read business profile", sl.Err(err))
		}
		profile = nil
	}

	doc, err := h.renderer.Render(inv, profile)
	if err != nil {
		log.Error("failed to render pdf", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not render pdf"))
		return
	}

	log.Info("success to render public pdf", slog.String("id", id))
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+inv.InvoiceNumber+".pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	if _, err := w.Write(doc); err != nil {
		log.Error("failed to write pdf response", sl.Err(err))
	}
}
