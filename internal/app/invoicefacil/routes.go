// Package invoicefacil предоставляет маршруты для основного приложения.
package invoicefacil

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/lucid-digital/invoicefacil/internal/http/handlers/auth/login"
	"github.com/lucid-digital/invoicefacil/internal/http/handlers/auth/register"
	clientcreate "github.com/lucid-digital/invoicefacil/internal/http/handlers/client/create"
	clientlist "github.com/lucid-digital/invoicefacil/internal/http/handlers/client/list"
	clientread "github.com/lucid-digital/invoicefacil/internal/http/handlers/client/read"
	clientremove "github.com/lucid-digital/invoicefacil/internal/http/handlers/client/remove"
	clientupdate "github.com/lucid-digital/invoicefacil/internal/http/handlers/client/update"
	crongenerate "github.com/lucid-digital/invoicefacil/internal/http/handlers/cron/generate"
	"github.com/lucid-digital/invoicefacil/internal/http/handlers/health"
	invoicecreate "github.com/lucid-digital/invoicefacil/internal/http/handlers/invoice/create"
	invoicelist "github.com/lucid-digital/invoicefacil/internal/http/handlers/invoice/list"
	invoicepdf "github.com/lucid-digital/invoicefacil/internal/http/handlers/invoice/pdfget"
	invoiceread "github.com/lucid-digital/invoicefacil/internal/http/handlers/invoice/read"
	invoiceremind "github.com/lucid-digital/invoicefacil/internal/http/handlers/invoice/remind"
	invoiceremove "github.com/lucid-digital/invoicefacil/internal/http/handlers/invoice/remove"
	invoicesend "github.com/lucid-digital/invoicefacil/internal/http/handlers/invoice/send"
	invoiceupdate "github.com/lucid-digital/invoicefacil/internal/http/handlers/invoice/update"
	paymentcheckout "github.com/lucid-digital/invoicefacil/internal/http/handlers/payment/checkout"
	paymentconfirm "github.com/lucid-digital/invoicefacil/internal/http/handlers/payment/confirm"
	profileread "github.com/lucid-digital/invoicefacil/internal/http/handlers/profile/read"
	profileupsert "github.com/lucid-digital/invoicefacil/internal/http/handlers/profile/upsert"
	publicpdf "github.com/lucid-digital/invoicefacil/internal/http/handlers/public/pdfget"
	publicread "github.com/lucid-digital/invoicefacil/internal/http/handlers/public/read"
	recurringcreate "github.com/lucid-digital/invoicefacil/internal/http/handlers/recurring/create"
	recurringgenerate "github.com/lucid-digital/invoicefacil/internal/http/handlers/recurring/generate"
	recurringinvoices "github.com/lucid-digital/invoicefacil/internal/http/handlers/recurring/invoices"
	recurringlist "github.com/lucid-digital/invoicefacil/internal/http/handlers/recurring/list"
	recurringread "github.com/lucid-digital/invoicefacil/internal/http/handlers/recurring/read"
	recurringremove "github.com/lucid-digital/invoicefacil/internal/http/handlers/recurring/remove"
	recurringsend "github.com/lucid-digital/invoicefacil/internal/http/handlers/recurring/send"
	recurringupdate "github.com/lucid-digital/invoicefacil/internal/http/handlers/recurring/update"
	"github.com/lucid-digital/invoicefacil/internal/http/middlewarectx"
	"github.com/lucid-digital/invoicefacil/internal/pdf"
	authservice "github.com/lucid-digital/invoicefacil/internal/services/auth"
	clientservice "github.com/lucid-digital/invoicefacil/internal/services/client"
	invoiceservice "github.com/lucid-digital/invoicefacil/internal/services/invoice"
	paymentservice "github.com/lucid-digital/invoicefacil/internal/services/payment"
	profileservice "github.com/lucid-digital/invoicefacil/internal/services/profile"
	recurringservice "github.com/lucid-digital/invoicefacil/internal/services/recurring"
	senderservice "github.com/lucid-digital/invoicefacil/internal/services/sender"
	"github.com/lucid-digital/invoicefacil/internal/storage/repository"

	"log/slog"

	"github.com/lucid-digital/invoicefacil/internal/config"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, db *repository.Storage,
	authService *authservice.AuthService, clientService *clientservice.ClientService,
	invoiceService *invoiceservice.InvoiceService, recurringService *recurringservice.RecurringService,
	paymentService *paymentservice.PaymentService, profileService *profileservice.ProfileService,
	senderService *senderservice.SenderService, renderer *pdf.Renderer) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/clients", clientcreate.New(logger, clientService).ServeHTTP)
			r.Get("/clients", clientlist.New(logger, clientService).ServeHTTP)
			r.Get("/clients/{id}", clientread.New(logger, clientService).ServeHTTP)
			r.Put("/clients/{id}", clientupdate.New(logger, clientService).ServeHTTP)
			r.Delete("/clients/{id}", clientremove.New(logger, clientService).ServeHTTP)

			r.Post("/invoices", invoicecreate.New(logger, invoiceService).ServeHTTP)
			r.Get("/invoices", invoicelist.New(logger, invoiceService).ServeHTTP)
			r.Get("/invoices/{id}", invoiceread.New(logger, invoiceService).ServeHTTP)
			r.Put("/invoices/{id}", invoiceupdate.New(logger, invoiceService).ServeHTTP)
			r.Delete("/invoices/{id}", invoiceremove.New(logger, invoiceService).ServeHTTP)
			r.Post("/invoices/{id}/send", invoicesend.New(logger, invoiceService, senderService, cfg.AppURL).ServeHTTP)
			r.Post("/invoices/{id}/remind", invoiceremind.New(logger, invoiceService, senderService, cfg.AppURL).ServeHTTP)
			r.Get("/invoices/{id}/pdf", invoicepdf.New(logger, invoiceService, profileService, renderer).ServeHTTP)
			r.Post("/invoices/{id}/payment", paymentcheckout.New(logger, paymentService).ServeHTTP)
			r.Post("/invoices/{id}/payment/success", paymentconfirm.New(logger, paymentService).ServeHTTP)

			r.Post("/recurring-invoices", recurringcreate.New(logger, recurringService).ServeHTTP)
			r.Get("/recurring-invoices", recurringlist.New(logger, recurringService).ServeHTTP)
			r.Get("/recurring-invoices/{id}", recurringread.New(logger, recurringService).ServeHTTP)
			r.Put("/recurring-invoices/{id}", recurringupdate.New(logger, recurringService).ServeHTTP)
			r.Delete("/recurring-invoices/{id}", recurringremove.New(logger, recurringService).ServeHTTP)
			r.Post("/recurring-invoices/{id}/generate-invoice", recurringgenerate.New(logger, recurringService, senderService, cfg.AppURL).ServeHTTP)
			r.Post("/recurring-invoices/{id}/send", recurringsend.New(logger, recurringService, senderService, cfg.AppURL).ServeHTTP)
			r.Get("/recurring-invoices/{id}/invoices", recurringinvoices.New(logger, recurringService).ServeHTTP)

			r.Get("/business-profile", profileread.New(logger, profileService).ServeHTTP)
			r.Put("/business-profile", profileupsert.New(logger, profileService).ServeHTTP)
		})

		// Конечная точка для внешнего cron (аутентификация по ключу внутри обработчика)
		r.Get("/cron/generate-recurring-invoices", crongenerate.New(logger, recurringService, cfg.CronAPIKey).ServeHTTP)

		// Публичные конечные точки: клиент открывает счёт по ссылке без аккаунта
		r.Get("/public/invoices/{id}", publicread.New(logger, invoiceService, profileService).ServeHTTP)
		r.Get("/public/invoices/{id}/pdf", publicpdf.New(logger, invoiceService, profileService, renderer).ServeHTTP)
		r.Post("/public/invoices/{id}/payment", paymentcheckout.New(logger, paymentService).ServeHTTP)
		r.Post("/public/invoices/{id}/verify-payment", paymentconfirm.New(logger, paymentService).ServeHTTP)
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
