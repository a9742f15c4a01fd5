// Package invoicefacil собирает основное HTTP-приложение: хранилище,
// кэш, сервисы и маршруты.
package invoicefacil

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/lucid-digital/invoicefacil/internal/cache"
	"github.com/lucid-digital/invoicefacil/internal/config"
	"github.com/lucid-digital/invoicefacil/internal/lib/jwt"
	"github.com/lucid-digital/invoicefacil/internal/lib/smtp"
	"github.com/lucid-digital/invoicefacil/internal/migrations"
	"github.com/lucid-digital/invoicefacil/internal/paymentprovider"
	"github.com/lucid-digital/invoicefacil/internal/pdf"
	authservice "github.com/lucid-digital/invoicefacil/internal/services/auth"
	clientservice "github.com/lucid-digital/invoicefacil/internal/services/client"
	invoiceservice "github.com/lucid-digital/invoicefacil/internal/services/invoice"
	paymentservice "github.com/lucid-digital/invoicefacil/internal/services/payment"
	profileservice "github.com/lucid-digital/invoicefacil/internal/services/profile"
	recurringservice "github.com/lucid-digital/invoicefacil/internal/services/recurring"
	senderservice "github.com/lucid-digital/invoicefacil/internal/services/sender"
	"github.com/lucid-digital/invoicefacil/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	clientService := clientservice.NewClientService(db, logger)
	invoiceService := invoiceservice.NewInvoiceService(db, cacheRedis, logger)
	// Уведомления о сгенерированных счетах публикует только планировщик,
	// HTTP-приложение к RabbitMQ не подключается.
	recurringService := recurringservice.NewRecurringService(db, nil, logger, nil)
	profileService := profileservice.NewProfileService(db, logger)

	providerClient := paymentprovider.NewClient(cfg.PaymentSecretKey, cfg.PaymentAPIURL, nil)
	paymentService := paymentservice.NewPaymentService(providerClient, db, cfg.AppURL, logger)

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(cfg.SMTP, logger, transport)

	renderer := pdf.NewRenderer()

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, db,
		authService, clientService, invoiceService, recurringService,
		paymentService, profileService, senderService, renderer)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  *cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
