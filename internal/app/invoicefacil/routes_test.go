package invoicefacil

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucid-digital/invoicefacil/internal/config"
)

// Проверяет, что зарегистрированные пути совпадают с внешним контрактом API.
func TestRegisterRoutes_Paths(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	RegisterRoutes(r, logger, &config.Config{}, nil,
		nil, nil, nil, nil, nil, nil, nil, nil)

	registered := map[string]bool{}
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	expected := []string{
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/clients",
		"GET /api/v1/clients/{id}",
		"POST /api/v1/invoices",
		"GET /api/v1/invoices/{id}",
		"POST /api/v1/invoices/{id}/send",
		"POST /api/v1/invoices/{id}/remind",
		"GET /api/v1/invoices/{id}/pdf",
		"POST /api/v1/invoices/{id}/payment",
		"POST /api/v1/invoices/{id}/payment/success",
		"POST /api/v1/recurring-invoices",
		"POST /api/v1/recurring-invoices/{id}/generate-invoice",
		"POST /api/v1/recurring-invoices/{id}/send",
		"GET /api/v1/recurring-invoices/{id}/invoices",
		"GET /api/v1/business-profile",
		"PUT /api/v1/business-profile",
		"GET /api/v1/cron/generate-recurring-invoices",
		"GET /api/v1/public/invoices/{id}",
		"GET /api/v1/public/invoices/{id}/pdf",
		"POST /api/v1/public/invoices/{id}/payment",
		"POST /api/v1/public/invoices/{id}/verify-payment",
		"GET /health",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "route %s is not registered", route)
	}

	// Пути, оставшиеся от старых версий контракта, не должны регистрироваться
	stale := []string{
		"POST /api/v1/recurring-invoices/{id}/generate",
		"GET /api/v1/profile",
		"POST /api/v1/public/invoices/{id}/checkout",
		"POST /api/v1/public/invoices/{id}/confirm",
	}
	for _, route := range stale {
		assert.False(t, registered[route], "stale route %s is still registered", route)
	}
}
