package generate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lucid-digital/invoicefacil/internal/http/middlewarectx"
	"github.com/lucid-digital/invoicefacil/internal/models"
	"github.com/lucid-digital/invoicefacil/internal/storage/repository"
)

// MockService реализует интерфейс generate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Generate(ctx context.Context, id, userUID, customNumber string) (*models.Invoice, error) {
	args := m.Called(ctx, id, userUID, customNumber)
	if res := args.Get(0); res != nil {
		return res.(*models.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSender реализует интерфейс generate.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendInvoice(data models.InvoiceEmailData) error {
	return m.Called(data).Error(0)
}

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV-A1B2C3D4",
		ClientName:    "Acme Corp",
		ClientEmail:   "billing@acme.example",
		DueDate:       time.Date(2025, time.April, 14, 0, 0, 0, 0, time.UTC),
		Status:        models.InvoiceStatusDraft,
		Total:         250,
	}
}

func TestGenerateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		userUID        string
		setupService   func(*MockService)
		setupSender    func(*MockSender)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешная генерация без тела запроса",
			body:    "",
			userUID: "user-1",
			setupService: func(m *MockService) {
				m.On("Generate", mock.Anything, "tpl-1", "user-1", "").
					Return(sampleInvoice(), nil)
			},
			setupSender:    func(_ *MockSender) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `"InvoiceNumber":"INV-A1B2C3D4"`,
		},
		{
			name:    "генерация с отправкой письма и своим номером",
			body:    `{"send_email": true, "custom_invoice_number": "CUSTOM-42"}`,
			userUID: "user-1",
			setupService: func(m *MockService) {
				m.On("Generate", mock.Anything, "tpl-1", "user-1", "CUSTOM-42").
					Return(sampleInvoice(), nil)
			},
			setupSender: func(m *MockSender) {
				m.On("SendInvoice", mock.MatchedBy(func(data models.InvoiceEmailData) bool {
					return data.ClientEmail == "billing@acme.example" &&
						data.DueDate == "2025-04-14" &&
						strings.Contains(data.PaymentLink, "/invoice/inv-1")
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:    "сбой письма не отменяет генерацию",
			body:    `{"send_email": true}`,
			userUID: "user-1",
			setupService: func(m *MockService) {
				m.On("Generate", mock.Anything, "tpl-1", "user-1", "").
					Return(sampleInvoice(), nil)
			},
			setupSender: func(m *MockSender) {
				m.On("SendInvoice", mock.Anything).Return(errors.New("smtp down"))
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:    "шаблон не найден",
			body:    "",
			userUID: "user-1",
			setupService: func(m *MockService) {
				m.On("Generate", mock.Anything, "tpl-1", "user-1", "").
					Return(nil, repository.ErrNotFound)
			},
			setupSender:    func(_ *MockSender) {},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"recurring invoice not found"`,
		},
		{
			name:           "запрос без пользователя в контексте",
			body:           "",
			userUID:        "",
			setupService:   func(_ *MockService) {},
			setupSender:    func(_ *MockSender) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockSender := new(MockSender)
			tt.setupService(mockService)
			tt.setupSender(mockSender)

			handler := New(logger, mockService, mockSender, "https://app.example.com")

			req := httptest.NewRequest(http.MethodPost, "/recurring-invoices/tpl-1/generate-invoice", strings.NewReader(tt.body))

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "tpl-1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
			mockSender.AssertExpectations(t)
		})
	}
}
