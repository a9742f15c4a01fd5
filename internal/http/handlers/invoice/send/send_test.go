package send

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

// MockService реализует интерфейс send.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, id, userUID string) (*models.Invoice, error) {
	args := m.Called(ctx, id, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSender реализует интерфейс send.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendInvoice(data models.InvoiceEmailData) error {
	args := m.Called(data)
	return args.Error(0)
}

func sampleInvoice(status string) *models.Invoice {
	return &models.Invoice{
		ID:            "inv-1",
		UserUID:       "user-1",
		InvoiceNumber: "INV-001",
		ClientName:    "Acme Corp",
		ClientEmail:   "billing@acme.example",
		DueDate:       time.Date(2025, time.April, 14, 0, 0, 0, 0, time.UTC),
		Status:        status,
		Total:         250,
	}
}

func TestSendHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		userUID        string
		setupMocks     func(*MockService, *MockSender)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешная отправка счёта",
			userUID: "user-1",
			setupMocks: func(s *MockService, snd *MockSender) {
				s.On("Read", mock.Anything, "inv-1", "user-1").
					Return(sampleInvoice(models.InvoiceStatusSent), nil)
				snd.On("SendInvoice", mock.MatchedBy(func(data models.InvoiceEmailData) bool {
					return data.InvoiceNumber == "INV-001" &&
						data.ClientEmail == "billing@acme.example" &&
						data.DueDate == "2025-04-14"
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"sent_to":"billing@acme.example"`,
		},
		{
			name:    "отправка черновика не меняет его статус",
			userUID: "user-1",
			setupMocks: func(s *MockService, snd *MockSender) {
				// Единственное обращение к сервису — чтение; письмо не
				// переводит черновик в другой статус
				s.On("Read", mock.Anything, "inv-1", "user-1").
					Return(sampleInvoice(models.InvoiceStatusDraft), nil)
				snd.On("SendInvoice", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"sent_to":"billing@acme.example"`,
		},
		{
			name:    "счёт не найден",
			userUID: "user-1",
			setupMocks: func(s *MockService, _ *MockSender) {
				s.On("Read", mock.Anything, "inv-1", "user-1").
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"invoice not found"`,
		},
		{
			name:    "ошибка отправки письма",
			userUID: "user-1",
			setupMocks: func(s *MockService, snd *MockSender) {
				s.On("Read", mock.Anything, "inv-1", "user-1").
					Return(sampleInvoice(models.InvoiceStatusSent), nil)
				snd.On("SendInvoice", mock.Anything).Return(errors.New("smtp error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not send invoice email"`,
		},
		{
			name:           "запрос без пользователя в контексте",
			userUID:        "",
			setupMocks:     func(_ *MockService, _ *MockSender) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockSender := new(MockSender)
			tt.setupMocks(mockService, mockSender)

			handler := New(logger, mockService, mockSender, "https://app.example.com")

			req := httptest.NewRequest(http.MethodPost, "/invoices/inv-1/send", nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "inv-1")
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
