package create

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lucid-digital/invoicefacil/internal/http/middlewarectx"
	"github.com/lucid-digital/invoicefacil/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userUID string, req models.DummyInvoice) (string, error) {
	args := m.Called(ctx, userUID, req)
	return args.String(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{
		"invoice_number": "INV-001",
		"client_name": "Acme Corp",
		"client_email": "billing@acme.example",
		"issue_date": "2025-03-01",
		"due_date": "2025-03-31",
		"line_items": [{"description": "Consulting", "quantity": 2, "rate": 150}]
	}`

	freeItemBody := `{
		"invoice_number": "INV-002",
		"client_name": "Acme Corp",
		"client_email": "billing@acme.example",
		"issue_date": "2025-03-01",
		"due_date": "2025-03-31",
		"line_items": [
			{"description": "Consulting", "quantity": 2, "rate": 150},
			{"description": "Onboarding session", "quantity": 1, "rate": 0}
		]
	}`

	tests := []struct {
		name           string
		userUID        string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное создание счёта",
			userUID: "user-1",
			body:    validBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-1", mock.Anything).
					Return("inv-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"last_added_id":"inv-1"`,
		},
		{
			name:    "бесплатная позиция с нулевой ставкой проходит валидацию",
			userUID: "user-1",
			body:    freeItemBody,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-1", mock.MatchedBy(func(req models.DummyInvoice) bool {
					return len(req.LineItems) == 2 && req.LineItems[1].Rate == 0
				})).Return("inv-2", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"last_added_id":"inv-2"`,
		},
		{
			name:           "некорректное тело запроса",
			userUID:        "user-1",
			body:           `{invalid`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:    "счёт без позиций отклоняется",
			userUID: "user-1",
			body: `{
				"invoice_number": "INV-003",
				"client_name": "Acme Corp",
				"client_email": "billing@acme.example",
				"issue_date": "2025-03-01",
				"due_date": "2025-03-31",
				"line_items": []
			}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error"`,
		},
		{
			name:           "запрос без пользователя в контексте",
			userUID:        "",
			body:           validBody,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(tt.body))
			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
