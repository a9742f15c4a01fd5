package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lucid-digital/invoicefacil/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateInvoice(ctx context.Context, inv models.Invoice, items []models.LineItem) (string, error) {
	args := m.Called(ctx, inv, items)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) ListInvoices(ctx context.Context, userUID string) ([]*models.Invoice, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}
func (m *RepoMock) ListInvoicesByClient(ctx context.Context, clientID, userUID string) ([]*models.Invoice, error) {
	args := m.Called(ctx, clientID, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}
func (m *RepoMock) ReadInvoice(ctx context.Context, id, userUID string) (*models.Invoice, error) {
	args := m.Called(ctx, id, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}
func (m *RepoMock) UpdateInvoice(ctx context.Context, inv models.Invoice, items []models.LineItem, id, userUID string) (int, error) {
	args := m.Called(ctx, inv, items, id, userUID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) UpdateInvoiceStatus(ctx context.Context, id, status string) (int, error) {
	args := m.Called(ctx, id, status)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveInvoice(ctx context.Context, id, userUID string) (int, error) {
	args := m.Called(ctx, id, userUID)
	return args.Int(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestBuildLineItems(t *testing.T) {
	items, total := BuildLineItems([]models.DummyLineItem{
		{Description: "Design", Quantity: 3, Rate: 100},
		{Description: "Development", Quantity: 10, Rate: 80.5},
	})

	require.Len(t, items, 2)
	assert.Equal(t, 300.0, items[0].Amount)
	assert.Equal(t, 805.0, items[1].Amount)
	assert.Equal(t, 1105.0, total)
}

func TestInvoiceService_Create(t *testing.T) {
	req := models.DummyInvoice{
		InvoiceNumber: "INV-001",
		ClientName:    "Acme Corp",
		ClientEmail:   "billing@acme.example",
		IssueDate:     "2025-03-01",
		DueDate:       "2025-03-31",
		LineItems: []models.DummyLineItem{
			{Description: "Consulting", Quantity: 2, Rate: 150},
		},
	}

	tests := []struct {
		name       string
		req        models.DummyInvoice
		setupMocks func(r *RepoMock, c *CacheMock)
		wantID     string
		wantErr    bool
	}{
		{
			name: "успешное создание со статусом draft по умолчанию",
			req:  req,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool {
					return inv.Status == models.InvoiceStatusDraft &&
						inv.Total == 300 &&
						inv.UserUID == "user-1"
				}), mock.Anything).Return("inv-1", nil).Once()

				c.On("Set", "invoice:inv-1", mock.Anything, time.Hour).Return(nil).Once()
			},
			wantID: "inv-1",
		},
		{
			name: "ошибка кеша не мешает созданию",
			req:  req,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateInvoice", mock.Anything, mock.Anything, mock.Anything).
					Return("inv-2", nil).Once()
				c.On("Set", "invoice:inv-2", mock.Anything, time.Hour).
					Return(errors.New("redis down")).Once()
			},
			wantID: "inv-2",
		},
		{
			name: "некорректная дата выставления",
			req: models.DummyInvoice{
				InvoiceNumber: "INV-001",
				ClientName:    "Acme Corp",
				ClientEmail:   "billing@acme.example",
				IssueDate:     "not-a-date",
				DueDate:       "2025-03-31",
				LineItems:     req.LineItems,
			},
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := NewInvoiceService(repo, cache, newNoopLogger())

			got, err := svc.Create(context.Background(), "user-1", tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestInvoiceService_Read_CacheHitForOwner(t *testing.T) {
	cached := &models.Invoice{ID: "inv-1", UserUID: "user-1", InvoiceNumber: "INV-001"}

	repo := new(RepoMock)
	cache := new(CacheMock)
	cache.On("Get", "invoice:inv-1", mock.Anything).
		Run(func(args mock.Arguments) {
			ptr := args.Get(1).(**models.Invoice)
			*ptr = cached
		}).Return(true, nil).Once()

	svc := NewInvoiceService(repo, cache, newNoopLogger())

	got, err := svc.Read(context.Background(), "inv-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, cached, got)

	repo.AssertNotCalled(t, "ReadInvoice", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestInvoiceService_Read_CacheEntryOfAnotherUserIgnored(t *testing.T) {
	cached := &models.Invoice{ID: "inv-1", UserUID: "someone-else"}
	fresh := &models.Invoice{ID: "inv-1", UserUID: "user-1"}

	repo := new(RepoMock)
	repo.On("ReadInvoice", mock.Anything, "inv-1", "user-1").Return(fresh, nil).Once()

	cache := new(CacheMock)
	cache.On("Get", "invoice:inv-1", mock.Anything).
		Run(func(args mock.Arguments) {
			ptr := args.Get(1).(**models.Invoice)
			*ptr = cached
		}).Return(true, nil).Once()
	cache.On("Set", "invoice:inv-1", fresh, time.Hour).Return(nil).Once()

	svc := NewInvoiceService(repo, cache, newNoopLogger())

	got, err := svc.Read(context.Background(), "inv-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, fresh, got)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestInvoiceService_Read_PublicBypassesCache(t *testing.T) {
	fresh := &models.Invoice{ID: "inv-1", UserUID: "user-1"}

	repo := new(RepoMock)
	repo.On("ReadInvoice", mock.Anything, "inv-1", "").Return(fresh, nil).Once()

	cache := new(CacheMock)

	svc := NewInvoiceService(repo, cache, newNoopLogger())

	got, err := svc.Read(context.Background(), "inv-1", "")
	require.NoError(t, err)
	assert.Equal(t, fresh, got)

	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestInvoiceService_UpdateStatus_InvalidatesCache(t *testing.T) {
	repo := new(RepoMock)
	repo.On("UpdateInvoiceStatus", mock.Anything, "inv-1", models.InvoiceStatusPaid).
		Return(1, nil).Once()

	cache := new(CacheMock)
	cache.On("Invalidate", "invoice:inv-1").Return(nil).Once()

	svc := NewInvoiceService(repo, cache, newNoopLogger())

	count, err := svc.UpdateStatus(context.Background(), "inv-1", models.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
