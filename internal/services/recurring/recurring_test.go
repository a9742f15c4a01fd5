package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lucid-digital/invoicefacil/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateRecurringInvoice(ctx context.Context, tpl models.RecurringInvoice, items []models.RecurringLineItem) (string, error) {
	args := m.Called(ctx, tpl, items)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) ListRecurringInvoices(ctx context.Context, userUID string) ([]*models.RecurringInvoice, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RecurringInvoice), args.Error(1)
}
func (m *RepoMock) ReadRecurringInvoice(ctx context.Context, id, userUID string) (*models.RecurringInvoice, error) {
	args := m.Called(ctx, id, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecurringInvoice), args.Error(1)
}
func (m *RepoMock) UpdateRecurringInvoice(ctx context.Context, tpl models.RecurringInvoice, items []models.RecurringLineItem, id, userUID string) (int, error) {
	args := m.Called(ctx, tpl, items, id, userUID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveRecurringInvoice(ctx context.Context, id, userUID string) (int, error) {
	args := m.Called(ctx, id, userUID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) FindRecurringInvoicesDue(ctx context.Context, day time.Time) ([]*models.RecurringInvoice, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RecurringInvoice), args.Error(1)
}
func (m *RepoMock) UpdateRecurringSchedule(ctx context.Context, id string, nextDate time.Time, status string) (int, error) {
	args := m.Called(ctx, id, nextDate, status)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CreateInvoice(ctx context.Context, inv models.Invoice, items []models.LineItem) (string, error) {
	args := m.Called(ctx, inv, items)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) ListInvoicesByRecurring(ctx context.Context, recurringID, userUID string) ([]*models.Invoice, error) {
	args := m.Called(ctx, recurringID, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) NotifyInvoiceGenerated(ctx context.Context, data models.InvoiceEmailData) error {
	return m.Called(ctx, data).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func fixedNow(y int, m time.Month, d int) func() time.Time {
	return func() time.Time {
		return time.Date(y, m, d, 12, 30, 0, 0, time.UTC)
	}
}

func sampleTemplate() *models.RecurringInvoice {
	return &models.RecurringInvoice{
		ID:                  "tpl-1",
		UserUID:             "user-1",
		InvoiceNumberPrefix: "INV-",
		ClientName:          "Acme Corp",
		ClientEmail:         "billing@acme.example",
		Frequency:           models.FrequencyMonthly,
		StartDate:           time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		NextDate:            time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		Status:              models.RecurringStatusActive,
		Notes:               "Monthly retainer",
		Total:               25,
		LineItems: []models.RecurringLineItem{
			{Description: "Consulting", Quantity: 2, Rate: 10, Amount: 20},
			{Description: "Hosting", Quantity: 1, Rate: 5, Amount: 5},
		},
	}
}

func TestRecurringService_Create(t *testing.T) {
	tests := []struct {
		name       string
		req        models.DummyRecurringInvoice
		setupMocks func(r *RepoMock)
		wantID     string
		wantErr    bool
	}{
		{
			name: "успешное создание, next_date по умолчанию равен start_date",
			req: models.DummyRecurringInvoice{
				InvoiceNumberPrefix: "INV-",
				ClientName:          "Acme Corp",
				ClientEmail:         "billing@acme.example",
				Frequency:           models.FrequencyMonthly,
				StartDate:           "2025-01-15",
				LineItems: []models.DummyLineItem{
					{Description: "Consulting", Quantity: 2, Rate: 10},
				},
			},
			setupMocks: func(r *RepoMock) {
				r.On("CreateRecurringInvoice", mock.Anything, mock.MatchedBy(func(tpl models.RecurringInvoice) bool {
					return tpl.NextDate.Equal(tpl.StartDate) &&
						tpl.Status == models.RecurringStatusActive &&
						tpl.Total == 20
				}), mock.Anything).Return("tpl-1", nil).Once()
			},
			wantID: "tpl-1",
		},
		{
			name: "некорректная дата начала",
			req: models.DummyRecurringInvoice{
				InvoiceNumberPrefix: "INV-",
				ClientName:          "Acme Corp",
				ClientEmail:         "billing@acme.example",
				Frequency:           models.FrequencyMonthly,
				StartDate:           "not-a-date",
				LineItems: []models.DummyLineItem{
					{Description: "Consulting", Quantity: 2, Rate: 10},
				},
			},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := NewRecurringService(repo, nil, newNoopLogger(), nil)

			got, err := svc.Create(context.Background(), "user-1", tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestRecurringService_Materialize(t *testing.T) {
	svc := NewRecurringService(new(RepoMock), nil, newNoopLogger(), fixedNow(2025, time.March, 15))
	tpl := sampleTemplate()

	inv, items := svc.Materialize(tpl, "")

	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, today, inv.IssueDate)
	assert.Equal(t, today.AddDate(0, 0, 30), inv.DueDate)
	assert.Equal(t, models.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "Generated from recurring invoice. Monthly retainer", inv.Notes)
	assert.Equal(t, 25.0, inv.Total)
	assert.True(t, strings.HasPrefix(inv.InvoiceNumber, "INV-"))
	require.NotNil(t, inv.RecurringInvoiceID)
	assert.Equal(t, "tpl-1", *inv.RecurringInvoiceID)

	require.Len(t, items, 2)
	assert.Equal(t, 20.0, items[0].Amount)
	assert.Equal(t, 5.0, items[1].Amount)
}

func TestRecurringService_Materialize_CustomNumber(t *testing.T) {
	svc := NewRecurringService(new(RepoMock), nil, newNoopLogger(), fixedNow(2025, time.March, 15))

	inv, _ := svc.Materialize(sampleTemplate(), "CUSTOM-42")

	assert.Equal(t, "CUSTOM-42", inv.InvoiceNumber)
}

func TestRecurringService_Advance(t *testing.T) {
	endDate := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		setup      func(tpl *models.RecurringInvoice)
		wantNext   time.Time
		wantStatus string
	}{
		{
			name:       "расписание без даты окончания остаётся активным",
			setup:      func(_ *models.RecurringInvoice) {},
			wantNext:   time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
			wantStatus: models.RecurringStatusActive,
		},
		{
			name: "шаблон завершается, когда новая дата выходит за дату окончания",
			setup: func(tpl *models.RecurringInvoice) {
				tpl.EndDate = &endDate
			},
			wantNext:   time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
			wantStatus: models.RecurringStatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := sampleTemplate()
			tt.setup(tpl)

			repo := new(RepoMock)
			repo.On("UpdateRecurringSchedule", mock.Anything, "tpl-1", tt.wantNext, tt.wantStatus).
				Return(1, nil).Once()

			svc := NewRecurringService(repo, nil, newNoopLogger(), fixedNow(2025, time.March, 15))

			next, status, err := svc.Advance(context.Background(), tpl)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, next)
			assert.Equal(t, tt.wantStatus, status)

			repo.AssertExpectations(t)
		})
	}
}

func TestRecurringService_Generate_DoesNotAdvanceSchedule(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadRecurringInvoice", mock.Anything, "tpl-1", "user-1").
		Return(sampleTemplate(), nil).Once()
	repo.On("CreateInvoice", mock.Anything, mock.Anything, mock.Anything).
		Return("inv-1", nil).Once()

	svc := NewRecurringService(repo, nil, newNoopLogger(), fixedNow(2025, time.March, 15))

	inv, err := svc.Generate(context.Background(), "tpl-1", "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, "inv-1", inv.ID)
	assert.Len(t, inv.LineItems, 2)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpdateRecurringSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecurringService_GenerateDue_FailureIsolation(t *testing.T) {
	day := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	failing := sampleTemplate()
	failing.ID = "tpl-broken"
	healthy := sampleTemplate()
	healthy.ID = "tpl-ok"

	repo := new(RepoMock)
	repo.On("FindRecurringInvoicesDue", mock.Anything, day).
		Return([]*models.RecurringInvoice{failing, healthy}, nil).Once()
	repo.On("ReadRecurringInvoice", mock.Anything, "tpl-broken", "").
		Return(nil, errors.New("db error")).Once()
	repo.On("ReadRecurringInvoice", mock.Anything, "tpl-ok", "").
		Return(healthy, nil).Once()
	repo.On("CreateInvoice", mock.Anything, mock.Anything, mock.Anything).
		Return("inv-2", nil).Once()
	repo.On("UpdateRecurringSchedule", mock.Anything, "tpl-ok",
		time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC), models.RecurringStatusActive).
		Return(1, nil).Once()

	svc := NewRecurringService(repo, nil, newNoopLogger(), fixedNow(2025, time.March, 15))

	report, err := svc.GenerateDue(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Results, 2)

	assert.Equal(t, "tpl-broken", report.Results[0].ID)
	assert.Equal(t, "error", report.Results[0].Status)
	assert.NotEmpty(t, report.Results[0].Error)

	assert.Equal(t, "tpl-ok", report.Results[1].ID)
	assert.Equal(t, "success", report.Results[1].Status)
	assert.Equal(t, "inv-2", report.Results[1].InvoiceID)
	assert.Equal(t, "2025-04-15", report.Results[1].NextDate)

	repo.AssertExpectations(t)
}

func TestRecurringService_GenerateDue_NotifierFailureDoesNotFailGeneration(t *testing.T) {
	day := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	tpl := sampleTemplate()

	repo := new(RepoMock)
	repo.On("FindRecurringInvoicesDue", mock.Anything, day).
		Return([]*models.RecurringInvoice{tpl}, nil).Once()
	repo.On("ReadRecurringInvoice", mock.Anything, "tpl-1", "").
		Return(tpl, nil).Once()
	repo.On("CreateInvoice", mock.Anything, mock.Anything, mock.Anything).
		Return("inv-3", nil).Once()
	repo.On("UpdateRecurringSchedule", mock.Anything, "tpl-1", mock.Anything, mock.Anything).
		Return(1, nil).Once()

	notifier := new(NotifierMock)
	notifier.On("NotifyInvoiceGenerated", mock.Anything, mock.MatchedBy(func(data models.InvoiceEmailData) bool {
		return data.ClientEmail == "billing@acme.example" && data.Amount == 25
	})).Return(errors.New("broker down")).Once()

	svc := NewRecurringService(repo, notifier, newNoopLogger(), fixedNow(2025, time.March, 15))

	report, err := svc.GenerateDue(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 0, report.Failed)

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRecurringService_GenerateDue_Empty(t *testing.T) {
	day := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	repo := new(RepoMock)
	repo.On("FindRecurringInvoicesDue", mock.Anything, day).
		Return([]*models.RecurringInvoice{}, nil).Once()

	svc := NewRecurringService(repo, nil, newNoopLogger(), fixedNow(2025, time.March, 15))

	report, err := svc.GenerateDue(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
	assert.Empty(t, report.Results)

	repo.AssertExpectations(t)
}
