package services

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lucid-digital/invoicefacil/internal/config"
	"github.com/lucid-digital/invoicefacil/internal/lib/smtp"
	"github.com/lucid-digital/invoicefacil/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
	written strings.Builder
}

func (m *MockSMTPWriter) Write(p []byte) (int, error) {
	m.written.Write(p)
	args := m.Called(p)
	return len(p), args.Error(0)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newMockedPipeline(t *testing.T, recipient string) (*MockTransport, *MockSMTPWriter) {
	t.Helper()

	writer := new(MockSMTPWriter)
	writer.On("Write", mock.Anything).Return(nil)
	writer.On("Close").Return(nil)

	client := new(MockSMTPClient)
	client.On("Mail", "billing@invoicefacil.example").Return(nil)
	client.On("Rcpt", recipient).Return(nil)
	client.On("Data").Return(writer, nil)
	client.On("Close").Return(nil)
	client.On("Quit").Return(nil)

	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("billing@invoicefacil.example")
	transport.On("Connect").Return(client, nil)

	return transport, writer
}

func sampleEmailData() models.InvoiceEmailData {
	return models.InvoiceEmailData{
		InvoiceNumber: "INV-001",
		ClientName:    "Acme Corp",
		ClientEmail:   "billing@acme.example",
		Amount:        250,
		DueDate:       "2025-04-14",
		PDFURL:        "https://app.example.com/public/invoices/inv-1/pdf",
		PaymentLink:   "https://app.example.com/invoice/inv-1",
	}
}

func TestSenderService_SendInvoice(t *testing.T) {
	transport, writer := newMockedPipeline(t, "billing@acme.example")

	svc := NewSenderService(config.SMTP{FromName: "InvoiceFacil"}, newNoopLogger(), transport)

	err := svc.SendInvoice(sampleEmailData())
	assert.NoError(t, err)

	written := writer.written.String()
	assert.Contains(t, written, "Subject: Invoice INV-001 from InvoiceFacil")
	assert.Contains(t, written, "To: billing@acme.example")
	assert.Contains(t, written, "250.00")
	assert.Contains(t, written, "https://app.example.com/invoice/inv-1")

	transport.AssertExpectations(t)
}

func TestSenderService_SendInvoice_TestRecipientRedirect(t *testing.T) {
	transport, writer := newMockedPipeline(t, "qa@invoicefacil.example")

	cfg := config.SMTP{FromName: "InvoiceFacil", TestRecipient: "qa@invoicefacil.example"}
	svc := NewSenderService(cfg, newNoopLogger(), transport)

	err := svc.SendInvoice(sampleEmailData())
	assert.NoError(t, err)

	assert.Contains(t, writer.written.String(), "To: qa@invoicefacil.example")
}

func TestSenderService_SendReminder_Overdue(t *testing.T) {
	transport, writer := newMockedPipeline(t, "billing@acme.example")

	svc := NewSenderService(config.SMTP{FromName: "InvoiceFacil"}, newNoopLogger(), transport)
	svc.now = func() time.Time {
		return time.Date(2025, time.April, 19, 10, 0, 0, 0, time.UTC)
	}

	err := svc.SendReminder(sampleEmailData())
	assert.NoError(t, err)

	written := writer.written.String()
	assert.Contains(t, written, "Subject: Invoice INV-001 is 5 days overdue")
	assert.Contains(t, written, "now 5 days overdue")
}

func TestSenderService_SendReminder_NotYetDue(t *testing.T) {
	transport, writer := newMockedPipeline(t, "billing@acme.example")

	svc := NewSenderService(config.SMTP{FromName: "InvoiceFacil"}, newNoopLogger(), transport)
	svc.now = func() time.Time {
		return time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)
	}

	err := svc.SendReminder(sampleEmailData())
	assert.NoError(t, err)

	written := writer.written.String()
	assert.Contains(t, written, "Subject: Reminder: invoice INV-001 is awaiting payment")
	assert.Contains(t, written, "friendly reminder")
}

func TestSenderService_SendReminder_CustomMessage(t *testing.T) {
	transport, writer := newMockedPipeline(t, "billing@acme.example")

	svc := NewSenderService(config.SMTP{FromName: "InvoiceFacil"}, newNoopLogger(), transport)
	svc.now = func() time.Time {
		return time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)
	}

	data := sampleEmailData()
	data.Message = "Please pay by Friday"
	err := svc.SendReminder(data)
	assert.NoError(t, err)

	assert.Contains(t, writer.written.String(), "Message from sender: Please pay by Friday")
}

func TestSenderService_SendRecurringNotice(t *testing.T) {
	transport, writer := newMockedPipeline(t, "billing@acme.example")

	svc := NewSenderService(config.SMTP{FromName: "InvoiceFacil"}, newNoopLogger(), transport)

	data := sampleEmailData()
	data.InvoiceNumber = "INV-42025"
	data.PDFURL = ""
	err := svc.SendRecurringNotice(data)
	assert.NoError(t, err)

	written := writer.written.String()
	assert.Contains(t, written, "Subject: Upcoming invoice INV-42025 from InvoiceFacil")
	assert.Contains(t, written, "will be issued on 2025-04-14")
	assert.NotContains(t, written, "pdf")
}

func TestSenderService_SendGeneratedInvoiceNotification(t *testing.T) {
	transport, writer := newMockedPipeline(t, "billing@acme.example")

	svc := NewSenderService(config.SMTP{FromName: "InvoiceFacil"}, newNoopLogger(), transport)

	body := `{"invoice_number":"INV-001","client_name":"Acme Corp","client_email":"billing@acme.example","amount":250,"due_date":"2025-04-14"}`
	err := svc.SendGeneratedInvoiceNotification([]byte(body))
	assert.NoError(t, err)

	assert.Contains(t, writer.written.String(), "Invoice INV-001")
}

func TestSenderService_SendGeneratedInvoiceNotification_BadPayload(t *testing.T) {
	transport := new(MockTransport)

	svc := NewSenderService(config.SMTP{FromName: "InvoiceFacil"}, newNoopLogger(), transport)

	err := svc.SendGeneratedInvoiceNotification([]byte("{not json"))
	assert.Error(t, err)

	transport.AssertNotCalled(t, "Connect")
}

func TestSenderService_SendInvoice_ConnectError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("billing@invoicefacil.example")
	transport.On("Connect").Return(nil, errors.New("dial tcp: connection refused"))

	svc := NewSenderService(config.SMTP{FromName: "InvoiceFacil"}, newNoopLogger(), transport)

	err := svc.SendInvoice(sampleEmailData())
	assert.Error(t, err)
}
