// Package services содержит бизнес-логику приёма оплат через платёжные сессии.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/lucid-digital/invoicefacil/internal/models"
	"github.com/lucid-digital/invoicefacil/internal/paymentprovider"
)

// ErrPaymentMismatch возвращается, когда сессия оплаты принадлежит
// другому счёту или платёж ещё не завершён.
var ErrPaymentMismatch = errors.New("payment session does not match invoice")

// CheckoutProvider описывает контракт платёжного провайдера.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, req paymentprovider.CreateCheckoutSessionRequest) (*paymentprovider.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*paymentprovider.CheckoutSession, error)
}

// InvoiceReader описывает доступ к счетам из платёжного сервиса.
type InvoiceReader interface {
	// ReadInvoice возвращает счёт. Пустой userUID отключает проверку владельца.
	ReadInvoice(ctx context.Context, id, userUID string) (*models.Invoice, error)
	// UpdateInvoiceStatus переводит счёт в новый статус.
	UpdateInvoiceStatus(ctx context.Context, id, status string) (int, error)
}

// PaymentService создает платёжные сессии для счетов и подтверждает оплату.
type PaymentService struct {
	provider CheckoutProvider
	invoices InvoiceReader
	appURL   string
	log      *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(provider CheckoutProvider, invoices InvoiceReader, appURL string, log *slog.Logger) *PaymentService {
	return &PaymentService{
		provider: provider,
		invoices: invoices,
		appURL:   appURL,
		log:      log,
	}
}

// CreateCheckout создает платёжную сессию для счёта и возвращает адрес
// платёжной страницы. Сессия привязывается к счёту через
// client_reference_id — по нему подтверждение сверяет платёж.
func (s *PaymentService) CreateCheckout(ctx context.Context, invoiceID string) (*paymentprovider.CheckoutSession, error) {
	inv, err := s.invoices.ReadInvoice(ctx, invoiceID, "")
	if err != nil {
		return nil, err
	}
	if inv.Status == models.InvoiceStatusPaid {
		return nil, fmt.Errorf("invoice %s is already paid", invoiceID)
	}

	session, err := s.provider.CreateCheckoutSession(ctx, paymentprovider.CreateCheckoutSessionRequest{
		ClientReferenceID: inv.ID,
		CustomerEmail:     inv.ClientEmail,
		Currency:          "usd",
		AmountTotal:       int64(math.Round(inv.Total * 100)),
		Description:       "Invoice " + inv.InvoiceNumber,
		SuccessURL:        s.appURL + "/invoice/" + inv.ID + "?paid=true",
		CancelURL:         s.appURL + "/invoice/" + inv.ID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("created checkout session",
		slog.String("invoice_id", inv.ID), slog.String("session_id", session.ID))
	return session, nil
}

// Confirm сверяет завершённую сессию оплаты со счётом и помечает счёт
// оплаченным. Статус сессии запрашивается у провайдера напрямую:
// данным из запроса клиента сервис не доверяет.
func (s *PaymentService) Confirm(ctx context.Context, sessionID, invoiceID string) error {
	session, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.ClientReferenceID != invoiceID || session.PaymentStatus != "paid" {
		return ErrPaymentMismatch
	}

	if _, err := s.invoices.UpdateInvoiceStatus(ctx, invoiceID, models.InvoiceStatusPaid); err != nil {
		return err
	}
	s.log.Info("invoice marked as paid",
		slog.String("invoice_id", invoiceID), slog.String("session_id", sessionID))
	return nil
}
