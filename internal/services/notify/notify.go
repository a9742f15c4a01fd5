// Package services публикует уведомления о сгенерированных счетах в очередь.
package services

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/lucid-digital/invoicefacil/internal/lib/rabbitmq"
	"github.com/lucid-digital/invoicefacil/internal/models"
)

// NotifyService отправляет задания на письма в обменник уведомлений.
// Отправку самих писем выполняет отдельный процесс, читающий очередь.
type NotifyService struct {
	channel *amqp.Channel
	log     *slog.Logger
}

// NewNotifyService создает новый экземпляр NotifyService.
func NewNotifyService(channel *amqp.Channel, log *slog.Logger) *NotifyService {
	return &NotifyService{
		channel: channel,
		log:     log,
	}
}

// NotifyInvoiceGenerated публикует уведомление о сгенерированном счёте.
func (s *NotifyService) NotifyInvoiceGenerated(_ context.Context, data models.InvoiceEmailData) error {
	if err := rabbitmq.PublishMessage(s.channel, rabbitmq.Exchange, "invoice.generated", data); err != nil {
		return err
	}
	s.log.Info("published invoice notification",
		slog.String("invoice_number", data.InvoiceNumber),
		slog.String("client_email", data.ClientEmail))
	return nil
}
