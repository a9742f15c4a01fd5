// Package services содержит логику формирования и отправки писем о счетах.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lucid-digital/invoicefacil/internal/config"
	"github.com/lucid-digital/invoicefacil/internal/lib/sl"
	"github.com/lucid-digital/invoicefacil/internal/lib/smtp"
	"github.com/lucid-digital/invoicefacil/internal/models"
)

// SenderService собирает тексты писем о счетах и отправляет их по SMTP.
type SenderService struct {
	transport smtp.TransportInterface
	cfg       config.SMTP
	log       *slog.Logger
	now       func() time.Time
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(cfg config.SMTP, log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// SendGeneratedInvoiceNotification обрабатывает сообщение очереди о
// сгенерированном счёте и отправляет письмо клиенту.
func (s *SenderService) SendGeneratedInvoiceNotification(body []byte) error {
	var message models.InvoiceEmailData
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	return s.SendInvoice(message)
}

// SendInvoice отправляет клиенту письмо с новым счётом.
func (s *SenderService) SendInvoice(data models.InvoiceEmailData) error {
	subject := fmt.Sprintf("Invoice %s from %s", data.InvoiceNumber, s.cfg.FromName)
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", data.ClientName)
	fmt.Fprintf(&b, "You have a new invoice %s for %.2f, due on %s.\n\n",
		data.InvoiceNumber, data.Amount, data.DueDate)
	if data.PDFURL != "" {
		fmt.Fprintf(&b, "View the invoice: %s\n", data.PDFURL)
	}
	if data.PaymentLink != "" {
		fmt.Fprintf(&b, "Pay online: %s\n", data.PaymentLink)
	}
	b.WriteString("\nThank you for your business.")

	return s.sendEmail([]string{data.ClientEmail}, subject, b.String())
}

// SendReminder отправляет клиенту напоминание о неоплаченном счёте.
// Если срок оплаты прошёл, письмо называет количество дней просрочки.
func (s *SenderService) SendReminder(data models.InvoiceEmailData) error {
	subject := fmt.Sprintf("Reminder: invoice %s is awaiting payment", data.InvoiceNumber)

	daysOverdue := 0
	if dueDate, err := time.Parse("2006-01-02", data.DueDate); err == nil {
		today := s.now().UTC().Truncate(24 * time.Hour)
		if today.After(dueDate) {
			daysOverdue = int(today.Sub(dueDate).Hours() / 24)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", data.ClientName)
	if daysOverdue > 0 {
		subject = fmt.Sprintf("Invoice %s is %d days overdue", data.InvoiceNumber, daysOverdue)
		fmt.Fprintf(&b, "Invoice %s for %.2f was due on %s and is now %d days overdue.\n\n",
			data.InvoiceNumber, data.Amount, data.DueDate, daysOverdue)
	} else {
		fmt.Fprintf(&b, "This is a friendly reminder that invoice %s for %.2f is due on %s.\n\n",
			data.InvoiceNumber, data.Amount, data.DueDate)
	}
	if data.Message != "" {
		fmt.Fprintf(&b, "Message from sender: %s\n\n", data.Message)
	}
	if data.PaymentLink != "" {
		fmt.Fprintf(&b, "Pay online: %s\n", data.PaymentLink)
	}
	b.WriteString("\nThank you.")

	return s.sendEmail([]string{data.ClientEmail}, subject, b.String())
}

// SendRecurringNotice отправляет клиенту уведомление о повторяющемся счёте:
// сумму и дату следующего выставления. Счёт на этот момент ещё не создан,
// поэтому ссылки на PDF в письме нет.
func (s *SenderService) SendRecurringNotice(data models.InvoiceEmailData) error {
	subject := fmt.Sprintf("Upcoming invoice %s from %s", data.InvoiceNumber, s.cfg.FromName)
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", data.ClientName)
	fmt.Fprintf(&b, "Invoice %s for %.2f will be issued on %s.\n\n",
		data.InvoiceNumber, data.Amount, data.DueDate)
	if data.PaymentLink != "" {
		fmt.Fprintf(&b, "View the schedule: %s\n", data.PaymentLink)
	}
	b.WriteString("\nThank you for your business.")

	return s.sendEmail([]string{data.ClientEmail}, subject, b.String())
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	// В тестовых окружениях вся почта уходит на один адрес
	if s.cfg.TestRecipient != "" {
		s.log.Info("redirecting email to test recipient",
			slog.Any("original", to), slog.String("test_recipient", s.cfg.TestRecipient))
		to = []string{s.cfg.TestRecipient}
	}

	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
