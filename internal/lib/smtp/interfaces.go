// Package smtp предоставляет транспорт для отправки счетов и напоминаний по SMTP.
package smtp

import "io"

// Client описывает минимальный SMTP-диалог, который нужен рассыльщику
// для отправки одного письма. Сигнатуры совпадают с net/smtp.Client,
// что позволяет подменять клиента в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface абстрагирует установку SMTP-соединения.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
