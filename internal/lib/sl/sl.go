// Package sl содержит вспомогательные функции для логгера slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки,
// чтобы ошибки во всех сервисах логировались единообразно:
//
//	log.Error("failed to create invoice", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
