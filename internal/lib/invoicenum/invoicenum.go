// Package invoicenum генерирует человекочитаемые номера счетов.
package invoicenum

import (
	"strings"

	"github.com/google/uuid"
)

// Generate возвращает номер счёта вида "<prefix><suffix>", где suffix —
// первые восемь шестнадцатеричных символов случайного UUID. В отличие от
// суффикса из таймштампа такой номер не склонен к коллизиям при частых
// вызовах, а префикс сохраняет привычный вид номера для клиента.
func Generate(prefix string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return prefix + strings.ToUpper(suffix)
}
