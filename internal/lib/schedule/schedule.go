// Package schedule содержит чистую календарную арифметику платёжных расписаний.
package schedule

import (
	"time"

	"github.com/lucid-digital/invoicefacil/internal/models"
)

// Next возвращает дату следующей генерации счёта для заданной частоты.
//
// Недельная частота прибавляет 7 календарных дней, месячная — один месяц,
// квартальная — три, годовая — год. Переполнение дня месяца отдаётся на
// нормализацию time.AddDate: 31 января + месяц даёт 2 марта в високосный год.
// Нераспознанная частота трактуется как месячная, ошибка не возвращается —
// шаблоны с неизвестной частотой отклоняются ещё на этапе валидации записи.
func Next(date time.Time, frequency string) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return date.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		return date.AddDate(0, 1, 0)
	case models.FrequencyQuarterly:
		return date.AddDate(0, 3, 0)
	case models.FrequencyYearly:
		return date.AddDate(1, 0, 0)
	default:
		return date.AddDate(0, 1, 0)
	}
}
