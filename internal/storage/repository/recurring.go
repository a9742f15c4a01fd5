package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lucid-digital/invoicefacil/internal/models"
)

// CreateRecurringInvoice вставляет шаблон повторяющегося счёта вместе
// с позициями в одной транзакции и возвращает ID шаблона.
func (s *Storage) CreateRecurringInvoice(ctx context.Context, tpl models.RecurringInvoice, items []models.RecurringLineItem) (string, error) {
	const op = "storage.CreateRecurringInvoice"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO recurring_invoices (user_uid, client_id, invoice_number_prefix,
			      client_name, client_email, frequency, start_date, end_date,
			      next_date, status, notes, total)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id`
	var newID string
	err = tx.QueryRowContext(ctx, query,
		tpl.UserUID, tpl.ClientID, tpl.InvoiceNumberPrefix, tpl.ClientName,
		tpl.ClientEmail, tpl.Frequency, tpl.StartDate, tpl.EndDate,
		tpl.NextDate, tpl.Status, tpl.Notes, tpl.Total).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	itemQuery := `INSERT INTO recurring_line_items (recurring_invoice_id, description, quantity, rate, amount)
				  VALUES ($1, $2, $3, $4, $5)`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			newID, item.Description, item.Quantity, item.Rate, item.Amount); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListRecurringInvoices возвращает шаблоны пользователя, ближайшие по дате первыми.
func (s *Storage) ListRecurringInvoices(ctx context.Context, userUID string) ([]*models.RecurringInvoice, error) {
	const op = "storage.ListRecurringInvoices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, invoice_number_prefix, client_name,
			      client_email, frequency, start_date, end_date, next_date, status,
			      notes, total, created_at
			  FROM recurring_invoices
			  WHERE user_uid = $1
			  ORDER BY next_date`
	return s.queryRecurring(ctx, op, query, userUID)
}

// FindRecurringInvoicesDue возвращает активные шаблоны, у которых дата
// следующей генерации не позже заданного дня.
func (s *Storage) FindRecurringInvoicesDue(ctx context.Context, day time.Time) ([]*models.RecurringInvoice, error) {
	const op = "storage.FindRecurringInvoicesDue"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, invoice_number_prefix, client_name,
			      client_email, frequency, start_date, end_date, next_date, status,
			      notes, total, created_at
			  FROM recurring_invoices
			  WHERE status = 'active' AND next_date <= $1
			  ORDER BY next_date`
	return s.queryRecurring(ctx, op, query, day)
}

func (s *Storage) queryRecurring(ctx context.Context, op, query string, args ...any) ([]*models.RecurringInvoice, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.RecurringInvoice
	for rows.Next() {
		var item models.RecurringInvoice
		var endDate sql.NullTime
		if err := rows.Scan(&item.ID, &item.UserUID, &item.ClientID, &item.InvoiceNumberPrefix,
			&item.ClientName, &item.ClientEmail, &item.Frequency, &item.StartDate,
			&endDate, &item.NextDate, &item.Status, &item.Notes, &item.Total,
			&item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if endDate.Valid {
			item.EndDate = &endDate.Time
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadRecurringInvoice возвращает шаблон по ID вместе с позициями.
// Пустой userUID отключает проверку владельца — так шаблон читает
// пакетный запуск генерации.
func (s *Storage) ReadRecurringInvoice(ctx context.Context, id, userUID string) (*models.RecurringInvoice, error) {
	const op = "storage.ReadRecurringInvoice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, invoice_number_prefix, client_name,
			      client_email, frequency, start_date, end_date, next_date, status,
			      notes, total, created_at
			  FROM recurring_invoices
			  WHERE id = $1 AND ($2::uuid IS NULL OR user_uid = $2::uuid)`
	var result models.RecurringInvoice
	var endDate sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, id, ownerParam(userUID))
	if err := row.Scan(&result.ID, &result.UserUID, &result.ClientID, &result.InvoiceNumberPrefix,
		&result.ClientName, &result.ClientEmail, &result.Frequency, &result.StartDate,
		&endDate, &result.NextDate, &result.Status, &result.Notes, &result.Total,
		&result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if endDate.Valid {
		result.EndDate = &endDate.Time
	}

	items, err := s.ListRecurringLineItems(ctx, result.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result.LineItems = items
	return &result, nil
}

// ListRecurringLineItems возвращает позиции шаблона в порядке их вставки.
func (s *Storage) ListRecurringLineItems(ctx context.Context, recurringID string) ([]models.RecurringLineItem, error) {
	const op = "storage.ListRecurringLineItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, recurring_invoice_id, description, quantity, rate, amount
			  FROM recurring_line_items
			  WHERE recurring_invoice_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, recurringID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.RecurringLineItem
	for rows.Next() {
		var item models.RecurringLineItem
		if err := rows.Scan(&item.ID, &item.RecurringInvoiceID, &item.Description,
			&item.Quantity, &item.Rate, &item.Amount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateRecurringInvoice обновляет шаблон и заменяет его позиции в одной
// транзакции. Возвращает количество изменённых строк шаблона.
func (s *Storage) UpdateRecurringInvoice(ctx context.Context, tpl models.RecurringInvoice, items []models.RecurringLineItem, id, userUID string) (int, error) {
	const op = "storage.UpdateRecurringInvoice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE recurring_invoices
			  SET invoice_number_prefix = $1, client_name = $2, client_email = $3,
			      frequency = $4, start_date = $5, end_date = $6, next_date = $7,
			      status = $8, notes = $9, total = $10
			  WHERE id = $11 AND user_uid = $12`
	result, err := tx.ExecContext(ctx, query,
		tpl.InvoiceNumberPrefix, tpl.ClientName, tpl.ClientEmail, tpl.Frequency,
		tpl.StartDate, tpl.EndDate, tpl.NextDate, tpl.Status, tpl.Notes,
		tpl.Total, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return 0, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recurring_line_items WHERE recurring_invoice_id = $1`, id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	itemQuery := `INSERT INTO recurring_line_items (recurring_invoice_id, description, quantity, rate, amount)
				  VALUES ($1, $2, $3, $4, $5)`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			id, item.Description, item.Quantity, item.Rate, item.Amount); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateRecurringSchedule продвигает расписание шаблона: записывает новую
// дату следующей генерации и статус. Вызывается только после успешного
// создания счёта — иначе сбой генерации молча пропустил бы цикл.
func (s *Storage) UpdateRecurringSchedule(ctx context.Context, id string, nextDate time.Time, status string) (int, error) {
	const op = "storage.UpdateRecurringSchedule"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE recurring_invoices
			  SET next_date = $1, status = $2
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, nextDate, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveRecurringInvoice удаляет шаблон; позиции удаляются каскадно.
// Порождённые шаблоном счета не трогаются — их ссылка обнуляется схемой.
func (s *Storage) RemoveRecurringInvoice(ctx context.Context, id, userUID string) (int, error) {
	const op = "storage.RemoveRecurringInvoice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM recurring_invoices WHERE id = $1 AND user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
