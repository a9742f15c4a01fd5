package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lucid-digital/invoicefacil/internal/models"
)

// CreateInvoice вставляет счёт вместе с его позициями в одной транзакции
// и возвращает ID созданного счёта. Частично созданный счёт невозможен:
// при ошибке вставки позиций транзакция откатывается целиком.
func (s *Storage) CreateInvoice(ctx context.Context, inv models.Invoice, items []models.LineItem) (string, error) {
	const op = "storage.CreateInvoice"
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

	query := `INSERT INTO invoices (user_uid, client_id, recurring_invoice_id,
			      invoice_number, client_name, client_email, issue_date, due_date,
			      status, notes, total)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id`
	var newID string
	err = tx.QueryRowContext(ctx, query,
		inv.UserUID, inv.ClientID, inv.RecurringInvoiceID, inv.InvoiceNumber,
		inv.ClientName, inv.ClientEmail, inv.IssueDate, inv.DueDate,
		inv.Status, inv.Notes, inv.Total).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	itemQuery := `INSERT INTO line_items (invoice_id, description, quantity, rate, amount)
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

// ListInvoices возвращает список счетов пользователя, новые первыми.
func (s *Storage) ListInvoices(ctx context.Context, userUID string) ([]*models.Invoice, error) {
	const op = "storage.ListInvoices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, recurring_invoice_id, invoice_number,
			      client_name, client_email, issue_date, due_date, status, notes,
			      total, created_at
			  FROM invoices
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	return s.queryInvoices(ctx, op, query, userUID)
}

// ListInvoicesByClient возвращает счета, выставленные конкретному клиенту.
func (s *Storage) ListInvoicesByClient(ctx context.Context, clientID, userUID string) ([]*models.Invoice, error) {
	const op = "storage.ListInvoicesByClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, recurring_invoice_id, invoice_number,
			      client_name, client_email, issue_date, due_date, status, notes,
			      total, created_at
			  FROM invoices
			  WHERE client_id = $1 AND user_uid = $2
			  ORDER BY created_at DESC`
	return s.queryInvoices(ctx, op, query, clientID, userUID)
}

// ListInvoicesByRecurring возвращает счета, порождённые шаблоном.
func (s *Storage) ListInvoicesByRecurring(ctx context.Context, recurringID, userUID string) ([]*models.Invoice, error) {
	const op = "storage.ListInvoicesByRecurring"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, recurring_invoice_id, invoice_number,
			      client_name, client_email, issue_date, due_date, status, notes,
			      total, created_at
			  FROM invoices
			  WHERE recurring_invoice_id = $1 AND user_uid = $2
			  ORDER BY created_at DESC`
	return s.queryInvoices(ctx, op, query, recurringID, userUID)
}

func (s *Storage) queryInvoices(ctx context.Context, op, query string, args ...any) ([]*models.Invoice, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Invoice
	for rows.Next() {
		var item models.Invoice
		if err := rows.Scan(&item.ID, &item.UserUID, &item.ClientID, &item.RecurringInvoiceID,
			&item.InvoiceNumber, &item.ClientName, &item.ClientEmail, &item.IssueDate,
			&item.DueDate, &item.Status, &item.Notes, &item.Total, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadInvoice возвращает счёт по ID вместе с позициями. Пустой userUID
// отключает проверку владельца — так счёт читается по публичной ссылке.
func (s *Storage) ReadInvoice(ctx context.Context, id, userUID string) (*models.Invoice, error) {
	const op = "storage.ReadInvoice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, recurring_invoice_id, invoice_number,
			      client_name, client_email, issue_date, due_date, status, notes,
			      total, created_at
			  FROM invoices
			  WHERE id = $1 AND ($2::uuid IS NULL OR user_uid = $2::uuid)`
	var result models.Invoice
	row := s.DB.QueryRowContext(ctx, query, id, ownerParam(userUID))
	if err := row.Scan(&result.ID, &result.UserUID, &result.ClientID, &result.RecurringInvoiceID,
		&result.InvoiceNumber, &result.ClientName, &result.ClientEmail, &result.IssueDate,
		&result.DueDate, &result.Status, &result.Notes, &result.Total, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.ListLineItems(ctx, result.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result.LineItems = items
	return &result, nil
}

// ListLineItems возвращает позиции счёта в порядке их вставки.
func (s *Storage) ListLineItems(ctx context.Context, invoiceID string) ([]models.LineItem, error) {
	const op = "storage.ListLineItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, invoice_id, description, quantity, rate, amount
			  FROM line_items
			  WHERE invoice_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.LineItem
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description,
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

// UpdateInvoice обновляет счёт и заменяет его позиции в одной транзакции.
// Возвращает количество изменённых строк счёта.
func (s *Storage) UpdateInvoice(ctx context.Context, inv models.Invoice, items []models.LineItem, id, userUID string) (int, error) {
	const op = "storage.UpdateInvoice"
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

	query := `UPDATE invoices
			  SET invoice_number = $1, client_name = $2, client_email = $3,
			      issue_date = $4, due_date = $5, status = $6, notes = $7, total = $8
			  WHERE id = $9 AND user_uid = $10`
	result, err := tx.ExecContext(ctx, query,
		inv.InvoiceNumber, inv.ClientName, inv.ClientEmail, inv.IssueDate,
		inv.DueDate, inv.Status, inv.Notes, inv.Total, id, userUID)
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM line_items WHERE invoice_id = $1`, id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	itemQuery := `INSERT INTO line_items (invoice_id, description, quantity, rate, amount)
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

// UpdateInvoiceStatus меняет статус счёта и возвращает количество изменённых строк.
func (s *Storage) UpdateInvoiceStatus(ctx context.Context, id, status string) (int, error) {
	const op = "storage.UpdateInvoiceStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE invoices SET status = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveInvoice удаляет счёт по ID; позиции удаляются каскадно на уровне схемы.
func (s *Storage) RemoveInvoice(ctx context.Context, id, userUID string) (int, error) {
	const op = "storage.RemoveInvoice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM invoices WHERE id = $1 AND user_uid = $2`
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
