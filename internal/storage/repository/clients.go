package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lucid-digital/invoicefacil/internal/models"
)

// CreateClient вставляет новую запись клиента и возвращает её ID.
func (s *Storage) CreateClient(ctx context.Context, client models.Client) (string, error) {
	const op = "storage.CreateClient"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO clients (user_uid, name, business_name, email, phone,
			      address, city, state, zip, country, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		client.UserUID, client.Name, client.BusinessName, client.Email, client.Phone,
		client.Address, client.City, client.State, client.Zip, client.Country,
		client.Notes).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListClients возвращает список клиентов пользователя, отсортированный по имени.
func (s *Storage) ListClients(ctx context.Context, userUID string) ([]*models.Client, error) {
	const op = "storage.ListClients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, business_name, email, phone,
			      address, city, state, zip, country, notes, created_at
			  FROM clients
			  WHERE user_uid = $1
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Client
	for rows.Next() {
		var item models.Client
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Name, &item.BusinessName,
			&item.Email, &item.Phone, &item.Address, &item.City, &item.State,
			&item.Zip, &item.Country, &item.Notes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadClient возвращает клиента по его ID в пределах одного пользователя.
func (s *Storage) ReadClient(ctx context.Context, id, userUID string) (*models.Client, error) {
	const op = "storage.ReadClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, business_name, email, phone,
			      address, city, state, zip, country, notes, created_at
			  FROM clients
			  WHERE id = $1 AND user_uid = $2`
	var result models.Client
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	if err := row.Scan(&result.ID, &result.UserUID, &result.Name, &result.BusinessName,
		&result.Email, &result.Phone, &result.Address, &result.City, &result.State,
		&result.Zip, &result.Country, &result.Notes, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateClient обновляет данные клиента и возвращает количество изменённых строк.
func (s *Storage) UpdateClient(ctx context.Context, client models.Client, id, userUID string) (int, error) {
	const op = "storage.UpdateClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE clients
			  SET name = $1, business_name = $2, email = $3, phone = $4,
			      address = $5, city = $6, state = $7, zip = $8, country = $9,
			      notes = $10
			  WHERE id = $11 AND user_uid = $12`
	result, err := s.DB.ExecContext(ctx, query,
		client.Name, client.BusinessName, client.Email, client.Phone,
		client.Address, client.City, client.State, client.Zip, client.Country,
		client.Notes, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveClient удаляет клиента по ID и возвращает количество удалённых строк.
// Счета клиента не удаляются: их ссылка на клиента обнуляется на уровне схемы.
func (s *Storage) RemoveClient(ctx context.Context, id, userUID string) (int, error) {
	const op = "storage.RemoveClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM clients WHERE id = $1 AND user_uid = $2`
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
