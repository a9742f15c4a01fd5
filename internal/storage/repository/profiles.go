package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lucid-digital/invoicefacil/internal/models"
)

// UpsertBusinessProfile сохраняет реквизиты бизнеса пользователя.
// У пользователя ровно один профиль, повторное сохранение перезаписывает его.
func (s *Storage) UpsertBusinessProfile(ctx context.Context, profile models.BusinessProfile) error {
	const op = "storage.UpsertBusinessProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO business_profiles (user_uid, name, logo_url, email, phone,
			      address, city, state, zip, country)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET name = EXCLUDED.name, logo_url = EXCLUDED.logo_url,
			      email = EXCLUDED.email, phone = EXCLUDED.phone,
			      address = EXCLUDED.address, city = EXCLUDED.city,
			      state = EXCLUDED.state, zip = EXCLUDED.zip,
			      country = EXCLUDED.country`
	_, err := s.DB.ExecContext(ctx, query,
		profile.UserUID, profile.Name, profile.LogoURL, profile.Email,
		profile.Phone, profile.Address, profile.City, profile.State,
		profile.Zip, profile.Country)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetBusinessProfile возвращает реквизиты бизнеса пользователя.
func (s *Storage) GetBusinessProfile(ctx context.Context, userUID string) (*models.BusinessProfile, error) {
	const op = "storage.GetBusinessProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, name, logo_url, email, phone, address, city, state, zip, country
			  FROM business_profiles
			  WHERE user_uid = $1`
	var result models.BusinessProfile
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&result.UserUID, &result.Name, &result.LogoURL, &result.Email,
		&result.Phone, &result.Address, &result.City, &result.State,
		&result.Zip, &result.Country); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
