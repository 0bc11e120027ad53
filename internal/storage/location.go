package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bukid/internal/core"
)

type LocationRepository struct {
	db *sql.DB
}

// Get returns the configured location, or (nil, nil) when none has been
// set. A nil location tells the weather resolver to skip the live fetch.
func (r *LocationRepository) Get(ctx context.Context) (*core.LocationSetting, error) {
	var loc core.LocationSetting
	err := r.db.QueryRowContext(ctx, `
		SELECT city, latitude, longitude, country FROM location_setting WHERE id = 1`).
		Scan(&loc.City, &loc.Latitude, &loc.Longitude, &loc.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get location setting: %w", err)
	}
	return &loc, nil
}

// Set replaces the singleton location setting.
func (r *LocationRepository) Set(ctx context.Context, loc core.LocationSetting) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO location_setting (id, city, latitude, longitude, country)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			city = excluded.city,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			country = excluded.country`,
		loc.City, loc.Latitude, loc.Longitude, loc.Country)
	if err != nil {
		return fmt.Errorf("set location setting: %w", err)
	}
	return nil
}
