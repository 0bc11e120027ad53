package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bukid/internal/core"
)

type CropRepository struct {
	db *sql.DB
}

const cropColumns = `id, name, planting_date, expected_harvest_date, health, stage, status, notes`

func scanCrop(row interface{ Scan(...any) error }) (core.Crop, error) {
	var c core.Crop
	var planting, expected, health, stage, status string
	if err := row.Scan(&c.ID, &c.Name, &planting, &expected, &health, &stage, &status, &c.Notes); err != nil {
		return core.Crop{}, err
	}
	c.PlantingDate = parseTime(planting)
	c.ExpectedHarvestDate = parseTime(expected)
	c.Health = core.CropHealth(health)
	c.Stage = core.CropStage(stage)
	c.Status = core.CropStatus(status)
	return c, nil
}

func (r *CropRepository) List(ctx context.Context) ([]core.Crop, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cropColumns+` FROM crops ORDER BY planting_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}
	defer rows.Close()

	var crops []core.Crop
	for rows.Next() {
		c, err := scanCrop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan crop: %w", err)
		}
		crops = append(crops, c)
	}
	return crops, rows.Err()
}

func (r *CropRepository) Get(ctx context.Context, id string) (core.Crop, error) {
	c, err := scanCrop(r.db.QueryRowContext(ctx, `SELECT `+cropColumns+` FROM crops WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Crop{}, fmt.Errorf("crop %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Crop{}, fmt.Errorf("get crop: %w", err)
	}
	return c, nil
}

func (r *CropRepository) Create(ctx context.Context, c core.Crop) (core.Crop, error) {
	if c.Status == "" {
		c.Status = core.CropActive
	}
	if c.Health == "" {
		c.Health = core.HealthHealthy
	}
	if c.Stage == "" {
		c.Stage = core.StageSeedling
	}
	if err := c.Validate(); err != nil {
		return core.Crop{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO crops (id, name, planting_date, expected_harvest_date, health, stage, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, fmtTime(c.PlantingDate), fmtTime(c.ExpectedHarvestDate),
		string(c.Health), string(c.Stage), string(c.Status), c.Notes)
	if err != nil {
		return core.Crop{}, fmt.Errorf("create crop: %w", err)
	}
	return c, nil
}

func (r *CropRepository) Update(ctx context.Context, c core.Crop) error {
	if err := c.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE crops
		SET name = ?, planting_date = ?, expected_harvest_date = ?, health = ?, stage = ?, status = ?, notes = ?
		WHERE id = ?`,
		c.Name, fmtTime(c.PlantingDate), fmtTime(c.ExpectedHarvestDate),
		string(c.Health), string(c.Stage), string(c.Status), c.Notes, c.ID)
	if err != nil {
		return fmt.Errorf("update crop: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("crop %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *CropRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM crops WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete crop: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("crop %s: %w", id, ErrNotFound)
	}
	return nil
}

type HarvestRepository struct {
	db *sql.DB
}

func (r *HarvestRepository) List(ctx context.Context) ([]core.Harvest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, crop_id, crop_name, harvest_date, quantity_kg, quality, notes
		FROM harvests ORDER BY harvest_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list harvests: %w", err)
	}
	defer rows.Close()

	var harvests []core.Harvest
	for rows.Next() {
		var h core.Harvest
		var date, quality string
		if err := rows.Scan(&h.ID, &h.CropID, &h.CropName, &date, &h.QuantityKG, &quality, &h.Notes); err != nil {
			return nil, fmt.Errorf("scan harvest: %w", err)
		}
		h.HarvestDate = parseTime(date)
		h.Quality = core.HarvestQuality(quality)
		harvests = append(harvests, h)
	}
	return harvests, rows.Err()
}

// Create validates the harvest against its crop and denormalizes the crop
// name as a read-path cache. A missing crop is a NotFound failure: harvests
// can only be recorded against crops that exist at write time.
func (r *HarvestRepository) Create(ctx context.Context, h core.Harvest) (core.Harvest, error) {
	var cropName, planting string
	err := r.db.QueryRowContext(ctx, `SELECT name, planting_date FROM crops WHERE id = ?`, h.CropID).
		Scan(&cropName, &planting)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Harvest{}, fmt.Errorf("crop %s: %w", h.CropID, ErrNotFound)
	}
	if err != nil {
		return core.Harvest{}, fmt.Errorf("look up crop for harvest: %w", err)
	}

	crop := core.Crop{ID: h.CropID, Name: cropName, PlantingDate: parseTime(planting)}
	if err := h.ValidateAgainst(crop); err != nil {
		return core.Harvest{}, err
	}

	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.Quality == "" {
		h.Quality = core.QualityGood
	}
	h.CropName = cropName

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO harvests (id, crop_id, crop_name, harvest_date, quantity_kg, quality, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.CropID, h.CropName, fmtTime(h.HarvestDate), h.QuantityKG, string(h.Quality), h.Notes)
	if err != nil {
		return core.Harvest{}, fmt.Errorf("create harvest: %w", err)
	}
	return h, nil
}

func (r *HarvestRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM harvests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete harvest: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("harvest %s: %w", id, ErrNotFound)
	}
	return nil
}
