package core

import (
	"errors"
	"testing"
	"time"
)

func TestBudgetEntryValidate(t *testing.T) {
	valid := BudgetEntry{
		Description: "bags of vermicast",
		Category:    "Fertilizer",
		Amount:      Money{Centavos: 45000},
		Type:        Expense,
		Date:        time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(*BudgetEntry)
		wantErr error
	}{
		{"valid", func(e *BudgetEntry) {}, nil},
		{"zero amount", func(e *BudgetEntry) { e.Amount.Centavos = 0 }, ErrInvalidAmount},
		{"bad type", func(e *BudgetEntry) { e.Type = "loan" }, ErrInvalidType},
		{"zero date", func(e *BudgetEntry) { e.Date = time.Time{} }, ErrInvalidDate},
		{"blank description", func(e *BudgetEntry) { e.Description = "   " }, ErrEmptyDescription},
		{"blank category", func(e *BudgetEntry) { e.Category = "" }, ErrEmptyCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCropValidate(t *testing.T) {
	planting := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	valid := Crop{
		Name:                "Sitaw",
		PlantingDate:        planting,
		ExpectedHarvestDate: planting.AddDate(0, 2, 0),
		Status:              CropActive,
	}

	tests := []struct {
		name    string
		mutate  func(*Crop)
		wantErr bool
	}{
		{"valid", func(c *Crop) {}, false},
		{"no expected harvest date is fine", func(c *Crop) { c.ExpectedHarvestDate = time.Time{} }, false},
		{"empty name", func(c *Crop) { c.Name = "" }, true},
		{"zero planting date", func(c *Crop) { c.PlantingDate = time.Time{} }, true},
		{"harvest before planting", func(c *Crop) { c.ExpectedHarvestDate = planting.AddDate(0, 0, -1) }, true},
		{"unknown status", func(c *Crop) { c.Status = "dormant" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHarvestValidateAgainst(t *testing.T) {
	planting := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := Crop{ID: "c1", Name: "Kalabasa", PlantingDate: planting, Status: CropActive}

	h := Harvest{CropID: "c1", HarvestDate: planting.AddDate(0, 3, 0), QuantityKG: 4.2}
	if err := h.ValidateAgainst(c); err != nil {
		t.Fatalf("ValidateAgainst() = %v, want nil", err)
	}

	h.HarvestDate = planting.AddDate(0, 0, -7)
	if err := h.ValidateAgainst(c); !errors.Is(err, ErrHarvestBeforePlanting) {
		t.Errorf("ValidateAgainst() = %v, want %v", err, ErrHarvestBeforePlanting)
	}

	h = Harvest{CropID: "c1", HarvestDate: planting, QuantityKG: 0}
	if err := h.ValidateAgainst(c); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("ValidateAgainst() = %v, want %v", err, ErrInvalidQuantity)
	}
}

func TestLocationSettingValidate(t *testing.T) {
	tests := []struct {
		name    string
		loc     LocationSetting
		wantErr bool
	}{
		{"valid", LocationSetting{City: "San Isidro", Latitude: 14.6, Longitude: 121.0, Country: "PH"}, false},
		{"latitude too high", LocationSetting{City: "X", Latitude: 91}, true},
		{"longitude too low", LocationSetting{City: "X", Longitude: -181}, true},
		{"empty city", LocationSetting{Latitude: 10, Longitude: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.loc.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
