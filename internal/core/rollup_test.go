package core

import (
	"reflect"
	"testing"
	"time"
)

func crop(id string, status CropStatus) Crop {
	return Crop{
		ID:           id,
		Name:         "crop-" + id,
		PlantingDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:       status,
	}
}

func harvest(cropID string, kg float64) Harvest {
	return Harvest{
		ID:          cropID + "-h",
		CropID:      cropID,
		HarvestDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		QuantityKG:  kg,
	}
}

func TestRollupCrops(t *testing.T) {
	tests := []struct {
		name     string
		crops    []Crop
		harvests []Harvest
		want     CropRollup
	}{
		{
			name: "empty inputs",
			want: CropRollup{YieldByCrop: map[string]float64{}},
		},
		{
			name: "status counting",
			crops: []Crop{
				crop("a", CropActive),
				crop("b", CropReady),
				crop("c", CropHarvested),
				crop("d", CropFailed),
			},
			want: CropRollup{
				TotalCrops:     4,
				ActiveCount:    3, // everything except harvested
				ReadyCount:     1,
				HarvestedCount: 1,
				YieldByCrop:    map[string]float64{},
			},
		},
		{
			name:  "yield accumulates across harvests",
			crops: []Crop{crop("a", CropHarvested)},
			harvests: []Harvest{
				harvest("a", 12.5),
				harvest("a", 7.5),
			},
			want: CropRollup{
				TotalCrops:     1,
				HarvestedCount: 1,
				YieldByCrop:    map[string]float64{"a": 20},
			},
		},
		{
			name:  "harvest survives crop status change",
			crops: []Crop{crop("a", CropFailed)},
			harvests: []Harvest{
				harvest("a", 3),
			},
			want: CropRollup{
				TotalCrops:  1,
				ActiveCount: 1,
				YieldByCrop: map[string]float64{"a": 3},
			},
		},
		{
			name:  "orphaned harvest is counted, not fatal",
			crops: []Crop{crop("a", CropActive)},
			harvests: []Harvest{
				harvest("a", 5),
				harvest("deleted-crop", 9),
			},
			want: CropRollup{
				TotalCrops:       1,
				ActiveCount:      1,
				YieldByCrop:      map[string]float64{"a": 5},
				OrphanedHarvests: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RollupCrops(tt.crops, tt.harvests)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RollupCrops() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRollupCrops_DoesNotMutateInput(t *testing.T) {
	crops := []Crop{crop("a", CropActive)}
	harvests := []Harvest{harvest("a", 5)}
	cBefore, hBefore := crops[0], harvests[0]

	RollupCrops(crops, harvests)

	if !reflect.DeepEqual(crops[0], cBefore) {
		t.Errorf("crop mutated: %+v", crops[0])
	}
	if !reflect.DeepEqual(harvests[0], hBefore) {
		t.Errorf("harvest mutated: %+v", harvests[0])
	}
}
