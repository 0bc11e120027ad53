package core

// CropRollup is the derived view of the garden: status counts plus the
// cumulative yield per crop. OrphanedHarvests counts harvest records whose
// crop id matches no known crop; they contribute to no yield but are
// surfaced so a dangling reference shows up in diagnostics instead of
// silently vanishing.
type CropRollup struct {
	TotalCrops       int
	ActiveCount      int
	ReadyCount       int
	HarvestedCount   int
	YieldByCrop      map[string]float64
	OrphanedHarvests int
}

// RollupCrops counts crops by status and sums harvest quantities per crop.
// A crop is active until it is harvested, so ready and failed crops still
// count as active. Yield accumulates for every harvest whose crop exists,
// regardless of the crop's current status: harvest records outlive status
// changes.
func RollupCrops(crops []Crop, harvests []Harvest) CropRollup {
	r := CropRollup{
		TotalCrops:  len(crops),
		YieldByCrop: make(map[string]float64, len(crops)),
	}

	known := make(map[string]struct{}, len(crops))
	for _, c := range crops {
		known[c.ID] = struct{}{}
		if c.Status != CropHarvested {
			r.ActiveCount++
		}
		switch c.Status {
		case CropReady:
			r.ReadyCount++
		case CropHarvested:
			r.HarvestedCount++
		}
	}

	for _, h := range harvests {
		if _, ok := known[h.CropID]; !ok {
			r.OrphanedHarvests++
			continue
		}
		r.YieldByCrop[h.CropID] += h.QuantityKG
	}

	return r
}
