package http

import (
	"net/http"

	"bukid/internal/core"
)

const cropRollupKey = "crop-rollup"

type cropRequest struct {
	Name                string `json:"name"`
	PlantingDate        string `json:"planting_date"`
	ExpectedHarvestDate string `json:"expected_harvest_date,omitempty"`
	Health              string `json:"health,omitempty"`
	Stage               string `json:"stage,omitempty"`
	Status              string `json:"status,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

type cropResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	PlantingDate        string `json:"planting_date"`
	ExpectedHarvestDate string `json:"expected_harvest_date,omitempty"`
	Health              string `json:"health"`
	Stage               string `json:"stage"`
	Status              string `json:"status"`
	Notes               string `json:"notes,omitempty"`
}

type harvestRequest struct {
	CropID      string  `json:"crop_id"`
	HarvestDate string  `json:"harvest_date"`
	QuantityKG  float64 `json:"quantity_kg"`
	Quality     string  `json:"quality,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

type harvestResponse struct {
	ID          string  `json:"id"`
	CropID      string  `json:"crop_id"`
	CropName    string  `json:"crop_name"`
	HarvestDate string  `json:"harvest_date"`
	QuantityKG  float64 `json:"quantity_kg"`
	Quality     string  `json:"quality"`
	Notes       string  `json:"notes,omitempty"`
}

type cropRollupResponse struct {
	TotalCrops       int                `json:"total_crops"`
	ActiveCount      int                `json:"active_count"`
	ReadyCount       int                `json:"ready_count"`
	HarvestedCount   int                `json:"harvested_count"`
	YieldByCropKG    map[string]float64 `json:"yield_by_crop_kg"`
	OrphanedHarvests int                `json:"orphaned_harvests"`
}

func toCropResponse(c core.Crop) cropResponse {
	return cropResponse{
		ID:                  c.ID,
		Name:                c.Name,
		PlantingDate:        fmtDate(c.PlantingDate),
		ExpectedHarvestDate: fmtDate(c.ExpectedHarvestDate),
		Health:              string(c.Health),
		Stage:               string(c.Stage),
		Status:              string(c.Status),
		Notes:               c.Notes,
	}
}

func toHarvestResponse(h core.Harvest) harvestResponse {
	return harvestResponse{
		ID:          h.ID,
		CropID:      h.CropID,
		CropName:    h.CropName,
		HarvestDate: fmtDate(h.HarvestDate),
		QuantityKG:  h.QuantityKG,
		Quality:     string(h.Quality),
		Notes:       h.Notes,
	}
}

func (r cropRequest) toCrop() (core.Crop, error) {
	planting, err := parseDate(r.PlantingDate)
	if err != nil {
		return core.Crop{}, err
	}
	c := core.Crop{
		Name:         r.Name,
		PlantingDate: planting,
		Health:       core.CropHealth(r.Health),
		Stage:        core.CropStage(r.Stage),
		Status:       core.CropStatus(r.Status),
		Notes:        r.Notes,
	}
	if r.ExpectedHarvestDate != "" {
		expected, err := parseDate(r.ExpectedHarvestDate)
		if err != nil {
			return core.Crop{}, err
		}
		c.ExpectedHarvestDate = expected
	}
	return c, nil
}

func (s *Server) handleListCrops(w http.ResponseWriter, r *http.Request) {
	crops, err := s.store.Crops.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]cropResponse, 0, len(crops))
	for _, c := range crops {
		out = append(out, toCropResponse(c))
	}
	respondOK(w, out)
}

func (s *Server) handleCreateCrop(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req cropRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	crop, err := req.toCrop()
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.store.Crops.Create(r.Context(), crop)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.rollupCache.Delete(cropRollupKey)
	s.bumpCounter(r, sess.Email, "crops")

	respondCreated(w, toCropResponse(created))
}

func (s *Server) handleUpdateCrop(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session(r); err != nil {
		respondError(w, r, err)
		return
	}

	var req cropRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	crop, err := req.toCrop()
	if err != nil {
		respondError(w, r, err)
		return
	}
	crop.ID = r.PathValue("id")
	if crop.Status == "" {
		crop.Status = core.CropActive
	}
	if crop.Health == "" {
		crop.Health = core.HealthHealthy
	}
	if crop.Stage == "" {
		crop.Stage = core.StageSeedling
	}

	if err := s.store.Crops.Update(r.Context(), crop); err != nil {
		respondError(w, r, err)
		return
	}
	s.rollupCache.Delete(cropRollupKey)
	respondOK(w, toCropResponse(crop))
}

func (s *Server) handleDeleteCrop(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.adminSession(w, r); !ok {
		return
	}
	if err := s.store.Crops.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	s.rollupCache.Delete(cropRollupKey)
	respondOK(w, map[string]string{"deleted": r.PathValue("id")})
}

func (s *Server) handleCropRollup(w http.ResponseWriter, r *http.Request) {
	rollup, ok := s.rollupCache.Get(cropRollupKey)
	if !ok {
		crops, err := s.store.Crops.List(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
		harvests, err := s.store.Harvests.List(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
		rollup = core.RollupCrops(crops, harvests)
		s.rollupCache.Set(cropRollupKey, rollup)
	}

	respondOK(w, cropRollupResponse{
		TotalCrops:       rollup.TotalCrops,
		ActiveCount:      rollup.ActiveCount,
		ReadyCount:       rollup.ReadyCount,
		HarvestedCount:   rollup.HarvestedCount,
		YieldByCropKG:    rollup.YieldByCrop,
		OrphanedHarvests: rollup.OrphanedHarvests,
	})
}

func (s *Server) handleListHarvests(w http.ResponseWriter, r *http.Request) {
	harvests, err := s.store.Harvests.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]harvestResponse, 0, len(harvests))
	for _, h := range harvests {
		out = append(out, toHarvestResponse(h))
	}
	respondOK(w, out)
}

func (s *Server) handleCreateHarvest(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session(r); err != nil {
		respondError(w, r, err)
		return
	}

	var req harvestRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	date, err := parseDate(req.HarvestDate)
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.store.Harvests.Create(r.Context(), core.Harvest{
		CropID:      req.CropID,
		HarvestDate: date,
		QuantityKG:  req.QuantityKG,
		Quality:     core.HarvestQuality(req.Quality),
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.rollupCache.Delete(cropRollupKey)
	respondCreated(w, toHarvestResponse(created))
}
