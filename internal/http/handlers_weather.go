package http

import (
	"net/http"

	"bukid/internal/core"
	"bukid/internal/weather"
)

const weatherKey = "weather"

type locationRequest struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country,omitempty"`
}

type locationResponse struct {
	City       string  `json:"city"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Country    string  `json:"country,omitempty"`
	Configured bool    `json:"configured"`
}

type weatherResponse struct {
	Location string                `json:"location"`
	Current  currentResponse       `json:"current"`
	Forecast []forecastDayResponse `json:"forecast"`
	Alerts   []string              `json:"alerts"`
	Sample   bool                  `json:"sample"`
}

type currentResponse struct {
	TempC     float64 `json:"temp_c"`
	Humidity  int     `json:"humidity"`
	WindKPH   float64 `json:"wind_kph"`
	Condition string  `json:"condition"`
}

type forecastDayResponse struct {
	Date      string  `json:"date"`
	HighC     float64 `json:"high_c"`
	LowC      float64 `json:"low_c"`
	Condition string  `json:"condition"`
}

func toWeatherResponse(d weather.Data) weatherResponse {
	out := weatherResponse{
		Location: d.Location,
		Current: currentResponse{
			TempC:     d.Current.TempC,
			Humidity:  d.Current.Humidity,
			WindKPH:   d.Current.WindKPH,
			Condition: string(d.Current.Condition),
		},
		Forecast: make([]forecastDayResponse, 0, len(d.Forecast)),
		Alerts:   d.Alerts,
		Sample:   d.Sample,
	}
	if out.Alerts == nil {
		out.Alerts = []string{}
	}
	for _, day := range d.Forecast {
		out.Forecast = append(out.Forecast, forecastDayResponse{
			Date:      day.Date.Format(dateLayout),
			HighC:     day.HighC,
			LowC:      day.LowC,
			Condition: string(day.Condition),
		})
	}
	return out
}

// handleWeather serves the resolved weather view. Resolution never fails;
// the cache keeps upstream calls to one per refresh window.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	data, ok := s.weatherCache.Get(weatherKey)
	if !ok {
		loc, err := s.store.Location.Get(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
		data = weather.Resolve(r.Context(), loc, s.fetch)
		s.weatherCache.Set(weatherKey, data)
	}
	respondOK(w, toWeatherResponse(data))
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := s.store.Location.Get(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	configured := loc != nil
	if loc == nil {
		def := weather.DefaultLocation
		loc = &def
	}
	respondOK(w, locationResponse{
		City:       loc.City,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		Country:    loc.Country,
		Configured: configured,
	})
}

func (s *Server) handleSetLocation(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.adminSession(w, r); !ok {
		return
	}

	var req locationRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	loc := core.LocationSetting{
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Country:   req.Country,
	}
	if err := s.store.Location.Set(r.Context(), loc); err != nil {
		respondError(w, r, err)
		return
	}

	// The cached view belongs to the old location.
	s.weatherCache.Delete(weatherKey)

	respondOK(w, locationResponse{
		City:       loc.City,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		Country:    loc.Country,
		Configured: true,
	})
}
