// Package weather wraps the upstream forecast provider behind a
// deterministic resolution chain. The resolver itself is stateless and never
// fails: any provider problem falls back to sample data that is tagged as
// such, so the caller can tell a real alert from a placeholder.
package weather

import (
	"context"
	"time"

	"bukid/internal/core"
)

// Condition is the closed set of display conditions the UI knows about.
type Condition string

const (
	Sunny        Condition = "sunny"
	Cloudy       Condition = "cloudy"
	Rainy        Condition = "rainy"
	Snow         Condition = "snow"
	Thunderstorm Condition = "thunderstorm"
	Mist         Condition = "mist"
)

// SampleDataAlert tags fallback output so the UI can visually distinguish
// "this is sample weather data" from a genuine weather alert.
const SampleDataAlert = "Showing sample weather data - live forecast unavailable"

type CurrentConditions struct {
	TempC     float64
	Humidity  int
	WindKPH   float64
	Condition Condition
}

type ForecastDay struct {
	Date      time.Time
	HighC     float64
	LowC      float64
	Condition Condition
}

type Data struct {
	Location string
	Current  CurrentConditions
	Forecast []ForecastDay
	Alerts   []string
	Sample   bool
}

// ProviderPayload is the raw shape returned by the upstream provider.
// Weather codes follow the provider's numeric code space and are bucketed
// into Condition by mapCondition.
type ProviderPayload struct {
	Current struct {
		Code     int
		TempC    float64
		Humidity int
		WindKPH  float64
	}
	Forecast []ProviderForecastDay
}

type ProviderForecastDay struct {
	Date  time.Time
	Code  int
	HighC float64
	LowC  float64
}

// FetchFunc is the live-fetch collaborator. A nil FetchFunc means no
// provider is configured (e.g. missing API key) and resolution goes straight
// to the fallback.
type FetchFunc func(ctx context.Context, lat, lon float64) (*ProviderPayload, error)

// Alert thresholds over current conditions and the forecast. Each check is
// independent; every applicable alert is emitted.
const (
	heatThresholdC   = 35.0
	coldThresholdC   = 10.0
	windThresholdKPH = 50.0
)

// DefaultLocation is used when no location setting has been configured.
var DefaultLocation = core.LocationSetting{
	City:      "San Isidro",
	Latitude:  14.5995,
	Longitude: 120.9842,
	Country:   "PH",
}

// Resolve runs the fallback chain:
//  1. with a configured location and a usable fetch, try the live provider;
//  2. on any fetch failure, return tagged sample data for that location;
//  3. with no configured location, skip the fetch entirely and return
//     sample data for the default location.
//
// Resolve never returns an error; refresh cadence is the caller's concern.
func Resolve(ctx context.Context, loc *core.LocationSetting, fetch FetchFunc) Data {
	if loc == nil {
		return sampleData(DefaultLocation.City)
	}
	if fetch == nil {
		return sampleData(loc.City)
	}

	payload, err := fetch(ctx, loc.Latitude, loc.Longitude)
	if err != nil || payload == nil {
		return sampleData(loc.City)
	}
	return normalize(loc.City, payload)
}

func normalize(location string, p *ProviderPayload) Data {
	d := Data{
		Location: location,
		Current: CurrentConditions{
			TempC:     p.Current.TempC,
			Humidity:  p.Current.Humidity,
			WindKPH:   p.Current.WindKPH,
			Condition: mapCondition(p.Current.Code),
		},
	}
	for _, f := range p.Forecast {
		d.Forecast = append(d.Forecast, ForecastDay{
			Date:      f.Date,
			HighC:     f.HighC,
			LowC:      f.LowC,
			Condition: mapCondition(f.Code),
		})
	}
	d.Alerts = deriveAlerts(d.Current, d.Forecast)
	return d
}

func deriveAlerts(cur CurrentConditions, forecast []ForecastDay) []string {
	var alerts []string
	if cur.TempC > heatThresholdC {
		alerts = append(alerts, "Heat advisory: water crops early morning or late afternoon")
	}
	if cur.TempC < coldThresholdC {
		alerts = append(alerts, "Cold advisory: protect seedlings from low temperatures")
	}
	if cur.WindKPH > windThresholdKPH {
		alerts = append(alerts, "Wind advisory: secure trellises and row covers")
	}
	for _, f := range forecast {
		if f.Condition == Rainy {
			alerts = append(alerts, "Rain expected this week: plan irrigation and harvesting around it")
			break
		}
	}
	return alerts
}

func sampleData(location string) Data {
	return Data{
		Location: location,
		Current: CurrentConditions{
			TempC:     31,
			Humidity:  74,
			WindKPH:   12,
			Condition: Sunny,
		},
		Forecast: []ForecastDay{
			{HighC: 32, LowC: 24, Condition: Sunny},
			{HighC: 31, LowC: 24, Condition: Cloudy},
			{HighC: 30, LowC: 23, Condition: Rainy},
		},
		Alerts: []string{SampleDataAlert},
		Sample: true,
	}
}

// conditionBuckets maps the provider's documented code space by range.
// Codes outside every range fall back to Sunny.
var conditionBuckets = []struct {
	lo, hi int
	cond   Condition
}{
	{200, 299, Thunderstorm},
	{300, 399, Rainy},
	{500, 599, Rainy},
	{600, 699, Snow},
	{700, 799, Mist},
	{800, 800, Sunny},
	{801, 899, Cloudy},
}

func mapCondition(code int) Condition {
	for _, b := range conditionBuckets {
		if code >= b.lo && code <= b.hi {
			return b.cond
		}
	}
	return Sunny
}
