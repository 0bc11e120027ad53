package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/onecall"

// Client fetches live conditions from an OpenWeather-style provider. The
// outbound call carries a bounded timeout; every failure mode (timeout,
// non-2xx, malformed payload) surfaces as an error for the resolver's
// fallback to absorb.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch returns nil when the client has no API key, so the resolver can
// treat an unconfigured provider the same as an unreachable one.
func (c *Client) Fetch() FetchFunc {
	if c == nil || c.apiKey == "" {
		return nil
	}
	return c.FetchByCoordinates
}

// providerResponse mirrors the slice of the provider payload we care about.
type providerResponse struct {
	Current struct {
		Temp      float64 `json:"temp"`
		Humidity  int     `json:"humidity"`
		WindSpeed float64 `json:"wind_speed"` // metres per second
		Weather   []struct {
			ID int `json:"id"`
		} `json:"weather"`
	} `json:"current"`
	Daily []struct {
		DT   int64 `json:"dt"`
		Temp struct {
			Max float64 `json:"max"`
			Min float64 `json:"min"`
		} `json:"temp"`
		Weather []struct {
			ID int `json:"id"`
		} `json:"weather"`
	} `json:"daily"`
}

func (c *Client) FetchByCoordinates(ctx context.Context, lat, lon float64) (*ProviderPayload, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("units", "metric")
	q.Set("exclude", "minutely,hourly")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var pr providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode weather payload: %w", err)
	}

	payload := &ProviderPayload{}
	payload.Current.TempC = pr.Current.Temp
	payload.Current.Humidity = pr.Current.Humidity
	payload.Current.WindKPH = pr.Current.WindSpeed * 3.6
	if len(pr.Current.Weather) > 0 {
		payload.Current.Code = pr.Current.Weather[0].ID
	}
	for _, d := range pr.Daily {
		day := ProviderForecastDay{
			Date:  time.Unix(d.DT, 0).UTC(),
			HighC: d.Temp.Max,
			LowC:  d.Temp.Min,
		}
		if len(d.Weather) > 0 {
			day.Code = d.Weather[0].ID
		}
		payload.Forecast = append(payload.Forecast, day)
	}

	slog.DebugContext(ctx, "Weather fetched",
		"lat", lat,
		"lon", lon,
		"code", payload.Current.Code,
		"temp_c", payload.Current.TempC,
		"forecast_days", len(payload.Forecast))

	return payload, nil
}
