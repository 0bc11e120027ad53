package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientFetchByCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("appid = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"current": {"temp": 30.5, "humidity": 70, "wind_speed": 5.0, "weather": [{"id": 801}]},
			"daily": [
				{"dt": 1751328000, "temp": {"max": 33, "min": 25}, "weather": [{"id": 500}]}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", 2*time.Second)
	c.baseURL = srv.URL

	payload, err := c.FetchByCoordinates(context.Background(), 14.6, 121.0)
	if err != nil {
		t.Fatalf("FetchByCoordinates() error = %v", err)
	}
	if payload.Current.Code != 801 || payload.Current.TempC != 30.5 {
		t.Errorf("current = %+v, want code 801 temp 30.5", payload.Current)
	}
	if payload.Current.WindKPH != 18 { // 5 m/s
		t.Errorf("WindKPH = %v, want 18", payload.Current.WindKPH)
	}
	if len(payload.Forecast) != 1 || payload.Forecast[0].Code != 500 {
		t.Fatalf("forecast = %+v, want one rainy day", payload.Forecast)
	}
}

func TestClientFetchByCoordinates_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"malformed payload", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient("test-key", 2*time.Second)
			c.baseURL = srv.URL

			if _, err := c.FetchByCoordinates(context.Background(), 0, 0); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestClientFetch_NilWithoutKey(t *testing.T) {
	if NewClient("", time.Second).Fetch() != nil {
		t.Error("client without API key must expose a nil fetch")
	}
	if NewClient("key", time.Second).Fetch() == nil {
		t.Error("client with API key must expose a fetch")
	}
}
