package places

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HilmanThoriq/finterra-app/internal/core"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name    string
		a, b    core.Location
		want    float64
		withinM float64
	}{
		{
			name:    "same point",
			a:       core.Location{Latitude: -6.2, Longitude: 106.8},
			b:       core.Location{Latitude: -6.2, Longitude: 106.8},
			want:    0,
			withinM: 0.5,
		},
		{
			name:    "one degree of latitude",
			a:       core.Location{Latitude: 0, Longitude: 0},
			b:       core.Location{Latitude: 1, Longitude: 0},
			want:    111195,
			withinM: 200,
		},
		{
			name:    "short hop in Jakarta",
			a:       core.Location{Latitude: -6.2000, Longitude: 106.8000},
			b:       core.Location{Latitude: -6.2010, Longitude: 106.8000},
			want:    111.2,
			withinM: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.withinM {
				t.Errorf("Distance() = %.1f, want %.1f (±%.1f)", got, tt.want, tt.withinM)
			}
		})
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{150, "150m"},
		{999, "999m"},
		{300.4, "300m"},
		{1000, "1.0km"},
		{1200, "1.2km"},
		{15500, "15.5km"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDistance(tt.meters); got != tt.want {
				t.Errorf("FormatDistance(%v) = %q, want %q", tt.meters, got, tt.want)
			}
		})
	}
}

func TestReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode/reverse" {
			t.Errorf("path = %q, want /geocode/reverse", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q, want test-key", r.URL.Query().Get("key"))
		}
		fmt.Fprint(w, `{"address":"Jl. Sudirman No. 1, Jakarta"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	addr, err := c.ReverseGeocode(context.Background(), core.Location{Latitude: -6.2, Longitude: 106.8})
	if err != nil {
		t.Fatalf("ReverseGeocode() error = %v", err)
	}
	if addr != "Jl. Sudirman No. 1, Jakarta" {
		t.Errorf("address = %q", addr)
	}
}

func TestNearbySearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/places/nearby" {
			t.Errorf("path = %q, want /places/nearby", r.URL.Path)
		}
		if r.URL.Query().Get("radius") != "500" {
			t.Errorf("radius = %q, want 500", r.URL.Query().Get("radius"))
		}
		fmt.Fprint(w, `{"results":[
			{"name":"Pacific Place","type":"Shopping Mall","lat":-6.2010,"lng":106.8000},
			{"name":"Plaza Senayan","type":"Shopping Mall","lat":-6.2000,"lng":106.8000}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	origin := core.Location{Latitude: -6.2000, Longitude: 106.8000}
	got, err := c.NearbySearch(context.Background(), origin, 500)
	if err != nil {
		t.Fatalf("NearbySearch() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("NearbySearch() returned %d results, want 2", len(got))
	}
	if got[0].Name != "Pacific Place" {
		t.Errorf("Name = %q, want Pacific Place", got[0].Name)
	}
	if got[0].Distance < 100 || got[0].Distance > 125 {
		t.Errorf("Distance = %.1f, want ~111", got[0].Distance)
	}
	if got[1].Distance > 0.5 {
		t.Errorf("Distance to same point = %.1f, want ~0", got[1].Distance)
	}
}

func TestNearbySearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.NearbySearch(context.Background(), core.Location{}, 500); err == nil {
		t.Error("NearbySearch() error = nil, want status error")
	}
}
