package locate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	_ "time/tzdata"

	"github.com/bcdxn/f1timetable/internal/domain"
)

type fakeGeocoder struct {
	points map[string]Point
	calls  int
}

func (f *fakeGeocoder) Geocode(_ context.Context, query string) (Point, error) {
	f.calls++
	p, ok := f.points[query]
	if !ok {
		return Point{}, errors.New("not found")
	}
	return p, nil
}

type fakeFinder map[Point]string

func (f fakeFinder) GetTimezoneName(lng, lat float64) string {
	return f[Point{Lat: lat, Lng: lng}]
}

func TestLocate(t *testing.T) {
	sakhir := Point{Lat: 26.03, Lng: 50.51}
	ocean := Point{Lat: 0, Lng: -140}
	geocoder := &fakeGeocoder{points: map[string]Point{
		"Sakhir, Bahrain": sakhir,
		"Pacific Ocean":   ocean,
		"Atlantis":        {Lat: 1, Lng: 1},
	}}
	finder := fakeFinder{sakhir: "Asia/Bahrain", ocean: "", {Lat: 1, Lng: 1}: "Not/AZone"}
	r := New(geocoder, finder, WithOverrides(map[string]string{"Monaco": "Europe/Monaco", "Broken": "Nowhere/Zone"}))

	t.Run("Geocoded", func(t *testing.T) {
		loc, err := r.Locate(context.Background(), "Bahrain", "Sakhir, Bahrain")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loc.String() != "Asia/Bahrain" {
			t.Errorf("expected zone '%s' but found '%s'", "Asia/Bahrain", loc)
		}
		calls := geocoder.calls
		if _, err := r.Locate(context.Background(), "Bahrain", " sakhir, bahrain"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if geocoder.calls != calls {
			t.Errorf("expected cached location to skip geocoding")
		}
	})
	t.Run("Override", func(t *testing.T) {
		loc, err := r.Locate(context.Background(), "Monaco", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loc.String() != "Europe/Monaco" {
			t.Errorf("expected zone '%s' but found '%s'", "Europe/Monaco", loc)
		}
	})

	failures := []struct {
		name     string
		slug     string
		location string
	}{
		{name: "empty location", slug: "Empty", location: " "},
		{name: "geocoding failure", slug: "Nowhere", location: "Nowhere"},
		{name: "no zone at point", slug: "Ocean", location: "Pacific Ocean"},
		{name: "unknown zone", slug: "Atlantis", location: "Atlantis"},
		{name: "bad override", slug: "Broken", location: "Sakhir, Bahrain"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Locate(context.Background(), tt.slug, tt.location)
			if !errors.Is(err, domain.ErrUnresolvedLocation) {
				t.Errorf("expected ErrUnresolvedLocation but found %v", err)
			}
		})
	}
}

func TestNominatimGeocode(t *testing.T) {
	var query, ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		ua = r.Header.Get("User-Agent")
		if query == "Nowhere" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"lat": "26.0325", "lon": "50.5106", "display_name": "Sakhir, Bahrain"}]`))
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL+"/", "test agent")
	p, err := n.Geocode(context.Background(), "Sakhir, Bahrain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat != 26.0325 || p.Lng != 50.5106 {
		t.Errorf("expected point 26.0325,50.5106 but found %v", p)
	}
	if query != "Sakhir, Bahrain" || ua != "test agent" {
		t.Errorf("unexpected request query=%q user-agent=%q", query, ua)
	}

	if _, err := n.Geocode(context.Background(), "Nowhere"); err == nil {
		t.Errorf("expected an error when no place is found")
	}
}
