package locate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ringsaturn/tzf"
)

// NewNominatim returns a geocoder backed by an OpenStreetMap Nominatim search endpoint.
func NewNominatim(baseURL, userAgent string) *Nominatim {
	return &Nominatim{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the coordinates of the best match for query.
func (n *Nominatim) Geocode(ctx context.Context, query string) (Point, error) {
	u := n.baseURL + "/search?" + url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Point{}, err
	}
	// Nominatim's usage policy requires an identifying user agent
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("error sending geocoding request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("error geocoding %q: %w", query, errors.New(resp.Status))
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Point{}, fmt.Errorf("error decoding geocoding response: %w", err)
	}
	if len(places) == 0 {
		return Point{}, fmt.Errorf("no place found for %q", query)
	}
	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude %q: %w", places[0].Lon, err)
	}
	return Point{Lat: lat, Lng: lng}, nil
}

// NewZoneFinder returns a finder over the timezone boundaries bundled with tzf.
func NewZoneFinder() (ZoneFinder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("error loading timezone boundaries: %w", err)
	}
	return f, nil
}
