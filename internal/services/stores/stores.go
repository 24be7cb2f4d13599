// Package stores finds grocery stores near the user through Google Places.
package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/socialchef/yeschef/internal/httpclient"
	"github.com/socialchef/yeschef/internal/utils"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	searchRadius   = 5000
	placeType      = "grocery_or_supermarket"
	maxStores      = 5
	earthRadiusMi  = 3959.0

	// SearchRadiusLabel is reported back to clients.
	SearchRadiusLabel = "5 miles"
)

// Location is a latitude/longitude pair.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinates are finite and in range.
func (l Location) Valid() bool {
	for _, v := range []float64{l.Latitude, l.Longitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

type Store struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Distance     string   `json:"distance"`
	Phone        string   `json:"phone"`
	PhoneDisplay string   `json:"phoneDisplay"`
	Location     string   `json:"location"`
	Rating       *float64 `json:"rating,omitempty"`
	Vicinity     string   `json:"vicinity,omitempty"`
}

// MockStores is returned when Places is not configured or fails.
func MockStores() []Store {
	return []Store{
		{
			ID:           "store-1",
			Name:         "Whole Foods Market",
			Distance:     "0.3 miles",
			Phone:        "+14155551234",
			PhoneDisplay: "(415) 555-1234",
			Location:     "https://maps.google.com/?q=Whole+Foods+Market+San+Francisco",
		},
		{
			ID:           "store-2",
			Name:         "Safeway",
			Distance:     "0.7 miles",
			Phone:        "+14155555678",
			PhoneDisplay: "(415) 555-5678",
			Location:     "https://maps.google.com/?q=Safeway+San+Francisco",
		},
		{
			ID:           "store-3",
			Name:         "Trader Joe's",
			Distance:     "1.2 miles",
			Phone:        "+14155559876",
			PhoneDisplay: "(415) 555-9876",
			Location:     "https://maps.google.com/?q=Trader+Joes+San+Francisco",
		},
	}
}

type nearbyResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID  string   `json:"place_id"`
		Name     string   `json:"name"`
		Rating   *float64 `json:"rating"`
		Vicinity string   `json:"vicinity"`
		Phone    string   `json:"formatted_phone_number"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type detailsResponse struct {
	Status string `json:"status"`
	Result *struct {
		Formatted     string `json:"formatted_phone_number"`
		International string `json:"international_phone_number"`
	} `json:"result"`
}

type phone struct {
	number  string
	display string
}

// Finder looks up nearby grocery stores.
type Finder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewFinder creates a finder. An empty baseURL uses the public Places API.
func NewFinder(apiKey, baseURL string, httpClient *http.Client) *Finder {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Finder{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Configured reports whether a Places API key is set.
func (f *Finder) Configured() bool {
	return f.apiKey != ""
}

// FindNearby returns up to five stores around loc. Without an API key, or
// when the search fails, the mock stores are returned.
func (f *Finder) FindNearby(ctx context.Context, loc Location) []Store {
	if !f.Configured() {
		slog.Info("Google Places API key not found, using mock stores")
		return MockStores()
	}

	var nearby nearbyResponse
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%v,%v", loc.Latitude, loc.Longitude))
	params.Set("radius", fmt.Sprint(searchRadius))
	params.Set("type", placeType)
	params.Set("key", f.apiKey)
	if err := f.getJSON(ctx, "/nearbysearch/json", params, &nearby); err != nil {
		slog.Error("Google Places search failed, using mock stores", "error", err)
		return MockStores()
	}
	if nearby.Status != "OK" {
		slog.Error("Google Places search returned error status, using mock stores",
			"status", nearby.Status,
			"message", nearby.ErrorMessage)
		return MockStores()
	}

	results := nearby.Results
	if len(results) > maxStores {
		results = results[:maxStores]
	}

	lookups := make([]func(context.Context) (*phone, error), len(results))
	for i, place := range results {
		lookups[i] = func(ctx context.Context) (*phone, error) {
			return f.details(ctx, place.PlaceID)
		}
	}
	phones, errs := utils.RunParallelWithResults(ctx, lookups)
	for _, err := range errs {
		slog.Warn("Place details lookup failed", "error", err)
	}

	stores := make([]Store, len(results))
	for i, place := range results {
		distance := DistanceMiles(loc.Latitude, loc.Longitude, place.Geometry.Location.Lat, place.Geometry.Location.Lng)
		store := Store{
			ID:           "store-" + place.PlaceID,
			Name:         place.Name,
			Distance:     fmt.Sprintf("%.1f miles", distance),
			Phone:        firstNonEmpty(place.Phone, "+1-000-000-0000"),
			PhoneDisplay: firstNonEmpty(place.Phone, "Call for info"),
			Location:     "https://maps.google.com/?q=" + url.QueryEscape(place.Name) + "&place_id=" + place.PlaceID,
			Rating:       place.Rating,
			Vicinity:     place.Vicinity,
		}
		if p := phones[i]; p != nil {
			store.Phone = firstNonEmpty(p.number, store.Phone)
			store.PhoneDisplay = firstNonEmpty(p.display, store.PhoneDisplay)
		}
		stores[i] = store
	}
	return stores
}

// details returns nil without error when Places has no phone data.
func (f *Finder) details(ctx context.Context, placeID string) (*phone, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "formatted_phone_number,international_phone_number")
	params.Set("key", f.apiKey)

	var resp detailsResponse
	if err := f.getJSON(ctx, "/details/json", params, &resp); err != nil {
		return nil, fmt.Errorf("place %s: %w", placeID, err)
	}
	if resp.Status != "OK" || resp.Result == nil {
		return nil, nil
	}
	return &phone{
		number:  firstNonEmpty(resp.Result.International, resp.Result.Formatted),
		display: firstNonEmpty(resp.Result.Formatted, "Call for info"),
	}, nil
}

func (f *Finder) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	ctx = httpclient.WithProvider(ctx, httpclient.ProviderPlaces)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// DistanceMiles is the haversine distance between two coordinates.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMi * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
