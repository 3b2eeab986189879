package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// GeocodeService reverse-geocodes coordinates into a city name via the
// Nominatim API. Lookup failures degrade to "Unknown"; location sharing must
// never fail because the geocoder is down.
type GeocodeService struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewGeocodeService(baseURL, userAgent string) *GeocodeService {
	return &GeocodeService{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

type nominatimResponse struct {
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		Hamlet       string `json:"hamlet"`
		County       string `json:"county"`
		State        string `json:"state"`
	} `json:"address"`
}

func (s *GeocodeService) CityFromCoordinates(ctx context.Context, lat, lng float64) string {
	reqURL := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%s&lon=%s&zoom=10&addressdetails=1",
		s.baseURL,
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lng)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "Unknown"
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("Reverse geocode failed: %v", err)
		return "Unknown"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Reverse geocode failed: status %d", resp.StatusCode)
		return "Unknown"
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("Reverse geocode failed: %v", err)
		return "Unknown"
	}

	return cityFromAddress(payload)
}

// cityFromAddress picks the most specific populated-place field available.
func cityFromAddress(payload nominatimResponse) string {
	addr := payload.Address
	for _, candidate := range []string{
		addr.City, addr.Town, addr.Village, addr.Municipality, addr.Hamlet, addr.County, addr.State,
	} {
		if candidate != "" {
			return candidate
		}
	}
	return "Unknown"
}
