// Package geo resolves the user's approximate location: coordinates from a
// public IP-geolocation endpoint, then country and city from a public
// reverse-geocoding endpoint. Failures surface as explicit unavailability,
// never as errors to the caller.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pricescout/pricescout/internal/model"
)

const (
	defaultIPLookupURL = "http://ip-api.com/json"
	defaultReverseURL  = "https://api.bigdatacloud.net/data/reverse-geocode-client"
)

// Locator resolves locations against the public endpoints.
type Locator struct {
	http        *http.Client
	limiter     *rate.Limiter
	ipLookupURL string
	reverseURL  string
}

// Option configures the Locator.
type Option func(*Locator)

// WithIPLookupURL overrides the IP-geolocation endpoint.
func WithIPLookupURL(url string) Option {
	return func(l *Locator) { l.ipLookupURL = url }
}

// WithReverseURL overrides the reverse-geocoding endpoint.
func WithReverseURL(url string) Option {
	return func(l *Locator) { l.reverseURL = url }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(l *Locator) { l.http = hc }
}

// NewLocator creates a Locator with conservative timeouts and rate limits.
func NewLocator(opts ...Option) *Locator {
	l := &Locator{
		http:        &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(1, 2),
		ipLookupURL: defaultIPLookupURL,
		reverseURL:  defaultReverseURL,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// ipLookupResponse is the subset of the ip-api.com response we read.
type ipLookupResponse struct {
	Status  string  `json:"status"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// reverseResponse is the subset of the BigDataCloud response we read. Country
// code and city are extracted with a fixed field-preference order.
type reverseResponse struct {
	CountryName          string `json:"countryName"`
	CountryCode          string `json:"countryCode"`
	City                 string `json:"city"`
	Locality             string `json:"locality"`
	PrincipalSubdivision string `json:"principalSubdivision"`
}

// Detect resolves the current location. The boolean is false whenever any
// step fails; the caller gets no error to handle.
func (l *Locator) Detect(ctx context.Context) (model.UserLocation, bool) {
	lat, lng, err := l.coordinates(ctx)
	if err != nil {
		zap.L().Debug("geo: ip lookup unavailable", zap.Error(err))
		return model.UserLocation{}, false
	}

	loc, err := l.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		zap.L().Debug("geo: reverse geocode unavailable",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.Error(err),
		)
		return model.UserLocation{}, false
	}
	return loc, true
}

// coordinates obtains approximate coordinates from the IP-geolocation
// endpoint.
func (l *Locator) coordinates(ctx context.Context) (float64, float64, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return 0, 0, eris.Wrap(err, "geo: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.ipLookupURL, nil)
	if err != nil {
		return 0, 0, eris.Wrap(err, "geo: build ip lookup request")
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return 0, 0, eris.Wrap(err, "geo: ip lookup request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return 0, 0, eris.Errorf("geo: ip lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, eris.Wrap(err, "geo: read ip lookup body")
	}

	var ip ipLookupResponse
	if err := json.Unmarshal(body, &ip); err != nil {
		return 0, 0, eris.Wrap(err, "geo: parse ip lookup response")
	}
	if ip.Status != "success" {
		return 0, 0, eris.Errorf("geo: ip lookup status %q", ip.Status)
	}
	return ip.Lat, ip.Lon, nil
}

// ReverseGeocode resolves a country and city for the given coordinates.
func (l *Locator) ReverseGeocode(ctx context.Context, lat, lng float64) (model.UserLocation, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return model.UserLocation{}, eris.Wrap(err, "geo: rate limit")
	}

	url := fmt.Sprintf("%s?latitude=%f&longitude=%f&localityLanguage=en", l.reverseURL, lat, lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.UserLocation{}, eris.Wrap(err, "geo: build reverse request")
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return model.UserLocation{}, eris.Wrap(err, "geo: reverse request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return model.UserLocation{}, eris.Errorf("geo: reverse geocode returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.UserLocation{}, eris.Wrap(err, "geo: read reverse body")
	}

	var rev reverseResponse
	if err := json.Unmarshal(body, &rev); err != nil {
		return model.UserLocation{}, eris.Wrap(err, "geo: parse reverse response")
	}
	if rev.CountryCode == "" {
		return model.UserLocation{}, eris.New("geo: no country in reverse response")
	}

	// city → locality → principalSubdivision, first non-empty wins.
	city := rev.City
	if city == "" {
		city = rev.Locality
	}
	if city == "" {
		city = rev.PrincipalSubdivision
	}

	return model.UserLocation{
		Country:     rev.CountryName,
		CountryCode: rev.CountryCode,
		City:        city,
		Latitude:    lat,
		Longitude:   lng,
		Timestamp:   time.Now().UTC(),
	}, nil
}
