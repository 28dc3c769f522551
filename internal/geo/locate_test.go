package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	ipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","lat":12.97,"lon":77.59,"country":"India"}`))
	}))
	defer ipSrv.Close()

	revSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("localityLanguage"))
		assert.NotEmpty(t, r.URL.Query().Get("latitude"))
		_, _ = w.Write([]byte(`{"countryName":"India","countryCode":"IN","city":"Bengaluru","locality":"Shivajinagar"}`))
	}))
	defer revSrv.Close()

	l := NewLocator(WithIPLookupURL(ipSrv.URL), WithReverseURL(revSrv.URL))

	loc, ok := l.Detect(context.Background())
	require.True(t, ok)
	assert.Equal(t, "IN", loc.CountryCode)
	assert.Equal(t, "India", loc.Country)
	assert.Equal(t, "Bengaluru", loc.City)
	assert.InDelta(t, 12.97, loc.Latitude, 0.001)
	assert.False(t, loc.Timestamp.IsZero())
}

func TestDetect_IPLookupFails_Unavailable(t *testing.T) {
	ipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ipSrv.Close()

	l := NewLocator(WithIPLookupURL(ipSrv.URL))

	_, ok := l.Detect(context.Background())
	assert.False(t, ok)
}

func TestDetect_IPLookupDenied_Unavailable(t *testing.T) {
	ipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer ipSrv.Close()

	l := NewLocator(WithIPLookupURL(ipSrv.URL))

	_, ok := l.Detect(context.Background())
	assert.False(t, ok)
}

func TestDetect_ReverseFails_Unavailable(t *testing.T) {
	ipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","lat":1,"lon":2}`))
	}))
	defer ipSrv.Close()

	revSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"countryName":"","countryCode":""}`))
	}))
	defer revSrv.Close()

	l := NewLocator(WithIPLookupURL(ipSrv.URL), WithReverseURL(revSrv.URL))

	_, ok := l.Detect(context.Background())
	assert.False(t, ok)
}

func TestReverseGeocode_CityPreferenceOrder(t *testing.T) {
	revSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"countryName":"India","countryCode":"IN","city":"","locality":"Koramangala","principalSubdivision":"Karnataka"}`))
	}))
	defer revSrv.Close()

	l := NewLocator(WithReverseURL(revSrv.URL))

	loc, err := l.ReverseGeocode(context.Background(), 12.9, 77.6)
	require.NoError(t, err)
	assert.Equal(t, "Koramangala", loc.City)
}

func TestReverseGeocode_SubdivisionFallback(t *testing.T) {
	revSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"countryName":"India","countryCode":"IN","principalSubdivision":"Karnataka"}`))
	}))
	defer revSrv.Close()

	l := NewLocator(WithReverseURL(revSrv.URL))

	loc, err := l.ReverseGeocode(context.Background(), 12.9, 77.6)
	require.NoError(t, err)
	assert.Equal(t, "Karnataka", loc.City)
}
