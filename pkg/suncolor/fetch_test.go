package suncolor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const fetchFixture = `{
  "results": {
    "sunrise": "2026-08-25T04:59:07+00:00",
    "sunset": "2026-08-25T18:22:41+00:00",
    "solar_noon": "2026-08-25T11:40:54+00:00",
    "day_length": 48214,
    "astronomical_twilight_begin": "2026-08-25T02:44:16+00:00",
    "astronomical_twilight_end": "2026-08-25T20:37:32+00:00"
  },
  "status": "OK"
}`

func TestFetchParsesSunTimes(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fetchFixture))
	}))
	defer server.Close()

	times, err := fetchFrom(context.Background(), server.URL, 59.3293, 18.0686)
	if err != nil {
		t.Fatalf("fetchFrom failed: %v", err)
	}

	wantSunrise := time.Date(2026, 8, 25, 4, 59, 7, 0, time.UTC)
	if !times.Sunrise.Equal(wantSunrise) {
		t.Errorf("Sunrise = %v, want %v", times.Sunrise, wantSunrise)
	}
	wantDusk := time.Date(2026, 8, 25, 20, 37, 32, 0, time.UTC)
	if !times.AstronomicalDusk.Equal(wantDusk) {
		t.Errorf("AstronomicalDusk = %v, want %v", times.AstronomicalDusk, wantDusk)
	}
	if !times.AstronomicalDawn.Before(times.Sunrise) || !times.Sunset.Before(times.AstronomicalDusk) {
		t.Errorf("Boundaries out of order: %+v", times)
	}

	for _, param := range []string{"lat=59.3293", "lng=18.0686", "formatted=0"} {
		if !strings.Contains(gotQuery, param) {
			t.Errorf("Query %q missing %q", gotQuery, param)
		}
	}
}

func TestFetchAPIErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": {}, "status": "INVALID_REQUEST"}`))
	}))
	defer server.Close()

	_, err := fetchFrom(context.Background(), server.URL, 0, 0)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable for api error status, got %v", err)
	}
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := fetchFrom(context.Background(), server.URL, 0, 0)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable for http 500, got %v", err)
	}
}

func TestFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := fetchFrom(context.Background(), server.URL, 0, 0)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable for malformed body, got %v", err)
	}
}
