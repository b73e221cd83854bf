package suncolor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrUnavailable means sun times could not be fetched. Callers degrade to
// a permanent-night clock; nothing retries.
var ErrUnavailable = errors.New("sun times unavailable")

const defaultEndpoint = "https://api.sunrise-sunset.org/json"

var httpClient = &http.Client{Timeout: 10 * time.Second}

// Fetch retrieves today's sun boundaries for the given location from
// sunrise-sunset.org. Called once at startup; a failure is reported, not
// retried.
func Fetch(ctx context.Context, lat, lon float64) (*SunTimes, error) {
	return fetchFrom(ctx, defaultEndpoint, lat, lon)
}

func fetchFrom(ctx context.Context, endpoint string, lat, lon float64) (*SunTimes, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("formatted", "0") // ISO 8601 timestamps instead of locale strings

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrUnavailable, resp.Status)
	}

	var body struct {
		Results struct {
			Sunrise            time.Time `json:"sunrise"`
			Sunset             time.Time `json:"sunset"`
			SolarNoon          time.Time `json:"solar_noon"`
			AstroTwilightBegin time.Time `json:"astronomical_twilight_begin"`
			AstroTwilightEnd   time.Time `json:"astronomical_twilight_end"`
		} `json:"results"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("%w: api status %q", ErrUnavailable, body.Status)
	}

	return &SunTimes{
		AstronomicalDawn: body.Results.AstroTwilightBegin,
		Sunrise:          body.Results.Sunrise,
		SolarNoon:        body.Results.SolarNoon,
		Sunset:           body.Results.Sunset,
		AstronomicalDusk: body.Results.AstroTwilightEnd,
	}, nil
}
