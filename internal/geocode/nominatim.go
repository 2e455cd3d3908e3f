// Package geocode resolves free-text addresses to coordinates.
//
// Every failure of the remote service is recoverable: Locate reports it as
// "not found" and logs the cause.
package geocode

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

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/neairports/internal/config"
	"github.com/woozymasta/neairports/internal/geo"
)

// ErrNotFound means the service answered but matched nothing.
var ErrNotFound = errors.New("geocode: address not found")

// UnavailableError wraps transport, status, decoding and timeout failures.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("geocode: service unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time.
func (e *UnavailableError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(e.Err, &te) && te.Timeout()
}

// Outcome labels reported to an Observer.
const (
	OutcomeFound       = "found"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
	OutcomeTimeout     = "timeout"
	OutcomeDisabled    = "disabled"
)

// Observer is notified of every lookup outcome.
type Observer interface {
	ObserveGeocode(outcome string, took time.Duration)
}

// Locator resolves an address to a point; ok is false when it cannot.
type Locator interface {
	Locate(ctx context.Context, address string) (p geo.Point, ok bool)
}

// nominatimResult is the subset of a Nominatim search hit we use.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Nominatim queries a Nominatim-compatible /search endpoint.
type Nominatim struct {
	client       *http.Client
	observer     Observer
	baseURL      string
	userAgent    string
	countryCodes string
	timeout      time.Duration
	disabled     bool
}

// NewNominatim builds a geocoder from configuration. A nil client uses
// http.DefaultClient; the per-request timeout always comes from cfg.
func NewNominatim(cfg config.Geocoder, client *http.Client, observer Observer) *Nominatim {
	if client == nil {
		client = http.DefaultClient
	}
	return &Nominatim{
		client:       client,
		observer:     observer,
		baseURL:      cfg.URL,
		userAgent:    cfg.UserAgent,
		countryCodes: cfg.CountryCodes,
		timeout:      cfg.Timeout,
		disabled:     cfg.Disabled,
	}
}

// Locate implements Locator.
func (n *Nominatim) Locate(ctx context.Context, address string) (geo.Point, bool) {
	if n.disabled {
		n.observe(OutcomeDisabled, 0)
		return geo.Point{}, false
	}

	start := time.Now()
	p, err := n.Search(ctx, address)
	took := time.Since(start)

	if err == nil {
		n.observe(OutcomeFound, took)
		log.Debug().
			Str("address", address).
			Float64("lat", p.Lat).
			Float64("lon", p.Lon).
			Dur("took", took).
			Msg("Address located")
		return p, true
	}

	var unavailable *UnavailableError
	switch {
	case errors.As(err, &unavailable) && unavailable.Timeout():
		n.observe(OutcomeTimeout, took)
	case errors.As(err, &unavailable):
		n.observe(OutcomeUnavailable, took)
	default:
		n.observe(OutcomeNotFound, took)
	}

	log.Warn().Err(err).Str("address", address).Dur("took", took).Msg("Address lookup failed")
	return geo.Point{}, false
}

// Search returns the first match for address, ErrNotFound, or an
// *UnavailableError.
func (n *Nominatim) Search(ctx context.Context, address string) (geo.Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return geo.Point{}, ErrNotFound
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	if n.countryCodes != "" {
		params.Set("countrycodes", n.countryCodes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return geo.Point{}, &UnavailableError{Err: err}
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return geo.Point{}, &UnavailableError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return geo.Point{}, &UnavailableError{Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Point{}, &UnavailableError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(results) == 0 {
		return geo.Point{}, ErrNotFound
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return geo.Point{}, &UnavailableError{
			Err: fmt.Errorf("invalid coordinates %q, %q", results[0].Lat, results[0].Lon),
		}
	}

	return geo.Point{Lat: lat, Lon: lon}, nil
}

func (n *Nominatim) observe(outcome string, took time.Duration) {
	if n.observer != nil {
		n.observer.ObserveGeocode(outcome, took)
	}
}
