// Package netenv looks up the facts about the console's network environment
// that are attached to a new session: public IP and coarse location.
package netenv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/news-admin/api"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Placeholders used when a lookup fails.
const (
	UnknownIP       = "unknown"
	UnknownLocation = "Unknown"
)

// Environment is what StartSession reports about where the console runs.
type Environment struct {
	IPAddress string
	Location  api.Location
}

type Probe struct {
	httpClient *http.Client
	ipURL      string
	geoURL     string // contains {ip}
	logger     zerolog.Logger
}

type Option func(*Probe)

func WithHTTPClient(hc *http.Client) Option {
	return func(p *Probe) {
		p.httpClient = hc
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(p *Probe) {
		p.logger = l
	}
}

// NewProbe builds a Probe. geoURL is a template in which "{ip}" is replaced by
// the resolved address.
func NewProbe(ipURL, geoURL string, opts ...Option) *Probe {
	p := &Probe{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		ipURL:      ipURL,
		geoURL:     geoURL,
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Environment resolves the IP and then the location for that IP. Each step is
// best-effort; failures yield placeholders, never an error.
func (p *Probe) Environment(ctx context.Context) Environment {
	env := Environment{
		IPAddress: UnknownIP,
		Location:  api.Location{Country: UnknownLocation, City: UnknownLocation},
	}

	ip, err := p.PublicIP(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("IP lookup failed")
		return env
	}
	env.IPAddress = ip

	loc, err := p.Locate(ctx, ip)
	if err != nil {
		p.logger.Warn().Err(err).Str("ip", ip).Msg("Geolocation lookup failed")
		return env
	}
	env.Location = loc
	return env
}

// PublicIP asks the IP lookup service for the caller's address.
func (p *Probe) PublicIP(ctx context.Context) (string, error) {
	var body struct {
		IP string `json:"ip"`
	}
	if err := p.getJSON(ctx, p.ipURL, &body); err != nil {
		return "", err
	}
	if strings.TrimSpace(body.IP) == "" {
		return "", fmt.Errorf("ip lookup: empty ip in response")
	}
	return body.IP, nil
}

// Locate resolves ip to a country and city.
func (p *Probe) Locate(ctx context.Context, ip string) (api.Location, error) {
	var body struct {
		CountryName string `json:"country_name"`
		City        string `json:"city"`
		Error       bool   `json:"error"`
		Reason      string `json:"reason"`
	}
	target := strings.ReplaceAll(p.geoURL, "{ip}", url.PathEscape(ip))
	if err := p.getJSON(ctx, target, &body); err != nil {
		return api.Location{}, err
	}
	if body.Error {
		return api.Location{}, fmt.Errorf("geolocation lookup: %s", body.Reason)
	}

	loc := api.Location{Country: body.CountryName, City: body.City}
	if loc.Country == "" {
		loc.Country = UnknownLocation
	}
	if loc.City == "" {
		loc.City = UnknownLocation
	}
	return loc, nil
}

func (p *Probe) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build GET %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("GET %s: status %d", target, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode GET %s: %w", target, err)
	}
	return nil
}
