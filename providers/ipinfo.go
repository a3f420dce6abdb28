package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/ShivanshGhelani/BFP/bfplib"
)

type ipinfoResponse struct {
	IP       string `json:"ip"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Postal   string `json:"postal"`
	Timezone string `json:"timezone"`
}

type ipinfoProvider struct {
	authToken string
	client    bfplib.HTTPClient
}

func (i ipinfoProvider) Name() string {
	return NameIPInfo
}

func (i ipinfoProvider) LookupIP(ctx context.Context, ip net.IP) (bfplib.PartialLocation, error) {
	jsonResponse, err := i.request(ctx, "https://ipinfo.io/"+ip.String())
	if err != nil {
		return bfplib.PartialLocation{}, err
	}

	return bfplib.PartialLocation{
		City:        jsonResponse.City,
		Region:      jsonResponse.Region,
		CountryCode: jsonResponse.Country,
		Postcode:    jsonResponse.Postal,
		Timezone:    jsonResponse.Timezone,
	}, nil
}

func (i ipinfoProvider) PublicIP(ctx context.Context) (net.IP, error) {
	jsonResponse, err := i.request(ctx, "https://ipinfo.io/json")
	if err != nil {
		return nil, err
	}

	parsed := net.ParseIP(jsonResponse.IP)
	if parsed == nil {
		return nil, fmt.Errorf("cannot parse ip address %s", jsonResponse.IP)
	}

	return parsed, nil
}

func (i ipinfoProvider) request(ctx context.Context, url string) (ipinfoResponse, error) {
	jsonResponse := ipinfoResponse{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return jsonResponse, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if i.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+i.authToken)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return jsonResponse, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return jsonResponse, fmt.Errorf("cannot parse a response: %w", err)
	}

	return jsonResponse, nil
}

func NewIPInfo(client bfplib.HTTPClient, parameters map[string]string) bfplib.IPProvider {
	return ipinfoProvider{
		authToken: parameters["auth_token"],
		client:    client,
	}
}

// NewIPInfoPublicIP exposes ipinfo.io as a public address discovery
// backend for callers behind NAT.
func NewIPInfoPublicIP(client bfplib.HTTPClient, parameters map[string]string) bfplib.PublicIPProvider {
	return ipinfoProvider{
		authToken: parameters["auth_token"],
		client:    client,
	}
}
