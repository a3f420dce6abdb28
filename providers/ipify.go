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

type ipifyResponse struct {
	IP string `json:"ip"`
}

type ipifyProvider struct {
	client bfplib.HTTPClient
}

func (i ipifyProvider) Name() string {
	return NameIPify
}

func (i ipifyProvider) PublicIP(ctx context.Context) (net.IP, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.ipify.org/?format=json", nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	jsonResponse := ipifyResponse{}
	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return nil, fmt.Errorf("cannot parse a response: %w", err)
	}

	parsed := net.ParseIP(jsonResponse.IP)
	if parsed == nil {
		return nil, fmt.Errorf("cannot parse ip address %s", jsonResponse.IP)
	}

	return parsed, nil
}

func NewIPify(client bfplib.HTTPClient) bfplib.PublicIPProvider {
	return ipifyProvider{
		client: client,
	}
}
