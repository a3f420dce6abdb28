package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ShivanshGhelani/BFP/bfplib"
)

type ipapiResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	RegionName  string `json:"regionName"`
	City        string `json:"city"`
	District    string `json:"district"`
	Zip         string `json:"zip"`
	Timezone    string `json:"timezone"`
}

func (i ipapiResponse) toLocation() bfplib.PartialLocation {
	return bfplib.PartialLocation{
		Country:     i.Country,
		CountryCode: i.CountryCode,
		Region:      i.RegionName,
		City:        i.City,
		District:    i.District,
		Postcode:    i.Zip,
		Timezone:    i.Timezone,
	}
}

// ipapiProvider talks to ip-api.com. It serves both query kinds: plain
// IP lookups and the coordinate-hinted variant used during reverse
// geocoding.
type ipapiProvider struct {
	client bfplib.HTTPClient
}

func (i ipapiProvider) Name() string {
	return NameIPAPI
}

func (i ipapiProvider) ReverseGeocode(ctx context.Context, coords bfplib.Coordinates) (bfplib.PartialLocation, error) {
	getQuery := url.Values{}

	getQuery.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	getQuery.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	getQuery.Set("fields", "status,message,country,countryCode,region,regionName,city,timezone")

	return i.lookup(ctx, i.buildURL("/json/", getQuery))
}

func (i ipapiProvider) LookupIP(ctx context.Context, ip net.IP) (bfplib.PartialLocation, error) {
	getQuery := url.Values{}

	getQuery.Set("fields", "status,message,country,countryCode,region,regionName,city,district,zip,timezone")

	return i.lookup(ctx, i.buildURL("/json/"+ip.String(), getQuery))
}

func (i ipapiProvider) lookup(ctx context.Context, url string) (bfplib.PartialLocation, error) {
	result := bfplib.PartialLocation{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	jsonResponse := ipapiResponse{}
	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return result, fmt.Errorf("cannot parse a response: %w", err)
	}

	if jsonResponse.Status != "success" {
		return result, fmt.Errorf("failed response: %s", jsonResponse.Message)
	}

	return jsonResponse.toLocation(), nil
}

func (i ipapiProvider) buildURL(path string, getQuery url.Values) string {
	u := url.URL{
		Scheme:   "http",
		Host:     "ip-api.com",
		Path:     path,
		RawQuery: getQuery.Encode(),
	}

	return u.String()
}

func NewIPAPI(client bfplib.HTTPClient) bfplib.GeocodeProvider {
	return ipapiProvider{
		client: client,
	}
}

// NewIPAPIIPLookup returns the same ip-api.com client in its IP
// geolocation role.
func NewIPAPIIPLookup(client bfplib.HTTPClient) bfplib.IPProvider {
	return ipapiProvider{
		client: client,
	}
}
