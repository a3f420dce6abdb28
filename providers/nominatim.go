package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ShivanshGhelani/BFP/bfplib"
)

type nominatimAddress struct {
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
	State         string `json:"state"`
	Region        string `json:"region"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	CityDistrict  string `json:"city_district"`
	District      string `json:"district"`
	Postcode      string `json:"postcode"`
	Road          string `json:"road"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
}

type nominatimResponse struct {
	DisplayName string            `json:"display_name"`
	Address     *nominatimAddress `json:"address"`
}

type nominatimProvider struct {
	client bfplib.HTTPClient
}

func (n nominatimProvider) Name() string {
	return NameNominatim
}

func (n nominatimProvider) ReverseGeocode(ctx context.Context, coords bfplib.Coordinates) (bfplib.PartialLocation, error) {
	result := bfplib.PartialLocation{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.buildURL(coords), nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	jsonResponse := nominatimResponse{}
	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return result, fmt.Errorf("cannot parse a response: %w", err)
	}

	if jsonResponse.Address == nil {
		return result, fmt.Errorf("no address found for %s", coords)
	}

	address := jsonResponse.Address

	result.Country = address.Country
	result.CountryCode = address.CountryCode
	result.State = address.State
	result.Region = address.Region
	result.City = firstNonEmpty(address.City, address.Town, address.Village)
	result.District = firstNonEmpty(address.CityDistrict, address.District)
	result.Postcode = address.Postcode
	result.Road = address.Road
	result.Suburb = firstNonEmpty(address.Suburb, address.Neighbourhood)
	result.DisplayName = jsonResponse.DisplayName

	return result, nil
}

func (n nominatimProvider) buildURL(coords bfplib.Coordinates) string {
	getQuery := url.Values{}

	getQuery.Set("format", "json")
	getQuery.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	getQuery.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	getQuery.Set("zoom", "18")
	getQuery.Set("addressdetails", "1")

	u := url.URL{
		Scheme:   "https",
		Host:     "nominatim.openstreetmap.org",
		Path:     "/reverse",
		RawQuery: getQuery.Encode(),
	}

	return u.String()
}

func NewNominatim(client bfplib.HTTPClient) bfplib.GeocodeProvider {
	return nominatimProvider{
		client: client,
	}
}
