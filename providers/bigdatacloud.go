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

type bigDataCloudResponse struct {
	City                 string `json:"city"`
	Locality             string `json:"locality"`
	PrincipalSubdivision string `json:"principalSubdivision"`
	CountryName          string `json:"countryName"`
	CountryCode          string `json:"countryCode"`
	LocalityInfo         *struct {
		Administrative []struct {
			Name string `json:"name"`
		} `json:"administrative"`
	} `json:"localityInfo"`
}

type bigDataCloudProvider struct {
	client bfplib.HTTPClient
}

func (b bigDataCloudProvider) Name() string {
	return NameBigDataCloud
}

func (b bigDataCloudProvider) ReverseGeocode(ctx context.Context, coords bfplib.Coordinates) (bfplib.PartialLocation, error) {
	result := bfplib.PartialLocation{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.buildURL(coords), nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	jsonResponse := bigDataCloudResponse{}
	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return result, fmt.Errorf("cannot parse a response: %w", err)
	}

	result.Country = jsonResponse.CountryName
	result.CountryCode = jsonResponse.CountryCode
	result.City = firstNonEmpty(jsonResponse.City, jsonResponse.Locality)
	result.District = jsonResponse.PrincipalSubdivision

	if jsonResponse.LocalityInfo != nil && len(jsonResponse.LocalityInfo.Administrative) > 0 {
		result.Timezone = jsonResponse.LocalityInfo.Administrative[0].Name
	}

	return result, nil
}

func (b bigDataCloudProvider) buildURL(coords bfplib.Coordinates) string {
	getQuery := url.Values{}

	getQuery.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	getQuery.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	getQuery.Set("localityLanguage", "en")

	u := url.URL{
		Scheme:   "https",
		Host:     "api.bigdatacloud.net",
		Path:     "/data/reverse-geocode-client",
		RawQuery: getQuery.Encode(),
	}

	return u.String()
}

func NewBigDataCloud(client bfplib.HTTPClient) bfplib.GeocodeProvider {
	return bigDataCloudProvider{
		client: client,
	}
}
