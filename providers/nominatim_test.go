package providers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"

	"github.com/ShivanshGhelani/BFP/bfplib"
	"github.com/ShivanshGhelani/BFP/providers"
)

type MockedNominatimTestSuite struct {
	MockedProviderTestSuite

	prov   bfplib.GeocodeProvider
	coords bfplib.Coordinates
}

func (suite *MockedNominatimTestSuite) SetupTest() {
	suite.MockedProviderTestSuite.SetupTest()

	suite.prov = providers.NewNominatim(suite.http)
	suite.coords = bfplib.Coordinates{
		Latitude:  51.5237629,
		Longitude: -0.1584743,
	}
}

func (suite *MockedNominatimTestSuite) TestName() {
	suite.Equal(providers.NameNominatim, suite.prov.Name())
}

func (suite *MockedNominatimTestSuite) TestReverseGeocodeClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())

	cancel()

	_, err := suite.prov.ReverseGeocode(ctx, suite.coords)

	suite.Error(err)
}

func (suite *MockedNominatimTestSuite) TestReverseGeocodeFailed() {
	httpmock.RegisterResponder("GET",
		"https://nominatim.openstreetmap.org/reverse",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	_, err := suite.prov.ReverseGeocode(context.Background(), suite.coords)

	suite.Error(err)
}

func (suite *MockedNominatimTestSuite) TestReverseGeocodeBadJSON() {
	httpmock.RegisterResponder("GET",
		"https://nominatim.openstreetmap.org/reverse",
		httpmock.NewStringResponder(http.StatusOK, `{[`))

	_, err := suite.prov.ReverseGeocode(context.Background(), suite.coords)

	suite.Error(err)
}

func (suite *MockedNominatimTestSuite) TestReverseGeocodeNoAddress() {
	httpmock.RegisterResponder("GET",
		"https://nominatim.openstreetmap.org/reverse",
		httpmock.NewStringResponder(http.StatusOK, `{
  "error": "Unable to geocode"
}`))

	_, err := suite.prov.ReverseGeocode(context.Background(), suite.coords)

	suite.Error(err)
}

func (suite *MockedNominatimTestSuite) TestReverseGeocodeOk() {
	httpmock.RegisterResponder("GET",
		"https://nominatim.openstreetmap.org/reverse",
		httpmock.NewStringResponder(http.StatusOK, `{
  "place_id": 107942181,
  "licence": "Data © OpenStreetMap contributors, ODbL 1.0.",
  "display_name": "221B, Baker Street, Marylebone, London, Greater London, England, NW1 6XE, United Kingdom",
  "address": {
    "house_number": "221B",
    "road": "Baker Street",
    "suburb": "Marylebone",
    "city": "London",
    "state_district": "Greater London",
    "state": "England",
    "postcode": "NW1 6XE",
    "country": "United Kingdom",
    "country_code": "gb"
  }
}`))

	result, err := suite.prov.ReverseGeocode(context.Background(), suite.coords)

	suite.NoError(err)
	suite.Equal("United Kingdom", result.Country)
	suite.Equal("gb", result.CountryCode)
	suite.Equal("England", result.State)
	suite.Equal("London", result.City)
	suite.Equal("Baker Street", result.Road)
	suite.Equal("Marylebone", result.Suburb)
	suite.Equal("NW1 6XE", result.Postcode)
	suite.Contains(result.DisplayName, "Baker Street")
}

func (suite *MockedNominatimTestSuite) TestReverseGeocodeTownFallback() {
	httpmock.RegisterResponder("GET",
		"https://nominatim.openstreetmap.org/reverse",
		httpmock.NewStringResponder(http.StatusOK, `{
  "display_name": "High Street, Stratford-upon-Avon, Warwickshire, England, United Kingdom",
  "address": {
    "road": "High Street",
    "town": "Stratford-upon-Avon",
    "state": "England",
    "country": "United Kingdom",
    "country_code": "gb"
  }
}`))

	result, err := suite.prov.ReverseGeocode(context.Background(), suite.coords)

	suite.NoError(err)
	suite.Equal("Stratford-upon-Avon", result.City)
}

func TestNominatim(t *testing.T) {
	suite.Run(t, &MockedNominatimTestSuite{})
}
