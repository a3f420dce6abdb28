package providers_test

import (
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"

	"github.com/ShivanshGhelani/BFP/bfplib"
	"github.com/ShivanshGhelani/BFP/providers"
)

type MockedIPAPITestSuite struct {
	MockedProviderTestSuite

	geo bfplib.GeocodeProvider
	ip  bfplib.IPProvider
}

func (suite *MockedIPAPITestSuite) SetupTest() {
	suite.MockedProviderTestSuite.SetupTest()

	suite.geo = providers.NewIPAPI(suite.http)
	suite.ip = providers.NewIPAPIIPLookup(suite.http)
}

func (suite *MockedIPAPITestSuite) TestName() {
	suite.Equal(providers.NameIPAPI, suite.geo.Name())
	suite.Equal(providers.NameIPAPI, suite.ip.Name())
}

func (suite *MockedIPAPITestSuite) TestLookupFailed() {
	httpmock.RegisterResponder("GET",
		"http://ip-api.com/json/23.22.13.113",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	_, err := suite.ip.LookupIP(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPAPITestSuite) TestLookupBadJSON() {
	httpmock.RegisterResponder("GET",
		"http://ip-api.com/json/23.22.13.113",
		httpmock.NewStringResponder(http.StatusOK, `{[`))

	_, err := suite.ip.LookupIP(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPAPITestSuite) TestLookupFailedStatus() {
	httpmock.RegisterResponder("GET",
		"http://ip-api.com/json/127.0.0.1",
		httpmock.NewStringResponder(http.StatusOK, `{
  "status": "fail",
  "message": "private range",
  "query": "127.0.0.1"
}`))

	_, err := suite.ip.LookupIP(context.Background(),
		net.ParseIP("127.0.0.1"))

	suite.Error(err)
	suite.Contains(err.Error(), "private range")
}

func (suite *MockedIPAPITestSuite) TestLookupOk() {
	httpmock.RegisterResponder("GET",
		"http://ip-api.com/json/23.22.13.113",
		httpmock.NewStringResponder(http.StatusOK, `{
  "status": "success",
  "country": "United States",
  "countryCode": "US",
  "region": "VA",
  "regionName": "Virginia",
  "city": "Ashburn",
  "district": "",
  "zip": "20149",
  "timezone": "America/New_York"
}`))

	result, err := suite.ip.LookupIP(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.NoError(err)
	suite.Equal("United States", result.Country)
	suite.Equal("US", result.CountryCode)
	suite.Equal("Virginia", result.Region)
	suite.Equal("Ashburn", result.City)
	suite.Equal("20149", result.Postcode)
	suite.Equal("America/New_York", result.Timezone)
}

func (suite *MockedIPAPITestSuite) TestReverseGeocodeOk() {
	httpmock.RegisterResponder("GET",
		"http://ip-api.com/json/",
		httpmock.NewStringResponder(http.StatusOK, `{
  "status": "success",
  "country": "United States",
  "countryCode": "US",
  "region": "VA",
  "regionName": "Virginia",
  "city": "Ashburn",
  "timezone": "America/New_York"
}`))

	result, err := suite.geo.ReverseGeocode(context.Background(), bfplib.Coordinates{
		Latitude:  39.03,
		Longitude: -77.5,
	})

	suite.NoError(err)
	suite.Equal("Virginia", result.Region)
	suite.Equal("Ashburn", result.City)
}

func TestIPAPI(t *testing.T) {
	suite.Run(t, &MockedIPAPITestSuite{})
}
