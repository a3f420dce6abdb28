package providers_test

import (
	"net/http"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"

	"github.com/ShivanshGhelani/BFP/bfplib"
)

type ProviderTestSuite struct {
	suite.Suite

	http bfplib.HTTPClient
}

func (suite *ProviderTestSuite) SetupTest() {
	suite.http = bfplib.NewHTTPClient(&http.Client{},
		"test-agent",
		time.Millisecond,
		100,
		100,
		time.Minute,
		time.Minute)
}

type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}
