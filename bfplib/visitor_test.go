package bfplib_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ShivanshGhelani/BFP/bfplib"
)

type AggregatorTestSuite struct {
	suite.Suite

	aggregator *bfplib.Aggregator
	storeMock  *VisitorStoreMock
	geoMock    *GeocodeProviderMock
	logMock    *LoggerMock
	resolver   *bfplib.Resolver
}

func (suite *AggregatorTestSuite) SetupTest() {
	suite.storeMock = &VisitorStoreMock{}
	suite.geoMock = &GeocodeProviderMock{}
	suite.logMock = &LoggerMock{}

	suite.logMock.On("LookupError", mock.Anything, mock.Anything).Maybe()
	suite.logMock.On("ResolveError", mock.Anything).Maybe()
	suite.geoMock.On("Name").Return("geo").Maybe()

	resolver, err := bfplib.NewResolver(bfplib.ResolverOpts{
		Logger:           suite.logMock,
		GeocodeProviders: []bfplib.GeocodeProvider{suite.geoMock},
	})

	suite.NoError(err)

	suite.resolver = resolver
	suite.aggregator = bfplib.NewAggregator(suite.storeMock, resolver, suite.logMock)
}

func (suite *AggregatorTestSuite) TearDownTest() {
	suite.resolver.Shutdown()

	suite.storeMock.AssertExpectations(suite.T())
	suite.geoMock.AssertExpectations(suite.T())
}

func (suite *AggregatorTestSuite) TestUpsertIdentifiedVisitor() {
	profile := bfplib.VisitorProfile{
		VisitorID: "visitor-1",
		Navigator: &bfplib.NavigatorInfo{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
		},
	}

	suite.storeMock.On("UpsertVisit", mock.Anything, "visitor-1", mock.MatchedBy(func(record bfplib.VisitorRecord) bool {
		return record.Browser == "Firefox" &&
			record.ClientIP == "93.73.35.74" &&
			record.VisitorID == "visitor-1"
	})).Once().Return(bfplib.VisitorRecord{VisitorID: "visitor-1", VisitCount: 2}, nil)

	err := suite.aggregator.RecordVisit(context.Background(), "93.73.35.74", profile)

	suite.NoError(err)
}

func (suite *AggregatorTestSuite) TestInsertAnonymousVisitor() {
	profile := bfplib.VisitorProfile{
		VisitCount: 5,
	}

	suite.storeMock.On("InsertVisit", mock.Anything, mock.MatchedBy(func(record bfplib.VisitorRecord) bool {
		return record.VisitCount == 5 && record.Browser == "Other"
	})).Once().Return(nil)

	err := suite.aggregator.RecordVisit(context.Background(), "93.73.35.74", profile)

	suite.NoError(err)
}

func (suite *AggregatorTestSuite) TestInsertAnonymousVisitorZeroHint() {
	suite.storeMock.On("InsertVisit", mock.Anything, mock.MatchedBy(func(record bfplib.VisitorRecord) bool {
		return record.VisitCount == 1
	})).Once().Return(nil)

	err := suite.aggregator.RecordVisit(context.Background(), "93.73.35.74", bfplib.VisitorProfile{})

	suite.NoError(err)
}

func (suite *AggregatorTestSuite) TestStoreFailurePropagates() {
	suite.storeMock.On("InsertVisit", mock.Anything, mock.Anything).
		Once().
		Return(errors.New("connection reset"))

	err := suite.aggregator.RecordVisit(context.Background(), "93.73.35.74", bfplib.VisitorProfile{})

	suite.Error(err)
}

func (suite *AggregatorTestSuite) TestGPSAddressAttached() {
	latitude := 51.5237629
	longitude := -0.1584743
	profile := bfplib.VisitorProfile{
		VisitorID: "visitor-1",
		Loc: &bfplib.LocationHint{
			GPS: &bfplib.GPSReading{
				Latitude:  &latitude,
				Longitude: &longitude,
			},
		},
	}

	suite.geoMock.On("ReverseGeocode", mock.Anything, mock.Anything).
		Once().
		Return(bfplib.PartialLocation{City: "London"}, nil)

	suite.storeMock.On("UpsertVisit", mock.Anything, "visitor-1", mock.MatchedBy(func(record bfplib.VisitorRecord) bool {
		gps := record.Profile.GPS()

		return gps != nil &&
			gps.Address != nil &&
			gps.Address.Fields["city"] == "London"
	})).Once().Return(bfplib.VisitorRecord{}, nil)

	err := suite.aggregator.RecordVisit(context.Background(), "93.73.35.74", profile)

	suite.NoError(err)
}

func (suite *AggregatorTestSuite) TestResolveFailureDoesNotAbort() {
	latitude := 51.5237629
	longitude := -0.1584743
	profile := bfplib.VisitorProfile{
		VisitorID: "visitor-1",
		Loc: &bfplib.LocationHint{
			GPS: &bfplib.GPSReading{
				Latitude:  &latitude,
				Longitude: &longitude,
			},
		},
	}

	suite.geoMock.On("ReverseGeocode", mock.Anything, mock.Anything).
		Once().
		Return(bfplib.PartialLocation{}, errors.New("upstream is down"))

	suite.storeMock.On("UpsertVisit", mock.Anything, "visitor-1", mock.MatchedBy(func(record bfplib.VisitorRecord) bool {
		gps := record.Profile.GPS()

		return gps != nil && gps.Address == nil
	})).Once().Return(bfplib.VisitorRecord{}, nil)

	err := suite.aggregator.RecordVisit(context.Background(), "93.73.35.74", profile)

	suite.NoError(err)
}

func TestAggregator(t *testing.T) {
	suite.Run(t, &AggregatorTestSuite{})
}
