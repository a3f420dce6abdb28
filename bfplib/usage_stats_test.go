package bfplib_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ShivanshGhelani/BFP/bfplib"
)

type usageStatsJSON struct {
	Name         string `json:"name"`
	LastUsed     int64  `json:"last_used"`
	SuccessCount uint64 `json:"success_count"`
	FailureCount uint64 `json:"failure_count"`
}

type UsageStatsTestSuite struct {
	suite.Suite

	u *bfplib.UsageStats
}

func (suite *UsageStatsTestSuite) SetupTest() {
	suite.u = &bfplib.UsageStats{
		Name: "test",
	}
}

func (suite *UsageStatsTestSuite) Verify(lastUsed time.Time, success, failure int) {
	v, err := json.Marshal(suite.u)

	suite.NoError(err)

	raw := usageStatsJSON{}

	suite.NoError(json.Unmarshal(v, &raw))
	suite.Equal("test", raw.Name)
	suite.EqualValues(success, raw.SuccessCount)
	suite.EqualValues(failure, raw.FailureCount)

	if lastUsed.IsZero() {
		suite.EqualValues(0, raw.LastUsed)
	} else {
		suite.WithinDuration(lastUsed, time.Unix(raw.LastUsed, 0), time.Second)
	}
}

func (suite *UsageStatsTestSuite) TestEmpty() {
	suite.Verify(time.Time{}, 0, 0)
}

func (suite *UsageStatsTestSuite) TestSuccess() {
	suite.u.Used(nil)
	suite.Verify(time.Now(), 1, 0)
}

func (suite *UsageStatsTestSuite) TestFailure() {
	suite.u.Used(errors.New("upstream is down"))
	suite.Verify(time.Now(), 0, 1)
}

func (suite *UsageStatsTestSuite) TestMixed() {
	suite.u.Used(nil)
	suite.u.Used(errors.New("upstream is down"))
	suite.u.Used(nil)
	suite.Verify(time.Now(), 2, 1)
}

func TestUsageStats(t *testing.T) {
	suite.Run(t, &UsageStatsTestSuite{})
}
