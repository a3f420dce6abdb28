package bfplib_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ShivanshGhelani/BFP/bfplib"
)

type MemoryCacheTestSuite struct {
	suite.Suite

	cache bfplib.Cache
}

func (suite *MemoryCacheTestSuite) SetupTest() {
	cache, err := bfplib.NewMemoryCache(128, 50*time.Millisecond)

	suite.NoError(err)

	suite.cache = cache
}

func (suite *MemoryCacheTestSuite) TestMiss() {
	_, ok := suite.cache.Get("geo:unknown")

	suite.False(ok)
}

func (suite *MemoryCacheTestSuite) TestSetGet() {
	value := bfplib.ResolvedLocation{
		IP: "93.73.35.74",
		Combined: bfplib.CombinedLocation{
			Fields: map[string]string{"country": "Ukraine"},
		},
	}

	suite.cache.Set("ip:key", value)

	// ristretto admits entries asynchronously
	time.Sleep(100 * time.Millisecond)

	cached, ok := suite.cache.Get("ip:key")

	suite.True(ok)
	suite.Equal("93.73.35.74", cached.IP)
	suite.Equal("Ukraine", cached.Combined.Fields["country"])
}

func (suite *MemoryCacheTestSuite) TestExpired() {
	suite.cache.Set("ip:key", bfplib.ResolvedLocation{IP: "93.73.35.74"})

	time.Sleep(200 * time.Millisecond)

	_, ok := suite.cache.Get("ip:key")

	suite.False(ok)
}

func TestMemoryCache(t *testing.T) {
	suite.Run(t, &MemoryCacheTestSuite{})
}

func TestNopCache(t *testing.T) {
	cache := bfplib.NopCache{}

	cache.Set("key", bfplib.ResolvedLocation{IP: "93.73.35.74"})

	_, ok := cache.Get("key")

	if ok {
		t.Fatal("nop cache must always miss")
	}
}
