package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ShivanshGhelani/BFP/bfplib"
	"github.com/ShivanshGhelani/BFP/providers"
)

const (
	circuitBreakerOpenThreshold        = 3
	circuitBreakerHalfOpenTimeout      = time.Minute
	circuitBreakerResetFailuresTimeout = 30 * time.Second
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

type providerSet struct {
	geocoders []bfplib.GeocodeProvider
	ipLookups []bfplib.IPProvider
	publicIPs []bfplib.PublicIPProvider
}

func makeProviders(conf *config) (providerSet, error) {
	rv := providerSet{}

	for _, v := range conf.GetProviders() {
		httpClient := makeNewHTTPClient(v)

		switch v.GetName() {
		case providers.NameNominatim:
			rv.geocoders = append(rv.geocoders, providers.NewNominatim(httpClient))
		case providers.NameBigDataCloud:
			rv.geocoders = append(rv.geocoders, providers.NewBigDataCloud(httpClient))
		case providers.NameIPAPI:
			rv.geocoders = append(rv.geocoders, providers.NewIPAPI(httpClient))
			rv.ipLookups = append(rv.ipLookups, providers.NewIPAPIIPLookup(httpClient))
		case providers.NameIPInfo:
			params := v.GetSpecificParameters()

			rv.ipLookups = append(rv.ipLookups, providers.NewIPInfo(httpClient, params))
			rv.publicIPs = append(rv.publicIPs, providers.NewIPInfoPublicIP(httpClient, params))
		case providers.NameIPify:
			rv.publicIPs = append(rv.publicIPs, providers.NewIPify(httpClient))
		default:
			return rv, fmt.Errorf("unsupported provider name: %s", v.GetName())
		}
	}

	if len(rv.geocoders) == 0 {
		return rv, fmt.Errorf("no geocoding providers are configured")
	}

	return rv, nil
}

func makeNewHTTPClient(conf configProvider) bfplib.HTTPClient {
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}

	httpClient := &http.Client{
		Timeout: conf.GetHTTPTimeout(),
		Jar:     jar,
	}

	return bfplib.NewHTTPClient(httpClient,
		"bfp-analytics/"+version,
		conf.GetRateLimitInterval(),
		conf.GetRateLimitBurst(),
		circuitBreakerOpenThreshold,
		circuitBreakerHalfOpenTimeout,
		circuitBreakerResetFailuresTimeout)
}

func makeCache(conf *config) (bfplib.Cache, error) {
	if conf.Cache.Disabled {
		return bfplib.NopCache{}, nil
	}

	return bfplib.NewMemoryCache(uint(conf.Cache.GetItemsCount()), conf.Cache.GetTTL())
}
