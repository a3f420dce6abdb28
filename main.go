package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/ShivanshGhelani/BFP/bfplib"
	"github.com/ShivanshGhelani/BFP/storage"
)

const version = "1.0.0"

var (
	app = kingpin.New(
		"bfp-analytics",
		"Visitor analytics and multi-provider geolocation service")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("BFP_DEBUG").
		Bool()
	configFile = app.Arg("config-path", "Path to the config.").
			Required().
			File()
)

func init() {
	app.Version(version)
	log.SetFormatter(&log.TextFormatter{})
	log.SetLevel(log.WarnLevel)
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	conf, err := parseConfig((*configFile).Name())
	if err != nil {
		log.Fatalf("cannot parse config: %v", err)
	}

	rootCtx, cancel := makeRootContext()
	defer cancel()

	mongoClient, err := storage.Connect(rootCtx, conf.Database.GetURI())
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}

	store := storage.NewMongoVisitorStore(mongoClient,
		conf.Database.GetName(),
		conf.Database.GetCollection())

	defer store.Close(context.Background()) // nolint: errcheck

	cache, err := makeCache(conf)
	if err != nil {
		log.Fatalf("cannot initialize cache: %v", err)
	}

	pset, err := makeProviders(conf)
	if err != nil {
		log.Fatalf("cannot initialize providers: %v", err)
	}

	appLogger := newLogger()

	resolver, err := bfplib.NewResolver(bfplib.ResolverOpts{
		Logger:           appLogger,
		Cache:            cache,
		GeocodeProviders: pset.geocoders,
		IPProviders:      pset.ipLookups,
		WorkerPoolSize:   conf.GetWorkerPoolSize(),
	})
	if err != nil {
		log.Fatalf("cannot initialize resolver: %v", err)
	}

	defer resolver.Shutdown()

	aggregator := bfplib.NewAggregator(store, resolver, appLogger)

	srv := &http.Server{
		Addr: conf.GetListen(),
		Handler: bfplib.NewHTTPHandler(bfplib.HTTPHandlerOpts{
			Resolver:          resolver,
			Aggregator:        aggregator,
			Store:             store,
			PublicIPProviders: pset.publicIPs,
			Logger:            appLogger,
			Version:           version,
			DatabaseName:      conf.Database.GetName(),
		}),
	}

	go func() {
		<-rootCtx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		srv.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	log.WithField("listen", conf.GetListen()).Info("starting server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server has failed: %v", err)
	}
}
