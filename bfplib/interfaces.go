package bfplib

import (
	"context"
	"net"
	"net/http"
)

// GeocodeProvider is a client for one external reverse-geocoding
// service. Implementations normalize the service's own field names into
// PartialLocation and must respect the context deadline.
type GeocodeProvider interface {
	Name() string
	ReverseGeocode(ctx context.Context, coords Coordinates) (PartialLocation, error)
}

// IPProvider is a client for one external IP geolocation service.
type IPProvider interface {
	Name() string
	LookupIP(ctx context.Context, ip net.IP) (PartialLocation, error)
}

// PublicIPProvider discovers the public address of this deployment.
// Used when the detected client address is private or loopback.
type PublicIPProvider interface {
	Name() string
	PublicIP(ctx context.Context) (net.IP, error)
}

// HTTPClient is what provider clients use to talk to the outside world.
// The default implementation adds a user agent, a bounded timeout, a
// client-side rate limiter and a circuit breaker.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Cache stores resolved locations keyed by a query fingerprint. Both
// operations are best effort: a miss is always a valid answer and Set
// may silently drop the entry.
type Cache interface {
	Get(key string) (ResolvedLocation, bool)
	Set(key string, value ResolvedLocation)
}

// VisitorStore is the document store the aggregator writes visitor
// history into. UpsertVisit must be a single atomic find-and-modify
// that increments visit_count by one; concurrent upserts for the same
// visitor id must not lose increments.
type VisitorStore interface {
	UpsertVisit(ctx context.Context, visitorID string, visit VisitorRecord) (VisitorRecord, error)
	InsertVisit(ctx context.Context, visit VisitorRecord) error
	CountVisits(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type Logger interface {
	LookupError(name string, err error)
	ResolveError(err error)
	StoreError(err error)
}
