package bfplib

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	DefaultWorkerPoolSize = 1024

	workerPoolExpireTime = time.Minute
)

type lookupFunc func(ctx context.Context) (PartialLocation, error)

// namedLookup erases the difference between coordinate and IP providers
// so a single merge pipeline serves both query kinds.
type namedLookup struct {
	name   string
	lookup lookupFunc
}

type sourceDetail struct {
	name   string
	result SourceResult
}

type resolveRequest struct {
	ctx           context.Context
	coords        *Coordinates
	ip            string
	lookups       []namedLookup
	resultChannel chan<- ResolvedLocation
}

// Resolver answers location queries by fanning out to every configured
// provider concurrently and merging whatever came back. Provider order
// in the configuration is the merge priority order.
type Resolver struct {
	logger    Logger
	cache     Cache
	geocoders []GeocodeProvider
	ipLookups []IPProvider
	stats     map[string]*UsageStats

	rwmutex    sync.RWMutex
	closeOnce  sync.Once
	workerPool *ants.PoolWithFunc
	closed     bool
}

// ResolveCoordinates reverse-geocodes a coordinate pair. A provider
// that fails or times out contributes an error marker to Sources and
// nothing else; even zero successful providers is a valid empty result.
func (r *Resolver) ResolveCoordinates(ctx context.Context, coords Coordinates) (ResolvedLocation, error) {
	if !coords.Valid() {
		return ResolvedLocation{}, ErrInvalidCoordinates
	}

	lookups := make([]namedLookup, 0, len(r.geocoders))

	for _, v := range r.geocoders {
		v := v

		lookups = append(lookups, namedLookup{
			name: v.Name(),
			lookup: func(ctx context.Context) (PartialLocation, error) {
				return v.ReverseGeocode(ctx, coords)
			},
		})
	}

	return r.resolve(ctx, coordinatesCacheKey(coords), &resolveRequest{
		coords:  &coords,
		lookups: lookups,
	})
}

// ResolveIP geolocates an IP address through the same merge pipeline,
// only the provider set differs.
func (r *Resolver) ResolveIP(ctx context.Context, ip net.IP) (ResolvedLocation, error) {
	lookups := make([]namedLookup, 0, len(r.ipLookups))

	for _, v := range r.ipLookups {
		v := v

		lookups = append(lookups, namedLookup{
			name: v.Name(),
			lookup: func(ctx context.Context) (PartialLocation, error) {
				return v.LookupIP(ctx, ip)
			},
		})
	}

	return r.resolve(ctx, ipCacheKey(ip), &resolveRequest{
		ip:      ip.String(),
		lookups: lookups,
	})
}

func (r *Resolver) resolve(ctx context.Context, key string, req *resolveRequest) (ResolvedLocation, error) {
	r.rwmutex.RLock()
	defer r.rwmutex.RUnlock()

	if r.closed {
		return ResolvedLocation{}, ErrResolverShutdown
	}

	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	resultChannel := make(chan ResolvedLocation, 1)

	req.ctx = ctx
	req.resultChannel = resultChannel

	if err := r.workerPool.Invoke(req); err != nil {
		return ResolvedLocation{}, fmt.Errorf("cannot schedule a lookup: %w", err)
	}

	select {
	case <-ctx.Done():
		return ResolvedLocation{}, ctx.Err()
	case rv := <-resultChannel:
		r.cache.Set(key, rv)

		return rv, nil
	}
}

func (r *Resolver) resolveQuery(args interface{}) {
	req := args.(*resolveRequest)

	taskChannel := make(chan sourceDetail, len(req.lookups))
	wg := &sync.WaitGroup{}

	wg.Add(len(req.lookups))

	go func() {
		wg.Wait()
		close(taskChannel)
	}()

	for _, v := range req.lookups {
		go r.resolveLookup(req.ctx, v, taskChannel, wg)
	}

	sources := make(map[string]SourceResult, len(req.lookups))

	for detail := range taskChannel {
		sources[detail.name] = detail.result
	}

	priority := make([]string, 0, len(req.lookups))

	for _, v := range req.lookups {
		priority = append(priority, v.name)
	}

	rv := ResolvedLocation{
		Coordinates: req.coords,
		IP:          req.ip,
		Sources:     sources,
		Combined:    combineSources(priority, sources),
	}

	select {
	case <-req.ctx.Done():
	case req.resultChannel <- rv:
	}
}

func (r *Resolver) resolveLookup(ctx context.Context,
	lookup namedLookup,
	taskChannel chan<- sourceDetail,
	wg *sync.WaitGroup) {
	defer wg.Done()

	detail := sourceDetail{name: lookup.name}

	res, err := lookup.lookup(ctx)

	if stat, ok := r.stats[lookup.name]; ok {
		stat.Used(err)
	}

	if err != nil {
		r.logger.LookupError(lookup.name, err)

		detail.result = SourceResult{Err: err.Error()}
	} else {
		detail.result = SourceResult{Location: &res}
	}

	select {
	case <-ctx.Done():
	case taskChannel <- detail:
	}
}

// combineSources implements the field-priority merge: for every
// canonical field the first provider in priority order with a non-empty
// value wins, and the winner is recorded next to the value. Erroring
// providers simply have nothing to contribute.
func combineSources(priority []string, sources map[string]SourceResult) CombinedLocation {
	combined := CombinedLocation{
		Fields:       map[string]string{},
		FieldSources: map[string]string{},
	}

	for _, field := range locationFields {
		for _, name := range priority {
			source, ok := sources[name]
			if !ok || source.Location == nil {
				continue
			}

			if value := source.Location.Field(field); value != "" {
				combined.Fields[field] = value
				combined.FieldSources[field] = name

				break
			}
		}
	}

	for _, name := range priority {
		source, ok := sources[name]
		if !ok || source.Location == nil {
			continue
		}

		if source.Location.DisplayName != "" {
			combined.FullAddress = source.Location.DisplayName

			break
		}
	}

	combined.FormattedAddress = formatAddress(combined)

	return combined
}

func (r *Resolver) UsageStats() []*UsageStats {
	rv := make([]*UsageStats, 0, len(r.stats))

	for _, v := range r.stats {
		rv = append(rv, v)
	}

	sort.Slice(rv, func(i, j int) bool {
		return rv[i].Name < rv[j].Name
	})

	return rv
}

func (r *Resolver) Shutdown() {
	r.rwmutex.Lock()
	defer r.rwmutex.Unlock()

	r.closed = true

	r.closeOnce.Do(func() {
		r.workerPool.Release()
	})
}

type ResolverOpts struct {
	Logger           Logger
	Cache            Cache
	GeocodeProviders []GeocodeProvider
	IPProviders      []IPProvider
	WorkerPoolSize   int
}

func NewResolver(opts ResolverOpts) (*Resolver, error) {
	rv := &Resolver{
		logger:    opts.Logger,
		cache:     opts.Cache,
		geocoders: opts.GeocodeProviders,
		ipLookups: opts.IPProviders,
		stats:     map[string]*UsageStats{},
	}

	if rv.logger == nil {
		rv.logger = nopLogger{}
	}

	if rv.cache == nil {
		rv.cache = NopCache{}
	}

	for _, v := range opts.GeocodeProviders {
		rv.stats[v.Name()] = &UsageStats{Name: v.Name()}
	}

	for _, v := range opts.IPProviders {
		if _, ok := rv.stats[v.Name()]; !ok {
			rv.stats[v.Name()] = &UsageStats{Name: v.Name()}
		}
	}

	poolSize := opts.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = DefaultWorkerPoolSize
	}

	pool, err := ants.NewPoolWithFunc(poolSize, rv.resolveQuery,
		ants.WithExpiryDuration(workerPoolExpireTime))
	if err != nil {
		return nil, fmt.Errorf("cannot create a worker pool: %w", err)
	}

	rv.workerPool = pool

	return rv, nil
}

type nopLogger struct{}

func (n nopLogger) LookupError(_ string, _ error) {}
func (n nopLogger) ResolveError(_ error)          {}
func (n nopLogger) StoreError(_ error)            {}
