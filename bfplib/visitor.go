package bfplib

import (
	"context"
	"fmt"
	"time"
)

// Aggregator folds raw visitor submissions into the visitor store. It
// derives the browser label, optionally resolves embedded GPS
// coordinates and performs the atomic upsert-with-increment.
type Aggregator struct {
	store    VisitorStore
	resolver *Resolver
	logger   Logger
}

// RecordVisit records one visit. Location resolution is best effort and
// never aborts the write; a store failure does abort it, silently
// losing a visitor write is not acceptable.
func (a *Aggregator) RecordVisit(ctx context.Context, clientIP string, profile VisitorProfile) error {
	browser := DetectBrowser(profile.UserAgent())

	a.attachAddress(ctx, profile.GPS())

	now := time.Now().UTC()
	record := VisitorRecord{
		VisitorID:  profile.VisitorID,
		ClientIP:   clientIP,
		Profile:    profile,
		Browser:    browser,
		CreatedAt:  now,
		LastSeenAt: now,
	}

	if profile.VisitorID != "" {
		// Atomic find-and-modify: visit_count is incremented by one
		// regardless of the client-supplied hint.
		if _, err := a.store.UpsertVisit(ctx, profile.VisitorID, record); err != nil {
			return fmt.Errorf("cannot upsert a visit: %w", err)
		}

		return nil
	}

	record.VisitCount = profile.VisitCount
	if record.VisitCount < 1 {
		record.VisitCount = 1
	}

	if err := a.store.InsertVisit(ctx, record); err != nil {
		return fmt.Errorf("cannot insert a visit: %w", err)
	}

	return nil
}

func (a *Aggregator) attachAddress(ctx context.Context, gps *GPSReading) {
	if a.resolver == nil {
		return
	}

	coords, ok := gps.Coordinates()
	if !ok {
		return
	}

	resolved, err := a.resolver.ResolveCoordinates(ctx, coords)
	if err != nil {
		a.logger.ResolveError(err)

		return
	}

	if !resolved.Combined.Empty() {
		gps.Address = &resolved.Combined
	}
}

func NewAggregator(store VisitorStore, resolver *Resolver, logger Logger) *Aggregator {
	if logger == nil {
		logger = nopLogger{}
	}

	return &Aggregator{
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}
