package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ShivanshGhelani/BFP/bfplib"
)

const DefaultConnectTimeout = 10 * time.Second

// MongoVisitorStore keeps visitor records in a MongoDB collection,
// one document per visitor keyed by visitor_id.
type MongoVisitorStore struct {
	client     *mongo.Client
	database   string
	collection string
}

func (m *MongoVisitorStore) coll() *mongo.Collection {
	return m.client.Database(m.database).Collection(m.collection)
}

// UpsertVisit bumps the visit counter for a known visitor, replacing
// its profile snapshot in place. The first visit creates the document.
func (m *MongoVisitorStore) UpsertVisit(ctx context.Context, visitorID string, visit bfplib.VisitorRecord) (bfplib.VisitorRecord, error) {
	filter, update := buildVisitUpsert(visitorID, visit)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var record bfplib.VisitorRecord

	err := m.coll().FindOneAndUpdate(ctx, filter, update, opts).Decode(&record)
	if err != nil {
		return record, fmt.Errorf("error upserting visit: %w", err)
	}

	return record, nil
}

// InsertVisit stores a record for a visitor without a stable identity.
func (m *MongoVisitorStore) InsertVisit(ctx context.Context, visit bfplib.VisitorRecord) error {
	if visit.ID == "" {
		visit.ID = uuid.NewString()
	}

	if _, err := m.coll().InsertOne(ctx, visit); err != nil {
		return fmt.Errorf("error inserting visit: %w", err)
	}

	return nil
}

func (m *MongoVisitorStore) CountVisits(ctx context.Context) (int64, error) {
	count, err := m.coll().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("error counting visits: %w", err)
	}

	return count, nil
}

func (m *MongoVisitorStore) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}

	return nil
}

func (m *MongoVisitorStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// buildVisitUpsert assembles the filter and update documents for a
// visit upsert. created_at is written only when the document is first
// inserted, last_seen_at on every visit.
func buildVisitUpsert(visitorID string, visit bfplib.VisitorRecord) (bson.M, bson.M) {
	filter := bson.M{"visitor_id": visitorID}
	update := bson.M{
		"$set": bson.M{
			"client_ip":    visit.ClientIP,
			"profile":      visit.Profile,
			"browser":      visit.Browser,
			"last_seen_at": visit.LastSeenAt,
		},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"visitor_id": visitorID,
			"created_at": visit.CreatedAt,
		},
		"$inc": bson.M{"visit_count": 1},
	}

	return filter, update
}

func NewMongoVisitorStore(client *mongo.Client, database, collection string) *MongoVisitorStore {
	return &MongoVisitorStore{
		client:     client,
		database:   database,
		collection: collection,
	}
}

// Connect dials MongoDB and verifies the connection before returning
// a client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("cannot ping mongodb: %w", err)
	}

	return client, nil
}
