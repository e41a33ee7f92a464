// Package docstore stores floor plans in MongoDB. It implements the same
// store interfaces as the SQL backend so services don't care which one is
// configured.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"floorplan/internal/domain"
)

const (
	floorPlansCollection = "floor_plans"
	tablesCollection     = "tables"
	historyCollection    = "layout_history"
)

// Store holds the Mongo client and the database both stores write to.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client for uri and ensures indexes exist.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(tablesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "floorPlanId", Value: 1}, {Key: "number", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create tables index: %w", err)
	}
	_, err = s.db.Collection(historyCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "floorPlanId", Value: 1}, {Key: "seq", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create history index: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) FloorPlans() *FloorPlanStore {
	return &FloorPlanStore{coll: s.db.Collection(floorPlansCollection)}
}

func (s *Store) Tables() *TableStore {
	return &TableStore{coll: s.db.Collection(tablesCollection)}
}

func (s *Store) History() *HistoryStore {
	return &HistoryStore{coll: s.db.Collection(historyCollection)}
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", kind, err)
}

// now is truncated to the millisecond precision Mongo stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
