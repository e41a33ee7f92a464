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

type snapshotDoc struct {
	ID          string     `bson:"_id"`
	FloorPlanID string     `bson:"floorPlanId"`
	Seq         int64      `bson:"seq"`
	Label       string     `bson:"label"`
	Tables      []tableDoc `bson:"tables"`
	CreatedAt   time.Time  `bson:"createdAt"`
}

func (d snapshotDoc) toDomain() domain.LayoutSnapshot {
	snap := domain.LayoutSnapshot{
		ID:          d.ID,
		FloorPlanID: d.FloorPlanID,
		Label:       d.Label,
		CreatedAt:   d.CreatedAt,
		Tables:      make([]domain.Table, 0, len(d.Tables)),
	}
	for _, t := range d.Tables {
		snap.Tables = append(snap.Tables, t.toDomain())
	}
	return snap
}

// HistoryStore implements domain.LayoutHistory on a Mongo collection.
type HistoryStore struct {
	coll *mongo.Collection
}

var newestFirst = bson.D{{Key: "seq", Value: -1}}

func (s *HistoryStore) PushSnapshot(ctx context.Context, snap *domain.LayoutSnapshot) error {
	var top snapshotDoc
	err := s.coll.FindOne(ctx, bson.M{"floorPlanId": snap.FloorPlanID},
		options.FindOne().SetSort(newestFirst).SetProjection(bson.M{"seq": 1}),
	).Decode(&top)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("find top snapshot: %w", err)
	}

	snap.CreatedAt = now()
	doc := snapshotDoc{
		ID:          snap.ID,
		FloorPlanID: snap.FloorPlanID,
		Seq:         top.Seq + 1,
		Label:       snap.Label,
		CreatedAt:   snap.CreatedAt,
	}
	for i := range snap.Tables {
		doc.Tables = append(doc.Tables, toTableDoc(&snap.Tables[i]))
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if cut := doc.Seq - domain.MaxSnapshots; cut > 0 {
		if _, err := s.coll.DeleteMany(ctx, bson.M{
			"floorPlanId": snap.FloorPlanID,
			"seq":         bson.M{"$lte": cut},
		}); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
	}
	return nil
}

func (s *HistoryStore) PopSnapshot(ctx context.Context, floorPlanID string) (*domain.LayoutSnapshot, error) {
	var doc snapshotDoc
	err := s.coll.FindOneAndDelete(ctx, bson.M{"floorPlanId": floorPlanID},
		options.FindOneAndDelete().SetSort(newestFirst),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("no layout history for %s: %w", floorPlanID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("pop snapshot: %w", err)
	}
	snap := doc.toDomain()
	return &snap, nil
}

func (s *HistoryStore) ListSnapshots(ctx context.Context, floorPlanID string) ([]domain.LayoutSnapshot, error) {
	cur, err := s.coll.Find(ctx, bson.M{"floorPlanId": floorPlanID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var docs []snapshotDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode snapshots: %w", err)
	}
	snaps := make([]domain.LayoutSnapshot, 0, len(docs))
	for _, d := range docs {
		snaps = append(snaps, d.toDomain())
	}
	return snaps, nil
}

func (s *HistoryStore) ClearHistory(ctx context.Context, floorPlanID string) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"floorPlanId": floorPlanID})
	return err
}
