package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"floorplan/internal/domain"
)

type tableDoc struct {
	ID          string    `bson:"_id"`
	FloorPlanID string    `bson:"floorPlanId"`
	Number      int       `bson:"number"`
	Capacity    int       `bson:"capacity"`
	Shape       string    `bson:"shape"`
	X           float64   `bson:"x"`
	Y           float64   `bson:"y"`
	Width       float64   `bson:"width"`
	Height      float64   `bson:"height"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toTableDoc(t *domain.Table) tableDoc {
	return tableDoc{
		ID:          t.ID,
		FloorPlanID: t.FloorPlanID,
		Number:      t.Number,
		Capacity:    t.Capacity,
		Shape:       string(t.Shape),
		X:           t.X,
		Y:           t.Y,
		Width:       t.Width,
		Height:      t.Height,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d tableDoc) toDomain() domain.Table {
	return domain.Table{
		ID:          d.ID,
		FloorPlanID: d.FloorPlanID,
		Number:      d.Number,
		Capacity:    d.Capacity,
		Shape:       domain.Shape(d.Shape),
		X:           d.X,
		Y:           d.Y,
		Width:       d.Width,
		Height:      d.Height,
		Status:      domain.TableStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// TableStore implements domain.TableStore on a Mongo collection.
type TableStore struct {
	coll *mongo.Collection
}

func (s *TableStore) CreateTable(ctx context.Context, t *domain.Table) error {
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt
	_, err := s.coll.InsertOne(ctx, toTableDoc(t))
	return err
}

func (s *TableStore) GetTable(ctx context.Context, id string) (*domain.Table, error) {
	var doc tableDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, notFound(err, "table", id)
	}
	t := doc.toDomain()
	return &t, nil
}

func (s *TableStore) ListTables(ctx context.Context, floorPlanID string) ([]domain.Table, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}, {Key: "createdAt", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{"floorPlanId": floorPlanID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	var docs []tableDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	tables := make([]domain.Table, len(docs))
	for i, d := range docs {
		tables[i] = d.toDomain()
	}
	return tables, nil
}

func (s *TableStore) UpdateTable(ctx context.Context, t *domain.Table) error {
	t.UpdatedAt = now()
	doc := toTableDoc(t)
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": t.ID}, bson.M{"$set": bson.M{
		"number":    doc.Number,
		"capacity":  doc.Capacity,
		"shape":     doc.Shape,
		"x":         doc.X,
		"y":         doc.Y,
		"width":     doc.Width,
		"height":    doc.Height,
		"status":    doc.Status,
		"updatedAt": doc.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("table %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *TableStore) DeleteTable(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("table %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *TableStore) DeleteTablesByFloorPlan(ctx context.Context, floorPlanID string) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"floorPlanId": floorPlanID})
	return err
}

// ReplaceFloorPlanTables deletes and re-inserts a floor plan's tables.
// Standalone servers have no multi-document transactions, so a failure
// between the two steps leaves the plan empty.
func (s *TableStore) ReplaceFloorPlanTables(ctx context.Context, floorPlanID string, tables []domain.Table) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"floorPlanId": floorPlanID}); err != nil {
		return fmt.Errorf("delete tables: %w", err)
	}
	if len(tables) == 0 {
		return nil
	}

	ts := now()
	docs := make([]any, len(tables))
	for i := range tables {
		t := &tables[i]
		t.FloorPlanID = floorPlanID
		if t.CreatedAt.IsZero() {
			t.CreatedAt = ts
		}
		t.UpdatedAt = ts
		docs[i] = toTableDoc(t)
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert tables: %w", err)
	}
	return nil
}

func (s *TableStore) ResetStatuses(ctx context.Context, status domain.TableStatus) (int64, error) {
	res, err := s.coll.UpdateMany(ctx,
		bson.M{"status": bson.M{"$ne": string(status)}},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("reset statuses: %w", err)
	}
	return res.ModifiedCount, nil
}
