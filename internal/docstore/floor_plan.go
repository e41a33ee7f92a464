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

type floorPlanDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	CanvasWidth  float64   `bson:"canvasWidth"`
	CanvasHeight float64   `bson:"canvasHeight"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func toFloorPlanDoc(fp *domain.FloorPlan) floorPlanDoc {
	return floorPlanDoc{
		ID:           fp.ID,
		Name:         fp.Name,
		CanvasWidth:  fp.CanvasWidth,
		CanvasHeight: fp.CanvasHeight,
		CreatedAt:    fp.CreatedAt,
		UpdatedAt:    fp.UpdatedAt,
	}
}

func (d floorPlanDoc) toDomain() domain.FloorPlan {
	return domain.FloorPlan{
		ID:           d.ID,
		Name:         d.Name,
		CanvasWidth:  d.CanvasWidth,
		CanvasHeight: d.CanvasHeight,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// FloorPlanStore implements domain.FloorPlanStore on a Mongo collection.
type FloorPlanStore struct {
	coll *mongo.Collection
}

func (s *FloorPlanStore) CreateFloorPlan(ctx context.Context, fp *domain.FloorPlan) error {
	fp.CreatedAt = now()
	fp.UpdatedAt = fp.CreatedAt
	_, err := s.coll.InsertOne(ctx, toFloorPlanDoc(fp))
	return err
}

func (s *FloorPlanStore) GetFloorPlan(ctx context.Context, id string) (*domain.FloorPlan, error) {
	var doc floorPlanDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, notFound(err, "floor plan", id)
	}
	fp := doc.toDomain()
	return &fp, nil
}

func (s *FloorPlanStore) ListFloorPlans(ctx context.Context) ([]domain.FloorPlan, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list floor plans: %w", err)
	}
	var docs []floorPlanDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode floor plans: %w", err)
	}
	plans := make([]domain.FloorPlan, len(docs))
	for i, d := range docs {
		plans[i] = d.toDomain()
	}
	return plans, nil
}

func (s *FloorPlanStore) UpdateFloorPlan(ctx context.Context, fp *domain.FloorPlan) error {
	fp.UpdatedAt = now()
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": fp.ID}, bson.M{"$set": bson.M{
		"name":         fp.Name,
		"canvasWidth":  fp.CanvasWidth,
		"canvasHeight": fp.CanvasHeight,
		"updatedAt":    fp.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("floor plan %s: %w", fp.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *FloorPlanStore) DeleteFloorPlan(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("floor plan %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
