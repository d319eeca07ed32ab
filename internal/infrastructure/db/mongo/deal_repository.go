package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/propertydesk/crm-api/internal/core/domain"
)

const dealCollection = "deals"

type DealRepository struct {
	coll *mongo.Collection
}

func NewDealRepository(db *mongo.Database) *DealRepository {
	return &DealRepository{coll: db.Collection(dealCollection)}
}

// Create inserts a new deal document.
func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, deal)
	if err != nil {
		return nil, fmt.Errorf("insert deal: %w", err)
	}

	created := *deal
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// FindByID retrieves a deal by its hex object ID.
func (r *DealRepository) FindByID(ctx context.Context, id string) (*domain.Deal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDealNotFound
	}

	var deal domain.Deal
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&deal); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDealNotFound
		}
		return nil, fmt.Errorf("find deal: %w", err)
	}
	return &deal, nil
}

// UpdateStage atomically sets the stage and appends the history entry.
func (r *DealRepository) UpdateStage(ctx context.Context, id string, stage domain.DealStage, entry domain.StageHistoryEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDealNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$set":  bson.M{"stage": stage},
			"$push": bson.M{"stage_history": entry},
		},
	)
	if err != nil {
		return fmt.Errorf("update deal stage: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDealNotFound
	}
	return nil
}

// List returns one page of deals sorted newest first, plus the total.
func (r *DealRepository) List(ctx context.Context, page, limit int) ([]domain.Deal, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count deals: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list deals: %w", err)
	}
	defer cur.Close(ctx)

	var deals []domain.Deal
	if err := cur.All(ctx, &deals); err != nil {
		return nil, 0, fmt.Errorf("decode deals: %w", err)
	}
	return deals, total, nil
}

// CountByStage aggregates deal counts per pipeline stage.
func (r *DealRepository) CountByStage(ctx context.Context) (map[domain.DealStage]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$stage", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate deals by stage: %w", err)
	}
	defer cur.Close(ctx)

	counts := make(map[domain.DealStage]int64)
	for cur.Next(ctx) {
		var row struct {
			Stage string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode stage count: %w", err)
		}
		counts[domain.DealStage(row.Stage)] = row.Count
	}
	return counts, cur.Err()
}

// EnsureIndexes creates lookup and sort indexes for deals.
func (r *DealRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		{Keys: bson.D{{Key: "property_id", Value: 1}}},
		{Keys: bson.D{{Key: "stage", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
