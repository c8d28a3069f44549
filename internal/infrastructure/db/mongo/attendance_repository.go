package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studorg/counter-system/internal/core/domain"
)

// AttendanceRepository stores permanency records. Writes are append-only.
type AttendanceRepository struct {
	db *mongo.Database
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Append(ctx context.Context, p *domain.Permanency) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.Collection(collectionPermanencies).InsertOne(ctx, p)
	return err
}

func (r *AttendanceRepository) ListByCounter(ctx context.Context, counterID string, limit int) ([]*domain.Permanency, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.db.Collection(collectionPermanencies).Find(ctx,
		bson.M{"counter_id": counterID},
		options.Find().SetSort(bson.D{{Key: "end", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domain.Permanency
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.db.Collection(collectionPermanencies).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "counter_id", Value: 1}, {Key: "end", Value: -1}},
	})
	return err
}
