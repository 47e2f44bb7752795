package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldbook/pkg/config"
	"fieldbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Meetings"

// ErrNotFound is returned when no meeting matches the natural key.
var ErrNotFound = errors.New("meeting not found")

// MeetingRepository persists meeting keys. The (team_id, date, type)
// tuple carries a unique index, so Insert is the compare half of the
// resolver's compare-and-swap.
type MeetingRepository interface {
	Insert(ctx context.Context, meeting *model.Meeting) error
	FindByKey(ctx context.Context, teamID, date string, mtype model.MeetingType) (*model.Meeting, error)
}

type mongoMeetingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoMeetingRepository(cfg *config.Config) MeetingRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoMeetingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoMeetingRepository) Insert(ctx context.Context, meeting *model.Meeting) error {
	meeting.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, meeting)
	if err != nil {
		// Duplicate key errors pass through untouched so the resolver
		// can re-read the winning row.
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		meeting.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMeetingRepository) FindByKey(ctx context.Context, teamID, date string, mtype model.MeetingType) (*model.Meeting, error) {
	filter := bson.M{
		"team_id": teamID,
		"date":    date,
		"type":    mtype,
	}

	var meeting model.Meeting
	err := r.collection.FindOne(ctx, filter).Decode(&meeting)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}

	return &meeting, nil
}
