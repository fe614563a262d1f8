package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"akinator/internal/domain/kb"
	appErrors "akinator/internal/errors"
)

const snapshotsCollection = "snapshots"

// MongoKnowledgeStore appends every save as a new snapshot document and
// loads the newest one.
type MongoKnowledgeStore struct {
	mongo *mongo.Database
	log   *zap.SugaredLogger
}

func NewMongoKnowledgeStore(db *mongo.Database, log *zap.SugaredLogger) *MongoKnowledgeStore {
	return &MongoKnowledgeStore{mongo: db, log: log}
}

func (m *MongoKnowledgeStore) Describe() string {
	return "mongodb " + m.mongo.Name() + "." + snapshotsCollection
}

func (m *MongoKnowledgeStore) Load(ctx context.Context) (kb.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "saved_at", Value: -1}})

	var snapshot kb.Snapshot
	err := m.mongo.Collection(snapshotsCollection).FindOne(ctx, bson.M{}, opts).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return kb.Snapshot{}, appErrors.ErrBaseNotFound
	}
	if err != nil {
		return kb.Snapshot{}, fmt.Errorf("find latest snapshot: %w", err)
	}
	return snapshot, nil
}

func (m *MongoKnowledgeStore) Save(ctx context.Context, snapshot kb.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := m.mongo.Collection(snapshotsCollection).InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	m.log.Infow("knowledge base written", "snapshot", snapshot.ID, "nodes", snapshot.Stats.Nodes)
	return nil
}

// History lists snapshots newest first, without their text.
func (m *MongoKnowledgeStore) History(ctx context.Context, limit int64) ([]kb.SnapshotInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "saved_at", Value: -1}}).
		SetProjection(bson.M{"text": 0}).
		SetLimit(limit)

	cursor, err := m.mongo.Collection(snapshotsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]kb.SnapshotInfo, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}
