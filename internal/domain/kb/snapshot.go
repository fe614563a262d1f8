package kb

import (
	"time"

	"akinator/internal/domain/tree"
)

// Snapshot is one persisted version of the knowledge base.
type Snapshot struct {
	ID      string     `json:"id" bson:"_id"`
	Text    string     `json:"text" bson:"text"`
	Stats   tree.Stats `json:"stats" bson:"stats"`
	SavedAt time.Time  `json:"saved_at" bson:"saved_at"`
}

// SnapshotInfo is a Snapshot without its body, for listings.
type SnapshotInfo struct {
	ID      string     `json:"id" bson:"_id"`
	Stats   tree.Stats `json:"stats" bson:"stats"`
	SavedAt time.Time  `json:"saved_at" bson:"saved_at"`
}
