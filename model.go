package tagger

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Model is the base struct that all tagger entities embed.
// The ID is assigned by Repository.Create and is absent from JSON until then.
type Model struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitzero"`
	CreatedAt time.Time     `bson:"createdAt"     json:"createdAt"`
}
