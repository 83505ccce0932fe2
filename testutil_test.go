package tagger

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// --- test models ---

type testColor struct {
	Model    `bson:",inline"`
	Name     string `bson:"name"     json:"name"`
	IsActive bool   `bson:"isActive" json:"isActive" tagger:"default=true"`
}

type testCar struct {
	Model   `bson:",inline"`
	Plate   string   `bson:"plate"   json:"plate"   tagger:"index"`
	Year    int      `bson:"year"    json:"year"    tagger:"default=2020"`
	Score   float64  `bson:"score"   json:"score"`
	Tags    []string `bson:"tags"    json:"tags"`
	ColorID string   `bson:"colorId" json:"colorId" tagger:"ref=testColor"`
	Active  bool     `bson:"active"  json:"active"  tagger:"default=true"`

	Color *testColor `bson:"-" json:"color,omitempty"`
}

func (c *testCar) Refs() Refs {
	return Refs{"colorId": &c.Color}
}

var fixedTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// --- test DB setup ---

func setupTestDB(t *testing.T) (context.Context, *mongo.Database, func()) {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx := context.Background()
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	dbName := fmt.Sprintf("tagger_test_%d", time.Now().UnixNano())
	db := client.Database(dbName)

	// Verify we can actually perform operations (auth check)
	testColl := db.Collection("_tagger_auth_check")
	if _, err := testColl.InsertOne(ctx, bson.D{{Key: "test", Value: true}}); err != nil {
		_ = db.Drop(ctx)
		t.Skipf("MongoDB not writable (auth required?): %v", err)
	}
	_ = testColl.Drop(ctx)

	registerTestModels()

	cleanup := func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
		unregisterTestModels()
		ClearMiddleware()
	}

	return ctx, db, cleanup
}

func registerTestModels() {
	unregisterTestModels()
	_ = Register(&testColor{}, "test_colors")
	_ = Register(&testCar{}, "test_cars")
}

func unregisterTestModels() {
	registryMu.Lock()
	delete(registry, "testColor")
	delete(registry, "testCar")
	registryMu.Unlock()
}
