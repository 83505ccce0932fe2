package api

import (
	"github.com/dwoolworth/tagger"
	"github.com/dwoolworth/tagger/internal"
	"github.com/dwoolworth/tagger/models"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Mount registers a resource for every entity type under /api.
// The entity types must already be registered with tagger.
func Mount(app *fiber.App, db *mongo.Database) error {
	router := app.Group("/api")

	mounts := []func(fiber.Router, *mongo.Database) error{
		mount[models.User],
		mount[models.Driver],
		mount[models.Vehicle],
		mount[models.Service],
		mount[models.VehicleColor],
		mount[models.VehicleType],
	}
	for _, m := range mounts {
		if err := m(router, db); err != nil {
			return err
		}
	}
	return nil
}

func mount[T any](router fiber.Router, db *mongo.Database) error {
	repo, err := tagger.NewRepository[T](db)
	if err != nil {
		return err
	}
	NewResource[T](internal.ResourceName(repo.Schema().ModelName), repo).Mount(router)
	return nil
}
