package models

import (
	"github.com/dwoolworth/tagger"
	"github.com/dwoolworth/tagger/config"
)

// Register registers every entity type against its configured collection.
func Register(cols config.Collections) error {
	entries := []struct {
		model      interface{}
		collection string
	}{
		{&User{}, cols.Users},
		{&Driver{}, cols.Drivers},
		{&Vehicle{}, cols.Vehicles},
		{&Service{}, cols.Services},
		{&VehicleColor{}, cols.VehicleColors},
		{&VehicleType{}, cols.VehicleTypes},
	}
	for _, e := range entries {
		if err := tagger.Register(e.model, e.collection); err != nil {
			return err
		}
	}
	return nil
}
