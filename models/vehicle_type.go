package models

import (
	"github.com/dwoolworth/tagger"
)

// VehicleType is a reference lookup for vehicle body types.
type VehicleType struct {
	tagger.Model `bson:",inline"`
	Name         string `bson:"name"        json:"name"`
	Description  string `bson:"description" json:"description"`
	IsActive     bool   `bson:"isActive"    json:"isActive" tagger:"default=true"`
}
