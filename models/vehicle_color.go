package models

import (
	"github.com/dwoolworth/tagger"
)

// VehicleColor is a reference lookup for vehicle colors.
type VehicleColor struct {
	tagger.Model `bson:",inline"`
	Name         string `bson:"name"     json:"name"`
	HexCode      string `bson:"hexCode"  json:"hexCode"`
	IsActive     bool   `bson:"isActive" json:"isActive" tagger:"default=true"`
}
