package models

import (
	"github.com/dwoolworth/tagger"
)

// Vehicle is a registered vehicle. ColorID and TypeID hold the identifiers of
// a VehicleColor and a VehicleType; they are never checked for existence.
// ModelName is the manufacturer model (the "model" field on the wire).
type Vehicle struct {
	tagger.Model `bson:",inline"`
	PlateNumber  string `bson:"plateNumber" json:"plateNumber" tagger:"index"`
	Brand        string `bson:"brand"       json:"brand"`
	ModelName    string `bson:"model"       json:"model"`
	Year         int    `bson:"year"        json:"year"`
	ColorID      string `bson:"colorId"     json:"colorId" tagger:"ref=VehicleColor,index"`
	TypeID       string `bson:"typeId"      json:"typeId"  tagger:"ref=VehicleType,index"`
	IsActive     bool   `bson:"isActive"    json:"isActive" tagger:"default=true"`

	// Navigation properties, filled by Populate and never stored.
	Color *VehicleColor `bson:"-" json:"color,omitempty"`
	Type  *VehicleType  `bson:"-" json:"type,omitempty"`
}

// Refs implements tagger.Populatable.
func (v *Vehicle) Refs() tagger.Refs {
	return tagger.Refs{
		"colorId": &v.Color,
		"typeId":  &v.Type,
	}
}
