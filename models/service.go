package models

import (
	"github.com/dwoolworth/tagger"
)

// Service is an offering that can be sold, priced per unit and lasting
// Duration minutes.
type Service struct {
	tagger.Model `bson:",inline"`
	Name         string  `bson:"name"        json:"name"`
	Description  string  `bson:"description" json:"description"`
	Price        float64 `bson:"price"       json:"price"`
	Duration     int     `bson:"duration"    json:"duration"`
	Category     string  `bson:"category"    json:"category"`
	IsActive     bool    `bson:"isActive"    json:"isActive" tagger:"default=true"`
}
