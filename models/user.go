package models

import (
	"github.com/dwoolworth/tagger"
)

// User is a person registered with the system.
type User struct {
	tagger.Model `bson:",inline"`
	Name         string `bson:"name"     json:"name"`
	Email        string `bson:"email"    json:"email"    tagger:"index"`
	Phone        string `bson:"phone"    json:"phone"`
	IsActive     bool   `bson:"isActive" json:"isActive" tagger:"default=true"`
}
