package models

import (
	"time"

	"github.com/dwoolworth/tagger"
)

// Driver is a licensed driver.
type Driver struct {
	tagger.Model      `bson:",inline"`
	Name              string    `bson:"name"              json:"name"`
	Email             string    `bson:"email"             json:"email"`
	Phone             string    `bson:"phone"             json:"phone"`
	LicenseNumber     string    `bson:"licenseNumber"     json:"licenseNumber" tagger:"index"`
	LicenseClass      string    `bson:"licenseClass"      json:"licenseClass"`
	LicenseExpiryDate time.Time `bson:"licenseExpiryDate" json:"licenseExpiryDate"`
}
