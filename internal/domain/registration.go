// Package domain contains the core data types for the Flaming Cliffs
// visitor-registration application. This package has no dependencies on the
// other internal packages and is imported by every layer (repo, service,
// handler, stats).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a registration.
// Registrations are never hard-deleted: cancelling flips the status and the
// record stops contributing to every statistic.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Currencies accepted on a registration. MNT is the default.
var Currencies = []string{"MNT", "USD", "EUR", "CNY"}

// CountryGroup is one (country, count) entry of a registration's group
// composition. Order is preserved as submitted.
type CountryGroup struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// Registration represents one vehicle/tour-group entry recorded at the front
// desk. TouristCount is always the sum of TouristsByCountry counts, and
// Countries the distinct country names in submission order.
type Registration struct {
	ID                 uuid.UUID      `json:"id"`
	TourOperator       string         `json:"tourOperator"`
	RegistrationDate   time.Time      `json:"registrationDate"`
	TouristCount       int            `json:"touristCount"`
	TouristsByCountry  []CountryGroup `json:"touristsByCountry"`
	Countries          []string       `json:"countries"`
	GuideCount         int            `json:"guideCount"`
	DriverCount        int            `json:"driverCount"`
	TotalAmount        float64        `json:"totalAmount"`
	Currency           string         `json:"currency"`
	VehicleNumber      string         `json:"vehicleNumber,omitempty"`
	VehicleType        string         `json:"vehicleType,omitempty"`
	GuideName          string         `json:"guideName,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	Status             Status         `json:"status"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}
