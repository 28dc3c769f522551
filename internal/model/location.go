package model

import "time"

// UserLocation is the most recently detected location. It is overwritten
// wholesale on each detection, never merged.
type UserLocation struct {
	Country     string    `json:"country"`
	CountryCode string    `json:"country_code"`
	City        string    `json:"city,omitempty"`
	Latitude    float64   `json:"latitude,omitempty"`
	Longitude   float64   `json:"longitude,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
}
