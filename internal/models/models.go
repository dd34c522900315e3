package models

import (
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	FullNames    string    `json:"full_names"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ResetToken is a single-use password reset token, valid for one hour from
// creation and deleted on use.
type ResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Prediction is a persisted flood-risk assessment. Immutable after insert.
type Prediction struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	PredictionDate time.Time `json:"prediction_date"`
	Season         string    `json:"season"`
	LocationType   string    `json:"location_type"`

	RainfallMM   float64 `json:"rainfall_mm"`
	WaterLevelM  float64 `json:"water_level_m"`
	SoilMoisture float64 `json:"soil_moisture"`
	TempC        float64 `json:"temp_c"`
	Humidity     float64 `json:"humidity"`
	WindSpeed    float64 `json:"wind_speed"`
	Pressure     float64 `json:"pressure"`

	HasRiver        bool `json:"has_river"`
	HasLake         bool `json:"has_lake"`
	HasPoorDrainage bool `json:"has_poor_drainage"`
	IsUrban         bool `json:"is_urban"`
	IsDeforested    bool `json:"is_deforested"`

	Result      string    `json:"prediction_result"`
	Probability float64   `json:"prediction_probability"`
	Location    string    `json:"prediction_location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Recipient is a person registered to receive flood alerts for a sector.
// Phone and email are best-effort contact points; either may be empty.
type Recipient struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Location     string    `json:"location"`
	Type         string    `json:"recipient_type"`
	RegisteredBy int64     `json:"registered_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// FloodStatus is the public view row over recent predictions.
type FloodStatus struct {
	Location  string    `json:"location"`
	RiskLevel string    `json:"risk_level"`
	Timestamp time.Time `json:"timestamp"`
}
