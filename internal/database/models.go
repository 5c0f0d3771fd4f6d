package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Assessment is the stored outcome of one prediction
type Assessment struct {
	ID                  string          `json:"id" db:"id"`
	Prediction          string          `json:"prediction" db:"prediction"`
	AddictionPercentage int             `json:"addictionPercentage" db:"addiction_percentage"`
	Confidence          float64         `json:"confidence" db:"confidence"`
	Accuracy            float64         `json:"accuracy" db:"accuracy"`
	Lenient             bool            `json:"lenient" db:"lenient"`
	Results             json.RawMessage `json:"results" db:"results"`
	ClientIPHash        string          `json:"-" db:"client_ip_hash"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
}

// AssessmentStats aggregates stored assessments
type AssessmentStats struct {
	Total             int            `json:"total"`
	ByPrediction      map[string]int `json:"byPrediction"`
	AveragePercentage float64        `json:"averagePercentage"`
	First             *time.Time     `json:"first,omitempty"`
	Last              *time.Time     `json:"last,omitempty"`
}

// NewAssessment creates an assessment with a generated ID
func NewAssessment(prediction string, percentage int, confidence, accuracy float64, lenient bool, results json.RawMessage, clientIPHash string) *Assessment {
	return &Assessment{
		ID:                  uuid.New().String(),
		Prediction:          prediction,
		AddictionPercentage: percentage,
		Confidence:          confidence,
		Accuracy:            accuracy,
		Lenient:             lenient,
		Results:             results,
		ClientIPHash:        clientIPHash,
		CreatedAt:           time.Now().UTC(),
	}
}

// ValidID reports whether id has the shape of a generated assessment ID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
