package models

import (
	"time"
)

const (
	SourceManual      = "manual"
	SourceOpportunity = "opportunity"
)

type Participation struct {
	ParticipationID string    `firestore:"participationId" json:"participationId"`
	ActivityID      string    `firestore:"activityId,omitempty" json:"activityId,omitempty"`
	Title           string    `firestore:"title" json:"title"`
	StartDate       string    `firestore:"startDate" json:"startDate"`                 // YYYY-MM-DD
	EndDate         string    `firestore:"endDate,omitempty" json:"endDate,omitempty"` // YYYY-MM-DD, empty for single-day or open
	TotalHours      float64   `firestore:"totalHours" json:"totalHours"`
	Source          string    `firestore:"source" json:"source"`
	Verified        bool      `firestore:"verified" json:"verified"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt" json:"updatedAt"`
}
