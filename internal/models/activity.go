package models

import "time"

const (
	ActivityDraft    = "draft"
	ActivityPending  = "pending"
	ActivityVerified = "verified"
	ActivityRejected = "rejected"
)

// ActivityCategories lists the accepted activity categories.
var ActivityCategories = []string{"club", "sport", "arts", "academic", "volunteering", "work", "research", "other"}

// Activity is an extracurricular entry on a student's record.
type Activity struct {
	ActivityID          string    `firestore:"activityId" json:"activityId"`
	Name                string    `firestore:"name" json:"name"`
	Category            string    `firestore:"category" json:"category"`
	Position            string    `firestore:"position,omitempty" json:"position,omitempty"`
	Description         string    `firestore:"description,omitempty" json:"description,omitempty"`
	OrganizationID      string    `firestore:"organizationId,omitempty" json:"organizationId,omitempty"`
	StartDate           string    `firestore:"startDate" json:"startDate"`                 // YYYY-MM-DD
	EndDate             string    `firestore:"endDate,omitempty" json:"endDate,omitempty"` // YYYY-MM-DD, empty while ongoing
	HoursPerWeek        float64   `firestore:"hoursPerWeek" json:"hoursPerWeek"`
	WeeksPerYear        int       `firestore:"weeksPerYear" json:"weeksPerYear"`
	Status              string    `firestore:"status" json:"status"`
	VerifierName        string    `firestore:"verifierName,omitempty" json:"verifierName,omitempty"`
	VerifierEmailCipher string    `firestore:"verifierEmailCipher,omitempty" json:"-"` // KMS ciphertext, base64
	CreatedAt           time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time `firestore:"updatedAt" json:"updatedAt"`
}
