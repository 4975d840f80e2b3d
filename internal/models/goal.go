package models

import "time"

type Goal struct {
	TargetHours float64   `firestore:"targetHours" json:"targetHours"`
	TargetDate  string    `firestore:"targetDate,omitempty" json:"targetDate,omitempty"` // YYYY-MM-DD
	Description string    `firestore:"description,omitempty" json:"description,omitempty"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}
