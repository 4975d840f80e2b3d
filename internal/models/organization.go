package models

import "time"

const (
	OrganizationPending  = "pending"
	OrganizationApproved = "approved"
	OrganizationRejected = "rejected"
)

type Organization struct {
	OrgID        string    `firestore:"orgId" json:"orgId"`
	Name         string    `firestore:"name" json:"name"`
	Description  string    `firestore:"description,omitempty" json:"description,omitempty"`
	Category     string    `firestore:"category,omitempty" json:"category,omitempty"`
	Website      string    `firestore:"website,omitempty" json:"website,omitempty"`
	ContactEmail string    `firestore:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	Status       string    `firestore:"status" json:"status"`
	SubmittedBy  string    `firestore:"submittedBy" json:"submittedBy"`
	ReviewedBy   string    `firestore:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewNote   string    `firestore:"reviewNote,omitempty" json:"reviewNote,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}
