package models

import "time"

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

type Verification struct {
	VerificationID string     `firestore:"verificationId" json:"verificationId"`
	UID            string     `firestore:"uid" json:"uid"`
	ActivityID     string     `firestore:"activityId" json:"activityId"`
	ActivityName   string     `firestore:"activityName" json:"activityName"`
	Status         string     `firestore:"status" json:"status"`
	Note           string     `firestore:"note,omitempty" json:"note,omitempty"`
	RequestedAt    time.Time  `firestore:"requestedAt" json:"requestedAt"`
	ResolvedAt     *time.Time `firestore:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}
