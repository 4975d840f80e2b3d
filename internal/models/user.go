package models

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	UID            string    `firestore:"uid" json:"uid"`
	Email          string    `firestore:"email" json:"email"`
	FirstName      string    `firestore:"firstName" json:"firstName"`
	LastName       string    `firestore:"lastName" json:"lastName"`
	Role           string    `firestore:"role" json:"role"`
	School         string    `firestore:"school,omitempty" json:"school,omitempty"`
	GraduationYear int       `firestore:"graduationYear,omitempty" json:"graduationYear,omitempty"`
	ExternalHours  float64   `firestore:"externalHours" json:"externalHours"` // credited by an admin outside the participation log
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `firestore:"updatedAt" json:"updatedAt"`
}
