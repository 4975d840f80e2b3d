package dto

import "time"

type ActivityRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Category       string  `json:"category" validate:"required"`
	Position       string  `json:"position" validate:"max=200"`
	Description    string  `json:"description" validate:"max=2000"`
	OrganizationID string  `json:"organizationId"`
	StartDate      string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate        string  `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	HoursPerWeek   float64 `json:"hoursPerWeek" validate:"gte=0,lte=168"`
	WeeksPerYear   int     `json:"weeksPerYear" validate:"gte=0,lte=52"`
	VerifierName   string  `json:"verifierName" validate:"max=200"`
	VerifierEmail  string  `json:"verifierEmail" validate:"omitempty,email"`
}

// ActivityResponse never carries the verifier e-mail; HasVerifier reports whether one is on file.
type ActivityResponse struct {
	ActivityID     string    `json:"activityId"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Position       string    `json:"position,omitempty"`
	Description    string    `json:"description,omitempty"`
	OrganizationID string    `json:"organizationId,omitempty"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate,omitempty"`
	HoursPerWeek   float64   `json:"hoursPerWeek"`
	WeeksPerYear   int       `json:"weeksPerYear"`
	Status         string    `json:"status"`
	VerifierName   string    `json:"verifierName,omitempty"`
	HasVerifier    bool      `json:"hasVerifier"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
