package dto

type LogParticipationRequest struct {
	ActivityID string  `json:"activityId"`
	Title      string  `json:"title" validate:"required,max=200"`
	StartDate  string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string  `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	TotalHours float64 `json:"totalHours" validate:"gt=0,lte=10000"`
	Source     string  `json:"source" validate:"omitempty,oneof=manual opportunity"`
}

type HoursSummary struct {
	ParticipationHours float64 `json:"participationHours"`
	VerifiedHours      float64 `json:"verifiedHours"`
	ExternalHours      float64 `json:"externalHours"`
	CurrentTotalHours  float64 `json:"currentTotalHours"`
	Count              int     `json:"count"`
}
