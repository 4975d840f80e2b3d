package dto

type GoalRequest struct {
	TargetHours float64 `json:"targetHours" validate:"gt=0"`
	TargetDate  string  `json:"targetDate" validate:"omitempty,datetime=2006-01-02"`
	Description string  `json:"description" validate:"max=500"`
}
