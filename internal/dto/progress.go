package dto

// ChartResponse is the cumulative-hours series in date/value space.
// All dates are YYYY-MM-DD.
type ChartResponse struct {
	Range             string        `json:"range"`
	Start             string        `json:"start"`
	End               string        `json:"end"`
	Days              int           `json:"days"`
	Points            []ChartPoint  `json:"points"`
	MaxValue          float64       `json:"maxValue"`
	Scale             float64       `json:"scale"`
	CurrentTotalHours float64       `json:"currentTotalHours"`
	Goal              *ChartGoal    `json:"goal,omitempty"`
	Anchors           []ChartAnchor `json:"anchors"`
	Empty             bool          `json:"empty"`
}

type ChartPoint struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

type ChartGoal struct {
	TargetHours  float64     `json:"targetHours"`
	TargetDate   string      `json:"targetDate,omitempty"`
	Description  string      `json:"description,omitempty"`
	Marker       string      `json:"marker,omitempty"`
	Intersection *ChartPoint `json:"intersection,omitempty"`
}

type ChartAnchor struct {
	Date            string  `json:"date"`
	Hours           float64 `json:"hours"`
	ParticipationID string  `json:"participationId"`
	Title           string  `json:"title"`
}
