package dto

type StudentDashboard struct {
	Activities         int            `json:"activities"`
	ActivitiesByStatus map[string]int `json:"activitiesByStatus"`
	ActivitiesByCat    map[string]int `json:"activitiesByCategory"`
	Hours              HoursSummary   `json:"hours"`
	HoursLast30Days    float64        `json:"hoursLast30Days"`
	Goal               *GoalProgress  `json:"goal,omitempty"`
}

type GoalProgress struct {
	TargetHours   float64 `json:"targetHours"`
	TargetDate    string  `json:"targetDate,omitempty"`
	Percent       float64 `json:"percent"`
	DaysRemaining *int    `json:"daysRemaining,omitempty"`
}

type AdminDashboard struct {
	Students              int            `json:"students"`
	Activities            int            `json:"activities"`
	VerifiedActivities    int            `json:"verifiedActivities"`
	PendingVerifications  int            `json:"pendingVerifications"`
	PendingOrganizations  int            `json:"pendingOrganizations"`
	ApprovedOrganizations int            `json:"approvedOrganizations"`
	TotalHours            float64        `json:"totalHours"`
	VerifiedHours         float64        `json:"verifiedHours"`
	ActivitiesByCategory  map[string]int `json:"activitiesByCategory"`
}
