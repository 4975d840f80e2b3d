package dto

type AIQueryRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=128"`
	Message   string `json:"message" validate:"required,max=2000"`
}

type AIQueryResponse struct {
	Answer string       `json:"answer"`
	Debug  *AIDebugInfo `json:"debug,omitempty"`
}

type AIDebugInfo struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

type AIHoursProgressArgs struct {
	Range string `json:"range"`
}

type AIListActivitiesArgs struct {
	Status string `json:"status"`
}
