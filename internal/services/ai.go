package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/progress"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

const historyLimit = 8

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type aiStore interface {
	SaveMessage(ctx context.Context, uid, sessionID string, msg models.AIMessage) error
	ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.AIMessage, error)
}

type chartProvider interface {
	GetChart(ctx context.Context, uid, rangeKeyword string) (*dto.ChartResponse, error)
}

type activityReader interface {
	List(ctx context.Context, uid string) ([]dto.ActivityResponse, error)
}

type goalReader interface {
	GetGoal(ctx context.Context, uid string) (*models.Goal, error)
}

// AITools are the read-only views the assistant may call.
type AITools struct {
	Charts     chartProvider
	Activities activityReader
	Goals      goalReader
}

type aiService struct {
	vertex   vertexClient
	tools    AITools
	store    aiStore
	ttl      time.Duration
	clockNow func() time.Time
}

func NewAIService(vertex vertexClient, tools AITools, store aiStore, ttl time.Duration) *aiService {
	return &aiService{
		vertex:   vertex,
		tools:    tools,
		store:    store,
		ttl:      ttl,
		clockNow: time.Now,
	}
}

func (s *aiService) Query(ctx context.Context, uid, sessionID, message string) (dto.AIQueryResponse, error) {
	log := logger.FromContext(ctx)

	history, err := s.store.ListMessages(ctx, uid, sessionID, historyLimit)
	if err != nil {
		return dto.AIQueryResponse{}, err
	}

	req := dto.VertexGenerateRequest{
		System:          systemPrompt(s.clockNow()),
		History:         convertMessagesToContents(history),
		UserMessage:     message,
		Tools:           toolSchemas(),
		FunctionCalling: dto.FunctionCallingModeAuto,
	}

	resp, err := s.vertex.GenerateContent(ctx, req)
	var malformed *errs.MalformedFunctionCallError
	if errors.As(err, &malformed) {
		log.Warn("malformed function call, retrying with strict prompt")
		strictReq := req
		strictReq.System = strictSystemPrompt(s.clockNow())
		resp, err = s.vertex.GenerateContent(ctx, strictReq)
	}
	if err != nil {
		return dto.AIQueryResponse{}, err
	}

	if len(resp.ToolCalls) == 0 {
		if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{Role: "user", Content: message}); err != nil {
			return dto.AIQueryResponse{}, err
		}
		// Only save non-empty assistant responses
		if resp.Text != "" {
			if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{Role: "assistant", Content: resp.Text}); err != nil {
				return dto.AIQueryResponse{}, err
			}
		}
		log.Info("ai query completed", "session_id", sessionID)
		return dto.AIQueryResponse{Answer: resp.Text}, nil
	}

	if len(resp.ToolCalls) > 1 {
		log.Warn("received multiple tool calls, only processing the first", "count", len(resp.ToolCalls))
	}
	toolCall := resp.ToolCalls[0]
	if !isValidToolName(toolCall.Name) {
		return dto.AIQueryResponse{}, errs.NewValidationError(fmt.Sprintf("model requested unknown tool: %s", toolCall.Name))
	}

	log.Info("executing tool", "tool", toolCall.Name)
	toolResult, err := s.executeTool(ctx, uid, toolCall)
	if err != nil {
		return dto.AIQueryResponse{}, fmt.Errorf("failed to execute tool %s: %w", toolCall.Name, err)
	}

	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{Role: "user", Content: message}); err != nil {
		return dto.AIQueryResponse{}, err
	}
	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
		Role:       "tool",
		ToolName:   toolCall.Name,
		ToolArgs:   toolCall.Args,
		ToolResult: toolResult.Response,
	}); err != nil {
		return dto.AIQueryResponse{}, err
	}

	// The follow-up turn replays the question and the call, then sends the result.
	followUp := append(slices.Clone(req.History),
		dto.VertexContent{Role: "user", Parts: []dto.VertexPart{{Text: message}}},
		dto.VertexContent{Role: "model", Parts: []dto.VertexPart{{FunctionCall: &toolCall}}},
	)
	finalResp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		System:          systemPrompt(s.clockNow()),
		History:         followUp,
		ToolResults:     []dto.VertexToolResult{toolResult},
		Tools:           toolSchemas(),
		FunctionCalling: dto.FunctionCallingModeNone,
	})
	if err != nil {
		return dto.AIQueryResponse{}, err
	}

	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{Role: "assistant", Content: finalResp.Text}); err != nil {
		return dto.AIQueryResponse{}, err
	}

	log.Info("ai query completed", "session_id", sessionID, "tool", toolCall.Name)
	return dto.AIQueryResponse{
		Answer: finalResp.Text,
		Debug:  &dto.AIDebugInfo{Tool: toolCall.Name, Args: toolCall.Args},
	}, nil
}

func convertMessagesToContents(history []models.AIMessage) []dto.VertexContent {
	contents := make([]dto.VertexContent, 0, len(history))

	for _, msg := range history {
		switch msg.Role {
		case "user":
			contents = append(contents, dto.VertexContent{
				Role:  "user",
				Parts: []dto.VertexPart{{Text: msg.Content}},
			})

		case "assistant":
			if msg.Content != "" {
				contents = append(contents, dto.VertexContent{
					Role:  "model",
					Parts: []dto.VertexPart{{Text: msg.Content}},
				})
			}

		case "tool":
			// Tool calls and results need explicit function call/response parts.
			if msg.ToolName == "" || msg.ToolResult == nil {
				continue
			}
			contents = append(contents,
				dto.VertexContent{
					Role:  "model",
					Parts: []dto.VertexPart{{FunctionCall: &dto.VertexToolCall{Name: msg.ToolName, Args: msg.ToolArgs}}},
				},
				dto.VertexContent{
					Role:  "user",
					Parts: []dto.VertexPart{{FunctionResponse: &dto.VertexToolResult{Name: msg.ToolName, Response: msg.ToolResult}}},
				},
			)
		}
	}

	return contents
}

func (s *aiService) saveMessage(ctx context.Context, uid, sessionID string, msg models.AIMessage) error {
	now := s.clockNow()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	if s.ttl > 0 {
		msg.ExpiresAt = now.Add(s.ttl)
	}
	return s.store.SaveMessage(ctx, uid, sessionID, msg)
}

func (s *aiService) executeTool(ctx context.Context, uid string, call dto.VertexToolCall) (dto.VertexToolResult, error) {
	var result any

	switch call.Name {
	case "get_hours_progress":
		args, err := decodeArgs[dto.AIHoursProgressArgs](call.Args)
		if err != nil {
			return dto.VertexToolResult{}, err
		}
		chart, err := s.tools.Charts.GetChart(ctx, uid, args.Range)
		if err != nil {
			return dto.VertexToolResult{}, err
		}
		result = hoursProgressSummary(chart)

	case "list_activities":
		args, err := decodeArgs[dto.AIListActivitiesArgs](call.Args)
		if err != nil {
			return dto.VertexToolResult{}, err
		}
		items, err := s.tools.Activities.List(ctx, uid)
		if err != nil {
			return dto.VertexToolResult{}, err
		}
		filtered := make([]dto.ActivityResponse, 0, len(items))
		for _, a := range items {
			if args.Status == "" || a.Status == args.Status {
				filtered = append(filtered, a)
			}
		}
		result = map[string]any{"count": len(filtered), "activities": filtered}

	case "get_goal":
		goal, err := s.tools.Goals.GetGoal(ctx, uid)
		var notFound *errs.NotFoundError
		if errors.As(err, &notFound) {
			result = map[string]any{"goal": nil}
			break
		}
		if err != nil {
			return dto.VertexToolResult{}, err
		}
		result = map[string]any{"goal": goal}

	default:
		return dto.VertexToolResult{}, errs.NewValidationError(fmt.Sprintf("unsupported tool: %s", call.Name))
	}

	payload, err := toMap(result)
	if err != nil {
		return dto.VertexToolResult{}, err
	}
	return dto.VertexToolResult{Name: call.Name, Response: payload}, nil
}

// hoursProgressSummary keeps the tool payload small; the model does not need every point.
func hoursProgressSummary(chart *dto.ChartResponse) map[string]any {
	out := map[string]any{
		"range":             chart.Range,
		"from":              chart.Start,
		"to":                chart.End,
		"currentTotalHours": chart.CurrentTotalHours,
		"completedEntries":  len(chart.Anchors),
	}
	if n := len(chart.Points); n > 0 {
		out["hoursAtStart"] = chart.Points[0].Hours
		out["hoursGainedInRange"] = chart.Points[n-1].Hours - chart.Points[0].Hours
	}
	if chart.Goal != nil {
		out["goalTargetHours"] = chart.Goal.TargetHours
		out["goalTargetDate"] = chart.Goal.TargetDate
		out["goalDescription"] = chart.Goal.Description
	}
	return out
}

func toolSchemas() []dto.VertexTool {
	ranges := make([]string, 0, len(progress.Ranges))
	for _, r := range progress.Ranges {
		ranges = append(ranges, string(r))
	}
	return []dto.VertexTool{
		{
			Name: "get_hours_progress",
			Description: "Summarize the student's cumulative volunteer and activity hours over a display range, " +
				"including the current total and the hours goal when one is set.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"range": {Type: "string", Enum: ranges, Description: "Display range; defaults to 1M."},
				},
			},
		},
		{
			Name:        "list_activities",
			Description: "List the student's extracurricular activities with their verification status.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"status": {Type: "string", Enum: []string{
						models.ActivityDraft,
						models.ActivityPending,
						models.ActivityVerified,
						models.ActivityRejected,
					}, Description: "Optional status filter."},
				},
			},
		},
		{
			Name:        "get_goal",
			Description: "Return the student's hours goal: target hours, optional target date and description.",
			Parameters:  &dto.VertexSchema{Type: "object"},
		},
	}
}

func systemPrompt(now time.Time) string {
	return "You are an assistant helping a high-school student track extracurricular activities and volunteer hours. " +
		"Use tools for any question about their hours, activities or goal. Make only one tool call per request. " +
		"Hours, activities and goals must come from tool results - never fabricate them. " +
		"If a question is ambiguous, ask for clarification. " +
		"Today is " + now.Format("2006-01-02") + " (" + now.Weekday().String() + ")."
}

func strictSystemPrompt(now time.Time) string {
	return systemPrompt(now) + " You must respond with a valid tool call that matches the schema. " +
		"If required information is missing, ask a clarification question instead of calling a tool."
}

func decodeArgs[T any](args map[string]any) (T, error) {
	var out T
	if len(args) == 0 {
		return out, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errs.NewValidationError("invalid tool arguments")
	}
	return out, nil
}

func toMap(value any) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isValidToolName(name string) bool {
	return slices.Contains([]string{"get_hours_progress", "list_activities", "get_goal"}, name)
}
