// ABOUTME: MCP tool implementations for wellness tracking.
// ABOUTME: Covers users, daily records, analysis, recommendations, and history.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_user",
		Description: "Create a user profile (age, gender, height, weight, optional goal)",
	}, s.handleAddUser)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_users",
		Description: "List all user profiles",
	}, s.handleListUsers)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_user",
		Description: "Delete a user and all of their data",
	}, s.handleDeleteUser)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_day",
		Description: "Record or replace one day of wellness metrics for a user",
	}, s.handleRecordDay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_days",
		Description: "List a user's daily records, most recent first",
	}, s.handleListDays)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_day",
		Description: "Delete a user's record for one day",
	}, s.handleDeleteDay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze",
		Description: "Score a user's latest day, explain it, predict stress risk and store the analysis",
	}, s.handleAnalyze)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "recommend",
		Description: "Get recommendations for a user's latest day without storing an analysis",
	}, s.handleRecommend)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_analyses",
		Description: "List a user's stored analyses, newest first",
	}, s.handleListAnalyses)
}

// Tool input/output types

type addUserInput struct {
	Age      int     `json:"age" jsonschema:"Age in years (1-120)"`
	Gender   string  `json:"gender" jsonschema:"Gender as the user describes it"`
	HeightCM float64 `json:"height_cm" jsonschema:"Height in centimeters (50-250)"`
	WeightKG float64 `json:"weight_kg" jsonschema:"Weight in kilograms (20-300)"`
	Goal     string  `json:"goal,omitempty" jsonschema:"Optional wellness goal"`
}

type userOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type listUsersOutput struct {
	Users []*models.User `json:"users"`
	Count int            `json:"count"`
}

type userRefInput struct {
	UserID string `json:"user_id" jsonschema:"User ID or ID prefix"`
}

type recordDayInput struct {
	UserID          string   `json:"user_id" jsonschema:"User ID or ID prefix"`
	Date            string   `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
	SleepHours      *float64 `json:"sleep_hours,omitempty" jsonschema:"Hours slept (0-24)"`
	Steps           *int     `json:"steps,omitempty" jsonschema:"Step count"`
	ExerciseMinutes *float64 `json:"exercise_minutes,omitempty" jsonschema:"Minutes of exercise"`
	Calories        *float64 `json:"calories,omitempty" jsonschema:"Calories consumed"`
	Mood            *float64 `json:"mood_0_5,omitempty" jsonschema:"Mood from 0 (low) to 5 (high)"`
	Stress          *float64 `json:"stress_0_5,omitempty" jsonschema:"Stress from 0 (calm) to 5 (high)"`
	RestingHR       *float64 `json:"resting_hr,omitempty" jsonschema:"Resting heart rate in bpm (30-200)"`
	Notes           string   `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type dayOutput struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

type listDaysInput struct {
	UserID string `json:"user_id" jsonschema:"User ID or ID prefix"`
	From   string `json:"from,omitempty" jsonschema:"Earliest day (YYYY-MM-DD)"`
	To     string `json:"to,omitempty" jsonschema:"Latest day (YYYY-MM-DD)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default: every day in range)"`
}

type listDaysOutput struct {
	Days  []*models.DailyMetrics `json:"days"`
	Count int                    `json:"count"`
}

type deleteDayInput struct {
	UserID string `json:"user_id" jsonschema:"User ID or ID prefix"`
	Date   string `json:"date" jsonschema:"Day as YYYY-MM-DD"`
}

type listAnalysesInput struct {
	UserID string `json:"user_id" jsonschema:"User ID or ID prefix"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 10)"`
}

type listAnalysesOutput struct {
	Analyses []*models.AnalysisRecord `json:"analyses"`
	Count    int                      `json:"count"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleAddUser(ctx context.Context, req *mcp.CallToolRequest, input addUserInput) (*mcp.CallToolResult, userOutput, error) {
	u := models.NewUser(input.Age, input.Gender, input.HeightCM, input.WeightKG)
	if input.Goal != "" {
		u.WithGoal(input.Goal)
	}
	if err := u.Validate(); err != nil {
		return nil, userOutput{}, err
	}

	if err := s.repo.CreateUser(u); err != nil {
		return nil, userOutput{}, fmt.Errorf("failed to create user: %w", err)
	}

	return nil, userOutput{
		ID:      u.ID.String(),
		Message: fmt.Sprintf("Added user %s", u.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListUsers(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	users, err := s.repo.ListUsers()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return nil, listUsersOutput{Users: users, Count: len(users)}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, req *mcp.CallToolRequest, input userRefInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteUser(input.UserID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete user: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted user: %s", input.UserID)}, nil
}

func (s *Server) handleRecordDay(ctx context.Context, req *mcp.CallToolRequest, input recordDayInput) (*mcp.CallToolResult, dayOutput, error) {
	u, err := s.repo.GetUser(input.UserID)
	if err != nil {
		return nil, dayOutput{}, err
	}

	m, err := models.DailyInput{
		Date:            input.Date,
		SleepHours:      input.SleepHours,
		Steps:           input.Steps,
		ExerciseMinutes: input.ExerciseMinutes,
		Calories:        input.Calories,
		Mood:            input.Mood,
		Stress:          input.Stress,
		RestingHR:       input.RestingHR,
		Notes:           input.Notes,
	}.ToDailyMetrics(u.ID)
	if err != nil {
		return nil, dayOutput{}, err
	}

	if err := s.repo.UpsertDailyMetrics(m); err != nil {
		return nil, dayOutput{}, fmt.Errorf("failed to record day: %w", err)
	}

	return nil, dayOutput{
		ID:      m.ID.String()[:8],
		Date:    m.DateString(),
		Message: fmt.Sprintf("Recorded %s for user %s", m.DateString(), u.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListDays(ctx context.Context, req *mcp.CallToolRequest, input listDaysInput) (*mcp.CallToolResult, any, error) {
	u, err := s.repo.GetUser(input.UserID)
	if err != nil {
		return nil, nil, err
	}

	filter := storage.DailyFilter{Limit: max(input.Limit, 0)}
	if input.From != "" {
		from, err := models.ParseDate(input.From)
		if err != nil {
			return nil, nil, err
		}
		filter.From = &from
	}
	if input.To != "" {
		to, err := models.ParseDate(input.To)
		if err != nil {
			return nil, nil, err
		}
		filter.To = &to
	}

	days, err := s.repo.ListDailyMetrics(u.ID, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list days: %w", err)
	}
	if days == nil {
		days = []*models.DailyMetrics{}
	}
	return nil, listDaysOutput{Days: days, Count: len(days)}, nil
}

func (s *Server) handleDeleteDay(ctx context.Context, req *mcp.CallToolRequest, input deleteDayInput) (*mcp.CallToolResult, simpleOutput, error) {
	u, err := s.repo.GetUser(input.UserID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	date, err := models.ParseDate(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.repo.DeleteDailyMetrics(u.ID, date); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete day: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted %s for user %s", input.Date, u.ID.String()[:8])}, nil
}

func (s *Server) handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, input userRefInput) (*mcp.CallToolResult, any, error) {
	u, err := s.repo.GetUser(input.UserID)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.analyzer.Analyze(u.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to analyze: %w", err)
	}
	return nil, result, nil
}

func (s *Server) handleRecommend(ctx context.Context, req *mcp.CallToolRequest, input userRefInput) (*mcp.CallToolResult, any, error) {
	u, err := s.repo.GetUser(input.UserID)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.analyzer.Recommend(u.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to recommend: %w", err)
	}
	return nil, result, nil
}

func (s *Server) handleListAnalyses(ctx context.Context, req *mcp.CallToolRequest, input listAnalysesInput) (*mcp.CallToolResult, any, error) {
	u, err := s.repo.GetUser(input.UserID)
	if err != nil {
		return nil, nil, err
	}
	if input.Limit <= 0 {
		input.Limit = 10
	}
	analyses, err := s.repo.ListAnalyses(u.ID, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	if analyses == nil {
		analyses = []*models.AnalysisRecord{}
	}
	return nil, listAnalysesOutput{Analyses: analyses, Count: len(analyses)}, nil
}
