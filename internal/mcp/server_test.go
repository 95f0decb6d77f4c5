// ABOUTME: Tests for the wellness MCP server.
// ABOUTME: Drives each tool and resource handler against a temporary sqlite store.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/wellness/internal/engine"
	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), storage.DBFile))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()
	db := setupTestDB(t)
	server, err := NewServer(db, nil, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

func addTestUser(t *testing.T, s *Server) string {
	t.Helper()
	_, out, err := s.handleAddUser(context.Background(), &mcp.CallToolRequest{}, addUserInput{
		Age: 29, Gender: "f", HeightCM: 165, WeightKG: 58,
	})
	if err != nil {
		t.Fatalf("handleAddUser failed: %v", err)
	}
	return out.ID
}

func f64(v float64) *float64 { return &v }

func TestNewServer(t *testing.T) {
	server, _ := setupServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.analyzer == nil {
		t.Error("Expected a default analyzer")
	}
}

func TestHandleAddUser(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addUserInput
		wantErr   bool
		errSubstr string
	}{
		{"valid user", addUserInput{Age: 30, Gender: "m", HeightCM: 180, WeightKG: 80}, false, ""},
		{"with goal", addUserInput{Age: 30, Gender: "m", HeightCM: 180, WeightKG: 80, Goal: "less stress"}, false, ""},
		{"age too high", addUserInput{Age: 121, Gender: "m", HeightCM: 180, WeightKG: 80}, true, "age"},
		{"height too low", addUserInput{Age: 30, Gender: "m", HeightCM: 40, WeightKG: 80}, true, "height"},
		{"missing gender", addUserInput{Age: 30, HeightCM: 180, WeightKG: 80}, true, "gender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleAddUser(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.ID == "" {
				t.Error("Expected an ID")
			}
		})
	}
}

func TestHandleListUsers(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleListUsers(ctx, &mcp.CallToolRequest{}, struct{}{})
	if err != nil {
		t.Fatalf("handleListUsers failed: %v", err)
	}
	if got := out.(listUsersOutput); got.Count != 0 {
		t.Errorf("Expected 0 users, got %d", got.Count)
	}

	addTestUser(t, server)
	addTestUser(t, server)

	_, out, err = server.handleListUsers(ctx, &mcp.CallToolRequest{}, struct{}{})
	if err != nil {
		t.Fatalf("handleListUsers failed: %v", err)
	}
	if got := out.(listUsersOutput); got.Count != 2 {
		t.Errorf("Expected 2 users, got %d", got.Count)
	}
}

func TestHandleRecordDayUpserts(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()
	userID := addTestUser(t, server)

	for _, sleep := range []float64{5, 7.5} {
		_, out, err := server.handleRecordDay(ctx, &mcp.CallToolRequest{}, recordDayInput{
			UserID:     userID[:8],
			Date:       "2025-03-01",
			SleepHours: f64(sleep),
		})
		if err != nil {
			t.Fatalf("handleRecordDay failed: %v", err)
		}
		if out.Date != "2025-03-01" {
			t.Errorf("Date = %q", out.Date)
		}
	}

	u, _ := db.GetUser(userID)
	days, err := db.RecentDailyMetrics(u.ID, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 1 {
		t.Fatalf("Expected 1 day after two writes, got %d", len(days))
	}
	if *days[0].SleepHours != 7.5 {
		t.Errorf("SleepHours = %v, want 7.5", *days[0].SleepHours)
	}
}

func TestHandleRecordDayValidation(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	userID := addTestUser(t, server)

	tests := []struct {
		name  string
		input recordDayInput
	}{
		{"unknown user", recordDayInput{UserID: "ffffffff", SleepHours: f64(7)}},
		{"bad date", recordDayInput{UserID: userID, Date: "yesterday"}},
		{"mood out of range", recordDayInput{UserID: userID, Mood: f64(9)}},
		{"heart rate out of range", recordDayInput{UserID: userID, RestingHR: f64(10)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := server.handleRecordDay(ctx, &mcp.CallToolRequest{}, tt.input); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestHandleListAndDeleteDays(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	userID := addTestUser(t, server)

	for _, d := range []string{"2025-03-01", "2025-03-02", "2025-03-03"} {
		if _, _, err := server.handleRecordDay(ctx, &mcp.CallToolRequest{}, recordDayInput{UserID: userID, Date: d, Steps: new(int)}); err != nil {
			t.Fatal(err)
		}
	}

	_, out, err := server.handleListDays(ctx, &mcp.CallToolRequest{}, listDaysInput{UserID: userID, From: "2025-03-02"})
	if err != nil {
		t.Fatalf("handleListDays failed: %v", err)
	}
	got := out.(listDaysOutput)
	if got.Count != 2 || got.Days[0].DateString() != "2025-03-03" {
		t.Errorf("unexpected days: count %d", got.Count)
	}

	if _, _, err := server.handleDeleteDay(ctx, &mcp.CallToolRequest{}, deleteDayInput{UserID: userID, Date: "2025-03-03"}); err != nil {
		t.Fatalf("handleDeleteDay failed: %v", err)
	}
	_, _, err = server.handleDeleteDay(ctx, &mcp.CallToolRequest{}, deleteDayInput{UserID: userID, Date: "2025-03-03"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestHandleListDaysHasNoImplicitCap(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()
	userID := addTestUser(t, server)
	u, err := db.GetUser(userID)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 40 {
		if err := db.UpsertDailyMetrics(models.NewDailyMetrics(u.ID, start.AddDate(0, 0, i))); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		input listDaysInput
		want  int
	}{
		{"no limit", listDaysInput{UserID: userID}, 40},
		{"range", listDaysInput{UserID: userID, From: "2025-01-05", To: "2025-02-09"}, 36},
		{"explicit limit", listDaysInput{UserID: userID, Limit: 7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleListDays(ctx, &mcp.CallToolRequest{}, tt.input)
			if err != nil {
				t.Fatalf("handleListDays failed: %v", err)
			}
			if got := out.(listDaysOutput).Count; got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandleAnalyzeWorkedExample(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()
	userID := addTestUser(t, server)

	steps := 3000
	_, _, err := server.handleRecordDay(ctx, &mcp.CallToolRequest{}, recordDayInput{
		UserID: userID, Date: "2025-03-01",
		SleepHours: f64(5), Steps: &steps, ExerciseMinutes: f64(0), Calories: f64(1500),
		Mood: f64(1), Stress: f64(5), RestingHR: f64(110),
	})
	if err != nil {
		t.Fatal(err)
	}

	_, out, err := server.handleAnalyze(ctx, &mcp.CallToolRequest{}, userRefInput{UserID: userID})
	if err != nil {
		t.Fatalf("handleAnalyze failed: %v", err)
	}
	result := out.(*engine.AnalysisResult)
	if result.Score != 25.4 {
		t.Errorf("Score = %v, want 25.4", result.Score)
	}
	if result.Category != engine.CategoryNeedsImprovement {
		t.Errorf("Category = %q", result.Category)
	}
	if len(result.Recommendations) != 5 {
		t.Errorf("Expected 5 recommendations, got %d", len(result.Recommendations))
	}

	u, _ := db.GetUser(userID)
	stored, err := db.ListAnalyses(u.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Errorf("Expected 1 stored analysis, got %d", len(stored))
	}

	_, out, err = server.handleListAnalyses(ctx, &mcp.CallToolRequest{}, listAnalysesInput{UserID: userID})
	if err != nil {
		t.Fatalf("handleListAnalyses failed: %v", err)
	}
	if got := out.(listAnalysesOutput); got.Count != 1 {
		t.Errorf("Expected 1 analysis listed, got %d", got.Count)
	}
}

func TestHandleAnalyzeWithoutData(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	userID := addTestUser(t, server)

	_, _, err := server.handleAnalyze(ctx, &mcp.CallToolRequest{}, userRefInput{UserID: userID})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	_, _, err = server.handleAnalyze(ctx, &mcp.CallToolRequest{}, userRefInput{UserID: "nobody"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestHandleRecommendDoesNotStore(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()
	userID := addTestUser(t, server)

	if _, _, err := server.handleRecordDay(ctx, &mcp.CallToolRequest{}, recordDayInput{UserID: userID, SleepHours: f64(8)}); err != nil {
		t.Fatal(err)
	}

	_, out, err := server.handleRecommend(ctx, &mcp.CallToolRequest{}, userRefInput{UserID: userID})
	if err != nil {
		t.Fatalf("handleRecommend failed: %v", err)
	}
	if len(out.(*engine.RecommendationResult).Recommendations) == 0 {
		t.Error("Expected recommendations")
	}

	u, _ := db.GetUser(userID)
	stored, _ := db.ListAnalyses(u.ID, 0)
	if len(stored) != 0 {
		t.Errorf("Expected no stored analyses, got %d", len(stored))
	}
}

func TestHandleDeleteUser(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	userID := addTestUser(t, server)

	if _, _, err := server.handleDeleteUser(ctx, &mcp.CallToolRequest{}, userRefInput{UserID: userID}); err != nil {
		t.Fatalf("handleDeleteUser failed: %v", err)
	}
	if _, _, err := server.handleDeleteUser(ctx, &mcp.CallToolRequest{}, userRefInput{UserID: userID}); err == nil {
		t.Error("Expected error deleting twice")
	}
}

func TestHandleUsersResource(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()
	userID := addTestUser(t, server)
	if _, _, err := server.handleRecordDay(ctx, &mcp.CallToolRequest{}, recordDayInput{UserID: userID, Date: "2025-03-04"}); err != nil {
		t.Fatal(err)
	}

	result, err := server.handleUsersResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleUsersResource failed: %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].URI != usersURI {
		t.Fatalf("unexpected contents: %+v", result.Contents)
	}

	var body struct {
		Count int `json:"count"`
		Users []struct {
			ID        string `json:"id"`
			LatestDay string `json:"latest_day"`
		} `json:"users"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Count != 1 || body.Users[0].LatestDay != "2025-03-04" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestHandleRecentAnalysesResource(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	result, err := server.handleRecentAnalysesResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleRecentAnalysesResource failed: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, `"count": 0`) {
		t.Errorf("Expected empty resource, got %s", result.Contents[0].Text)
	}

	userID := addTestUser(t, server)
	if _, _, err := server.handleRecordDay(ctx, &mcp.CallToolRequest{}, recordDayInput{UserID: userID, SleepHours: f64(7)}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, _, err := server.handleAnalyze(ctx, &mcp.CallToolRequest{}, userRefInput{UserID: userID}); err != nil {
			t.Fatal(err)
		}
	}

	result, err = server.handleRecentAnalysesResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleRecentAnalysesResource failed: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, `"count": 1`) {
		t.Errorf("Expected one analysis per user, got %s", result.Contents[0].Text)
	}
}
