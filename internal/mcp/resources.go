// ABOUTME: MCP resource implementations for wellness data.
// ABOUTME: Provides wellness://users and wellness://analyses/recent resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/wellness/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	usersURI          = "wellness://users"
	recentAnalysesURI = "wellness://analyses/recent"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         usersURI,
		Name:        "Users",
		Description: "All user profiles with their latest recorded day",
		MIMEType:    "application/json",
	}, s.handleUsersResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentAnalysesURI,
		Name:        "Recent Analyses",
		Description: "The most recent stored analysis for each user",
		MIMEType:    "application/json",
	}, s.handleRecentAnalysesResource)
}

// Resource handlers

func (s *Server) handleUsersResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	users, err := s.repo.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	type userEntry struct {
		*models.User
		LatestDay *string `json:"latest_day,omitempty"`
	}

	entries := make([]userEntry, 0, len(users))
	for _, u := range users {
		e := userEntry{User: u}
		days, err := s.repo.RecentDailyMetrics(u.ID, 1)
		if err == nil && len(days) > 0 {
			d := days[0].DateString()
			e.LatestDay = &d
		}
		entries = append(entries, e)
	}

	return jsonResource(usersURI, map[string]interface{}{
		"users": entries,
		"count": len(entries),
	})
}

func (s *Server) handleRecentAnalysesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	users, err := s.repo.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	analyses := make([]*models.AnalysisRecord, 0, len(users))
	for _, u := range users {
		latest, err := s.repo.ListAnalyses(u.ID, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to list analyses: %w", err)
		}
		analyses = append(analyses, latest...)
	}

	return jsonResource(recentAnalysesURI, map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"analyses":     analyses,
		"count":        len(analyses),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
