// ABOUTME: Export and import functionality for wellness data.
// ABOUTME: Supports a full JSON backup and a per-user YAML digest.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/wellness/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current backup format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for wellness data.
type ExportData struct {
	Version      string                   `json:"version" yaml:"version"`
	ExportedAt   time.Time                `json:"exported_at" yaml:"exported_at"`
	Tool         string                   `json:"tool" yaml:"tool"`
	Users        []*models.User           `json:"users" yaml:"users"`
	DailyMetrics []*models.DailyMetrics   `json:"daily_metrics" yaml:"daily_metrics"`
	Analyses     []*models.AnalysisRecord `json:"analyses" yaml:"analyses"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	return CollectAll(d)
}

// ImportData imports data from an export file.
func (d *DB) ImportData(data *ExportData) error {
	_, err := ImportAll(d, data)
	return err
}

// CollectAll reads every user with their daily records and analyses from repo.
func CollectAll(repo Repository) (*ExportData, error) {
	users, err := repo.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	data := &ExportData{
		Version:      ExportVersion,
		ExportedAt:   time.Now(),
		Tool:         "wellness",
		Users:        users,
		DailyMetrics: []*models.DailyMetrics{},
		Analyses:     []*models.AnalysisRecord{},
	}
	if data.Users == nil {
		data.Users = []*models.User{}
	}

	for _, u := range users {
		days, err := repo.ListDailyMetrics(u.ID, DailyFilter{})
		if err != nil {
			return nil, fmt.Errorf("list daily metrics for %s: %w", u.ID, err)
		}
		data.DailyMetrics = append(data.DailyMetrics, days...)

		analyses, err := repo.ListAnalyses(u.ID, 0)
		if err != nil {
			return nil, fmt.Errorf("list analyses for %s: %w", u.ID, err)
		}
		data.Analyses = append(data.Analyses, analyses...)
	}
	return data, nil
}

// ImportSummary holds counts of imported entities.
type ImportSummary struct {
	Users        int
	DailyMetrics int
	Analyses     int
}

// ImportAll writes data into repo. Users that already exist are kept,
// daily records are upserted, and analyses whose ID is already stored are
// skipped, so importing the same backup twice is harmless.
func ImportAll(repo Repository, data *ExportData) (*ImportSummary, error) {
	summary := &ImportSummary{}

	for _, u := range data.Users {
		_, err := repo.GetUser(u.ID.String())
		switch {
		case err == nil:
			continue
		case !errors.Is(err, models.ErrNotFound):
			return nil, fmt.Errorf("import user %s: %w", u.ID, err)
		}
		if err := repo.CreateUser(u); err != nil {
			return nil, fmt.Errorf("import user %s: %w", u.ID, err)
		}
		summary.Users++
	}

	for _, m := range data.DailyMetrics {
		if err := repo.UpsertDailyMetrics(m); err != nil {
			return nil, fmt.Errorf("import daily metrics %s %s: %w", m.UserID, m.DateString(), err)
		}
		summary.DailyMetrics++
	}

	seen := make(map[uuid.UUID]map[uuid.UUID]bool)
	for _, r := range data.Analyses {
		ids, ok := seen[r.UserID]
		if !ok {
			existing, err := repo.ListAnalyses(r.UserID, 0)
			if err != nil {
				return nil, fmt.Errorf("import analysis %s: %w", r.ID, err)
			}
			ids = make(map[uuid.UUID]bool, len(existing))
			for _, e := range existing {
				ids[e.ID] = true
			}
			seen[r.UserID] = ids
		}
		if ids[r.ID] {
			continue
		}
		if err := repo.AppendAnalysis(r); err != nil {
			return nil, fmt.Errorf("import analysis %s: %w", r.ID, err)
		}
		ids[r.ID] = true
		summary.Analyses++
	}

	return summary, nil
}

// ExportJSON exports all data in repo as indented JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports a JSON backup into repo.
func ImportJSON(repo Repository, raw []byte) (*ImportSummary, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if data.Version != ExportVersion {
		return nil, fmt.Errorf("unsupported export version %q", data.Version)
	}
	return ImportAll(repo, &data)
}

// ExportYAML exports all data as YAML with days and analyses grouped
// under their user.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string     `yaml:"version"`
		ExportedAt string     `yaml:"exported_at"`
		Tool       string     `yaml:"tool"`
		Users      []yamlUser `yaml:"users"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Users:      make([]yamlUser, 0, len(data.Users)),
	}

	index := make(map[uuid.UUID]int, len(data.Users))
	for _, u := range data.Users {
		yu := yamlUser{
			ID:       u.ID.String()[:8],
			Age:      u.Age,
			Gender:   u.Gender,
			HeightCM: u.HeightCM,
			WeightKG: u.WeightKG,
		}
		if u.Goal != nil {
			yu.Goal = *u.Goal
		}
		index[u.ID] = len(yamlData.Users)
		yamlData.Users = append(yamlData.Users, yu)
	}

	for _, m := range data.DailyMetrics {
		i, ok := index[m.UserID]
		if !ok {
			continue
		}
		yd := yamlDay{
			Date:            m.DateString(),
			SleepHours:      m.SleepHours,
			Steps:           m.Steps,
			ExerciseMinutes: m.ExerciseMinutes,
			Calories:        m.Calories,
			Mood:            m.Mood,
			Stress:          m.Stress,
			RestingHR:       m.RestingHR,
		}
		if m.Notes != nil {
			yd.Notes = *m.Notes
		}
		yamlData.Users[i].Days = append(yamlData.Users[i].Days, yd)
	}

	for _, r := range data.Analyses {
		i, ok := index[r.UserID]
		if !ok {
			continue
		}
		ya := yamlAnalysis{
			At:              r.CreatedAt.Format(time.RFC3339),
			Score:           r.Score,
			Category:        r.Category,
			Recommendations: r.Recommendations,
		}
		if r.RiskPrediction != nil {
			ya.Risk = *r.RiskPrediction
		}
		yamlData.Users[i].Analyses = append(yamlData.Users[i].Analyses, ya)
	}

	return yaml.Marshal(yamlData)
}

type yamlUser struct {
	ID       string         `yaml:"id"`
	Age      int            `yaml:"age"`
	Gender   string         `yaml:"gender"`
	HeightCM float64        `yaml:"height_cm"`
	WeightKG float64        `yaml:"weight_kg"`
	Goal     string         `yaml:"goal,omitempty"`
	Days     []yamlDay      `yaml:"days,omitempty"`
	Analyses []yamlAnalysis `yaml:"analyses,omitempty"`
}

type yamlDay struct {
	Date            string   `yaml:"date"`
	SleepHours      *float64 `yaml:"sleep_hours,omitempty"`
	Steps           *int     `yaml:"steps,omitempty"`
	ExerciseMinutes *float64 `yaml:"exercise_minutes,omitempty"`
	Calories        *float64 `yaml:"calories,omitempty"`
	Mood            *float64 `yaml:"mood_0_5,omitempty"`
	Stress          *float64 `yaml:"stress_0_5,omitempty"`
	RestingHR       *float64 `yaml:"resting_hr,omitempty"`
	Notes           string   `yaml:"notes,omitempty"`
}

type yamlAnalysis struct {
	At              string   `yaml:"at"`
	Score           float64  `yaml:"score"`
	Category        string   `yaml:"category"`
	Risk            string   `yaml:"risk,omitempty"`
	Recommendations []string `yaml:"recommendations,omitempty"`
}
