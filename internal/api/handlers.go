// ABOUTME: HTTP handlers for users, daily records, and analyses.
// ABOUTME: Decodes requests, calls storage or the engine, and encodes JSON.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/storage"
)

const maxBodyBytes = 1 << 20

type createUserRequest struct {
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	HeightCM float64 `json:"height_cm"`
	WeightKG float64 `json:"weight_kg"`
	Goal     string  `json:"goal,omitempty"`
}

type recordDayRequest struct {
	UserID string `json:"user_id"`
	models.DailyInput
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest(fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}

// resolveUser looks up the {userID} path parameter, accepting ID prefixes.
func (s *Server) resolveUser(r *http.Request) (*models.User, error) {
	return s.lookupUser(chi.URLParam(r, "userID"))
}

func (s *Server) lookupUser(ref string) (*models.User, error) {
	if ref == "" {
		return nil, badRequest(errors.New("user id is required"))
	}
	u, err := s.repo.GetUser(ref)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func queryDate(r *http.Request, key string) (*time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return nil, badRequest(fmt.Errorf("invalid %s: %w", key, err))
	}
	return &d, nil
}

func queryLimit(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, badRequest(fmt.Errorf("invalid limit %q", v))
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	u := models.NewUser(req.Age, req.Gender, req.HeightCM, req.WeightKG)
	if req.Goal != "" {
		u.WithGoal(req.Goal)
	}
	if err := u.Validate(); err != nil {
		s.writeErr(w, r, badRequest(err))
		return
	}
	if err := s.repo.CreateUser(u); err != nil {
		s.writeErr(w, r, fmt.Errorf("create user: %w", err))
		return
	}

	w.Header().Set("Location", "/users/"+u.ID.String())
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repo.ListUsers()
	if err != nil {
		s.writeErr(w, r, fmt.Errorf("list users: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, newList(users))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.resolveUser(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.resolveUser(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := s.repo.DeleteUser(u.ID.String()); err != nil {
		s.writeErr(w, r, fmt.Errorf("delete user: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecordDay(w http.ResponseWriter, r *http.Request) {
	var req recordDayRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	u, err := s.lookupUser(req.UserID)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	m, err := req.DailyInput.ToDailyMetrics(u.ID)
	if err != nil {
		s.writeErr(w, r, badRequest(err))
		return
	}
	if err := s.repo.UpsertDailyMetrics(m); err != nil {
		s.writeErr(w, r, fmt.Errorf("record day: %w", err))
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	u, err := s.resolveUser(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	filter := storage.DailyFilter{}
	if filter.From, err = queryDate(r, "from"); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if filter.To, err = queryDate(r, "to"); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if filter.Limit, err = queryLimit(r, 0); err != nil {
		s.writeErr(w, r, err)
		return
	}

	days, err := s.repo.ListDailyMetrics(u.ID, filter)
	if err != nil {
		s.writeErr(w, r, fmt.Errorf("list days: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, newList(days))
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	u, err := s.resolveUser(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	date, err := models.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		s.writeErr(w, r, badRequest(err))
		return
	}
	if err := s.repo.DeleteDailyMetrics(u.ID, date); err != nil {
		s.writeErr(w, r, fmt.Errorf("delete day: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	u, err := s.resolveUser(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	result, err := s.analyzer.Analyze(u.ID)
	if err != nil {
		s.writeErr(w, r, fmt.Errorf("analyze: %w", err))
		return
	}
	analysesTotal.WithLabelValues(string(result.Category), result.Source).Inc()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	u, err := s.resolveUser(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	result, err := s.analyzer.Recommend(u.ID)
	if err != nil {
		s.writeErr(w, r, fmt.Errorf("recommend: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	u, err := s.resolveUser(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	limit, err := queryLimit(r, 10)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	analyses, err := s.repo.ListAnalyses(u.ID, limit)
	if err != nil {
		s.writeErr(w, r, fmt.Errorf("list analyses: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, newList(analyses))
}
