package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bukid/internal/auth"
	"bukid/internal/core"
)

type feedbackRequest struct {
	Name     string `json:"name,omitempty"`
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
}

type feedbackResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date"`
}

type volunteerRequest struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

type volunteerResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Role             string  `json:"role,omitempty"`
	HoursContributed float64 `json:"hours_contributed"`
	TasksCompleted   int     `json:"tasks_completed"`
	LastActivity     string  `json:"last_activity,omitempty"`
}

type activityRequest struct {
	Hours          float64 `json:"hours"`
	TasksCompleted int     `json:"tasks_completed"`
}

type leaderboardResponse struct {
	Volunteers         []volunteerResponse `json:"volunteers"`
	TotalHours         float64             `json:"total_hours"`
	TotalVolunteers    int                 `json:"total_volunteers"`
	CompletedTaskRatio float64             `json:"completed_task_ratio"`
}

type taskRequest struct {
	Title      string `json:"title"`
	AssignedTo string `json:"assigned_to,omitempty"`
	DueDate    string `json:"due_date,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

type taskStatusRequest struct {
	Status string `json:"status"`
}

type taskResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	AssignedTo string `json:"assigned_to,omitempty"`
	DueDate    string `json:"due_date,omitempty"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
}

type photoRequest struct {
	Caption string `json:"caption,omitempty"`
	URL     string `json:"url"`
}

type photoResponse struct {
	ID         string `json:"id"`
	Caption    string `json:"caption,omitempty"`
	URL        string `json:"url"`
	UploadedBy string `json:"uploaded_by,omitempty"`
	UploadedAt string `json:"uploaded_at"`
}

func toVolunteerResponse(v core.Volunteer) volunteerResponse {
	return volunteerResponse{
		ID:               v.ID,
		Name:             v.Name,
		Role:             v.Role,
		HoursContributed: v.HoursContributed,
		TasksCompleted:   v.TasksCompleted,
		LastActivity:     fmtDate(v.LastActivity),
	}
}

func toTaskResponse(t core.Task) taskResponse {
	return taskResponse{
		ID:         t.ID,
		Title:      t.Title,
		AssignedTo: t.AssignedTo,
		DueDate:    fmtDate(t.DueDate),
		Status:     string(t.Status),
		Priority:   string(t.Priority),
	}
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Feedback.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]feedbackResponse, 0, len(items))
	for _, f := range items {
		out = append(out, feedbackResponse{
			ID: f.ID, Name: f.Name, Message: f.Message,
			Category: f.Category, Date: fmtDate(f.Date),
		})
	}
	respondOK(w, out)
}

// handleCreateFeedback accepts feedback from anyone. A signed-in caller's
// name overrides whatever the form carried and their counter is bumped.
func (s *Server) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	f := core.Feedback{Name: req.Name, Message: req.Message, Category: req.Category}

	sess, err := s.session(r)
	switch {
	case err == nil:
		f.Name = sess.Name
	case errors.Is(err, auth.ErrMissingToken):
		// anonymous feedback
	default:
		respondError(w, r, err)
		return
	}

	created, createErr := s.store.Feedback.Create(r.Context(), f)
	if createErr != nil {
		respondError(w, r, createErr)
		return
	}
	if err == nil {
		s.bumpCounter(r, sess.Email, "feedback")
	}
	respondCreated(w, feedbackResponse{
		ID: created.ID, Name: created.Name, Message: created.Message,
		Category: created.Category, Date: fmtDate(created.Date),
	})
}

func (s *Server) handleListVolunteers(w http.ResponseWriter, r *http.Request) {
	vols, err := s.store.Volunteers.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]volunteerResponse, 0, len(vols))
	for _, v := range vols {
		out = append(out, toVolunteerResponse(v))
	}
	respondOK(w, out)
}

func (s *Server) handleCreateVolunteer(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.adminSession(w, r); !ok {
		return
	}

	var req volunteerRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	created, err := s.store.Volunteers.Create(r.Context(), core.Volunteer{
		Name: req.Name,
		Role: req.Role,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, toVolunteerResponse(created))
}

func (s *Server) handleVolunteerActivity(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.adminSession(w, r); !ok {
		return
	}

	var req activityRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := s.store.Volunteers.RecordActivity(r.Context(), r.PathValue("id"), req.Hours, req.TasksCompleted); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, map[string]string{"recorded": r.PathValue("id")})
}

// handleLeaderboard ranks the roster by contributed hours. The optional
// ?top=N query trims the list; stats always cover the full roster.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	vols, err := s.store.Volunteers.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	tasks, err := s.store.Tasks.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	ranked := core.RankVolunteers(vols)
	if top := r.URL.Query().Get("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil {
			respondBadRequest(w, "top must be an integer")
			return
		}
		ranked = core.TopVolunteers(ranked, n)
	}
	stats := core.ComputeVolunteerStats(vols, tasks)

	out := leaderboardResponse{
		Volunteers:         make([]volunteerResponse, 0, len(ranked)),
		TotalHours:         stats.TotalHours,
		TotalVolunteers:    stats.TotalVolunteers,
		CompletedTaskRatio: stats.CompletedTaskRatio,
	}
	for _, v := range ranked {
		out.Volunteers = append(out.Volunteers, toVolunteerResponse(v))
	}
	respondOK(w, out)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.Tasks.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	respondOK(w, out)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session(r); err != nil {
		respondError(w, r, err)
		return
	}

	var req taskRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	t := core.Task{
		Title:      req.Title,
		AssignedTo: req.AssignedTo,
		Priority:   core.TaskPriority(req.Priority),
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			respondError(w, r, err)
			return
		}
		t.DueDate = due
	}

	created, err := s.store.Tasks.Create(r.Context(), t)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, toTaskResponse(created))
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session(r); err != nil {
		respondError(w, r, err)
		return
	}

	var req taskStatusRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := s.store.Tasks.UpdateStatus(r.Context(), r.PathValue("id"), core.TaskStatus(req.Status)); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, map[string]string{"id": r.PathValue("id"), "status": req.Status})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.adminSession(w, r); !ok {
		return
	}
	if err := s.store.Tasks.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, map[string]string{"deleted": r.PathValue("id")})
}

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := s.store.Photos.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]photoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, photoResponse{
			ID: p.ID, Caption: p.Caption, URL: p.URL,
			UploadedBy: p.UploadedBy, UploadedAt: p.UploadedAt.Format(time.RFC3339),
		})
	}
	respondOK(w, out)
}

func (s *Server) handleCreatePhoto(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req photoRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	created, err := s.store.Photos.Create(r.Context(), core.Photo{
		Caption:    req.Caption,
		URL:        req.URL,
		UploadedBy: sess.Name,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, photoResponse{
		ID: created.ID, Caption: created.Caption, URL: created.URL,
		UploadedBy: created.UploadedBy, UploadedAt: created.UploadedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.adminSession(w, r); !ok {
		return
	}
	if err := s.store.Photos.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, map[string]string{"deleted": r.PathValue("id")})
}
