package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bukid/internal/core"
)

type FeedbackRepository struct {
	db *sql.DB
}

func (r *FeedbackRepository) List(ctx context.Context) ([]core.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, message, category, created_at FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var items []core.Feedback
	for rows.Next() {
		var f core.Feedback
		var created string
		if err := rows.Scan(&f.ID, &f.Name, &f.Message, &f.Category, &created); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		f.Date = parseTime(created)
		items = append(items, f)
	}
	return items, rows.Err()
}

func (r *FeedbackRepository) Create(ctx context.Context, f core.Feedback) (core.Feedback, error) {
	if strings.TrimSpace(f.Message) == "" {
		return core.Feedback{}, errors.New("empty feedback message")
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Date.IsZero() {
		f.Date = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feedback (id, name, message, category, created_at) VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.Message, f.Category, fmtTime(f.Date))
	if err != nil {
		return core.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return f, nil
}

type VolunteerRepository struct {
	db *sql.DB
}

func (r *VolunteerRepository) List(ctx context.Context) ([]core.Volunteer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, role, hours_contributed, tasks_completed, last_activity
		FROM volunteers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	defer rows.Close()

	var vols []core.Volunteer
	for rows.Next() {
		var v core.Volunteer
		var last string
		if err := rows.Scan(&v.ID, &v.Name, &v.Role, &v.HoursContributed, &v.TasksCompleted, &last); err != nil {
			return nil, fmt.Errorf("scan volunteer: %w", err)
		}
		v.LastActivity = parseTime(last)
		vols = append(vols, v)
	}
	return vols, rows.Err()
}

func (r *VolunteerRepository) Create(ctx context.Context, v core.Volunteer) (core.Volunteer, error) {
	if strings.TrimSpace(v.Name) == "" {
		return core.Volunteer{}, errors.New("empty volunteer name")
	}
	if v.HoursContributed < 0 || v.TasksCompleted < 0 {
		return core.Volunteer{}, errors.New("volunteer counters must not be negative")
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO volunteers (id, name, role, hours_contributed, tasks_completed, last_activity)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Role, v.HoursContributed, v.TasksCompleted, fmtTime(v.LastActivity))
	if err != nil {
		return core.Volunteer{}, fmt.Errorf("create volunteer: %w", err)
	}
	return v, nil
}

// RecordActivity adds contributed hours and completed tasks to a volunteer
// and stamps the activity date.
func (r *VolunteerRepository) RecordActivity(ctx context.Context, id string, hours float64, tasksCompleted int) error {
	if hours < 0 || tasksCompleted < 0 {
		return errors.New("activity deltas must not be negative")
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE volunteers
		SET hours_contributed = hours_contributed + ?,
		    tasks_completed = tasks_completed + ?,
		    last_activity = ?
		WHERE id = ?`,
		hours, tasksCompleted, fmtTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("record volunteer activity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("volunteer %s: %w", id, ErrNotFound)
	}
	return nil
}

type TaskRepository struct {
	db *sql.DB
}

func (r *TaskRepository) List(ctx context.Context) ([]core.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, assigned_to, due_date, status, priority FROM tasks ORDER BY due_date`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []core.Task
	for rows.Next() {
		var t core.Task
		var due, status, priority string
		if err := rows.Scan(&t.ID, &t.Title, &t.AssignedTo, &due, &status, &priority); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.DueDate = parseTime(due)
		t.Status = core.TaskStatus(status)
		t.Priority = core.TaskPriority(priority)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Create(ctx context.Context, t core.Task) (core.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return core.Task{}, errors.New("empty task title")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = core.TaskPending
	}
	if t.Priority == "" {
		t.Priority = core.PriorityMedium
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, assigned_to, due_date, status, priority)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.AssignedTo, fmtTime(t.DueDate), string(t.Status), string(t.Priority))
	if err != nil {
		return core.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status core.TaskStatus) error {
	switch status {
	case core.TaskPending, core.TaskInProgress, core.TaskCompleted:
	default:
		return fmt.Errorf("invalid task status %q", status)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

type PhotoRepository struct {
	db *sql.DB
}

func (r *PhotoRepository) List(ctx context.Context) ([]core.Photo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, caption, url, uploaded_by, uploaded_at FROM photos ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var photos []core.Photo
	for rows.Next() {
		var p core.Photo
		var uploaded string
		if err := rows.Scan(&p.ID, &p.Caption, &p.URL, &p.UploadedBy, &uploaded); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		p.UploadedAt = parseTime(uploaded)
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (r *PhotoRepository) Create(ctx context.Context, p core.Photo) (core.Photo, error) {
	if strings.TrimSpace(p.URL) == "" {
		return core.Photo{}, errors.New("empty photo url")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.UploadedAt.IsZero() {
		p.UploadedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO photos (id, caption, url, uploaded_by, uploaded_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Caption, p.URL, p.UploadedBy, fmtTime(p.UploadedAt))
	if err != nil {
		return core.Photo{}, fmt.Errorf("create photo: %w", err)
	}
	return p, nil
}

func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("photo %s: %w", id, ErrNotFound)
	}
	return nil
}
