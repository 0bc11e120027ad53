package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bukid/internal/core"
)

type UserRepository struct {
	db *sql.DB
}

const userColumns = `id, email, name, role, crops_planted, votes_cast, feedback_given, joined_at`

func scanUser(row interface{ Scan(...any) error }) (core.UserProfile, error) {
	var u core.UserProfile
	var role, joined string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.CropsPlanted, &u.VotesCast, &u.FeedbackGiven, &joined); err != nil {
		return core.UserProfile{}, err
	}
	u.Role = core.Role(role)
	u.JoinedAt = parseTime(joined)
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]core.UserProfile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY joined_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.UserProfile
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (core.UserProfile, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return core.UserProfile{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Upsert records a profile on first sight of an identity and refreshes name
// and role on every later visit. The role column mirrors the injected role
// policy; it is a cache of that decision, not the source of truth.
func (r *UserRepository) Upsert(ctx context.Context, u core.UserProfile) (core.UserProfile, error) {
	if u.Email == "" {
		return core.UserProfile{}, errors.New("empty user email")
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = core.RoleMember
	}
	if u.JoinedAt.IsZero() {
		u.JoinedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, role, crops_planted, votes_cast, feedback_given, joined_at)
		VALUES (?, ?, ?, ?, 0, 0, 0, ?)
		ON CONFLICT (email) DO UPDATE SET name = excluded.name, role = excluded.role`,
		u.ID, u.Email, u.Name, string(u.Role), fmtTime(u.JoinedAt))
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("upsert user: %w", err)
	}
	return r.GetByEmail(ctx, u.Email)
}

// BumpCounter increments one of the profile activity counters.
func (r *UserRepository) BumpCounter(ctx context.Context, email, counter string) error {
	var column string
	switch counter {
	case "crops":
		column = "crops_planted"
	case "votes":
		column = "votes_cast"
	case "feedback":
		column = "feedback_given"
	default:
		return fmt.Errorf("unknown activity counter %q", counter)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+column+` = `+column+` + 1 WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("bump %s counter: %w", counter, err)
	}
	return nil
}
