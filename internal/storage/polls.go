package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bukid/internal/core"
)

type PollRepository struct {
	db *sql.DB
}

func (r *PollRepository) List(ctx context.Context) ([]core.Poll, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, question, total_votes, status, ends_at, created_by, created_by_name
		FROM polls ORDER BY ends_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}
	defer rows.Close()

	var polls []core.Poll
	for rows.Next() {
		var p core.Poll
		var status, endsAt string
		if err := rows.Scan(&p.ID, &p.Question, &p.TotalVotes, &status, &endsAt, &p.CreatedBy, &p.CreatedByName); err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		p.Status = core.PollStatus(status)
		p.EndsAt = parseTime(endsAt)
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range polls {
		if err := r.loadDetails(ctx, &polls[i]); err != nil {
			return nil, err
		}
	}
	return polls, nil
}

func (r *PollRepository) Get(ctx context.Context, id string) (core.Poll, error) {
	var p core.Poll
	var status, endsAt string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, question, total_votes, status, ends_at, created_by, created_by_name
		FROM polls WHERE id = ?`, id).
		Scan(&p.ID, &p.Question, &p.TotalVotes, &status, &endsAt, &p.CreatedBy, &p.CreatedByName)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Poll{}, fmt.Errorf("poll %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Poll{}, fmt.Errorf("get poll: %w", err)
	}
	p.Status = core.PollStatus(status)
	p.EndsAt = parseTime(endsAt)
	if err := r.loadDetails(ctx, &p); err != nil {
		return core.Poll{}, err
	}
	return p, nil
}

func (r *PollRepository) loadDetails(ctx context.Context, p *core.Poll) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, option_text, votes FROM poll_options
		WHERE poll_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("list poll options: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var opt core.PollOption
		if err := rows.Scan(&opt.ID, &opt.Text, &opt.Votes); err != nil {
			return fmt.Errorf("scan poll option: %w", err)
		}
		p.Options = append(p.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	vrows, err := r.db.QueryContext(ctx, `SELECT voter_id FROM poll_voters WHERE poll_id = ?`, p.ID)
	if err != nil {
		return fmt.Errorf("list poll voters: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		var voter string
		if err := vrows.Scan(&voter); err != nil {
			return fmt.Errorf("scan poll voter: %w", err)
		}
		p.Voters = append(p.Voters, voter)
	}
	return vrows.Err()
}

func (r *PollRepository) Create(ctx context.Context, p core.Poll) (core.Poll, error) {
	if p.Question == "" {
		return core.Poll{}, errors.New("empty poll question")
	}
	if len(p.Options) < 2 {
		return core.Poll{}, errors.New("a poll needs at least two options")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = core.PollActive
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Poll{}, fmt.Errorf("begin poll create: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO polls (id, question, total_votes, status, ends_at, created_by, created_by_name)
		VALUES (?, ?, 0, ?, ?, ?, ?)`,
		p.ID, p.Question, string(p.Status), fmtTime(p.EndsAt), p.CreatedBy, p.CreatedByName)
	if err != nil {
		return core.Poll{}, fmt.Errorf("create poll: %w", err)
	}
	for i := range p.Options {
		if p.Options[i].ID == "" {
			p.Options[i].ID = uuid.NewString()
		}
		p.Options[i].Votes = 0
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_options (id, poll_id, option_text, votes, position)
			VALUES (?, ?, ?, 0, ?)`,
			p.Options[i].ID, p.ID, p.Options[i].Text, i)
		if err != nil {
			return core.Poll{}, fmt.Errorf("create poll option: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return core.Poll{}, fmt.Errorf("commit poll create: %w", err)
	}
	p.TotalVotes = 0
	p.Voters = nil
	return p, nil
}

// CastVote runs the tally update as one transaction: option count, total,
// and voter ledger move together or not at all. The vote semantics live in
// core.ApplyVote; this only persists its result.
func (r *PollRepository) CastVote(ctx context.Context, pollID, optionID, voterID string) (core.Poll, error) {
	poll, err := r.Get(ctx, pollID)
	if err != nil {
		return core.Poll{}, err
	}
	if err := poll.CheckConsistency(); err != nil {
		return core.Poll{}, err
	}

	voted, err := core.ApplyVote(poll, optionID, voterID)
	if err != nil {
		return core.Poll{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Poll{}, fmt.Errorf("begin vote: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE poll_options SET votes = votes + 1 WHERE poll_id = ? AND id = ?`,
		pollID, optionID)
	if err != nil {
		return core.Poll{}, fmt.Errorf("increment option votes: %w", err)
	}
	_, err = tx.ExecContext(ctx, `UPDATE polls SET total_votes = total_votes + 1 WHERE id = ?`, pollID)
	if err != nil {
		return core.Poll{}, fmt.Errorf("increment total votes: %w", err)
	}
	if voterID != "" {
		// The primary key doubles as the uniqueness guard against a
		// concurrent duplicate vote.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_voters (poll_id, voter_id, voted_at) VALUES (?, ?, ?)`,
			pollID, voterID, fmtTime(time.Now()))
		if err != nil {
			return core.Poll{}, fmt.Errorf("%w: %v", core.ErrAlreadyVoted, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return core.Poll{}, fmt.Errorf("commit vote: %w", err)
	}

	slog.InfoContext(ctx, "Vote recorded",
		"poll_id", pollID,
		"option_id", optionID,
		"total_votes", voted.TotalVotes)
	return voted, nil
}

func (r *PollRepository) Close(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE polls SET status = ? WHERE id = ?`, string(core.PollClosed), id)
	if err != nil {
		return fmt.Errorf("close poll: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("poll %s: %w", id, ErrNotFound)
	}
	return nil
}
