package http

import (
	"log/slog"
	"net/http"
	"time"

	"bukid/internal/core"
)

type userResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	CropsPlanted  int    `json:"crops_planted"`
	VotesCast     int    `json:"votes_cast"`
	FeedbackGiven int    `json:"feedback_given"`
	JoinedAt      string `json:"joined_at,omitempty"`
}

func toUserResponse(u core.UserProfile) userResponse {
	out := userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          string(u.Role),
		CropsPlanted:  u.CropsPlanted,
		VotesCast:     u.VotesCast,
		FeedbackGiven: u.FeedbackGiven,
	}
	if !u.JoinedAt.IsZero() {
		out.JoinedAt = u.JoinedAt.Format(time.RFC3339)
	}
	return out
}

// handleMe returns the caller's profile, creating it on first contact. The
// upsert also refreshes the stored role, so a policy change takes effect on
// the caller's next request.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	profile, err := s.store.Users.Upsert(r.Context(), core.UserProfile{
		Email: sess.Email,
		Name:  sess.Name,
		Role:  sess.Role,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, toUserResponse(profile))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.adminSession(w, r); !ok {
		return
	}

	users, err := s.store.Users.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	respondOK(w, out)
}

// bumpCounter increments a contribution counter without failing the request.
// The counter only moves for callers who have a profile row.
func (s *Server) bumpCounter(r *http.Request, email, counter string) {
	if email == "" {
		return
	}
	if err := s.store.Users.BumpCounter(r.Context(), email, counter); err != nil {
		slog.WarnContext(r.Context(), "Counter bump failed", "email", email, "counter", counter, "error", err)
	}
}
