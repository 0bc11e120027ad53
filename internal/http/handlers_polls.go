package http

import (
	"errors"
	"net/http"

	"bukid/internal/auth"
	"bukid/internal/core"
)

type createPollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	EndsAt   string   `json:"ends_at,omitempty"`
}

type voteRequest struct {
	OptionID string `json:"option_id"`
}

type pollOptionResponse struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

type pollResponse struct {
	ID            string               `json:"id"`
	Question      string               `json:"question"`
	Options       []pollOptionResponse `json:"options"`
	TotalVotes    int                  `json:"total_votes"`
	Status        string               `json:"status"`
	EndsAt        string               `json:"ends_at,omitempty"`
	CreatedByName string               `json:"created_by_name,omitempty"`
}

func toPollResponse(p core.Poll) pollResponse {
	percentages := p.Percentages()
	options := make([]pollOptionResponse, len(p.Options))
	for i, o := range p.Options {
		options[i] = pollOptionResponse{
			ID:         o.ID,
			Text:       o.Text,
			Votes:      o.Votes,
			Percentage: percentages[i],
		}
	}
	return pollResponse{
		ID:            p.ID,
		Question:      p.Question,
		Options:       options,
		TotalVotes:    p.TotalVotes,
		Status:        string(p.Status),
		EndsAt:        fmtDate(p.EndsAt),
		CreatedByName: p.CreatedByName,
	}
}

func (s *Server) handleListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := s.store.Polls.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]pollResponse, 0, len(polls))
	for _, p := range polls {
		out = append(out, toPollResponse(p))
	}
	respondOK(w, out)
}

func (s *Server) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.adminSession(w, r)
	if !ok {
		return
	}

	var req createPollRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	poll := core.Poll{
		Question:      req.Question,
		CreatedBy:     sess.UserID,
		CreatedByName: sess.Name,
	}
	for _, text := range req.Options {
		poll.Options = append(poll.Options, core.PollOption{Text: text})
	}
	if req.EndsAt != "" {
		endsAt, err := parseDate(req.EndsAt)
		if err != nil {
			respondError(w, r, err)
			return
		}
		poll.EndsAt = endsAt
	}

	created, err := s.store.Polls.Create(r.Context(), poll)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, toPollResponse(created))
}

// handleVote records a vote. Authenticated callers are held to one vote per
// poll via the voter ledger; an unauthenticated vote carries no voter id and
// is accepted without the duplicate check.
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var voterID, voterEmail string
	sess, err := s.session(r)
	switch {
	case err == nil:
		voterID = sess.UserID
		voterEmail = sess.Email
	case errors.Is(err, auth.ErrMissingToken):
		// anonymous vote
	default:
		respondError(w, r, err)
		return
	}

	var req voteRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	poll, err := s.store.Polls.CastVote(r.Context(), r.PathValue("id"), req.OptionID, voterID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if voterEmail != "" {
		s.bumpCounter(r, voterEmail, "votes")
	}
	respondOK(w, toPollResponse(poll))
}

func (s *Server) handleClosePoll(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.adminSession(w, r); !ok {
		return
	}
	if err := s.store.Polls.Close(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	poll, err := s.store.Polls.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, toPollResponse(poll))
}

func (s *Server) handlePollResults(w http.ResponseWriter, r *http.Request) {
	poll, err := s.store.Polls.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := poll.CheckConsistency(); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, toPollResponse(poll))
}
