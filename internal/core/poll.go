package core

import "fmt"

// Percentages returns each option's share of the vote rounded to the
// nearest whole percent, in option order. A poll with no votes yields all
// zeros rather than a division error.
func (p Poll) Percentages() []int {
	out := make([]int, len(p.Options))
	if p.TotalVotes <= 0 {
		return out
	}
	for i, opt := range p.Options {
		out[i] = int((float64(opt.Votes)/float64(p.TotalVotes))*100 + 0.5)
	}
	return out
}

// CheckConsistency reports whether the denormalized total still matches the
// per-option counts. A mismatch means some path bypassed ApplyVote; it is
// reported, never auto-repaired, so the upstream bug stays visible.
func (p Poll) CheckConsistency() error {
	sum := 0
	for _, opt := range p.Options {
		if opt.Votes < 0 {
			return fmt.Errorf("option %s: negative vote count %d: %w", opt.ID, opt.Votes, ErrInconsistentTally)
		}
		sum += opt.Votes
	}
	if sum != p.TotalVotes {
		return fmt.Errorf("total %d, option sum %d: %w", p.TotalVotes, sum, ErrInconsistentTally)
	}
	return nil
}

// ApplyVote returns a copy of the poll with one vote added to the given
// option. It is the single path that changes vote counts, keeping
// TotalVotes equal to the option sum. A non-empty voterID is checked against
// the voter ledger and recorded; an empty voterID is an anonymous submission
// and bypasses the ledger, matching the one-vote-per-submission behavior
// when no identity is available. The input poll is never modified.
func ApplyVote(p Poll, optionID, voterID string) (Poll, error) {
	if p.Status == PollClosed {
		return Poll{}, ErrPollClosed
	}
	if voterID != "" {
		for _, v := range p.Voters {
			if v == voterID {
				return Poll{}, ErrAlreadyVoted
			}
		}
	}

	idx := -1
	for i, opt := range p.Options {
		if opt.ID == optionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Poll{}, fmt.Errorf("option %q: %w", optionID, ErrOptionNotFound)
	}

	next := p
	next.Options = make([]PollOption, len(p.Options))
	copy(next.Options, p.Options)
	next.Options[idx].Votes++
	next.TotalVotes++
	if voterID != "" {
		next.Voters = make([]string, len(p.Voters), len(p.Voters)+1)
		copy(next.Voters, p.Voters)
		next.Voters = append(next.Voters, voterID)
	}
	return next, nil
}
