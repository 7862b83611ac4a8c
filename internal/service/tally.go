package service

import "hoa-backend/internal/domain"

// Tally computes the vote breakdown for a poll. It is a pure function over
// the poll's option list and its votes; results are recomputed on every read
// and never stored.
//
// Each vote counts once toward TotalVotes regardless of how many options it
// selected. The winner is the lowest index among the options holding the
// maximum count; all tied indices are exposed via TiedIndices.
func Tally(poll *domain.Poll, votes []domain.Vote) domain.PollTally {
	optionVotes := make([]int, len(poll.Options))
	for _, vote := range votes {
		for _, idx := range vote.SelectedOptions {
			if idx >= 0 && idx < len(optionVotes) {
				optionVotes[idx]++
			}
		}
	}

	tally := domain.PollTally{
		OptionVotes: optionVotes,
		TotalVotes:  len(votes),
	}

	if tally.TotalVotes == 0 {
		return tally
	}

	maxVotes := optionVotes[0]
	for _, count := range optionVotes[1:] {
		if count > maxVotes {
			maxVotes = count
		}
	}

	var winningIndices []int
	for i, count := range optionVotes {
		if count == maxVotes {
			winningIndices = append(winningIndices, i)
		}
	}

	tally.IsTied = len(winningIndices) > 1
	if tally.IsTied {
		tally.TiedIndices = winningIndices
	}

	winner := winningIndices[0]
	tally.Winner = &domain.WinningOption{
		Index:      winner,
		Text:       poll.Options[winner],
		Votes:      maxVotes,
		Percentage: float64(maxVotes) / float64(tally.TotalVotes) * 100,
	}

	return tally
}

// GroupVotesByPoll buckets a single full vote scan by poll ID. Batch list
// reads call this once and reuse the grouping for every poll in the batch
// instead of issuing a per-poll query.
func GroupVotesByPoll(votes []domain.Vote) map[int64][]domain.Vote {
	grouped := make(map[int64][]domain.Vote)
	for _, vote := range votes {
		grouped[vote.PollID] = append(grouped[vote.PollID], vote)
	}
	return grouped
}
