package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoa-backend/internal/domain"
)

func TestTally(t *testing.T) {
	poll := &domain.Poll{Options: []string{"Repave lot", "New playground", "Do nothing"}}

	t.Run("counts votes and computes percentage", func(t *testing.T) {
		votes := []domain.Vote{
			{UserID: 1, SelectedOptions: []int{0}},
			{UserID: 2, SelectedOptions: []int{0}},
			{UserID: 3, SelectedOptions: []int{1}},
		}

		tally := Tally(poll, votes)

		assert.Equal(t, []int{2, 1, 0}, tally.OptionVotes)
		assert.Equal(t, 3, tally.TotalVotes)
		assert.False(t, tally.IsTied)
		assert.Nil(t, tally.TiedIndices)

		require.NotNil(t, tally.Winner)
		assert.Equal(t, 0, tally.Winner.Index)
		assert.Equal(t, "Repave lot", tally.Winner.Text)
		assert.Equal(t, 2, tally.Winner.Votes)
		assert.InDelta(t, 66.67, tally.Winner.Percentage, 0.01)
	})

	t.Run("multi-select vote counts the voter once", func(t *testing.T) {
		votes := []domain.Vote{
			{UserID: 1, SelectedOptions: []int{0, 1}},
			{UserID: 2, SelectedOptions: []int{0}},
		}

		tally := Tally(poll, votes)

		assert.Equal(t, []int{2, 1, 0}, tally.OptionVotes)
		assert.Equal(t, 2, tally.TotalVotes)
		require.NotNil(t, tally.Winner)
		assert.Equal(t, 100.0, tally.Winner.Percentage)
	})

	t.Run("tie resolves to lowest index and exposes all tied options", func(t *testing.T) {
		votes := []domain.Vote{
			{UserID: 1, SelectedOptions: []int{0}},
			{UserID: 2, SelectedOptions: []int{1}},
		}

		tally := Tally(poll, votes)

		assert.True(t, tally.IsTied)
		assert.Equal(t, []int{0, 1}, tally.TiedIndices)
		require.NotNil(t, tally.Winner)
		assert.Equal(t, 0, tally.Winner.Index)
	})

	t.Run("no votes yields no winner", func(t *testing.T) {
		tally := Tally(poll, nil)

		assert.Equal(t, []int{0, 0, 0}, tally.OptionVotes)
		assert.Equal(t, 0, tally.TotalVotes)
		assert.Nil(t, tally.Winner)
		assert.False(t, tally.IsTied)
	})

	t.Run("out-of-range indices are skipped", func(t *testing.T) {
		votes := []domain.Vote{
			{UserID: 1, SelectedOptions: []int{7}},
			{UserID: 2, SelectedOptions: []int{2}},
		}

		tally := Tally(poll, votes)

		assert.Equal(t, []int{0, 0, 1}, tally.OptionVotes)
		assert.Equal(t, 2, tally.TotalVotes)
		require.NotNil(t, tally.Winner)
		assert.Equal(t, 2, tally.Winner.Index)
	})
}

func TestGroupVotesByPoll(t *testing.T) {
	votes := []domain.Vote{
		{PollID: 1, UserID: 10, SelectedOptions: []int{0}},
		{PollID: 2, UserID: 10, SelectedOptions: []int{1}},
		{PollID: 1, UserID: 11, SelectedOptions: []int{1}},
	}

	grouped := GroupVotesByPoll(votes)

	assert.Len(t, grouped, 2)
	assert.Len(t, grouped[1], 2)
	assert.Len(t, grouped[2], 1)
	assert.Empty(t, grouped[3])
}
