package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hoa-backend/internal/domain"
	apperrors "hoa-backend/pkg/errors"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestPollService() (*PollService, *fakePollRepo, *fakeVoteRepo) {
	pollRepo := newFakePollRepo()
	voteRepo := newFakeVoteRepo()
	svc := NewPollService(pollRepo, voteRepo, NewCacheService(nil, zap.NewNop()), fixedClock{t: testNow}, zap.NewNop())
	return svc, pollRepo, voteRepo
}

func requireAppError(t *testing.T, err error, want apperrors.ErrorType) *apperrors.AppError {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, want, appErr.Type)
	return appErr
}

func makeOptions(n int) []string {
	options := make([]string, n)
	for i := range options {
		options[i] = fmt.Sprintf("Option %d", i+1)
	}
	return options
}

func TestCreatePoll(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		optionCount int
		wantErr     bool
	}{
		{"no options", "Budget vote", 0, true},
		{"one option", "Budget vote", 1, true},
		{"two options", "Budget vote", 2, false},
		{"ten options", "Budget vote", 10, false},
		{"eleven options", "Budget vote", 11, true},
		{"missing title", "  ", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestPollService()

			poll, err := svc.CreatePoll(context.Background(), 1, &domain.CreatePollRequest{
				Title:   tt.title,
				Options: makeOptions(tt.optionCount),
			})

			if tt.wantErr {
				requireAppError(t, err, apperrors.ErrorTypeValidation)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, poll.ID)
			assert.True(t, poll.IsActive)
			assert.Equal(t, testNow, poll.CreatedAt)
		})
	}

	t.Run("blank option text rejected", func(t *testing.T) {
		svc, _, _ := newTestPollService()

		_, err := svc.CreatePoll(context.Background(), 1, &domain.CreatePollRequest{
			Title:   "Budget vote",
			Options: []string{"Yes", "   "},
		})

		requireAppError(t, err, apperrors.ErrorTypeValidation)
	})
}

func TestUpdatePoll(t *testing.T) {
	t.Run("only supplied fields change", func(t *testing.T) {
		svc, _, _ := newTestPollService()
		poll, err := svc.CreatePoll(context.Background(), 1, &domain.CreatePollRequest{
			Title:       "Budget vote",
			Description: "Annual budget",
			Options:     makeOptions(3),
		})
		require.NoError(t, err)

		newTitle := "Revised budget vote"
		updated, err := svc.UpdatePoll(context.Background(), poll.ID, &domain.UpdatePollRequest{
			Title: &newTitle,
		})
		require.NoError(t, err)

		assert.Equal(t, newTitle, updated.Title)
		assert.Equal(t, "Annual budget", updated.Description)
		assert.Equal(t, makeOptions(3), updated.Options)
	})

	t.Run("patched options are re-validated", func(t *testing.T) {
		svc, _, _ := newTestPollService()
		poll, err := svc.CreatePoll(context.Background(), 1, &domain.CreatePollRequest{
			Title:   "Budget vote",
			Options: makeOptions(3),
		})
		require.NoError(t, err)

		_, err = svc.UpdatePoll(context.Background(), poll.ID, &domain.UpdatePollRequest{
			Options: makeOptions(11),
		})
		requireAppError(t, err, apperrors.ErrorTypeValidation)
	})

	t.Run("unknown poll", func(t *testing.T) {
		svc, _, _ := newTestPollService()

		_, err := svc.UpdatePoll(context.Background(), 99, &domain.UpdatePollRequest{})
		requireAppError(t, err, apperrors.ErrorTypeNotFound)
	})
}

func TestSubmitVote(t *testing.T) {
	newVotablePoll := func(t *testing.T, svc *PollService, mutate func(*domain.CreatePollRequest)) *domain.Poll {
		t.Helper()
		req := &domain.CreatePollRequest{Title: "Budget vote", Options: makeOptions(3)}
		if mutate != nil {
			mutate(req)
		}
		poll, err := svc.CreatePoll(context.Background(), 1, req)
		require.NoError(t, err)
		return poll
	}

	t.Run("records a vote", func(t *testing.T) {
		svc, _, voteRepo := newTestPollService()
		poll := newVotablePoll(t, svc, nil)

		vote, err := svc.SubmitVote(context.Background(), poll.ID, 42, []int{1})
		require.NoError(t, err)
		assert.Equal(t, []int{1}, vote.SelectedOptions)

		stored, err := voteRepo.GetByPollAndUser(context.Background(), poll.ID, 42)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, []int{1}, stored.SelectedOptions)
	})

	t.Run("resubmission overwrites in place and keeps the original vote time", func(t *testing.T) {
		svc, _, voteRepo := newTestPollService()
		poll := newVotablePoll(t, svc, nil)

		firstVoteAt := testNow.Add(-48 * time.Hour)
		require.NoError(t, voteRepo.Upsert(context.Background(), &domain.Vote{
			PollID:          poll.ID,
			UserID:          42,
			SelectedOptions: []int{0},
			CreatedAt:       firstVoteAt,
		}))

		vote, err := svc.SubmitVote(context.Background(), poll.ID, 42, []int{2})
		require.NoError(t, err)
		assert.Equal(t, []int{2}, vote.SelectedOptions)
		assert.Equal(t, firstVoteAt, vote.CreatedAt)

		votes, err := voteRepo.ListByPoll(context.Background(), poll.ID)
		require.NoError(t, err)
		assert.Len(t, votes, 1)
	})

	t.Run("inactive poll rejects the vote", func(t *testing.T) {
		svc, _, voteRepo := newTestPollService()
		poll := newVotablePoll(t, svc, nil)
		_, err := svc.ToggleActive(context.Background(), poll.ID)
		require.NoError(t, err)

		_, err = svc.SubmitVote(context.Background(), poll.ID, 42, []int{0})
		requireAppError(t, err, apperrors.ErrorTypeState)

		votes, err := voteRepo.ListByPoll(context.Background(), poll.ID)
		require.NoError(t, err)
		assert.Empty(t, votes)
	})

	t.Run("expired poll rejects the vote", func(t *testing.T) {
		svc, _, voteRepo := newTestPollService()
		expired := testNow.Add(-time.Hour)
		poll := newVotablePoll(t, svc, func(req *domain.CreatePollRequest) {
			req.ExpiresAt = &expired
		})

		_, err := svc.SubmitVote(context.Background(), poll.ID, 42, []int{0})
		requireAppError(t, err, apperrors.ErrorTypeState)

		votes, err := voteRepo.ListByPoll(context.Background(), poll.ID)
		require.NoError(t, err)
		assert.Empty(t, votes)
	})

	t.Run("option index out of range", func(t *testing.T) {
		svc, _, _ := newTestPollService()
		poll := newVotablePoll(t, svc, nil)

		_, err := svc.SubmitVote(context.Background(), poll.ID, 42, []int{3})
		requireAppError(t, err, apperrors.ErrorTypeValidation)

		_, err = svc.SubmitVote(context.Background(), poll.ID, 42, []int{-1})
		requireAppError(t, err, apperrors.ErrorTypeValidation)
	})

	t.Run("multiple selections on a single-choice poll", func(t *testing.T) {
		svc, _, _ := newTestPollService()
		poll := newVotablePoll(t, svc, nil)

		_, err := svc.SubmitVote(context.Background(), poll.ID, 42, []int{0, 1})
		requireAppError(t, err, apperrors.ErrorTypeState)
	})

	t.Run("multiple selections allowed when the poll permits them", func(t *testing.T) {
		svc, _, _ := newTestPollService()
		poll := newVotablePoll(t, svc, func(req *domain.CreatePollRequest) {
			req.AllowMultipleVotes = true
		})

		vote, err := svc.SubmitVote(context.Background(), poll.ID, 42, []int{0, 2})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 2}, vote.SelectedOptions)
	})

	t.Run("empty selection", func(t *testing.T) {
		svc, _, _ := newTestPollService()
		poll := newVotablePoll(t, svc, nil)

		_, err := svc.SubmitVote(context.Background(), poll.ID, 42, nil)
		requireAppError(t, err, apperrors.ErrorTypeValidation)
	})

	t.Run("unknown poll", func(t *testing.T) {
		svc, _, _ := newTestPollService()

		_, err := svc.SubmitVote(context.Background(), 99, 42, []int{0})
		requireAppError(t, err, apperrors.ErrorTypeNotFound)
	})
}

func TestGetPoll(t *testing.T) {
	svc, _, _ := newTestPollService()
	poll, err := svc.CreatePoll(context.Background(), 1, &domain.CreatePollRequest{
		Title:   "Budget vote",
		Options: makeOptions(2),
	})
	require.NoError(t, err)

	_, err = svc.SubmitVote(context.Background(), poll.ID, 42, []int{1})
	require.NoError(t, err)

	result, err := svc.GetPoll(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.Equal(t, poll.ID, result.Poll.ID)
	assert.Equal(t, []int{0, 1}, result.Tally.OptionVotes)
	assert.Equal(t, 1, result.Tally.TotalVotes)

	_, err = svc.GetPoll(context.Background(), 99)
	requireAppError(t, err, apperrors.ErrorTypeNotFound)
}

func TestListPolls(t *testing.T) {
	ctx := context.Background()
	expired := testNow.Add(-time.Hour)

	setup := func(t *testing.T) (*PollService, *fakeVoteRepo, []int64) {
		t.Helper()
		svc, _, voteRepo := newTestPollService()

		active, err := svc.CreatePoll(ctx, 1, &domain.CreatePollRequest{Title: "Active", Options: makeOptions(2)})
		require.NoError(t, err)
		expiredPoll, err := svc.CreatePoll(ctx, 1, &domain.CreatePollRequest{Title: "Expired", Options: makeOptions(2), ExpiresAt: &expired})
		require.NoError(t, err)
		inactive, err := svc.CreatePoll(ctx, 1, &domain.CreatePollRequest{Title: "Inactive", Options: makeOptions(2)})
		require.NoError(t, err)
		_, err = svc.ToggleActive(ctx, inactive.ID)
		require.NoError(t, err)

		return svc, voteRepo, []int64{active.ID, expiredPoll.ID, inactive.ID}
	}

	t.Run("tallies the whole batch from one vote scan", func(t *testing.T) {
		svc, voteRepo, ids := setup(t)

		_, err := svc.SubmitVote(ctx, ids[0], 42, []int{0})
		require.NoError(t, err)
		voteRepo.listAllCalls = 0

		results, err := svc.ListPolls(ctx, domain.PollFilter{IncludeExpired: true})
		require.NoError(t, err)

		assert.Len(t, results, 3)
		assert.Equal(t, 1, voteRepo.listAllCalls)

		tallies := make(map[int64]int, len(results))
		for _, result := range results {
			tallies[result.Poll.ID] = result.Tally.TotalVotes
		}
		assert.Equal(t, 1, tallies[ids[0]])
		assert.Equal(t, 0, tallies[ids[1]])
	})

	t.Run("expired polls are hidden by default", func(t *testing.T) {
		svc, _, ids := setup(t)

		results, err := svc.ListPolls(ctx, domain.PollFilter{})
		require.NoError(t, err)

		gotIDs := make([]int64, 0, len(results))
		for _, result := range results {
			gotIDs = append(gotIDs, result.Poll.ID)
		}
		assert.ElementsMatch(t, []int64{ids[0], ids[2]}, gotIDs)
	})

	t.Run("active-only excludes deactivated polls", func(t *testing.T) {
		svc, _, ids := setup(t)

		results, err := svc.ListPolls(ctx, domain.PollFilter{ActiveOnly: true})
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.Equal(t, ids[0], results[0].Poll.ID)
	})
}

func TestDeletePoll(t *testing.T) {
	ctx := context.Background()
	svc, pollRepo, voteRepo := newTestPollService()

	poll, err := svc.CreatePoll(ctx, 1, &domain.CreatePollRequest{Title: "Budget vote", Options: makeOptions(2)})
	require.NoError(t, err)
	_, err = svc.SubmitVote(ctx, poll.ID, 42, []int{0})
	require.NoError(t, err)
	_, err = svc.SubmitVote(ctx, poll.ID, 43, []int{1})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePoll(ctx, poll.ID))

	stored, err := pollRepo.GetByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	votes, err := voteRepo.ListByPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Empty(t, votes)

	requireAppError(t, svc.DeletePoll(ctx, poll.ID), apperrors.ErrorTypeNotFound)
}

func TestToggleActive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPollService()

	poll, err := svc.CreatePoll(ctx, 1, &domain.CreatePollRequest{Title: "Budget vote", Options: makeOptions(2)})
	require.NoError(t, err)

	toggled, err := svc.ToggleActive(ctx, poll.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = svc.ToggleActive(ctx, poll.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	_, err = svc.ToggleActive(ctx, 99)
	requireAppError(t, err, apperrors.ErrorTypeNotFound)
}

func TestGetAllUserVotes(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPollService()

	first, err := svc.CreatePoll(ctx, 1, &domain.CreatePollRequest{Title: "First", Options: makeOptions(2)})
	require.NoError(t, err)
	second, err := svc.CreatePoll(ctx, 1, &domain.CreatePollRequest{Title: "Second", Options: makeOptions(2)})
	require.NoError(t, err)

	_, err = svc.SubmitVote(ctx, first.ID, 42, []int{0})
	require.NoError(t, err)
	_, err = svc.SubmitVote(ctx, second.ID, 42, []int{1})
	require.NoError(t, err)
	_, err = svc.SubmitVote(ctx, second.ID, 42, []int{0})
	require.NoError(t, err)

	votes, err := svc.GetAllUserVotes(ctx, 42)
	require.NoError(t, err)

	assert.Len(t, votes, 2)
	assert.Equal(t, []int{0}, votes[first.ID])
	assert.Equal(t, []int{0}, votes[second.ID])
}
