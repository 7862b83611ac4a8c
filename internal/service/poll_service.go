package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hoa-backend/internal/domain"
	"hoa-backend/internal/repository"
	"hoa-backend/pkg/errors"
)

// PollService implements the poll engine: creation, patch updates, idempotent
// voting and on-read tallying.
type PollService struct {
	pollRepo repository.PollRepository
	voteRepo repository.VoteRepository
	cache    *CacheService
	clock    Clock
	logger   *zap.Logger
}

func NewPollService(pollRepo repository.PollRepository, voteRepo repository.VoteRepository, cache *CacheService, clock Clock, logger *zap.Logger) *PollService {
	return &PollService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		cache:    cache,
		clock:    clock,
		logger:   logger,
	}
}

// CreatePoll validates and persists a new poll
func (s *PollService) CreatePoll(ctx context.Context, createdBy int64, req *domain.CreatePollRequest) (*domain.Poll, error) {
	if err := validateOptions(req.Options); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.NewValidationError("poll title is required", nil)
	}

	now := s.clock.Now()
	poll := &domain.Poll{
		Title:              req.Title,
		Description:        req.Description,
		Options:            req.Options,
		AllowMultipleVotes: req.AllowMultipleVotes,
		ExpiresAt:          req.ExpiresAt,
		IsActive:           true,
		CreatedBy:          createdBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.pollRepo.Create(ctx, poll); err != nil {
		return nil, errors.NewInternalError("failed to create poll", err)
	}

	s.logger.Info("poll created",
		zap.Int64("poll_id", poll.ID),
		zap.Int64("created_by", createdBy),
		zap.Int("options", len(poll.Options)))

	return poll, nil
}

// UpdatePoll applies a partial update. Only supplied fields change; the
// option-count bounds are re-checked whenever the option list is part of the
// patch.
func (s *PollService) UpdatePoll(ctx context.Context, id int64, req *domain.UpdatePollRequest) (*domain.Poll, error) {
	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load poll", err)
	}
	if poll == nil {
		return nil, errors.NewNotFoundError("poll not found")
	}

	if req.Options != nil {
		if err := validateOptions(req.Options); err != nil {
			return nil, err
		}
		poll.Options = req.Options
	}
	if req.Title != nil {
		poll.Title = *req.Title
	}
	if req.Description != nil {
		poll.Description = *req.Description
	}
	if req.AllowMultipleVotes != nil {
		poll.AllowMultipleVotes = *req.AllowMultipleVotes
	}
	if req.ExpiresAt != nil {
		poll.ExpiresAt = req.ExpiresAt
	}
	if req.IsActive != nil {
		poll.IsActive = *req.IsActive
	}
	poll.UpdatedAt = s.clock.Now()

	if err := s.pollRepo.Update(ctx, poll); err != nil {
		return nil, errors.NewInternalError("failed to update poll", err)
	}

	s.cache.InvalidatePollTally(ctx, id)

	return poll, nil
}

// SubmitVote records a resident's selection on a poll. Voting is idempotent
// per resident: a resubmission overwrites the prior selection in place and
// the original vote time is preserved.
func (s *PollService) SubmitVote(ctx context.Context, pollID, userID int64, selectedOptions []int) (*domain.Vote, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load poll", err)
	}
	if poll == nil {
		return nil, errors.NewNotFoundError("poll not found")
	}

	now := s.clock.Now()
	if !poll.IsActive {
		return nil, errors.NewStateError("poll is not active")
	}
	if poll.ExpiresAt != nil && !poll.ExpiresAt.After(now) {
		return nil, errors.NewStateError("poll has expired")
	}

	for _, idx := range selectedOptions {
		if idx < 0 || idx >= len(poll.Options) {
			return nil, errors.NewValidationError(
				fmt.Sprintf("option index %d is out of range", idx),
				map[string]interface{}{"option_count": len(poll.Options)})
		}
	}
	if !poll.AllowMultipleVotes && len(selectedOptions) > 1 {
		return nil, errors.NewStateError("poll does not allow multiple selections")
	}
	if len(selectedOptions) == 0 {
		return nil, errors.NewValidationError("at least one option must be selected", nil)
	}

	vote := &domain.Vote{
		PollID:          pollID,
		UserID:          userID,
		SelectedOptions: selectedOptions,
		CreatedAt:       now,
	}
	if err := s.voteRepo.Upsert(ctx, vote); err != nil {
		return nil, errors.NewInternalError("failed to save vote", err)
	}

	s.cache.InvalidatePollTally(ctx, pollID)

	s.logger.Info("vote recorded",
		zap.Int64("poll_id", pollID),
		zap.Int64("user_id", userID),
		zap.Ints("selected_options", selectedOptions))

	return vote, nil
}

// GetPoll retrieves one poll with its current tally
func (s *PollService) GetPoll(ctx context.Context, id int64) (*domain.PollWithTally, error) {
	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load poll", err)
	}
	if poll == nil {
		return nil, errors.NewNotFoundError("poll not found")
	}

	if cached := s.cache.GetPollTally(ctx, id); cached != nil {
		return &domain.PollWithTally{Poll: *poll, Tally: *cached}, nil
	}

	votes, err := s.voteRepo.ListByPoll(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load votes", err)
	}

	tally := Tally(poll, votes)
	s.cache.SetPollTally(ctx, id, &tally)

	return &domain.PollWithTally{Poll: *poll, Tally: tally}, nil
}

// ListPolls retrieves polls matching the filter, each with its tally. All
// votes are fetched in one scan and grouped by poll in memory; the grouping
// is reused across every poll in the batch.
func (s *PollService) ListPolls(ctx context.Context, filter domain.PollFilter) ([]domain.PollWithTally, error) {
	polls, err := s.pollRepo.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list polls", err)
	}

	votes, err := s.voteRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to load votes", err)
	}
	grouped := GroupVotesByPoll(votes)

	now := s.clock.Now()
	results := make([]domain.PollWithTally, 0, len(polls))
	for i := range polls {
		poll := polls[i]
		if filter.ActiveOnly && !poll.IsActive {
			continue
		}
		if !filter.IncludeExpired && poll.ExpiresAt != nil && !poll.ExpiresAt.After(now) {
			continue
		}
		results = append(results, domain.PollWithTally{
			Poll:  poll,
			Tally: Tally(&poll, grouped[poll.ID]),
		})
	}

	return results, nil
}

// DeletePoll removes a poll and all of its votes. The cascade is two
// best-effort steps, not a transaction: a failure between them leaves the
// votes gone and the poll in place, and the caller sees the whole operation
// as failed.
func (s *PollService) DeletePoll(ctx context.Context, id int64) error {
	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return errors.NewInternalError("failed to load poll", err)
	}
	if poll == nil {
		return errors.NewNotFoundError("poll not found")
	}

	if err := s.voteRepo.DeleteByPoll(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete poll votes", err)
	}
	if err := s.pollRepo.Delete(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete poll", err)
	}

	s.cache.InvalidatePollTally(ctx, id)

	s.logger.Info("poll deleted", zap.Int64("poll_id", id))
	return nil
}

// ToggleActive flips the poll's active flag
func (s *PollService) ToggleActive(ctx context.Context, id int64) (*domain.Poll, error) {
	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load poll", err)
	}
	if poll == nil {
		return nil, errors.NewNotFoundError("poll not found")
	}

	poll.IsActive = !poll.IsActive
	poll.UpdatedAt = s.clock.Now()

	if err := s.pollRepo.Update(ctx, poll); err != nil {
		return nil, errors.NewInternalError("failed to update poll", err)
	}

	s.cache.InvalidatePollTally(ctx, id)

	return poll, nil
}

// GetUserVote retrieves one resident's vote on a poll, nil if they have not
// voted
func (s *PollService) GetUserVote(ctx context.Context, pollID, userID int64) (*domain.Vote, error) {
	vote, err := s.voteRepo.GetByPollAndUser(ctx, pollID, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load vote", err)
	}
	return vote, nil
}

// GetAllUserVotes returns a poll-ID → selection map for the resident. There
// is at most one entry per poll.
func (s *PollService) GetAllUserVotes(ctx context.Context, userID int64) (map[int64][]int, error) {
	votes, err := s.voteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load votes", err)
	}

	result := make(map[int64][]int, len(votes))
	for _, vote := range votes {
		result[vote.PollID] = vote.SelectedOptions
	}
	return result, nil
}

func validateOptions(options []string) error {
	if len(options) < domain.MinPollOptions || len(options) > domain.MaxPollOptions {
		return errors.NewValidationError(
			fmt.Sprintf("polls must have between %d and %d options", domain.MinPollOptions, domain.MaxPollOptions),
			map[string]interface{}{"option_count": len(options)})
	}
	for i, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return errors.NewValidationError(
				fmt.Sprintf("option %d is empty", i), nil)
		}
	}
	return nil
}
