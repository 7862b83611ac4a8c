package service

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"hoa-backend/internal/domain"
	"hoa-backend/pkg/redis"
)

// CacheService provides cache-aside helpers over Redis. Every method is a
// no-op when the client is nil, so services built without Redis (tests,
// local runs) behave identically minus the caching.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{redis: redisClient, logger: logger}
}

// GetPollTally returns a cached tally for the poll, or nil on miss
func (s *CacheService) GetPollTally(ctx context.Context, pollID int64) *domain.PollTally {
	if s.redis == nil {
		return nil
	}

	cached, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyPollTally(pollID))
	if err != nil || cached == "" {
		return nil
	}

	var tally domain.PollTally
	if err := json.Unmarshal([]byte(cached), &tally); err != nil {
		return nil
	}
	return &tally
}

// SetPollTally caches a freshly computed tally
func (s *CacheService) SetPollTally(ctx context.Context, pollID int64, tally *domain.PollTally) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(tally)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, s.redis.KeyBuilder.KeyPollTally(pollID), data, redis.TTLPollTally); err != nil {
		s.logger.Warn("failed to cache poll tally",
			zap.Int64("poll_id", pollID),
			zap.Error(err))
	}
}

// InvalidatePollTally drops the cached tally after a vote or poll mutation
func (s *CacheService) InvalidatePollTally(ctx context.Context, pollID int64) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Delete(ctx, s.redis.KeyBuilder.KeyPollTally(pollID)); err != nil {
		s.logger.Warn("failed to invalidate poll tally cache",
			zap.Int64("poll_id", pollID),
			zap.Error(err))
	}
}

// GetAnnualFeePaid returns the cached annual-paid flag, with ok=false on miss
func (s *CacheService) GetAnnualFeePaid(ctx context.Context, residentID int64, year int) (paid, ok bool) {
	if s.redis == nil {
		return false, false
	}

	cached, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyAnnualFeePaid(residentID, year))
	if err != nil || cached == "" {
		return false, false
	}

	parsed, err := strconv.ParseBool(cached)
	if err != nil {
		return false, false
	}
	return parsed, true
}

// SetAnnualFeePaid caches the annual-paid flag for a resident/year
func (s *CacheService) SetAnnualFeePaid(ctx context.Context, residentID int64, year int, paid bool) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, s.redis.KeyBuilder.KeyAnnualFeePaid(residentID, year), strconv.FormatBool(paid), redis.TTLAnnualFeePaid); err != nil {
		s.logger.Warn("failed to cache annual fee status",
			zap.Int64("resident_id", residentID),
			zap.Error(err))
	}
}

// InvalidateAnnualFeePaid drops the cached flag after a payment confirmation
func (s *CacheService) InvalidateAnnualFeePaid(ctx context.Context, residentID int64, year int) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Delete(ctx, s.redis.KeyBuilder.KeyAnnualFeePaid(residentID, year)); err != nil {
		s.logger.Warn("failed to invalidate annual fee cache",
			zap.Int64("resident_id", residentID),
			zap.Error(err))
	}
}
