// Package arena owns the competitive bookkeeping: Elo ratings for
// players and AI stacks, leaderboards, and the persistence of finished
// matches and simulation runs.
package arena

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/repository/postgres"
	"github.com/iamasit07/connect4-ai/internal/sim"
)

const playerLeaderboardKey = "leaderboard:players"
const stackLeaderboardKey = "leaderboard:stacks"
const leaderboardTTL = 30 * time.Second

type MatchRepository interface {
	SaveMatch(m postgres.MatchRecord) error
	GetUserMatchHistory(userID int64, limit int) ([]postgres.MatchRecord, error)
	GetMatchByID(matchID string) (*postgres.MatchRecord, error)
	SaveSimRun(run postgres.SimRunRecord) error
	ListSimRuns(limit int) ([]postgres.SimRunRecord, error)
	GetStackRating(stack string) (int, error)
	UpdateStackRating(stack string, rating, games, wins int) error
	UpdateStackRatings(stackA string, ratingA, winsA int, stackB string, ratingB, winsB int, games int) error
	GetStackLeaderboard() ([]postgres.StackRating, error)
}

type UserRepository interface {
	GetUserByID(userID int64) (*postgres.User, error)
	UpdateRating(userID int64, rating int) error
	GetLeaderboard() ([]postgres.PlayerStats, error)
}

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type Service struct {
	matches MatchRepository
	users   UserRepository
	cache   CacheRepository // Optional, can be nil
}

func NewService(matches MatchRepository, users UserRepository, cache CacheRepository) *Service {
	return &Service{matches: matches, users: users, cache: cache}
}

// RecordHumanMatch persists a finished human-versus-AI match and moves
// both the player's and the stack's Elo ratings.
func (s *Service) RecordHumanMatch(m postgres.MatchRecord) error {
	user, err := s.users.GetUserByID(m.UserID)
	if err != nil {
		return fmt.Errorf("failed to load player: %v", err)
	}
	if user == nil {
		return fmt.Errorf("unknown player %d", m.UserID)
	}

	stackRating, err := s.matches.GetStackRating(m.Stack)
	if err != nil {
		return err
	}

	var userScore float64
	switch m.Outcome {
	case "user":
		userScore = 1.0
	case "draw":
		userScore = 0.5
	}

	newUserRating := domain.CalculateElo(user.Rating, stackRating, userScore)
	newStackRating := domain.CalculateElo(stackRating, user.Rating, 1.0-userScore)

	if err := s.matches.SaveMatch(m); err != nil {
		return err
	}
	if err := s.users.UpdateRating(m.UserID, newUserRating); err != nil {
		return err
	}
	stackWins := 0
	if m.Outcome == "ai" {
		stackWins = 1
	}
	if err := s.matches.UpdateStackRating(m.Stack, newStackRating, 1, stackWins); err != nil {
		log.Printf("[ARENA] Warning: failed to update stack rating: %v", err)
	}

	s.invalidateLeaderboards()
	return nil
}

// RecordSimRun persists a run and rates the two stacks against each
// other using the aggregate score of the series.
func (s *Service) RecordSimRun(result sim.Result) error {
	run := postgres.SimRunRecord{
		RunID:     result.RunID,
		StackA:    result.StackA,
		StackB:    result.StackB,
		Games:     result.Games,
		WinsA:     result.WinsA,
		WinsB:     result.WinsB,
		Draws:     result.Draws,
		Moves:     result.Moves,
		ElapsedMS: result.Elapsed.Milliseconds(),
	}
	if err := s.matches.SaveSimRun(run); err != nil {
		return err
	}

	// Self-play teaches Elo nothing.
	if result.StackA == result.StackB || result.Games == 0 {
		return nil
	}

	ratingA, err := s.matches.GetStackRating(result.StackA)
	if err != nil {
		return err
	}
	ratingB, err := s.matches.GetStackRating(result.StackB)
	if err != nil {
		return err
	}

	scoreA := (float64(result.WinsA) + 0.5*float64(result.Draws)) / float64(result.Games)
	newA := domain.CalculateElo(ratingA, ratingB, scoreA)
	newB := domain.CalculateElo(ratingB, ratingA, 1.0-scoreA)

	if err := s.matches.UpdateStackRatings(result.StackA, newA, result.WinsA, result.StackB, newB, result.WinsB, result.Games); err != nil {
		return err
	}
	s.invalidateLeaderboards()
	return nil
}

// PlayerLeaderboard returns the ranked players, served from cache when
// fresh.
func (s *Service) PlayerLeaderboard() ([]postgres.PlayerStats, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(context.Background(), playerLeaderboardKey); err == nil && data != "" {
			var cached []postgres.PlayerStats
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return cached, nil
			}
		}
	}

	leaderboard, err := s.users.GetLeaderboard()
	if err != nil {
		return nil, err
	}
	s.cacheLeaderboard(playerLeaderboardKey, leaderboard)
	return leaderboard, nil
}

// StackLeaderboard returns the ranked AI stacks.
func (s *Service) StackLeaderboard() ([]postgres.StackRating, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(context.Background(), stackLeaderboardKey); err == nil && data != "" {
			var cached []postgres.StackRating
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return cached, nil
			}
		}
	}

	leaderboard, err := s.matches.GetStackLeaderboard()
	if err != nil {
		return nil, err
	}
	s.cacheLeaderboard(stackLeaderboardKey, leaderboard)
	return leaderboard, nil
}

func (s *Service) MatchHistory(userID int64, limit int) ([]postgres.MatchRecord, error) {
	return s.matches.GetUserMatchHistory(userID, limit)
}

func (s *Service) Match(matchID string) (*postgres.MatchRecord, error) {
	return s.matches.GetMatchByID(matchID)
}

func (s *Service) SimRuns(limit int) ([]postgres.SimRunRecord, error) {
	return s.matches.ListSimRuns(limit)
}

func (s *Service) cacheLeaderboard(key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(context.Background(), key, data, leaderboardTTL); err != nil {
		log.Printf("[ARENA] Warning: failed to cache %s: %v", key, err)
	}
}

func (s *Service) invalidateLeaderboards() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(context.Background(), playerLeaderboardKey, stackLeaderboardKey); err != nil {
		log.Printf("[ARENA] Warning: failed to invalidate leaderboards: %v", err)
	}
}
