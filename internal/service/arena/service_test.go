package arena

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-ai/internal/repository/postgres"
	"github.com/iamasit07/connect4-ai/internal/sim"
)

type stackUpdate struct {
	stack  string
	rating int
	games  int
	wins   int
}

type fakeMatchRepo struct {
	matches []postgres.MatchRecord
	runs    []postgres.SimRunRecord
	ratings map[string]int
	updates []stackUpdate
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{ratings: make(map[string]int)}
}

func (f *fakeMatchRepo) SaveMatch(m postgres.MatchRecord) error {
	f.matches = append(f.matches, m)
	return nil
}

func (f *fakeMatchRepo) GetUserMatchHistory(userID int64, limit int) ([]postgres.MatchRecord, error) {
	return f.matches, nil
}

func (f *fakeMatchRepo) GetMatchByID(matchID string) (*postgres.MatchRecord, error) {
	for i := range f.matches {
		if f.matches[i].MatchID == matchID {
			return &f.matches[i], nil
		}
	}
	return nil, nil
}

func (f *fakeMatchRepo) SaveSimRun(run postgres.SimRunRecord) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeMatchRepo) ListSimRuns(limit int) ([]postgres.SimRunRecord, error) {
	return f.runs, nil
}

func (f *fakeMatchRepo) GetStackRating(stack string) (int, error) {
	if rating, ok := f.ratings[stack]; ok {
		return rating, nil
	}
	return 1000, nil
}

func (f *fakeMatchRepo) UpdateStackRating(stack string, rating, games, wins int) error {
	f.ratings[stack] = rating
	f.updates = append(f.updates, stackUpdate{stack, rating, games, wins})
	return nil
}

func (f *fakeMatchRepo) UpdateStackRatings(stackA string, ratingA, winsA int, stackB string, ratingB, winsB int, games int) error {
	f.ratings[stackA] = ratingA
	f.ratings[stackB] = ratingB
	f.updates = append(f.updates,
		stackUpdate{stackA, ratingA, games, winsA},
		stackUpdate{stackB, ratingB, games, winsB})
	return nil
}

func (f *fakeMatchRepo) GetStackLeaderboard() ([]postgres.StackRating, error) {
	out := make([]postgres.StackRating, 0, len(f.ratings))
	for stack, rating := range f.ratings {
		out = append(out, postgres.StackRating{Stack: stack, Rating: rating})
	}
	return out, nil
}

type fakeUserRepo struct {
	users   map[int64]*postgres.User
	ratings map[int64]int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[int64]*postgres.User),
		ratings: make(map[int64]int),
	}
}

func (f *fakeUserRepo) GetUserByID(userID int64) (*postgres.User, error) {
	return f.users[userID], nil
}

func (f *fakeUserRepo) UpdateRating(userID int64, rating int) error {
	f.ratings[userID] = rating
	return nil
}

func (f *fakeUserRepo) GetLeaderboard() ([]postgres.PlayerStats, error) {
	return []postgres.PlayerStats{{Rank: 1, Username: "alice", Rating: 1000}}, nil
}

type fakeCache struct {
	data map[string]string
	sets int
	hits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.sets++
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		f.hits++
		return v, nil
	}
	return "", nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func humanMatch(outcome string) postgres.MatchRecord {
	return postgres.MatchRecord{
		MatchID:    "m-1",
		UserID:     7,
		Username:   "alice",
		Stack:      "TriesToWin,AvoidTraps",
		Outcome:    outcome,
		TotalMoves: 13,
		BoardState: "/////AA   BB",
		CreatedAt:  time.Now(),
		FinishedAt: time.Now(),
	}
}

func TestRecordHumanMatchUserWin(t *testing.T) {
	matches := newFakeMatchRepo()
	users := newFakeUserRepo()
	users.users[7] = &postgres.User{ID: 7, Username: "alice", Rating: 1000}
	svc := NewService(matches, users, nil)

	require.NoError(t, svc.RecordHumanMatch(humanMatch("user")))

	require.Len(t, matches.matches, 1)
	assert.Equal(t, 1016, users.ratings[7], "winner gains 16 at equal ratings")
	require.Len(t, matches.updates, 1)
	assert.Equal(t, stackUpdate{"TriesToWin,AvoidTraps", 984, 1, 0}, matches.updates[0])
}

func TestRecordHumanMatchAIWin(t *testing.T) {
	matches := newFakeMatchRepo()
	users := newFakeUserRepo()
	users.users[7] = &postgres.User{ID: 7, Username: "alice", Rating: 1000}
	svc := NewService(matches, users, nil)

	require.NoError(t, svc.RecordHumanMatch(humanMatch("ai")))

	assert.Equal(t, 984, users.ratings[7])
	require.Len(t, matches.updates, 1)
	assert.Equal(t, stackUpdate{"TriesToWin,AvoidTraps", 1016, 1, 1}, matches.updates[0])
}

func TestRecordHumanMatchDraw(t *testing.T) {
	matches := newFakeMatchRepo()
	users := newFakeUserRepo()
	users.users[7] = &postgres.User{ID: 7, Username: "alice", Rating: 1000}
	svc := NewService(matches, users, nil)

	require.NoError(t, svc.RecordHumanMatch(humanMatch("draw")))

	assert.Equal(t, 1000, users.ratings[7], "equal ratings and a draw move nothing")
	assert.Equal(t, 1000, matches.updates[0].rating)
}

func TestRecordHumanMatchUnknownUser(t *testing.T) {
	svc := NewService(newFakeMatchRepo(), newFakeUserRepo(), nil)

	err := svc.RecordHumanMatch(humanMatch("user"))
	assert.Error(t, err)
}

func TestRecordSimRunRatesBothStacks(t *testing.T) {
	matches := newFakeMatchRepo()
	svc := NewService(matches, newFakeUserRepo(), nil)

	err := svc.RecordSimRun(sim.Result{
		RunID:  "run-1",
		StackA: "TriesToWin",
		StackB: "Random",
		Games:  10,
		WinsA:  7,
		WinsB:  1,
		Draws:  2,
	})
	require.NoError(t, err)

	require.Len(t, matches.runs, 1)
	// Series score for A is (7 + 0.5*2)/10 = 0.8.
	assert.Equal(t, 1009, matches.ratings["TriesToWin"])
	assert.Equal(t, 990, matches.ratings["Random"])
}

func TestRecordSimRunSkipsSelfPlay(t *testing.T) {
	matches := newFakeMatchRepo()
	svc := NewService(matches, newFakeUserRepo(), nil)

	err := svc.RecordSimRun(sim.Result{
		RunID:  "run-2",
		StackA: "TriesToWin",
		StackB: "TriesToWin",
		Games:  10,
		WinsA:  5,
		WinsB:  5,
	})
	require.NoError(t, err)

	require.Len(t, matches.runs, 1, "run is still persisted")
	assert.Empty(t, matches.updates, "self-play must not move ratings")
}

func TestPlayerLeaderboardUsesCache(t *testing.T) {
	cache := newFakeCache()
	svc := NewService(newFakeMatchRepo(), newFakeUserRepo(), cache)

	first, err := svc.PlayerLeaderboard()
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.PlayerLeaderboard()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.sets, "cache hit must not re-store")
}

func TestRecordHumanMatchInvalidatesLeaderboards(t *testing.T) {
	matches := newFakeMatchRepo()
	users := newFakeUserRepo()
	users.users[7] = &postgres.User{ID: 7, Username: "alice", Rating: 1000}
	cache := newFakeCache()
	svc := NewService(matches, users, cache)

	_, err := svc.PlayerLeaderboard()
	require.NoError(t, err)
	require.NotEmpty(t, cache.data)

	require.NoError(t, svc.RecordHumanMatch(humanMatch("user")))
	assert.Empty(t, cache.data)
}

func TestStackLeaderboardRoundTripsThroughCache(t *testing.T) {
	matches := newFakeMatchRepo()
	matches.ratings["TriesToWin"] = 1100
	cache := newFakeCache()
	svc := NewService(matches, newFakeUserRepo(), cache)

	board, err := svc.StackLeaderboard()
	require.NoError(t, err)
	require.Len(t, board, 1)

	var cached []postgres.StackRating
	require.NoError(t, json.Unmarshal([]byte(cache.data["leaderboard:stacks"]), &cached))
	assert.Equal(t, board, cached)
}
