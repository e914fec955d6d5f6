package postgres

import (
	"database/sql"
	"fmt"
	"time"
)

// MatchRepo persists finished human-versus-AI matches and simulation
// runs, and maintains the per-stack Elo ratings derived from them.
type MatchRepo struct {
	DB *sql.DB
}

func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{DB: db}
}

// MatchRecord is one finished human-versus-AI match. BoardState holds
// the final position in the slash-delimited text encoding.
type MatchRecord struct {
	MatchID         string    `json:"match_id"`
	UserID          int64     `json:"user_id"`
	Username        string    `json:"username"`
	Stack           string    `json:"stack"`
	Outcome         string    `json:"outcome"` // "user", "ai" or "draw"
	TotalMoves      int       `json:"total_moves"`
	DurationSeconds int       `json:"duration_seconds"`
	BoardState      string    `json:"board_state"`
	CreatedAt       time.Time `json:"created_at"`
	FinishedAt      time.Time `json:"finished_at"`
}

// SimRunRecord is the persisted tally of one simulation run.
type SimRunRecord struct {
	RunID     string    `json:"run_id"`
	StackA    string    `json:"stack_a"`
	StackB    string    `json:"stack_b"`
	Games     int       `json:"games"`
	WinsA     int       `json:"wins_a"`
	WinsB     int       `json:"wins_b"`
	Draws     int       `json:"draws"`
	Moves     int       `json:"moves"`
	ElapsedMS int64     `json:"elapsed_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// StackRating is one row of the AI leaderboard.
type StackRating struct {
	Rank   int    `json:"rank"`
	Stack  string `json:"stack"`
	Rating int    `json:"rating"`
	Games  int    `json:"games"`
	Wins   int    `json:"wins"`
}

// SaveMatch upserts a finished match and bumps the player's tallies in
// one transaction.
func (r *MatchRepo) SaveMatch(m MatchRecord) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	statsQuery := `
	UPDATE players
	SET games_played = games_played + 1,
	    games_won = games_won + CASE WHEN $2 THEN 1 ELSE 0 END,
	    games_drawn = games_drawn + CASE WHEN $3 THEN 1 ELSE 0 END
	WHERE id = $1;
	`
	if _, err := tx.Exec(statsQuery, m.UserID, m.Outcome == "user", m.Outcome == "draw"); err != nil {
		return fmt.Errorf("failed to update player stats: %v", err)
	}

	query := `
	INSERT INTO matches (match_id, user_id, username, stack, outcome, total_moves, duration_seconds, board_state, created_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (match_id) DO UPDATE SET
		outcome = EXCLUDED.outcome,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		board_state = EXCLUDED.board_state,
		finished_at = EXCLUDED.finished_at;
	`
	_, err = tx.Exec(query, m.MatchID, m.UserID, m.Username, m.Stack, m.Outcome,
		m.TotalMoves, m.DurationSeconds, m.BoardState, m.CreatedAt, m.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert match record: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

// GetUserMatchHistory returns the user's matches, newest first.
func (r *MatchRepo) GetUserMatchHistory(userID int64, limit int) ([]MatchRecord, error) {
	query := `
	SELECT match_id, user_id, username, stack, outcome, total_moves, duration_seconds, board_state, created_at, finished_at
	FROM matches
	WHERE user_id = $1
	ORDER BY finished_at DESC
	LIMIT $2;
	`
	rows, err := r.DB.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match history: %v", err)
	}
	defer rows.Close()

	var matches []MatchRecord
	for rows.Next() {
		var m MatchRecord
		if err := rows.Scan(&m.MatchID, &m.UserID, &m.Username, &m.Stack, &m.Outcome,
			&m.TotalMoves, &m.DurationSeconds, &m.BoardState, &m.CreatedAt, &m.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %v", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match rows: %v", err)
	}
	return matches, nil
}

// GetMatchByID returns one match, or nil when unknown.
func (r *MatchRepo) GetMatchByID(matchID string) (*MatchRecord, error) {
	query := `
	SELECT match_id, user_id, username, stack, outcome, total_moves, duration_seconds, board_state, created_at, finished_at
	FROM matches
	WHERE match_id = $1;
	`
	var m MatchRecord
	err := r.DB.QueryRow(query, matchID).Scan(&m.MatchID, &m.UserID, &m.Username, &m.Stack,
		&m.Outcome, &m.TotalMoves, &m.DurationSeconds, &m.BoardState, &m.CreatedAt, &m.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %v", err)
	}
	return &m, nil
}

// SaveSimRun records a finished simulation run.
func (r *MatchRepo) SaveSimRun(run SimRunRecord) error {
	query := `
	INSERT INTO sim_runs (run_id, stack_a, stack_b, games, wins_a, wins_b, draws, moves, elapsed_ms)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.DB.Exec(query, run.RunID, run.StackA, run.StackB, run.Games,
		run.WinsA, run.WinsB, run.Draws, run.Moves, run.ElapsedMS)
	if err != nil {
		return fmt.Errorf("failed to insert sim run: %v", err)
	}
	return nil
}

// ListSimRuns returns recent runs, newest first.
func (r *MatchRepo) ListSimRuns(limit int) ([]SimRunRecord, error) {
	query := `
	SELECT run_id, stack_a, stack_b, games, wins_a, wins_b, draws, moves, elapsed_ms, created_at
	FROM sim_runs
	ORDER BY created_at DESC
	LIMIT $1;
	`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sim runs: %v", err)
	}
	defer rows.Close()

	var runs []SimRunRecord
	for rows.Next() {
		var run SimRunRecord
		if err := rows.Scan(&run.RunID, &run.StackA, &run.StackB, &run.Games,
			&run.WinsA, &run.WinsB, &run.Draws, &run.Moves, &run.ElapsedMS, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sim run row: %v", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// GetStackRating returns a stack's current rating, inserting the default
// row on first sight.
func (r *MatchRepo) GetStackRating(stack string) (int, error) {
	query := `
	INSERT INTO stack_ratings (stack, rating, games, wins)
	VALUES ($1, 1000, 0, 0)
	ON CONFLICT (stack) DO UPDATE SET stack = EXCLUDED.stack
	RETURNING rating;
	`
	var rating int
	if err := r.DB.QueryRow(query, stack).Scan(&rating); err != nil {
		return 0, fmt.Errorf("failed to get stack rating: %v", err)
	}
	return rating, nil
}

// UpdateStackRating writes one stack's new rating and tallies.
func (r *MatchRepo) UpdateStackRating(stack string, rating, games, wins int) error {
	query := `
	UPDATE stack_ratings
	SET rating = $2, games = games + $3, wins = wins + $4
	WHERE stack = $1;
	`
	if _, err := r.DB.Exec(query, stack, rating, games, wins); err != nil {
		return fmt.Errorf("failed to update rating for %s: %v", stack, err)
	}
	return nil
}

// UpdateStackRatings writes both sides' new ratings and tallies after a
// rated series, transactionally.
func (r *MatchRepo) UpdateStackRatings(stackA string, ratingA, winsA int, stackB string, ratingB, winsB int, games int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
	UPDATE stack_ratings
	SET rating = $2, games = games + $3, wins = wins + $4
	WHERE stack = $1;
	`
	if _, err := tx.Exec(query, stackA, ratingA, games, winsA); err != nil {
		return fmt.Errorf("failed to update rating for %s: %v", stackA, err)
	}
	if _, err := tx.Exec(query, stackB, ratingB, games, winsB); err != nil {
		return fmt.Errorf("failed to update rating for %s: %v", stackB, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

// GetStackLeaderboard ranks every stack by rating.
func (r *MatchRepo) GetStackLeaderboard() ([]StackRating, error) {
	query := `
	SELECT
		ROW_NUMBER() OVER (ORDER BY rating DESC, wins DESC, stack ASC) AS rank,
		stack,
		rating,
		games,
		wins
	FROM stack_ratings
	ORDER BY rating DESC, wins DESC, stack ASC;
	`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stack leaderboard: %v", err)
	}
	defer rows.Close()

	leaderboard := make([]StackRating, 0)
	for rows.Next() {
		var s StackRating
		if err := rows.Scan(&s.Rank, &s.Stack, &s.Rating, &s.Games, &s.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %v", err)
		}
		leaderboard = append(leaderboard, s)
	}
	return leaderboard, nil
}
