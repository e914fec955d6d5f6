// Package sim runs batches of AI-versus-AI games in parallel and
// tallies the outcomes.
package sim

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/metrics"
	"github.com/iamasit07/connect4-ai/internal/strategy"
)

// Options configures one simulation run. Zero values fall back to the
// documented defaults.
type Options struct {
	Games   int
	Workers int
	Seed    int64

	// Policy names for each side; nil means the default stack.
	StackA []string
	StackB []string

	// UseCache wraps each side's stack in a shared CachedAgent and
	// shares one transposition table between cached search stages.
	UseCache bool

	// SearchDepth overrides the horizon of the search policies in both
	// stacks; 0 keeps each policy's default.
	SearchDepth int
}

// Result is the tally of a finished run.
type Result struct {
	RunID    string
	Games    int
	WinsA    int
	WinsB    int
	Draws    int
	Moves    int
	Elapsed  time.Duration
	StackA   string
	StackB   string
	CacheA   strategy.CacheStats
	CacheB   strategy.CacheStats
	TableHit strategy.CacheStats
}

func (r Result) String() string {
	return fmt.Sprintf("run %s: %d games, A %d / B %d / draws %d in %s",
		r.RunID, r.Games, r.WinsA, r.WinsB, r.Draws, r.Elapsed.Round(time.Millisecond))
}

// Runner owns the shared state of a run: the cached agents when caching
// is on, and the transposition table behind the cached search stages.
type Runner struct {
	opts  Options
	table *strategy.TranspositionTable

	cachedA *strategy.CachedAgent
	cachedB *strategy.CachedAgent
}

func NewRunner(opts Options) (*Runner, error) {
	if opts.Games <= 0 {
		opts.Games = 1000
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.StackA == nil {
		opts.StackA = strategy.DefaultStackNames()
	}
	if opts.StackB == nil {
		opts.StackB = strategy.DefaultStackNames()
	}

	r := &Runner{opts: opts, table: strategy.NewTranspositionTable()}

	if opts.UseCache {
		stackA, err := r.buildStack(opts.StackA, domain.PlayerA, rand.New(rand.NewSource(opts.Seed)))
		if err != nil {
			return nil, err
		}
		stackB, err := r.buildStack(opts.StackB, domain.PlayerB, rand.New(rand.NewSource(opts.Seed+1)))
		if err != nil {
			return nil, err
		}
		r.cachedA = strategy.NewCachedAgent(stackA, rand.New(rand.NewSource(opts.Seed+2)))
		r.cachedB = strategy.NewCachedAgent(stackB, rand.New(rand.NewSource(opts.Seed+3)))
	} else {
		// Validate the names up front so a bad stack fails before any
		// worker starts.
		if _, err := strategy.BuildStack(opts.StackA, domain.PlayerA, rand.New(rand.NewSource(1)), opts.SearchDepth); err != nil {
			return nil, err
		}
		if _, err := strategy.BuildStack(opts.StackB, domain.PlayerB, rand.New(rand.NewSource(1)), opts.SearchDepth); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// buildStack mirrors strategy.BuildStack but routes every cached search
// stage through the runner's shared table.
func (r *Runner) buildStack(names []string, piece domain.Piece, rng *rand.Rand) (*strategy.Stack, error) {
	stages := make([]strategy.Stage, 0, len(names))
	for _, name := range names {
		stage, err := strategy.NewStage(name, piece, r.table, r.opts.SearchDepth)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return strategy.NewStack(rng, stages...), nil
}

// Run plays the configured number of games across the worker pool and
// returns the aggregate tally. The context cancels in-flight workers
// between games, not mid-game; a single game is fast enough that finer
// granularity buys nothing.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	runID := uuid.NewString()
	start := time.Now()

	var winsA, winsB, draws, moves atomic.Int64
	var next atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < r.opts.Workers; w++ {
		workerSeed := r.opts.Seed + int64(w)*7919
		g.Go(func() error {
			agentA, agentB, err := r.workerAgents(workerSeed)
			if err != nil {
				return err
			}
			for {
				if int(next.Add(1)) > r.opts.Games {
					return nil
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				winner, plies, err := playGame(agentA, agentB)
				if err != nil {
					return err
				}
				moves.Add(int64(plies))
				switch winner {
				case domain.PlayerA:
					winsA.Add(1)
					metrics.SimGames.WithLabelValues("a").Inc()
				case domain.PlayerB:
					winsB.Add(1)
					metrics.SimGames.WithLabelValues("b").Inc()
				default:
					draws.Add(1)
					metrics.SimGames.WithLabelValues("draw").Inc()
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{
		RunID:    runID,
		Games:    r.opts.Games,
		WinsA:    int(winsA.Load()),
		WinsB:    int(winsB.Load()),
		Draws:    int(draws.Load()),
		Moves:    int(moves.Load()),
		Elapsed:  time.Since(start),
		StackA:   stackLabel(r.opts.StackA),
		StackB:   stackLabel(r.opts.StackB),
		TableHit: r.table.Stats(),
	}
	if r.cachedA != nil {
		result.CacheA = r.cachedA.Stats()
		result.CacheB = r.cachedB.Stats()
	}
	log.Printf("[SIM] %s", result)
	return result, nil
}

// workerAgents returns the agents a worker plays with. Cached agents are
// shared across workers; uncached stacks are per worker because the
// stack RNG is unsynchronized.
func (r *Runner) workerAgents(seed int64) (strategy.Agent, strategy.Agent, error) {
	if r.opts.UseCache {
		return r.cachedA, r.cachedB, nil
	}
	stackA, err := r.buildStack(r.opts.StackA, domain.PlayerA, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, nil, err
	}
	stackB, err := r.buildStack(r.opts.StackB, domain.PlayerB, rand.New(rand.NewSource(seed+1)))
	if err != nil {
		return nil, nil, err
	}
	return stackA, stackB, nil
}

// playGame runs one game to completion and returns the winner (Empty on
// a draw) and the number of plies played.
func playGame(agentA, agentB strategy.Agent) (domain.Piece, int, error) {
	game := domain.NewGame()
	plies := 0
	for !game.IsFinished() {
		agent := agentA
		if game.Board.NextPlayer() == domain.PlayerB {
			agent = agentB
		}
		col, ok := agent.Play(game.Board)
		if !ok {
			return domain.Empty, plies, fmt.Errorf("sim: agent %s declined a live board", agent)
		}
		if err := game.MakeMove(col); err != nil {
			return domain.Empty, plies, fmt.Errorf("sim: agent %s played illegal column %d: %w", agent, col, err)
		}
		plies++
	}
	return game.Winner, plies, nil
}

func stackLabel(names []string) string {
	label := ""
	for i, n := range names {
		if i > 0 {
			label += ","
		}
		label += n
	}
	return label
}
