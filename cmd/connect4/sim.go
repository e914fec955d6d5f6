package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iamasit07/connect4-ai/internal/config"
	"github.com/iamasit07/connect4-ai/internal/repository/postgres"
	"github.com/iamasit07/connect4-ai/internal/service/arena"
	"github.com/iamasit07/connect4-ai/internal/sim"
)

var (
	simGames   int
	simWorkers int
	simSeed    int64
	simStackA  string
	simStackB  string
	simCache   bool
	simSave    bool

	simCmd = &cobra.Command{
		Use:   "sim",
		Short: "Run headless games between two strategy stacks",
		Long: `sim plays a batch of games between two stacks and prints the
tally. Stacks are comma separated policy names; an empty stack means
the built-in default. With --save the run and the resulting stack
ratings are written to the database.`,
		Run: runSim,
	}
)

func init() {
	simCmd.Flags().IntVar(&simGames, "games", 0, "number of games (default from SIM_GAMES)")
	simCmd.Flags().IntVar(&simWorkers, "workers", 0, "parallel workers (default from SIM_WORKERS)")
	simCmd.Flags().Int64Var(&simSeed, "seed", 0, "RNG seed, 0 picks one")
	simCmd.Flags().StringVar(&simStackA, "stack-a", "", "policies for side A, comma separated")
	simCmd.Flags().StringVar(&simStackB, "stack-b", "", "policies for side B, comma separated")
	simCmd.Flags().BoolVar(&simCache, "cache", false, "memoize whole-stack decisions and share the search table")
	simCmd.Flags().BoolVar(&simSave, "save", false, "persist the run and update stack ratings")
}

func runSim(cmd *cobra.Command, args []string) {
	cfg := config.AppConfig

	opts := sim.Options{
		Games:       cfg.SimGames,
		Workers:     cfg.SimWorkers,
		Seed:        simSeed,
		StackA:      parseStack(simStackA, cfg.DefaultStack),
		StackB:      parseStack(simStackB, cfg.DefaultStack),
		UseCache:    simCache,
		SearchDepth: cfg.SearchDepth,
	}
	if simGames > 0 {
		opts.Games = simGames
	}
	if simWorkers > 0 {
		opts.Workers = simWorkers
	}

	runner, err := sim.NewRunner(opts)
	if err != nil {
		log.Fatalf("Invalid simulation options: %v", err)
	}

	result, err := runner.Run(cmd.Context())
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	fmt.Println(result)

	if simSave {
		saveSimRun(result)
	}
}

func saveSimRun(result sim.Result) {
	cfg := config.AppConfig

	db, err := postgres.Open(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	arenaService := arena.NewService(postgres.NewMatchRepo(db), postgres.NewUserRepo(db), nil)
	if err := arenaService.RecordSimRun(result); err != nil {
		log.Fatalf("Failed to record run: %v", err)
	}
	log.Printf("[SIM] Run %s saved", result.RunID)
}

func parseStack(value string, fallback []string) []string {
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
