package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iamasit07/connect4-ai/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "connect4",
	Short: "Connect Four engine, API server and strategy arena",
	Long: `connect4 runs the Connect Four backend: a web API with live
human-versus-AI play, headless strategy simulations, and a local
terminal game.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			if err := godotenv.Load("../.env"); err != nil {
				log.Println("No .env file found")
			}
		}
		config.LoadConfig()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(playCmd)
}
