// Command dirctl browses a running directory server and imports member spreadsheets.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"directory/internal/config"
)

var (
	// Global flags
	serverURL string
	dbDriver  string
	dbDSN     string
	timeout   time.Duration
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "dirctl",
	Short: "Community directory command line",
	Long: `dirctl talks to a directory server for read commands (members, member, family)
and writes straight to the database for import.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s",
		config.LoadDefaultString("DIRCTL_SERVER", "http://localhost:8080"), "Directory server base URL")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver",
		config.LoadDefaultString("DIRECTORY_DB_DRIVER", "sqlite"), "Database driver for import (sqlite or postgres)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db-dsn",
		config.LoadDefaultString("DIRECTORY_DB_DSN", "directory.db"), "Database DSN for import")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")

	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(familyCmd)
	rootCmd.AddCommand(importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
