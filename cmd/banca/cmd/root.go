package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/banca/config"
	"github.com/rustyeddy/banca/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "banca",
	Short: "A trading journal that tracks your bankroll",
	Long: `Banca records the result of each trade (WIN or LOSS, amount, payout)
and derives the numbers you look at every day:

  - Current balance and the balance at the start of the month
  - Month P&L and variation
  - Hit rate and average amount
  - Current and best streaks

The ledger is kept in a JSON snapshot or a SQLite database. The same
numbers are available on the command line and over a small HTTP API.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile     string
	journalPath string
	logLevel    string

	cfg *config.Config
	log *zap.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "ledger file, overrides journal.path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

// setup loads .env, the config file and BANCA_* variables, then applies
// command line overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	c := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
		c = loaded
	}
	c.ApplyEnv()

	if journalPath != "" {
		c.Journal.Path = journalPath
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.New(c.Log.Level, c.Log.Format)
	if err != nil {
		return err
	}
	cfg, log = c, l
	return nil
}
