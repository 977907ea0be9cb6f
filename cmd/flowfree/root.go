package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flowfree/solver/internal/config"
	"github.com/flowfree/solver/internal/coordinator"
	"github.com/flowfree/solver/internal/puzzle"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	log     = logrus.New()

	// rootCtx is cancelled on SIGINT/SIGTERM; every subcommand derives its
	// Solve context from it so Ctrl-C surfaces as ErrInterrupted instead
	// of killing the process mid-search.
	rootCtx     context.Context
	stopSignals context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "flowfree",
	Short: "A concurrent multi-agent A* Flow Free solver",
	Long: `flowfree solves Flow Free puzzles by running one A* search agent
per color in parallel, each sharing completed flows with the colors
that haven't played yet.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCtx, stopSignals = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.config/flowfree/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(solveCmd, watchCmd, serveCmd, benchCmd)
}

func initConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}
	cfg = loaded
}

func initLogging() {
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
}

// newCoordinator applies the configured solver knobs so every subcommand
// builds its Coordinator the same way.
func newCoordinator(state *puzzle.State) *coordinator.Coordinator {
	co := coordinator.New(state, log)
	co.SetAdvancedPruning(cfg.Solve.AdvancedPruning)
	return co
}

// solveContext derives a per-solve context from rootCtx, honoring the
// configured timeout. Callers must call the returned cancel func.
func solveContext() (context.Context, context.CancelFunc) {
	if cfg.Solve.Timeout > 0 {
		return context.WithTimeout(rootCtx, cfg.Solve.Timeout)
	}
	return context.WithCancel(rootCtx)
}
