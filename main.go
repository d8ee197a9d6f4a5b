// Package main implements the command-line interface for ezinit.
// It uses the cobra library to define commands and flags.
package main

import (
	"fmt"
	"os"

	"github.com/driquet/ezinit/internal/database"
	"github.com/driquet/ezinit/internal/engine"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	configPath string
	ui         string
	verbose    bool

	config engine.Config
	db     database.Database
	engine *engine.Engine
	logger *zap.Logger

	// interactive reports whether the user can be prompted.
	interactive func() bool
}

func newApp() *app {
	return &app{
		logger:      zap.NewNop(),
		interactive: stdinIsTerminal,
	}
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (a *app) setupLogger(cmd *cobra.Command, args []string) error {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	return nil
}

func (a *app) setupRuntime(cmd *cobra.Command, args []string) error {
	var err error

	// Possible custom config path
	configDir := a.configPath
	if configDir == "" {
		configDir, err = engine.ConfigDirPath()
		if err != nil {
			return err
		}
	}

	a.config, err = engine.LoadConfigFromFile(configDir)
	if err != nil {
		return err
	}

	// Override values with flags
	if a.ui != "" {
		a.config.DefaultUI = a.ui
	}

	a.db, err = database.NewSQLiteDatabase(a.config.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	a.engine, err = engine.NewEngine(a.db, a.config, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	a.logger.Debug("runtime ready",
		zap.String("config_dir", configDir),
		zap.String("database", a.config.DatabasePath),
		zap.String("ui", a.config.DefaultUI))

	return nil
}

// tearDownRuntime closes the database. It may be called more than once.
func (a *app) tearDownRuntime(cmd *cobra.Command, args []string) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *app) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ezinit",
		Short: "ezinit stamps out hello world starter projects.",
		Long: `ezinit generates starter projects (C, C++ and Python) from built-in
templates. Each project exposes a greeting function, a print function and a
test checking the greeting.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setupLogger,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Overrides default configuration directory.")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging.")

	rootCmd.AddCommand(
		a.newCommand(),
		a.templateCommand(),
		a.overrideCommand(),
		a.greetCommand(),
		a.historyCommand(),
	)

	return rootCmd
}

func main() {
	a := newApp()
	err := a.rootCommand().Execute()

	// PostRunE is skipped when a command fails.
	_ = a.tearDownRuntime(nil, nil)

	if err != nil {
		os.Exit(1)
	}
}
