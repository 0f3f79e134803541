package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/config"
)

var version = "dev"

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "finance",
		Short: "💰 Personal income and expense tracker",
		Long: `finance keeps a local ledger of your income and expenses, groups them by
category, tracks a monthly budget and shows where the money went.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/finance/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("backend", "", "storage backend (sqlite, file, memory)")
	rootCmd.PersistentFlags().String("storage-path", "", "database file or records directory")

	// Bind flags to viper
	_ = a.v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = a.v.BindPFlag("storage.backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = a.v.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("storage-path"))

	rootCmd.AddCommand(
		addCmd(a),
		listCmd(a),
		showCmd(a),
		editCmd(a),
		deleteCmd(a),
		clearCmd(a),
		summaryCmd(a),
		statsCmd(a),
		monthCmd(a),
		categoriesCmd(a),
		settingsCmd(a),
		exportCmd(a),
		importCmd(a),
		importOFXCmd(a),
		budgetCmd(a),
		infoCmd(a),
		resetCmd(a),
		dashboardCmd(a),
		versionCmd(),
	)
	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd(newApp()).ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if err := setupLogging(cmd, cfg.Logging); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func setupLogging(cmd *cobra.Command, cfg config.LoggingConfig) error {
	return common.SetupLogger(cmd.ErrOrStderr(), cfg.Level, cfg.Format)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finance version %s\n", version)
		},
	}
}
