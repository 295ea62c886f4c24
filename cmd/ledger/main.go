package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/ledger/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries the state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "ledger",
		Short: "💸 Browse and manage your transactions",
		Long: `ledger: a terminal client for a personal transactions service.

It lists a user's transactions, shows their balance, income and expenses,
and deletes transactions, keeping everything in sync with the server.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/ledger/config.yaml)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (console, json)")
	flags.String("base-url", config.DefaultBaseURL, "transactions service base URL")
	flags.String("user-id", "", "user whose transactions to show")
	flags.Duration("timeout", config.DefaultTimeout, "per-request timeout (0 disables)")

	// Bind flags to viper
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("api.base_url", flags.Lookup("base-url"))
	_ = a.v.BindPFlag("user_id", flags.Lookup("user-id"))
	_ = a.v.BindPFlag("api.timeout", flags.Lookup("timeout"))

	// Add commands
	rootCmd.AddCommand(a.viewCmd())
	rootCmd.AddCommand(a.listCmd())
	rootCmd.AddCommand(a.summaryCmd())
	rootCmd.AddCommand(a.deleteCmd())
	rootCmd.AddCommand(a.demoServerCmd())
	rootCmd.AddCommand(versionCmd())

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

	err := newRootCmd().ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	// .env values never override variables that are already set
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}

	// Set up config file
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(config.DefaultConfigDir())
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	config.SetDefaults(a.v)
	config.BindEnv(a.v)

	// Read config file
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// The terminal UI sets up its own file logger.
	if cmd.Name() == "view" {
		return nil
	}
	return setupLogging(cmd, cfg.Logging)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ledger %s\n", version)
		},
	}
}
