package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/harvest/internal/config"
	"github.com/ChamsBouzaiene/harvest/internal/logging"
	"github.com/ChamsBouzaiene/harvest/internal/server"
)

var (
	logMode  string
	logLevel string

	logger     *zap.Logger
	cfgManager *config.Manager
)

var rootCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Farming advisory assistant",
	Long: `harvest walks a farmer through profile setup and a set of advisory tools:
crop planning, soil optimization, pest identification, weather advice,
cost-saving tips and an open chat with an AI farming advisor.

Without a subcommand it starts an interactive session on the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; saved config is applied on top of it.
		_ = godotenv.Load()

		bootstrap, err := logging.New(logging.Development, "warn")
		if err != nil {
			bootstrap = logging.Nop()
		}
		cfgManager = loadUserConfig(bootstrap)

		if logMode == "" {
			logMode = os.Getenv("HARVEST_LOG_MODE")
		}
		mode, err := logging.ParseMode(logMode)
		if err != nil {
			return err
		}
		if logLevel == "" {
			logLevel = os.Getenv("HARVEST_LOG_LEVEL")
		}
		if logLevel == "" && !cmd.HasParent() {
			// Keep the terminal session readable.
			logLevel = "warn"
		}
		logger, err = logging.New(mode, logLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := prepareRuntimeEnv(cmd.Context(), cfgManager, logger)
		if err != nil {
			return err
		}
		return runREPL(cmd.Context(), env, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var (
	serveAddr    string
	serveOrigins []string
	serveRelease bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve one advisory session over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := prepareRuntimeEnv(cmd.Context(), cfgManager, logger)
		if err != nil {
			return err
		}
		ctrl, err := env.newController()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		if addr := os.Getenv("HARVEST_ADDR"); addr != "" && !cmd.Flags().Changed("addr") {
			serveAddr = addr
		}
		srv := server.New(ctrl, server.Config{
			Addr:           serveAddr,
			AllowedOrigins: serveOrigins,
			Release:        serveRelease,
		}, logger.Named("http"))
		return srv.Run(cmd.Context())
	},
}

var engineStdio bool

var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Run the session engine for a front-end",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !engineStdio {
			return fmt.Errorf("engine: only --stdio transport is supported")
		}
		env, err := prepareRuntimeEnv(cmd.Context(), cfgManager, logger)
		if err != nil {
			return err
		}
		return runStdIOEngine(cmd.Context(), env, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change saved settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved settings with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgManager == nil {
			return fmt.Errorf("config directory unavailable")
		}
		cfg, err := cfgManager.Load()
		if err != nil {
			return err
		}
		view := configView(cfg)
		keys := make([]string, 0, len(view))
		for k := range view {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", cfgManager.GetConfigPath())
		for _, k := range keys {
			fmt.Fprintf(out, "%s = %s\n", k, view[k])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save one setting (keys: " + strings.Join(config.Keys(), ", ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgManager == nil {
			return fmt.Errorf("config directory unavailable")
		}
		cfg, err := cfgManager.Load()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgManager.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s to %s\n", args[0], cfgManager.GetConfigPath())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "", "log format: development or production (env HARVEST_LOG_MODE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level (env HARVEST_LOG_LEVEL)")

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address (env HARVEST_ADDR)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "cors-origin", nil, "allowed CORS origin (repeatable)")
	serveCmd.Flags().BoolVar(&serveRelease, "release", false, "run gin in release mode")

	engineCmd.Flags().BoolVar(&engineStdio, "stdio", false, "serve the NDJSON protocol on stdin/stdout")

	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(serveCmd, engineCmd, configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
