package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/albertb/progressboard/internal"
)

var (
	configPath string
	fake       bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "progressboard",
	Short:         "Progressboard - weekly progress charts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: parseLogLevel(logLevel),
		}))
		slog.SetDefault(logger)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer cancel()

		cfg, board, err := setup()
		if err != nil {
			return err
		}
		fmt.Printf("Server running on http://localhost%s/\n", addr)
		return internal.Serve(ctx, board, cfg.GetRenderOptions(), addr)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Save a screenshot of the dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		img, _ := cmd.Flags().GetString("img")
		weekKey, _ := cmd.Flags().GetString("week")

		cfg, board, err := setup()
		if err != nil {
			return err
		}
		return internal.RenderScreen(cmd.Context(), board, cfg.GetRenderOptions(), weekKey, img)
	},
}

var chartCmd = &cobra.Command{
	Use:       "chart {overview|daily}",
	Short:     "Export a single chart as a PNG image",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(internal.ChartOverview), string(internal.ChartDaily)},
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		weekKey, _ := cmd.Flags().GetString("week")
		kind := internal.ChartKind(args[0])
		if out == "" {
			out = string(kind) + ".png"
		}

		cfg, board, err := setup()
		if err != nil {
			return err
		}
		return internal.ExportChart(cmd.Context(), board, cfg.GetRenderOptions(), kind, weekKey, out)
	},
}

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	defaultConfigPath := filepath.Join(home, ".config", "progressboard", "config.yaml")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to the config file")
	rootCmd.PersistentFlags().BoolVar(&fake, "fake", false, "generate fake progress data instead of reading the data source")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	serveCmd.Flags().String("addr", ":9999", "the address the webserver should listen on")

	renderCmd.Flags().String("img", "screen.png", "the path to save the rendered image")
	renderCmd.Flags().String("week", "", "the week to show, e.g. week_3")

	chartCmd.Flags().StringP("out", "o", "", "the path to save the chart (default <kind>.png)")
	chartCmd.Flags().String("week", "", "the week to draw, for the daily chart")

	rootCmd.AddCommand(serveCmd, renderCmd, chartCmd)
}

func setup() (internal.Config, *internal.Board, error) {
	cfg, err := internal.ReadConfigFile(configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	slog.Debug("configuration loaded", "path", configPath, "epoch", cfg.Epoch.Format("2006-01-02"))

	board, err := internal.NewBoardFromConfig(cfg, fake)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, board, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
