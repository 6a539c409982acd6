package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ximeiorg/jietu/internal/app"
	"github.com/ximeiorg/jietu/internal/capture"
	"github.com/ximeiorg/jietu/internal/config"
	"github.com/ximeiorg/jietu/internal/logging"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "jietu",
	Short:         "Screen region capture backend",
	Long:          `jietu captures a region of a display as PNG for the desktop frontend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jietu %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve capture commands to the frontend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := newCapturer(log)
		return app.New(cfg, svc, log).Run(ctx)
	},
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a region once and write the PNG",
	Long:  `Capture a region of the primary (or --monitor) display. The PNG goes to --output, or to stdout when no output is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		req, err := captureRequest(cmd)
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")

		svc := newCapturer(log)
		data, err := svc.CaptureAndSave(req, output)
		if err != nil {
			return err
		}
		if output == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		log.Info("capture written", zap.String("path", output), zap.Int("bytes", len(data)))
		return nil
	},
}

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List attached displays",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		monitors, err := newCapturer(log).Monitors()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(monitors)
	},
}

// newCapturer builds the capture service with its component logger.
func newCapturer(log *zap.Logger, opts ...capture.Option) *capture.Capturer {
	return capture.New(append([]capture.Option{capture.WithLogger(logging.Component(log, "capture"))}, opts...)...)
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(monitorsCmd)

	captureCmd.Flags().Uint32("x", 0, "Region left edge, relative to the display")
	captureCmd.Flags().Uint32("y", 0, "Region top edge, relative to the display")
	captureCmd.Flags().Uint32("width", capture.DefaultRegionSize, "Region width")
	captureCmd.Flags().Uint32("height", capture.DefaultRegionSize, "Region height")
	captureCmd.Flags().Int("monitor", 0, "Display index (default: primary display)")
	captureCmd.Flags().StringP("output", "o", "", "Write the PNG to this path instead of stdout")

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file path")
}

// setup loads the configuration and builds the root logger.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr), nil
}

func captureRequest(cmd *cobra.Command) (capture.Request, error) {
	flags := cmd.Flags()
	var req capture.Request
	var err error
	if req.X, err = flags.GetUint32("x"); err != nil {
		return req, err
	}
	if req.Y, err = flags.GetUint32("y"); err != nil {
		return req, err
	}
	if flags.Changed("width") {
		w, err := flags.GetUint32("width")
		if err != nil {
			return req, err
		}
		req.Width = &w
	}
	if flags.Changed("height") {
		h, err := flags.GetUint32("height")
		if err != nil {
			return req, err
		}
		req.Height = &h
	}
	if flags.Changed("monitor") {
		m, err := flags.GetInt("monitor")
		if err != nil {
			return req, err
		}
		req.Monitor = &m
	}
	return req, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
