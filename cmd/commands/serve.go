/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/phuonguno98/hypertrace/internal/collector"
	"github.com/phuonguno98/hypertrace/internal/config"
	"github.com/phuonguno98/hypertrace/internal/server"
	"github.com/phuonguno98/hypertrace/pkg/version"
	"github.com/spf13/cobra"
)

var (
	// Serve command specific flags
	bindIP   string
	bindPort uint16

	// Filter flags, shared with the disks command
	includeDisks string
	excludeDisks string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HyperTrace metrics daemon",
	Long: `Start the HyperTrace daemon. Clients connect over WebSocket to the configured
endpoint and send "get_metrics" or "get_cpu_info" to receive a JSON reply.

Examples:
  # Run with ./Config.yaml
  hypertrace serve

  # Override the listen address and skip a device
  hypertrace serve --bind 0.0.0.0 --port 3030 --exclude-disks "sdb1"`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&bindIP, "bind", "",
		"IPv4 address to listen on (overrides config)")
	serveCmd.Flags().Uint16Var(&bindPort, "port", 0,
		"TCP port to listen on (overrides config)")
	addDiskFilterFlags(serveCmd)
}

// addDiskFilterFlags registers the include/exclude disk flags on cmd.
func addDiskFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&includeDisks, "include-disks", "",
		"Comma-separated list of devices or mountpoints to report (empty = all)")
	cmd.Flags().StringVar(&excludeDisks, "exclude-disks", "",
		"Comma-separated list of devices or mountpoints to skip")
}

// applyDiskFilterFlags overrides the config's disk filters with any flags set on cmd.
func applyDiskFilterFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("include-disks") {
		cfg.Disk.Include = config.ParseCommaSeparated(includeDisks)
	}
	if cmd.Flags().Changed("exclude-disks") {
		cfg.Disk.Exclude = config.ParseCommaSeparated(excludeDisks)
	}
}

// serveConfig loads the configuration, applies the serve flags and validates
// the merged result.
func serveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("bind") {
		cfg.IP = bindIP
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = bindPort
	}
	applyDiskFilterFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// runServe is the daemon entry point.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfig(cmd)
	if err != nil {
		return err
	}

	logger := InitLogger(cfg.LogLevel, cfg.LogFile)

	logger.Info("Starting HyperTrace",
		"version", version.Info(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
	)
	logger.Info("Configuration loaded", "config", cfg.String())

	checkPlatformCapabilities(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	assembler := collector.NewAssembler(collector.NewSystem(cfg), config.DefaultSampleWindow, logger)
	srv := server.New(cfg, assembler, logger)

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}

	logger.Info("Shutdown complete")

	return nil
}

// checkPlatformCapabilities logs platform-specific capability warnings.
func checkPlatformCapabilities(logger *slog.Logger) {
	if runtime.GOOS == osLinux {
		logger.Info("Running on Linux: All metrics available")
		return
	}
	logger.Warn("Running on a non-Linux platform: CPU load, CPU info and uptime read procfs and will fail",
		"os", runtime.GOOS)
}
