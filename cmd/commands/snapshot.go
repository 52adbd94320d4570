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
	"os"

	"github.com/phuonguno98/hypertrace/internal/collector"
	"github.com/phuonguno98/hypertrace/internal/server"
	"github.com/spf13/cobra"
)

var cpuInfoOnly bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print one reply exactly as a client would receive it",
	Long: `Run a single "get_metrics" (or "get_cpu_info") command against this host and
print the JSON reply. Useful to check a host without a WebSocket client.
The configuration file is optional for this command.

Examples:
  hypertrace snapshot
  hypertrace snapshot --cpu-info`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().BoolVar(&cpuInfoOnly, "cpu-info", false,
		"Send get_cpu_info instead of get_metrics")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	// Logs go to stderr so stdout carries only the reply.
	logger := newLogger(cfg.LogLevel, cfg.LogFile, os.Stderr)

	command := server.CommandGetMetrics
	if cpuInfoOnly {
		command = server.CommandGetCPUInfo
	}

	assembler := collector.NewAssembler(collector.NewSystem(cfg), 0, logger)
	reply := server.NewDispatcher(assembler).Handle(cmd.Context(), logger, command)
	if reply == nil {
		return fmt.Errorf("%s produced no reply", command)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(reply))

	return nil
}
