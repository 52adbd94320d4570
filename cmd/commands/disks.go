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

	"github.com/phuonguno98/hypertrace/internal/collector"
	"github.com/spf13/cobra"
)

var disksCmd = &cobra.Command{
	Use:   "disks",
	Short: "List the disk partitions reported in get_metrics",
	Long: `List the partitions the disk reader reports on this host, after applying
the include/exclude filters. This helps to configure the filters accurately.

Examples:
  # List reported partitions
  hypertrace disks

  # Preview a filter before putting it in Config.yaml
  hypertrace disks --exclude-disks="/boot,sdb1"`,
	RunE: runDisks,
}

func init() {
	rootCmd.AddCommand(disksCmd)
	addDiskFilterFlags(disksCmd)
}

func runDisks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}
	applyDiskFilterFlags(cmd, cfg)

	usage, err := collector.NewSystem(cfg).Disk()
	if err != nil {
		return fmt.Errorf("listing disks: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, collector.FormatDisksTable(usage))

	fmt.Fprintln(out, "\nNotes:")
	fmt.Fprintln(out, "  - Filters accept a device (sda1 or /dev/sda1) or a mountpoint (/boot)")
	fmt.Fprintln(out, "  - Use comma to separate multiple entries: --exclude-disks=\"sda1,/boot\"")
	fmt.Fprintln(out, "  - Exclude filters take priority over include filters")
	fmt.Fprintln(out, "  - Empty include list means report all partitions (except excluded)")
	fmt.Fprintln(out)

	return nil
}
