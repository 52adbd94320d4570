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

package collector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phuonguno98/hypertrace/pkg/metrics"
	"github.com/shirou/gopsutil/v3/disk"
)

// Dependency injection points for testing
var (
	diskPartitions = disk.Partitions
	diskUsage      = disk.Usage
)

// normalizeDeviceName strips /dev/ prefix from device names for consistent comparison.
// This allows users to specify devices as shown by `hypertrace disks` (/dev/sdd)
// or by their short kernel name (sdd).
func normalizeDeviceName(name string) string {
	return strings.TrimPrefix(name, "/dev/")
}

// Disk reports filesystem usage for every physical partition that passes the
// include/exclude filters. Partitions whose usage cannot be read are skipped;
// it is an error if none remain.
func (s *System) Disk() (*metrics.DiskUsage, error) {
	partitions, err := diskPartitions(false)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get disk partitions: %w", metrics.ErrSourceUnavailable, err)
	}

	result := &metrics.DiskUsage{Partitions: make([]metrics.PartitionUsage, 0, len(partitions))}
	seen := make(map[string]bool)

	for _, partition := range partitions {
		if !s.shouldMonitor(partition.Device, partition.Mountpoint) {
			continue
		}

		// Skip duplicate devices (bind mounts)
		if seen[partition.Device] {
			continue
		}

		usage, err := diskUsage(partition.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}
		seen[partition.Device] = true

		result.Partitions = append(result.Partitions, metrics.PartitionUsage{
			Device:      partition.Device,
			Mountpoint:  partition.Mountpoint,
			Fstype:      partition.Fstype,
			Total:       usage.Total,
			Used:        usage.Used,
			Free:        usage.Free,
			UsedPercent: usage.UsedPercent,
		})

		result.Total += usage.Total
		result.Used += usage.Used
		result.Free += usage.Free
	}

	if len(result.Partitions) == 0 {
		return nil, fmt.Errorf("%w: no readable partitions", metrics.ErrMalformedData)
	}

	// Same definition gopsutil uses per partition: reserved blocks are excluded.
	if result.Used+result.Free > 0 {
		result.UsedPercent = float64(result.Used) / float64(result.Used+result.Free) * 100.0
	}

	// Sort by device name
	sort.Slice(result.Partitions, func(i, j int) bool {
		return result.Partitions[i].Device < result.Partitions[j].Device
	})

	return result, nil
}

// shouldMonitor checks if a partition should be reported based on include/exclude filters.
// A filter entry matches either the device name or the mountpoint.
func (s *System) shouldMonitor(device, mountpoint string) bool {
	name := normalizeDeviceName(device)
	matches := func(list []string) bool {
		for _, entry := range list {
			if normalizeDeviceName(entry) == name || entry == mountpoint {
				return true
			}
		}
		return false
	}

	// Check exclude list first
	if matches(s.excludeDevices) {
		return false
	}

	// If include list is empty, monitor all (except excluded)
	if len(s.includeDevices) == 0 {
		return true
	}

	return matches(s.includeDevices)
}

// FormatDisksTable formats partition usage as a table.
func FormatDisksTable(usage *metrics.DiskUsage) string {
	var sb strings.Builder

	sb.WriteString("\nReported Disk Partitions:\n")
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-24s %-20s %-10s %10s %10s %s\n", "DEVICE", "MOUNTPOINT", "FILESYSTEM", "SIZE", "USED", "USE%"))
	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")

	for _, p := range usage.Partitions {
		sb.WriteString(fmt.Sprintf("%-24s %-20s %-10s %10s %10s %.1f%%\n",
			truncate(p.Device, 24),
			truncate(p.Mountpoint, 20),
			truncate(p.Fstype, 10),
			formatBytes(p.Total),
			formatBytes(p.Used),
			p.UsedPercent,
		))
	}

	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-56s %10s %10s %.1f%%\n", "TOTAL",
		formatBytes(usage.Total), formatBytes(usage.Used), usage.UsedPercent))
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")

	return sb.String()
}

// formatBytes converts bytes to human-readable format.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
