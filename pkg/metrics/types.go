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

package metrics

import "errors"

// Error taxonomy shared by the counter readers.
var (
	// ErrSourceUnavailable means an OS counter file or command could not be opened or run.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedData means the source was read but a required field was missing or unparsable.
	ErrMalformedData = errors.New("malformed data")
)

// CPUSample holds cumulative CPU tick counters for the aggregate of all cores.
type CPUSample struct {
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Steal   uint64
}

// Total returns the sum of all counters.
func (s CPUSample) Total() uint64 {
	return s.User + s.Nice + s.System + s.Idle + s.IOWait + s.IRQ + s.SoftIRQ + s.Steal
}

// Busy returns Total minus idle and iowait time.
func (s CPUSample) Busy() uint64 {
	return subSat(s.Total(), s.Idle+s.IOWait)
}

// CPUIdentity describes the static CPU configuration of the host.
type CPUIdentity struct {
	CPUCount     uint64  `json:"cpu_count"`
	CPUMHz       float64 `json:"cpu_mhz"`
	ModelName    string  `json:"model_name"`
	BogoMIPS     float64 `json:"bogomips"`
	Architecture string  `json:"architecture"`
	CacheInfo    string  `json:"cache_info"`
}

// MemoryInfo is virtual memory usage in bytes.
type MemoryInfo struct {
	Total       uint64  `json:"total"`
	Available   uint64  `json:"available"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
	Buffers     uint64  `json:"buffers"`
	Cached      uint64  `json:"cached"`
	SwapTotal   uint64  `json:"swap_total"`
	SwapFree    uint64  `json:"swap_free"`
}

// PartitionUsage is the usage of a single mounted filesystem in bytes.
type PartitionUsage struct {
	Device      string  `json:"device"`
	Mountpoint  string  `json:"mountpoint"`
	Fstype      string  `json:"fstype"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

// DiskUsage aggregates usage over all reported partitions.
type DiskUsage struct {
	Total       uint64           `json:"total"`
	Used        uint64           `json:"used"`
	Free        uint64           `json:"free"`
	UsedPercent float64          `json:"used_percent"`
	Partitions  []PartitionUsage `json:"partitions"`
}

// FieldError marks a snapshot field whose reader failed.
type FieldError struct {
	Error string `json:"error"`
}

// MetricsSnapshot is the response payload for get_metrics.
// Memory, Uptime and Disk hold either their record or a FieldError.
type MetricsSnapshot struct {
	CPULoad float64 `json:"cpu_load"`
	Memory  any     `json:"memory"`
	Uptime  any     `json:"uptime"`
	Disk    any     `json:"disk_metrics"`
}
