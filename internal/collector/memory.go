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

	"github.com/phuonguno98/hypertrace/pkg/metrics"
	"github.com/shirou/gopsutil/v3/mem"
)

// Dependency injection point for testing
var virtualMemory = mem.VirtualMemory

// Memory gathers current virtual memory usage.
func (s *System) Memory() (*metrics.MemoryInfo, error) {
	vmStat, err := virtualMemory()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get memory stats: %w", metrics.ErrSourceUnavailable, err)
	}

	if vmStat.Total == 0 {
		return nil, fmt.Errorf("%w: total memory is zero", metrics.ErrMalformedData)
	}

	return &metrics.MemoryInfo{
		Total:       vmStat.Total,
		Available:   vmStat.Available,
		Used:        vmStat.Used,
		Free:        vmStat.Free,
		UsedPercent: vmStat.UsedPercent,
		Buffers:     vmStat.Buffers,
		Cached:      vmStat.Cached,
		SwapTotal:   vmStat.SwapTotal,
		SwapFree:    vmStat.SwapFree,
	}, nil
}
