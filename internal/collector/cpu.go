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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/phuonguno98/hypertrace/pkg/metrics"
)

// cpuSampleFields is the number of tick counters read from the aggregate cpu line.
const cpuSampleFields = 8

// CPUSample reads the aggregate CPU tick counters from /proc/stat.
func (s *System) CPUSample() (metrics.CPUSample, error) {
	path := filepath.Join(s.procRoot, "stat")

	f, err := os.Open(path)
	if err != nil {
		return metrics.CPUSample{}, fmt.Errorf("%w: %w", metrics.ErrSourceUnavailable, err)
	}
	defer f.Close()

	sample, err := parseCPUSample(f)
	if err != nil {
		return metrics.CPUSample{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	return sample, nil
}

// parseCPUSample finds the all-CPU aggregate line ("cpu ", not "cpu0") and
// parses the eight counters that follow the label.
func parseCPUSample(r io.Reader) (metrics.CPUSample, error) {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "cpu" {
			continue
		}

		if len(fields)-1 < cpuSampleFields {
			return metrics.CPUSample{}, fmt.Errorf("%w: aggregate cpu line has %d counters, want %d",
				metrics.ErrMalformedData, len(fields)-1, cpuSampleFields)
		}

		var vals [cpuSampleFields]uint64
		for i := range vals {
			v, err := strconv.ParseUint(fields[i+1], 10, 64)
			if err != nil {
				return metrics.CPUSample{}, fmt.Errorf("%w: counter %d: %w", metrics.ErrMalformedData, i, err)
			}
			vals[i] = v
		}

		return metrics.CPUSample{
			User:    vals[0],
			Nice:    vals[1],
			System:  vals[2],
			Idle:    vals[3],
			IOWait:  vals[4],
			IRQ:     vals[5],
			SoftIRQ: vals[6],
			Steal:   vals[7],
		}, nil
	}

	if err := scanner.Err(); err != nil {
		return metrics.CPUSample{}, fmt.Errorf("%w: %w", metrics.ErrSourceUnavailable, err)
	}

	return metrics.CPUSample{}, fmt.Errorf("%w: aggregate cpu line not found", metrics.ErrMalformedData)
}
