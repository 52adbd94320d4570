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
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/phuonguno98/hypertrace/pkg/metrics"
)

// Uptime reads /proc/uptime and renders it as a human-readable duration.
func (s *System) Uptime() (string, error) {
	path := filepath.Join(s.procRoot, "uptime")

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", metrics.ErrSourceUnavailable, err)
	}

	seconds, err := parseUptime(string(data))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}

	return FormatUptime(seconds), nil
}

func parseUptime(content string) (float64, error) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: uptime data is missing", metrics.ErrMalformedData)
	}

	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", metrics.ErrMalformedData, err)
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: invalid uptime %q", metrics.ErrMalformedData, fields[0])
	}

	return seconds, nil
}

// FormatUptime renders seconds as "D days, H hours, M minutes, S seconds".
// Days, hours and minutes are floored; the seconds remainder keeps its
// fraction and is rounded on output, so 59.9 renders as "60 seconds".
func FormatUptime(seconds float64) string {
	days := math.Floor(seconds / 86400)
	hours := math.Floor(math.Mod(seconds, 86400) / 3600)
	minutes := math.Floor(math.Mod(seconds, 3600) / 60)
	secs := math.Mod(seconds, 60)

	return fmt.Sprintf("%.0f days, %.0f hours, %.0f minutes, %.0f seconds", days, hours, minutes, secs)
}
