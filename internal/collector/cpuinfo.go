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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/phuonguno98/hypertrace/pkg/metrics"
)

// architectureLines is the number of leading lscpu lines reported as the architecture block.
const architectureLines = 4

// runLscpu is swapped out in tests.
var runLscpu = func(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "lscpu")
	// Field labels are matched literally, so pin the locale.
	cmd.Env = append(os.Environ(), "LC_ALL=C")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("lscpu: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("lscpu: %w", err)
	}

	return out, nil
}

// CPUIdentity reads the static CPU description from /proc/cpuinfo and lscpu.
// Every field is required; a partial record is never returned.
func (s *System) CPUIdentity(ctx context.Context) (*metrics.CPUIdentity, error) {
	path := filepath.Join(s.procRoot, "cpuinfo")

	cpuinfo, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", metrics.ErrSourceUnavailable, err)
	}

	if s.lscpuTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lscpuTimeout)
		defer cancel()
	}

	lscpu, err := runLscpu(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", metrics.ErrSourceUnavailable, err)
	}

	identity, err := parseCPUIdentity(string(cpuinfo), string(lscpu))
	if err != nil {
		return nil, fmt.Errorf("parsing cpu identity: %w", err)
	}

	return identity, nil
}

func parseCPUIdentity(cpuinfo, lscpu string) (*metrics.CPUIdentity, error) {
	lines := strings.Split(cpuinfo, "\n")

	count := countProcessors(lines)
	if count == 0 {
		return nil, fmt.Errorf("%w: no processor entries", metrics.ErrMalformedData)
	}

	mhz, err := floatField(lines, "cpu MHz")
	if err != nil {
		return nil, err
	}

	model, ok := cpuinfoField(lines, "model name")
	if !ok || model == "" {
		return nil, fmt.Errorf("%w: missing model name", metrics.ErrMalformedData)
	}

	bogomips, err := floatField(lines, "bogomips")
	if err != nil {
		return nil, err
	}

	arch := architecture(lscpu)
	if arch == "" {
		return nil, fmt.Errorf("%w: empty lscpu output", metrics.ErrMalformedData)
	}

	return &metrics.CPUIdentity{
		CPUCount:     count,
		CPUMHz:       mhz,
		ModelName:    model,
		BogoMIPS:     bogomips,
		Architecture: arch,
		CacheInfo:    cacheInfo(lscpu),
	}, nil
}

func countProcessors(lines []string) uint64 {
	var n uint64
	for _, line := range lines {
		if strings.HasPrefix(line, "processor") {
			n++
		}
	}
	return n
}

// cpuinfoField returns the value of the first "key : value" line whose key
// starts with the given prefix, compared case-insensitively (arm64 spells it BogoMIPS).
func cpuinfoField(lines []string, key string) (string, bool) {
	for _, line := range lines {
		if len(line) < len(key) || !strings.EqualFold(line[:len(key)], key) {
			continue
		}

		_, value, found := strings.Cut(line, ":")
		if !found {
			return "", false
		}
		return strings.TrimSpace(value), true
	}
	return "", false
}

func floatField(lines []string, key string) (float64, error) {
	raw, ok := cpuinfoField(lines, key)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", metrics.ErrMalformedData, key)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", metrics.ErrMalformedData, key, errors.Unwrap(err))
	}

	return v, nil
}

// architecture returns the first four lines of lscpu output.
func architecture(lscpu string) string {
	lines := splitLines(lscpu)
	if len(lines) > architectureLines {
		lines = lines[:architectureLines]
	}
	return strings.Join(lines, "\n")
}

// cacheInfo returns every lscpu line mentioning a cache.
func cacheInfo(lscpu string) string {
	var caches []string
	for _, line := range splitLines(lscpu) {
		if strings.Contains(line, "cache") {
			caches = append(caches, line)
		}
	}
	return strings.Join(caches, "\n")
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
