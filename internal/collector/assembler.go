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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phuonguno98/hypertrace/internal/config"
	"github.com/phuonguno98/hypertrace/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Source provides the raw readings an Assembler combines.
type Source interface {
	CPUSample() (metrics.CPUSample, error)
	CPUIdentity(ctx context.Context) (*metrics.CPUIdentity, error)
	Memory() (*metrics.MemoryInfo, error)
	Disk() (*metrics.DiskUsage, error)
	Uptime() (string, error)
}

// Error markers sent to clients in place of a failed field.
const (
	memoryErrorMessage = "Failed to collect memory metrics"
	diskErrorMessage   = "Failed to collect disk metrics"
	uptimeErrorMessage = "Failed to collect uptime"
)

// Assembler builds point-in-time responses from a Source.
type Assembler struct {
	source Source
	window time.Duration
	logger *slog.Logger
}

// NewAssembler creates an assembler that waits window between the two CPU
// samples of a metrics snapshot. A non-positive window uses the default.
func NewAssembler(source Source, window time.Duration, logger *slog.Logger) *Assembler {
	if window <= 0 {
		window = config.DefaultSampleWindow
	}
	return &Assembler{
		source: source,
		window: window,
		logger: logger,
	}
}

// Metrics samples CPU counters twice, one window apart, then reads memory,
// disk and uptime concurrently. A failed CPU sample fails the snapshot;
// the other readers degrade to an inline FieldError.
func (a *Assembler) Metrics(ctx context.Context) (*metrics.MetricsSnapshot, error) {
	prev, err := a.source.CPUSample()
	if err != nil {
		return nil, fmt.Errorf("first CPU sample: %w", err)
	}

	timer := time.NewTimer(a.window)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	curr, err := a.source.CPUSample()
	if err != nil {
		return nil, fmt.Errorf("second CPU sample: %w", err)
	}

	var (
		g      errgroup.Group
		memory any
		disk   any
		uptime any
	)

	// Readers never fail the group; each slot records its own outcome.
	g.Go(func() error {
		m, err := a.source.Memory()
		if err != nil {
			a.logger.Warn("Failed to collect memory metrics", "error", err)
			memory = metrics.FieldError{Error: memoryErrorMessage}
			return nil
		}
		memory = m
		return nil
	})

	g.Go(func() error {
		d, err := a.source.Disk()
		if err != nil {
			a.logger.Warn("Failed to collect disk metrics", "error", err)
			disk = metrics.FieldError{Error: diskErrorMessage}
			return nil
		}
		disk = d
		return nil
	})

	g.Go(func() error {
		u, err := a.source.Uptime()
		if err != nil {
			a.logger.Warn("Failed to collect uptime", "error", err)
			uptime = metrics.FieldError{Error: uptimeErrorMessage}
			return nil
		}
		uptime = u
		return nil
	})

	_ = g.Wait()

	snapshot := &metrics.MetricsSnapshot{
		CPULoad: metrics.CalculateCPULoad(prev, curr),
		Memory:  memory,
		Uptime:  uptime,
		Disk:    disk,
	}

	a.logger.Debug("Snapshot assembled", "cpu_load", snapshot.CPULoad)

	return snapshot, nil
}

// CPUIdentity reads the static CPU description.
func (a *Assembler) CPUIdentity(ctx context.Context) (*metrics.CPUIdentity, error) {
	identity, err := a.source.CPUIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("cpu identity: %w", err)
	}
	return identity, nil
}
