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
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phuonguno98/hypertrace/pkg/metrics"
)

// fakeSource replays fixed readings. CPU samples are returned in order and
// the last one repeats.
type fakeSource struct {
	samples   []metrics.CPUSample
	sampleErr error
	calls     int

	identity    *metrics.CPUIdentity
	identityErr error
	memory      *metrics.MemoryInfo
	memoryErr   error
	disk        *metrics.DiskUsage
	diskErr     error
	uptime      string
	uptimeErr   error
}

func (f *fakeSource) CPUSample() (metrics.CPUSample, error) {
	if f.sampleErr != nil {
		return metrics.CPUSample{}, f.sampleErr
	}
	i := f.calls
	if i >= len(f.samples) {
		i = len(f.samples) - 1
	}
	f.calls++
	return f.samples[i], nil
}

func (f *fakeSource) CPUIdentity(context.Context) (*metrics.CPUIdentity, error) {
	return f.identity, f.identityErr
}

func (f *fakeSource) Memory() (*metrics.MemoryInfo, error) { return f.memory, f.memoryErr }
func (f *fakeSource) Disk() (*metrics.DiskUsage, error)    { return f.disk, f.diskErr }
func (f *fakeSource) Uptime() (string, error)              { return f.uptime, f.uptimeErr }

func newFakeSource() *fakeSource {
	return &fakeSource{
		samples: []metrics.CPUSample{
			{User: 100, System: 50, Idle: 800, IOWait: 50},
			{User: 130, System: 60, Idle: 850, IOWait: 60},
		},
		identity: &metrics.CPUIdentity{CPUCount: 4, ModelName: "Test CPU"},
		memory:   &metrics.MemoryInfo{Total: 1000, Used: 400, UsedPercent: 40},
		disk:     &metrics.DiskUsage{Total: 2000, Used: 500, Free: 1500, UsedPercent: 25},
		uptime:   "1 days, 1 hours, 1 minutes, 1 seconds",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAssembler_Metrics(t *testing.T) {
	const window = 20 * time.Millisecond

	src := newFakeSource()
	a := NewAssembler(src, window, discardLogger())

	start := time.Now()
	snap, err := a.Metrics(context.Background())
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < window {
		t.Errorf("Metrics() returned after %v, want at least %v", elapsed, window)
	}
	if src.calls != 2 {
		t.Errorf("CPUSample called %d times, want 2", src.calls)
	}

	// busy delta 40 over total delta 100
	if snap.CPULoad != 40.0 {
		t.Errorf("CPULoad = %v, want 40", snap.CPULoad)
	}
	if m, ok := snap.Memory.(*metrics.MemoryInfo); !ok || m.Total != 1000 {
		t.Errorf("Memory = %#v", snap.Memory)
	}
	if d, ok := snap.Disk.(*metrics.DiskUsage); !ok || d.Total != 2000 {
		t.Errorf("Disk = %#v", snap.Disk)
	}
	if u, ok := snap.Uptime.(string); !ok || u != src.uptime {
		t.Errorf("Uptime = %#v", snap.Uptime)
	}
}

func TestAssembler_MetricsFieldErrors(t *testing.T) {
	src := newFakeSource()
	src.memoryErr = metrics.ErrSourceUnavailable
	src.diskErr = metrics.ErrMalformedData
	src.uptimeErr = metrics.ErrSourceUnavailable

	a := NewAssembler(src, time.Millisecond, discardLogger())
	snap, err := a.Metrics(context.Background())
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want string
	}{
		{"memory", snap.Memory, "Failed to collect memory metrics"},
		{"disk", snap.Disk, "Failed to collect disk metrics"},
		{"uptime", snap.Uptime, "Failed to collect uptime"},
	}
	for _, tt := range tests {
		fe, ok := tt.got.(metrics.FieldError)
		if !ok {
			t.Errorf("%s = %#v, want FieldError", tt.name, tt.got)
			continue
		}
		if fe.Error != tt.want {
			t.Errorf("%s error = %q, want %q", tt.name, fe.Error, tt.want)
		}
	}
	if snap.CPULoad != 40.0 {
		t.Errorf("CPULoad = %v, want 40", snap.CPULoad)
	}
}

func TestAssembler_MetricsCPUFailure(t *testing.T) {
	src := newFakeSource()
	src.sampleErr = metrics.ErrSourceUnavailable

	a := NewAssembler(src, time.Millisecond, discardLogger())
	snap, err := a.Metrics(context.Background())
	if !errors.Is(err, metrics.ErrSourceUnavailable) {
		t.Fatalf("Metrics() error = %v, want ErrSourceUnavailable", err)
	}
	if snap != nil {
		t.Errorf("Metrics() snapshot = %#v, want nil", snap)
	}
}

func TestAssembler_MetricsCanceled(t *testing.T) {
	src := newFakeSource()
	a := NewAssembler(src, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.Metrics(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Metrics() error = %v, want context.Canceled", err)
	}
	if src.calls != 1 {
		t.Errorf("CPUSample called %d times, want 1", src.calls)
	}
}

func TestAssembler_CPUIdentity(t *testing.T) {
	src := newFakeSource()
	a := NewAssembler(src, 0, discardLogger())

	got, err := a.CPUIdentity(context.Background())
	if err != nil {
		t.Fatalf("CPUIdentity() error = %v", err)
	}
	if got.CPUCount != 4 || got.ModelName != "Test CPU" {
		t.Errorf("CPUIdentity() = %+v", got)
	}

	src.identityErr = metrics.ErrMalformedData
	if _, err := a.CPUIdentity(context.Background()); !errors.Is(err, metrics.ErrMalformedData) {
		t.Errorf("CPUIdentity() error = %v, want ErrMalformedData", err)
	}
}

func TestNewAssembler_DefaultWindow(t *testing.T) {
	a := NewAssembler(newFakeSource(), 0, discardLogger())
	if a.window != time.Second {
		t.Errorf("window = %v, want 1s", a.window)
	}
}
