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
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/phuonguno98/hypertrace/internal/config"
	"github.com/phuonguno98/hypertrace/pkg/metrics"
)

const procStatFixture = `cpu  100 0 50 800 50 0 0 0 0 0
cpu0 50 0 25 400 25 0 0 0 0 0
cpu1 50 0 25 400 25 0 0 0 0 0
intr 12345 0 0
ctxt 67890
btime 1700000000
`

// newTestSystem returns a System reading procfs fixtures from a temp dir.
func newTestSystem(t *testing.T, files map[string]string) *System {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return NewSystem(&config.Config{LscpuTimeout: time.Second}).WithProcRoot(root)
}

func TestParseCPUSample(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    metrics.CPUSample
		wantErr error
	}{
		{
			name:  "Aggregate line with guest columns",
			input: procStatFixture,
			want:  metrics.CPUSample{User: 100, System: 50, Idle: 800, IOWait: 50},
		},
		{
			name:  "Exactly eight counters",
			input: "cpu 1 2 3 4 5 6 7 8\n",
			want: metrics.CPUSample{
				User: 1, Nice: 2, System: 3, Idle: 4, IOWait: 5, IRQ: 6, SoftIRQ: 7, Steal: 8,
			},
		},
		{
			name:  "Aggregate after per-core lines",
			input: "cpu0 9 9 9 9 9 9 9 9\ncpu 1 2 3 4 5 6 7 8\n",
			want: metrics.CPUSample{
				User: 1, Nice: 2, System: 3, Idle: 4, IOWait: 5, IRQ: 6, SoftIRQ: 7, Steal: 8,
			},
		},
		{
			name:    "Only per-core lines",
			input:   "cpu0 1 2 3 4 5 6 7 8\n",
			wantErr: metrics.ErrMalformedData,
		},
		{
			name:    "Too few counters",
			input:   "cpu 1 2 3 4 5 6 7\n",
			wantErr: metrics.ErrMalformedData,
		},
		{
			name:    "Non-numeric counter",
			input:   "cpu 1 2 3 x 5 6 7 8\n",
			wantErr: metrics.ErrMalformedData,
		},
		{
			name:    "Negative counter",
			input:   "cpu 1 2 3 -4 5 6 7 8\n",
			wantErr: metrics.ErrMalformedData,
		},
		{
			name:    "Empty input",
			input:   "",
			wantErr: metrics.ErrMalformedData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCPUSample(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("parseCPUSample() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCPUSample() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseCPUSample() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSystem_CPUSample(t *testing.T) {
	s := newTestSystem(t, map[string]string{"stat": procStatFixture})

	got, err := s.CPUSample()
	if err != nil {
		t.Fatalf("CPUSample() error = %v", err)
	}
	if got.Total() != 1000 || got.Busy() != 150 {
		t.Errorf("CPUSample() total/busy = %d/%d, want 1000/150", got.Total(), got.Busy())
	}

	missing := newTestSystem(t, nil)
	if _, err := missing.CPUSample(); !errors.Is(err, metrics.ErrSourceUnavailable) {
		t.Errorf("CPUSample() on missing file error = %v, want ErrSourceUnavailable", err)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"One of each", 90061.0, "1 days, 1 hours, 1 minutes, 1 seconds"},
		{"Seconds round up", 59.9, "0 days, 0 hours, 0 minutes, 60 seconds"},
		{"Zero", 0, "0 days, 0 hours, 0 minutes, 0 seconds"},
		{"Just under a day", 86399.4, "0 days, 23 hours, 59 minutes, 59 seconds"},
		{"Fractional input", 3723.25, "0 days, 1 hours, 2 minutes, 3 seconds"},
		{"Many days", 10 * 86400, "10 days, 0 hours, 0 minutes, 0 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatUptime(tt.seconds); got != tt.want {
				t.Errorf("FormatUptime(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestSystem_Uptime(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		want    string
		wantErr error
	}{
		{
			name:  "Valid",
			files: map[string]string{"uptime": "90061.00 350000.12\n"},
			want:  "1 days, 1 hours, 1 minutes, 1 seconds",
		},
		{
			name:    "Missing file",
			files:   nil,
			wantErr: metrics.ErrSourceUnavailable,
		},
		{
			name:    "Empty file",
			files:   map[string]string{"uptime": "\n"},
			wantErr: metrics.ErrMalformedData,
		},
		{
			name:    "Unparsable",
			files:   map[string]string{"uptime": "abc 1.0\n"},
			wantErr: metrics.ErrMalformedData,
		},
		{
			name:    "Negative",
			files:   map[string]string{"uptime": "-5 1.0\n"},
			wantErr: metrics.ErrMalformedData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSystem(t, tt.files)
			got, err := s.Uptime()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Uptime() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Uptime() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Uptime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSystem_Live(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("procfs readers need Linux")
	}
	if testing.Short() {
		t.Skip("skipping live host read in short mode")
	}

	s := NewSystem(&config.Config{})

	sample, err := s.CPUSample()
	if err != nil {
		t.Fatalf("CPUSample() error = %v", err)
	}
	if sample.Total() == 0 {
		t.Error("CPUSample() total is zero")
	}

	if _, err := s.Uptime(); err != nil {
		t.Errorf("Uptime() error = %v", err)
	}

	if _, err := s.Memory(); err != nil {
		t.Errorf("Memory() error = %v", err)
	}

	// Containers often have no physical partitions.
	if usage, err := s.Disk(); err != nil {
		t.Logf("Disk() error = %v", err)
	} else {
		t.Logf("Disk() reported %d partitions", len(usage.Partitions))
	}
}
