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

package server

import (
	"context"
	"errors"
	"testing"

	"github.com/phuonguno98/hypertrace/pkg/metrics"
)

type fakeSnapshotter struct {
	snapshot *metrics.MetricsSnapshot
	identity *metrics.CPUIdentity
	err      error
}

func (f *fakeSnapshotter) Metrics(context.Context) (*metrics.MetricsSnapshot, error) {
	return f.snapshot, f.err
}

func (f *fakeSnapshotter) CPUIdentity(context.Context) (*metrics.CPUIdentity, error) {
	return f.identity, f.err
}

func TestDispatcher_Handle(t *testing.T) {
	ok := &fakeSnapshotter{
		snapshot: &metrics.MetricsSnapshot{
			CPULoad: 12.5,
			Memory:  metrics.FieldError{Error: "Failed to collect memory metrics"},
			Uptime:  "0 days, 0 hours, 1 minutes, 0 seconds",
			Disk:    &metrics.DiskUsage{Total: 10, Used: 4, Free: 6, UsedPercent: 40},
		},
		identity: &metrics.CPUIdentity{CPUCount: 1, CPUMHz: 1000, ModelName: "m", BogoMIPS: 50, Architecture: "a", CacheInfo: ""},
	}
	failing := &fakeSnapshotter{err: errors.New("boom")}

	tests := []struct {
		name string
		snap Snapshotter
		text string
		want string
	}{
		{
			name: "Metrics",
			snap: ok,
			text: "get_metrics",
			want: `{"cpu_load":12.5,"memory":{"error":"Failed to collect memory metrics"},"uptime":"0 days, 0 hours, 1 minutes, 0 seconds","disk_metrics":{"total":10,"used":4,"free":6,"used_percent":40,"partitions":null}}`,
		},
		{
			name: "CPU info with surrounding whitespace",
			snap: ok,
			text: "\tget_cpu_info \r\n",
			want: `{"cpu_count":1,"cpu_mhz":1000,"model_name":"m","bogomips":50,"architecture":"a","cache_info":""}`,
		},
		{name: "Metrics failure", snap: failing, text: "get_metrics"},
		{name: "CPU info failure", snap: failing, text: "get_cpu_info"},
		{name: "Unknown command", snap: ok, text: "get_memory"},
		{name: "Empty", snap: ok, text: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDispatcher(tt.snap).Handle(context.Background(), discardLogger(), tt.text)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Handle(%q) = %s, want no reply", tt.text, got)
				}
				return
			}
			if string(got) != tt.want {
				t.Errorf("Handle(%q) =\n%s\nwant\n%s", tt.text, got, tt.want)
			}
		})
	}
}
