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
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/phuonguno98/hypertrace/pkg/metrics"
)

// Commands understood on a metrics session.
const (
	CommandGetMetrics = "get_metrics"
	CommandGetCPUInfo = "get_cpu_info"
)

// Snapshotter produces the two kinds of reply a session can send.
type Snapshotter interface {
	Metrics(ctx context.Context) (*metrics.MetricsSnapshot, error)
	CPUIdentity(ctx context.Context) (*metrics.CPUIdentity, error)
}

// Dispatcher maps inbound text commands to JSON replies.
type Dispatcher struct {
	snap Snapshotter
}

// NewDispatcher creates a dispatcher backed by snap.
func NewDispatcher(snap Snapshotter) *Dispatcher {
	return &Dispatcher{snap: snap}
}

// Handle runs one command and returns the encoded reply, or nil when
// nothing should be sent back. Failures are logged to logger only.
func (d *Dispatcher) Handle(ctx context.Context, logger *slog.Logger, text string) []byte {
	command := strings.TrimSpace(text)

	var reply any
	switch command {
	case CommandGetMetrics:
		snapshot, err := d.snap.Metrics(ctx)
		if err != nil {
			logger.Error("Failed to collect metrics", "error", err)
			return nil
		}
		reply = snapshot
	case CommandGetCPUInfo:
		identity, err := d.snap.CPUIdentity(ctx)
		if err != nil {
			logger.Error("Failed to collect CPU info", "error", err)
			return nil
		}
		reply = identity
	default:
		logger.Warn("Unexpected command", "command", command)
		return nil
	}

	data, err := json.Marshal(reply)
	if err != nil {
		logger.Error("Failed to encode reply", "command", command, "error", err)
		return nil
	}

	logger.Debug("Command handled", "command", command, "bytes", len(data))
	return data
}
