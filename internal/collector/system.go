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
	"time"

	"github.com/phuonguno98/hypertrace/internal/config"
)

// DefaultProcRoot is where the kernel exposes its counters.
const DefaultProcRoot = "/proc"

// System reads counters from the local host. It implements Source.
type System struct {
	procRoot       string
	lscpuTimeout   time.Duration
	includeDevices []string // Devices or mountpoints to report (empty = all)
	excludeDevices []string // Devices or mountpoints to skip
}

// NewSystem creates a reader bound to the host's procfs, using the lscpu
// timeout and disk filters from cfg.
func NewSystem(cfg *config.Config) *System {
	return &System{
		procRoot:       DefaultProcRoot,
		lscpuTimeout:   cfg.LscpuTimeout,
		includeDevices: cfg.Disk.Include,
		excludeDevices: cfg.Disk.Exclude,
	}
}

// WithProcRoot returns a copy of s that reads procfs files under root.
func (s *System) WithProcRoot(root string) *System {
	cp := *s
	cp.procRoot = root
	return &cp
}
