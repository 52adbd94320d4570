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

package metrics

// CalculateCPULoad returns the share of non-idle ticks between two samples as a percentage.
// Formula: 100 * ΔBusy / ΔTotal
//
// A zero or negative ΔTotal (no tick elapsed, or counters reset by a reboot
// between the samples) yields 0.
func CalculateCPULoad(prev, curr CPUSample) float64 {
	prevTotal, currTotal := prev.Total(), curr.Total()
	if currTotal <= prevTotal {
		return 0.0
	}

	deltaTotal := currTotal - prevTotal
	deltaBusy := subSat(curr.Busy(), prev.Busy())

	load := 100.0 * float64(deltaBusy) / float64(deltaTotal)
	if load > 100.0 {
		load = 100.0
	}

	return load
}

// subSat subtracts b from a, stopping at zero.
func subSat(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
