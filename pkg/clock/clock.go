/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

// Package clock normalises the handful of clock representations that archive
// and filesystem headers carry (time.Time, Unix seconds, Unix nanoseconds)
// into a single uint64 nanoseconds-since-epoch value, saturating instead of
// overflowing or panicking when a source value cannot be represented.
package clock

import (
	"math/bits"
	"time"
)

// Nanos is nanoseconds elapsed since the Unix epoch. Zero means unknown.
type Nanos uint64

// FromTime converts a time.Time to Nanos. Zero and pre-epoch values collapse
// to 0; values beyond what a uint64 can hold also saturate to 0.
func FromTime(t time.Time) Nanos {
	if t.IsZero() {
		return 0
	}

	sec := t.Unix()
	if sec < 0 {
		return 0
	}

	return FromEpochSeconds(uint64(sec), uint32(t.Nanosecond()))
}

// FromEpochSeconds combines whole seconds since the epoch with a sub-second
// nanosecond remainder, saturating on overflow rather than wrapping.
func FromEpochSeconds(sec uint64, nsec uint32) Nanos {
	hi, lo := bits.Mul64(sec, uint64(time.Second))
	if hi != 0 {
		return 0
	}

	sum, carry := bits.Add64(lo, uint64(nsec), 0)
	if carry != 0 {
		return 0
	}

	return Nanos(sum)
}

// FromDuration treats d as an offset from the epoch, saturating negative
// durations to 0.
func FromDuration(d time.Duration) Nanos {
	if d < 0 {
		return 0
	}
	return Nanos(d)
}
