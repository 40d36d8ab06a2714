/*
Copyright (C) 2026 the mcrt authors.
This file is part of mcrt.

mcrt is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

mcrt is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with mcrt.  If not, see <http://www.gnu.org/licenses/>.
*/

package transport

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// addFloat64 atomically adds delta to *addr via a compare-and-swap loop
// over the value's bit pattern. Packet goroutines share no mutable
// state with each other, only these per-zone tally writes - this is
// the "atomic add" half of the concurrency model's commutative-write
// requirement (the alternative, per-thread shadow tallies merged at the
// step barrier, is equally valid; this module picks the CAS form since
// zone tallies are a handful of floats, not large per-thread arrays).
func addFloat64(addr *float64, delta float64) {
	a := (*uint64)(unsafe.Pointer(addr))
	for {
		old := atomic.LoadUint64(a)
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if atomic.CompareAndSwapUint64(a, old, next) {
			return
		}
	}
}

// addJNu adds val to zone i's mean-intensity tally in frequency bin
// bin, ignoring out-of-range zone/bin indices (the caller already
// clamps these, this is a defensive no-op).
func (t *Transport) addJNu(i, bin int, val float64) {
	if i < 0 || i >= t.Grid.NZones() {
		return
	}
	z := t.Grid.Zone(i)
	if bin < 0 || bin >= len(z.JNu) {
		return
	}
	addFloat64(&z.JNu[bin], val)
}

// addEAbs adds val to zone i's absorbed-energy tally.
func (t *Transport) addEAbs(i int, val float64) {
	if i < 0 || i >= t.Grid.NZones() {
		return
	}
	addFloat64(&t.Grid.Zone(i).EAbs, val)
}
