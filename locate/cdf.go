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

package locate

import "sort"

// CDF is a nondecreasing cumulative distribution over a discrete set of
// weighted bins (e.g. an emissivity table), supporting weighted sampling
// by binary search. The zero value is an empty, unusable CDF; use
// NewCDF.
type CDF struct {
	cum []float64 // cumulative sum, cum[i] = sum of weights 0..i
	sum float64   // total weight (pre-normalization)
}

// NewCDF allocates a CDF with n bins, all initially zero weight.
func NewCDF(n int) *CDF {
	return &CDF{cum: make([]float64, n)}
}

// Size returns the number of bins.
func (c *CDF) Size() int { return len(c.cum) }

// SetValue sets the raw (pre-cumulative) weight of bin i. Call
// Normalize after setting all bins and before sampling.
func (c *CDF) SetValue(i int, v float64) {
	if i == 0 {
		c.cum[0] = v
	} else {
		c.cum[i] = c.cum[i-1] + v
	}
}

// Normalize rescales the CDF so its final cumulative value is 1. It is a
// no-op (safe to call) on an all-zero CDF, which remains unsampleable -
// Sample returns the last index for any input in that degenerate case.
func (c *CDF) Normalize() {
	n := len(c.cum)
	if n == 0 {
		return
	}
	c.sum = c.cum[n-1]
	if c.sum <= 0 {
		return
	}
	for i := range c.cum {
		c.cum[i] /= c.sum
	}
	c.sum = 1
}

// Sample returns the index of the bin containing the uniform deviate u
// in [0,1), via binary search over the cumulative sums.
func (c *CDF) Sample(u float64) int {
	n := len(c.cum)
	if n == 0 {
		return 0
	}
	i := sort.Search(n, func(i int) bool { return c.cum[i] > u })
	if i == n {
		i = n - 1
	}
	return i
}
