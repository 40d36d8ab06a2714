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

package gas

import "fmt"

// UnphysicalStateError reports a solved gas state that violates a basic
// physical constraint (negative population, ionization fractions that
// don't sum to one, ...). Callers treat it as non-recoverable for the
// zone that produced it.
type UnphysicalStateError struct {
	Zone   int
	Detail string
}

func (e *UnphysicalStateError) Error() string {
	return fmt.Sprintf("gas: unphysical state in zone %d: %s", e.Zone, e.Detail)
}
