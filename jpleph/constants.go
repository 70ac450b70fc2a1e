// ./jpleph/constants.go
package jpleph

/*
This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.

Authorship:
Mohammad Shafiee authored this Go code as a translation of the original C code.
The C version was a translation of Fortran-77 code originally written by
Piotr A. Dybczynski and later revised by Bill J Gray.
*/

// Byte offsets of the kernel header. See internal_types.go for the layout.
const (
	titleLineLen   = 84
	titleLen       = 3 * titleLineLen
	constNameLen   = 6
	headerOffset   = titleLen + 400*constNameLen // 2652
	headerSize     = 5*8 + 41*4                  // doubles, then ncon + 36 ipt + numde + 3 lpt
	extraNameStart = headerOffset + headerSize   // names of constants past the 400th

	offStart = 0
	offEnd   = 8
	offStep  = 16
	offNCon  = 24
	offAU    = 28
	offEMRAT = 36
	offIPT   = 44
	offNumDE = offIPT + 36*4
	offLPT   = offNumDE + 4
)

// Sanity ranges applied to the header.
const (
	minEMRAT = 81.30055
	maxEMRAT = 81.3008

	// An ncon above this can only come from reading the header in the wrong byte order.
	swapThreshold = 65536

	minDEVersion = 100
	maxDEVersion = 999
)

// Row numbers in the ipt table.
const (
	itemEMB        = 2
	itemMoon       = 9 // geocentric
	itemSun        = 10
	itemNutations  = 11
	itemLibrations = 12
	itemMantle     = 13
	itemTTmTDB     = 14
	nItems         = 15
)

// itemDimension returns the number of components stored for an ipt row.
func itemDimension(item int) int {
	switch item {
	case itemNutations:
		return 2
	case itemTTmTDB:
		return 1
	default:
		return 3
	}
}
