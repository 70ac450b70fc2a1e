// ./jpleph/internal_types.go
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

import (
	"io"

	"github.com/mshafiee/astroeph/internal/cheby"
	"go.uber.org/zap"
)

// Kernel layout. Numeric fields are in the byte order of the machine that
// wrote the file; readHeader detects a swapped file from ncon.
//
//	0     3 x 84 bytes   title lines; the first names the release ("DE431/LE431")
//	252   400 x 6 bytes  names of the first 400 constants
//	2652  float64 x 3    start JD, end JD, record span in days
//	2676  int32          ncon
//	2680  float64 x 2    AU in km, Earth/Moon mass ratio
//	2696  int32 x 36     ipt rows 0..11: offset, coefficients, sub-intervals
//	2840  int32          numde
//	2844  int32 x 3      libration row, stored as ipt[12]
//	2856  6 x (ncon-400) names of constants past the 400th, if any
//	then  int32 x 6      ipt rows 13 (mantle omega) and 14 (TT-TDB), zero before DE430t
//
// Record 1 holds the constant values, and data record n starts at
// byte (n+2)*recsize with recsize = 8*ncoeff. Typical ncoeff values are
// 1018 for DE405 through DE441, 728 for DE406 and 1122 for DE440t.

// jplEphData holds the parsed header of an open kernel and the record cache.
type jplEphData struct {
	ephemStart       float64       // first Julian Ephemeris Date covered
	ephemEnd         float64       // last Julian Ephemeris Date covered
	ephemStep        float64       // record length in days
	ncon             uint32        // number of constants
	au               float64       // km per AU
	emrat            float64       // Earth/Moon mass ratio
	ipt              [nItems][3]uint32
	ephemerisVersion uint64
	name             string

	kernelSize uint32 // record length in 4-byte words
	recsize    uint32 // record length in bytes
	ncoeff     uint32 // doubles per record
	dec        decoder

	currCacheLoc int64 // record number held in cache, -1 when empty
	cache        []float64
	eval         *cheby.Evaluator
	ifile        io.ReadSeekCloser
	log          *zap.Logger
}
