// ./jpleph/binary_reader.go
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
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// decoder reads the numeric fields of one kernel in that kernel's byte order.
// Kernels are usually little-endian; big-endian ones are detected from ncon.
type decoder struct {
	order binary.ByteOrder
}

func detectOrder(header []byte) decoder {
	if binary.LittleEndian.Uint32(header[offNCon:]) > swapThreshold {
		return decoder{order: binary.BigEndian}
	}
	return decoder{order: binary.LittleEndian}
}

func (d decoder) uint32At(b []byte, off int) uint32 {
	return d.order.Uint32(b[off : off+4])
}

func (d decoder) float64At(b []byte, off int) float64 {
	return math.Float64frombits(d.order.Uint64(b[off : off+8]))
}

func (d decoder) float64s(b []byte, dst []float64) {
	for i := range dst {
		dst[i] = math.Float64frombits(d.order.Uint64(b[8*i:]))
	}
}

// readAt reads exactly len(buf) bytes at off.
func readAt(r io.ReadSeeker, off int64, buf []byte) error {
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek to %d: %v", ErrFileRead, off, err)
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: %d bytes at %d: %v", ErrFileRead, len(buf), off, err)
	}
	return nil
}
