// ./internal/packfile/writer.go
package packfile

/*
This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"

	"github.com/mshafiee/astroeph/internal/cheby"
)

// Series holds the coefficients of one body ready to be written.
type Series struct {
	Target int32
	Center int32
	NCoeff int
	SegLen float64
	// Coeffs holds, per segment, NCoeff values of x, then y, then z.
	Coeffs []float64
}

// Fit samples f over [start, end] in segments of segLen days and returns
// the per-segment Chebyshev coefficients. f returns a position in AU.
func Fit(target, center int32, start, end, segLen float64, ncoeff int, f func(jd float64) [3]float64) Series {
	nseg := int(math.Ceil((end - start) / segLen))
	s := Series{Target: target, Center: center, NCoeff: ncoeff, SegLen: segLen}
	for k := 0; k < nseg; k++ {
		t0 := start + float64(k)*segLen
		var comp [3][]float64
		for c := 0; c < 3; c++ {
			c := c
			comp[c] = cheby.Fit(func(x float64) float64 {
				return f(t0 + (x+1)*segLen/2)[c]
			}, ncoeff)
		}
		s.Coeffs = append(s.Coeffs, comp[0]...)
		s.Coeffs = append(s.Coeffs, comp[1]...)
		s.Coeffs = append(s.Coeffs, comp[2]...)
	}
	return s
}

// WriteOptions controls the on-disk layout produced by Write.
type WriteOptions struct {
	ByteOrder binary.ByteOrder // defaults to little endian
	Version   uint32           // defaults to FormatVersion
	DENumber  int32
}

// Write serialises a packed file covering [start, end]. Every series must
// start at start and span the whole range.
func Write(w io.Writer, start, end float64, series []Series, opt WriteOptions) error {
	order := opt.ByteOrder
	if order == nil {
		order = binary.LittleEndian
	}
	version := opt.Version
	if version == 0 {
		version = FormatVersion
	}
	if len(series) == 0 || len(series) > maxRecords {
		return fmt.Errorf("%w: %d series", ErrCorrupt, len(series))
	}

	var head bytes.Buffer
	head.WriteString(Magic)
	put := func(v any) { _ = binary.Write(&head, order, v) }
	put(endianMarker)
	put(version)
	put(opt.DENumber)
	put(start)
	put(end)
	put(uint32(len(series)))

	offset := uint64(fixedHeaderLen + len(series)*indexEntrySize + 4)
	for _, s := range series {
		segVals := uint64(3 * s.NCoeff)
		nseg := uint64(len(s.Coeffs)) / segVals
		put(s.Target)
		put(s.Center)
		put(uint32(s.NCoeff))
		put(uint32(nseg))
		put(start)
		put(s.SegLen)
		put(offset)
		put(uint32(0))
		put(uint32(0))
		offset += nseg * segVals * 8
	}
	put(crc32.ChecksumIEEE(head.Bytes()))

	if _, err := w.Write(head.Bytes()); err != nil {
		return err
	}
	for _, s := range series {
		if err := binary.Write(w, order, s.Coeffs); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile is Write to a new file at path.
func WriteFile(path string, start, end float64, series []Series, opt WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, start, end, series, opt); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
