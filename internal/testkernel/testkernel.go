// ./internal/testkernel/testkernel.go
package testkernel

/*
Package testkernel writes small JPL-layout kernels for tests.

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
	"math"
	"os"

	"github.com/mshafiee/astroeph/internal/cheby"
)

// Row numbers of the ipt table that a test kernel can fill.
const (
	RowMercury = 0
	RowEMB     = 2
	RowPluto   = 8
	RowMoon    = 9 // geocentric
	RowSun     = 10
	RowNut     = 11
)

// Constant is one named header constant.
type Constant struct {
	Name  string
	Value float64
}

// Spec describes the kernel to write.
type Spec struct {
	Title     string // first title line, e.g. "JPL Planetary Ephemeris DE431/LE431"
	Start     float64
	End       float64
	Step      float64
	AU        float64 // km
	EMRAT     float64
	DENumber  uint32
	NCoeff    int // per component; at least 13 so that the header fits in one record
	Order     binary.ByteOrder
	Nutations bool
	Constants []Constant
	// State returns row item at jd: km for rows 0 to 10, radians for nutations.
	State func(item int, jd float64) []float64
}

const (
	headerOffset = 252 + 400*6
	headerEnd    = headerOffset + 5*8 + 41*4 + 24
)

// Write creates the kernel at path.
func Write(path string, s Spec) error {
	order := s.Order
	if order == nil {
		order = binary.LittleEndian
	}
	rows := 11
	if s.Nutations {
		rows = 12
	}
	dim := func(row int) int {
		if row == RowNut {
			return 2
		}
		return 3
	}

	var ipt [13][3]uint32
	off := 3
	for r := 0; r < rows; r++ {
		ipt[r] = [3]uint32{uint32(off), uint32(s.NCoeff), 1}
		off += s.NCoeff * dim(r)
	}
	ncoeff := off - 1
	recsize := ncoeff * 8
	if recsize < headerEnd || len(s.Constants)*8 > recsize {
		return fmt.Errorf("testkernel: record of %d bytes too small", recsize)
	}

	var buf bytes.Buffer
	put := func(v any) { _ = binary.Write(&buf, order, v) }

	line := func(text string) {
		b := make([]byte, 84)
		copy(b, fmt.Sprintf("%-84s", text))
		buf.Write(b)
	}
	line(s.Title)
	line(fmt.Sprintf("Start Epoch: JED= %11.1f", s.Start))
	line(fmt.Sprintf("Final Epoch: JED= %11.1f", s.End))
	for i := 0; i < 400; i++ {
		name := ""
		if i < len(s.Constants) {
			name = s.Constants[i].Name
		}
		buf.WriteString(fmt.Sprintf("%-6s", name))
	}
	put(s.Start)
	put(s.End)
	put(s.Step)
	put(uint32(len(s.Constants)))
	put(s.AU)
	put(s.EMRAT)
	for r := 0; r < 12; r++ {
		put(ipt[r])
	}
	put(s.DENumber)
	put(ipt[12])
	buf.Write(make([]byte, recsize-buf.Len()))

	for _, c := range s.Constants {
		put(c.Value)
	}
	buf.Write(make([]byte, 2*recsize-buf.Len()))

	nrec := int(math.Round((s.End - s.Start) / s.Step))
	rec := make([]float64, ncoeff)
	for n := 0; n < nrec; n++ {
		t0 := s.Start + float64(n)*s.Step
		rec[0], rec[1] = t0, t0+s.Step
		for r := 0; r < rows; r++ {
			for c := 0; c < dim(r); c++ {
				r, c := r, c
				coef := cheby.Fit(func(x float64) float64 {
					return s.State(r, t0+(x+1)*s.Step/2)[c]
				}, s.NCoeff)
				copy(rec[int(ipt[r][0])-1+c*s.NCoeff:], coef)
			}
		}
		put(rec)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
