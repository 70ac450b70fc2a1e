// ./internal/packfile/reader.go
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
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"

	"github.com/mshafiee/astroeph/internal/cheby"
)

// File is an open packed ephemeris file.
type File struct {
	Path   string
	Header Header

	r      io.ReaderAt
	closer io.Closer
	size   int64

	// last segment read, reused while consecutive calls stay inside it
	cacheTarget int32
	cacheSeg    int64
	cache       []float64
	eval        *cheby.Evaluator
}

// Open opens and validates the packed file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	pf, err := NewReader(f, st.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	pf.Path = path
	pf.closer = f
	return pf, nil
}

// NewReader parses the header of a packed file of the given size.
func NewReader(r io.ReaderAt, size int64) (*File, error) {
	hdr, err := readHeader(r, size)
	if err != nil {
		return nil, err
	}
	return &File{
		Header:      *hdr,
		r:           r,
		size:        size,
		cacheTarget: -1,
		cacheSeg:    -1,
		eval:        cheby.NewEvaluator(),
	}, nil
}

// Close releases the underlying file, if any.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}

func readHeader(r io.ReaderAt, size int64) (*Header, error) {
	if size < fixedHeaderLen+4 {
		return nil, ErrTruncated
	}
	fixed := make([]byte, fixedHeaderLen)
	if _, err := r.ReadAt(fixed, 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if string(fixed[:8]) != Magic {
		return nil, ErrBadMagic
	}

	var order binary.ByteOrder
	switch {
	case binary.LittleEndian.Uint32(fixed[8:12]) == endianMarker:
		order = binary.LittleEndian
	case binary.BigEndian.Uint32(fixed[8:12]) == endianMarker:
		order = binary.BigEndian
	default:
		return nil, ErrBadEndian
	}

	h := &Header{
		Version:   order.Uint32(fixed[12:16]),
		DENumber:  int32(order.Uint32(fixed[16:20])),
		Start:     math.Float64frombits(order.Uint64(fixed[20:28])),
		End:       math.Float64frombits(order.Uint64(fixed[28:36])),
		ByteOrder: order,
	}
	if h.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	n := order.Uint32(fixed[36:40])
	if n == 0 || n > maxRecords {
		return nil, fmt.Errorf("%w: %d records", ErrCorrupt, n)
	}

	indexLen := int64(n) * indexEntrySize
	if size < fixedHeaderLen+indexLen+4 {
		return nil, ErrTruncated
	}
	head := make([]byte, fixedHeaderLen+indexLen+4)
	if _, err := r.ReadAt(head, 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	body := head[:fixedHeaderLen+indexLen]
	if crc32.ChecksumIEEE(body) != order.Uint32(head[fixedHeaderLen+indexLen:]) {
		return nil, ErrChecksum
	}

	if !(h.Start < h.End) || math.IsNaN(h.Start) || math.IsInf(h.End, 0) {
		return nil, fmt.Errorf("%w: range [%g, %g]", ErrCorrupt, h.Start, h.End)
	}

	h.Records = make([]Record, n)
	for i := range h.Records {
		b := body[fixedHeaderLen+int64(i)*indexEntrySize:]
		rec := Record{
			Target:   int32(order.Uint32(b[0:4])),
			Center:   int32(order.Uint32(b[4:8])),
			NCoeff:   order.Uint32(b[8:12]),
			NSeg:     order.Uint32(b[12:16]),
			SegStart: math.Float64frombits(order.Uint64(b[16:24])),
			SegLen:   math.Float64frombits(order.Uint64(b[24:32])),
			Offset:   order.Uint64(b[32:40]),
		}
		if err := validateRecord(h, rec, uint64(len(head)), size); err != nil {
			return nil, err
		}
		h.Records[i] = rec
	}
	return h, nil
}

// spanSlack absorbs rounding in SegStart + NSeg*SegLen.
const spanSlack = 1e-6

// validateRecord checks rec against the header and against the data area,
// which runs from dataStart to the end of the file.
func validateRecord(h *Header, rec Record, dataStart uint64, size int64) error {
	switch {
	case rec.NCoeff == 0 || rec.NCoeff > cheby.MaxCoefficients:
		return fmt.Errorf("%w: body %d has %d coefficients", ErrCorrupt, rec.Target, rec.NCoeff)
	case rec.NSeg == 0 || !(rec.SegLen > 0):
		return fmt.Errorf("%w: body %d has no segments", ErrCorrupt, rec.Target)
	case rec.SegStart > h.Start || rec.End() < h.End-spanSlack:
		return fmt.Errorf("%w: body %d segments do not span the file range", ErrCorrupt, rec.Target)
	}
	if rec.Offset < dataStart {
		return fmt.Errorf("%w: body %d data at offset %d overlaps the header", ErrCorrupt, rec.Target, rec.Offset)
	}
	span := uint64(rec.NSeg) * rec.segmentBytes()
	if rec.Offset > uint64(size) || span > uint64(size)-rec.Offset {
		return fmt.Errorf("%w: body %d needs %d bytes at offset %d, file has %d", ErrTruncated, rec.Target, span, rec.Offset, size)
	}
	return nil
}

// State interpolates the position (AU) and, when withVel is set, the
// velocity (AU/day) of target relative to its record's center at jd.
func (f *File) State(target int32, jd float64, withVel bool) (pos, vel [3]float64, center int32, err error) {
	rec, ok := f.Header.Lookup(target)
	if !ok {
		return pos, vel, 0, fmt.Errorf("%w: %d", ErrBodyNotInFile, target)
	}
	if !f.Header.Covers(jd) {
		return pos, vel, rec.Center, fmt.Errorf("%w: %.6f not in [%.6f, %.6f]", ErrOutsideRange, jd, f.Header.Start, f.Header.End)
	}

	seg := int64(math.Floor((jd - rec.SegStart) / rec.SegLen))
	if seg >= int64(rec.NSeg) {
		seg = int64(rec.NSeg) - 1
	}
	if seg < 0 {
		return pos, vel, rec.Center, ErrOutsideRange
	}
	if err := f.loadSegment(rec, seg); err != nil {
		return pos, vel, rec.Center, err
	}

	t0 := rec.SegStart + float64(seg)*rec.SegLen
	tc := 2*(jd-t0)/rec.SegLen - 1
	tc = math.Max(-1, math.Min(1, tc))
	n := int(rec.NCoeff)
	vfac := 2 / rec.SegLen
	for i := 0; i < 3; i++ {
		v, d, err := f.eval.Eval(f.cache[i*n:(i+1)*n], tc, withVel)
		if err != nil {
			return pos, vel, rec.Center, err
		}
		pos[i] = v
		vel[i] = d * vfac
	}
	return pos, vel, rec.Center, nil
}

func (f *File) loadSegment(rec Record, seg int64) error {
	if f.cacheTarget == rec.Target && f.cacheSeg == seg {
		return nil
	}
	raw := make([]byte, rec.segmentBytes())
	off := int64(rec.Offset) + seg*int64(rec.segmentBytes())
	if _, err := f.r.ReadAt(raw, off); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrTruncated
		}
		return err
	}
	vals := make([]float64, len(raw)/8)
	for i := range vals {
		vals[i] = math.Float64frombits(f.Header.ByteOrder.Uint64(raw[i*8:]))
	}
	f.cache = vals
	f.cacheTarget = rec.Target
	f.cacheSeg = seg
	return nil
}
