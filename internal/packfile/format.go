// ./internal/packfile/format.go
package packfile

/*
Package packfile reads and writes packed ephemeris files: a validated header
followed by per-body Chebyshev segments in the ICRF/J2000 equatorial frame.

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
)

// File structure:
//
// Bytes 0-7:     magic "SEPACK\r\n"
// Bytes 8-11:    endian marker 0x00616263, read back swapped on a foreign-endian file
// Bytes 12-15:   format version (uint32)
// Bytes 16-19:   numerical-integration version tag, e.g. 431 (int32)
// Bytes 20-27:   first covered Julian Day, TT (float64)
// Bytes 28-35:   last covered Julian Day, TT (float64)
// Bytes 36-39:   number of records N (uint32)
// Bytes 40-...:  N record index entries of indexEntrySize bytes
// then:          CRC-32 (IEEE) of everything before it (uint32)
// then:          coefficient segments; for each record and each segment,
//                ncoeff values of x, then y, then z (float64, AU)

const (
	// Magic opens every packed file.
	Magic = "SEPACK\r\n"
	// FormatVersion is the only layout revision this package understands.
	FormatVersion uint32 = 1

	endianMarker   uint32 = 0x00616263
	fixedHeaderLen        = 40
	indexEntrySize        = 48
	maxRecords            = 4096
)

// NAIF identifiers used for targets and centers.
const (
	SSB     int32 = 0
	Mercury int32 = 1
	Venus   int32 = 2
	EMB     int32 = 3
	Mars    int32 = 4
	Jupiter int32 = 5
	Saturn  int32 = 6
	Uranus  int32 = 7
	Neptune int32 = 8
	Pluto   int32 = 9
	Sun     int32 = 10
	Moon    int32 = 301
	Earth   int32 = 399

	// AsteroidBase is added to an asteroid's catalogue number.
	AsteroidBase int32 = 2000000
)

var (
	ErrBadMagic           = errors.New("packfile: not a packed ephemeris file")
	ErrBadEndian          = errors.New("packfile: unrecognised endian marker")
	ErrUnsupportedVersion = errors.New("packfile: unsupported format version")
	ErrChecksum           = errors.New("packfile: header checksum mismatch")
	ErrTruncated          = errors.New("packfile: file is truncated")
	ErrCorrupt            = errors.New("packfile: inconsistent header")
	ErrOutsideRange       = errors.New("packfile: epoch outside covered range")
	ErrBodyNotInFile      = errors.New("packfile: body not present in file")
)

// Record describes the Chebyshev segments of one target.
type Record struct {
	Target   int32   // NAIF id of the body
	Center   int32   // NAIF id of the origin: SSB, Sun or Earth
	NCoeff   uint32  // coefficients per component
	NSeg     uint32  // number of segments
	SegStart float64 // Julian Day at which the first segment begins
	SegLen   float64 // segment length in days
	Offset   uint64  // absolute byte offset of the first segment
}

// End returns the Julian Day at which the last segment ends.
func (r Record) End() float64 {
	return r.SegStart + float64(r.NSeg)*r.SegLen
}

func (r Record) segmentBytes() uint64 {
	return uint64(r.NCoeff) * 3 * 8
}

// Header is the fully validated file header.
type Header struct {
	Version   uint32
	DENumber  int32
	Start     float64
	End       float64
	Records   []Record
	ByteOrder binary.ByteOrder
}

// Covers reports whether jd lies in the file's declared range.
func (h *Header) Covers(jd float64) bool {
	return jd >= h.Start && jd <= h.End
}

// Lookup returns the record for target.
func (h *Header) Lookup(target int32) (Record, bool) {
	for _, r := range h.Records {
		if r.Target == target {
			return r, true
		}
	}
	return Record{}, false
}
