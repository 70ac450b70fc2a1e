// ./jpleph/ephemeris.go
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
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mshafiee/astroeph/internal/cheby"
	"go.uber.org/zap"
)

// readHeader parses the title and numeric header of a kernel and sizes its
// record cache.
func readHeader(src io.ReadSeekCloser) (*jplEphData, error) {
	title := make([]byte, titleLineLen)
	if err := readAt(src, 0, title); err != nil {
		return nil, err
	}
	header := make([]byte, headerSize)
	if err := readAt(src, headerOffset, header); err != nil {
		return nil, err
	}

	dec := detectOrder(header)
	d := &jplEphData{
		ephemStart:   dec.float64At(header, offStart),
		ephemEnd:     dec.float64At(header, offEnd),
		ephemStep:    dec.float64At(header, offStep),
		ncon:         dec.uint32At(header, offNCon),
		au:           dec.float64At(header, offAU),
		emrat:        dec.float64At(header, offEMRAT),
		dec:          dec,
		currCacheLoc: -1,
		eval:         cheby.NewEvaluator(),
		ifile:        src,
		log:          zap.NewNop(),
	}
	for i := 0; i < 12; i++ {
		for j := 0; j < 3; j++ {
			d.ipt[i][j] = dec.uint32At(header, offIPT+4*(3*i+j))
		}
	}
	// The libration row is stored after numde rather than after ipt[11].
	for j := 0; j < 3; j++ {
		d.ipt[itemLibrations][j] = dec.uint32At(header, offLPT+4*j)
	}

	version, name, err := parseTitle(title)
	if err != nil {
		numde := uint64(dec.uint32At(header, offNumDE))
		if numde < minDEVersion || numde > maxDEVersion {
			return nil, err
		}
		version, name = numde, fmt.Sprintf("DE%d", numde)
	}
	d.ephemerisVersion = version
	d.name = name

	// DE430t and later append the mantle and TT-TDB rows after the extra constant names.
	if version >= 430 && d.ncon != 400 {
		off := int64(extraNameStart)
		if d.ncon > 400 {
			off += int64(d.ncon-400) * constNameLen
		}
		extra := make([]byte, 6*4)
		if readAt(src, off, extra) == nil {
			for j := 0; j < 3; j++ {
				d.ipt[itemMantle][j] = dec.uint32At(extra, 4*j)
				d.ipt[itemTTmTDB][j] = dec.uint32At(extra, 12+4*j)
			}
		}
	}
	// Rows 13 and 14 must continue where the previous row ends, otherwise they are garbage.
	if d.ipt[itemMantle][0] != d.ipt[itemLibrations][0]+d.ipt[itemLibrations][1]*d.ipt[itemLibrations][2]*3 ||
		d.ipt[itemTTmTDB][0] != d.ipt[itemMantle][0]+d.ipt[itemMantle][1]*d.ipt[itemMantle][2]*3 {
		d.ipt[itemMantle] = [3]uint32{}
		d.ipt[itemTTmTDB] = [3]uint32{}
	}

	if err := d.validate(); err != nil {
		return nil, err
	}

	d.kernelSize = 4
	for i := 0; i < nItems; i++ {
		d.kernelSize += 2 * d.ipt[i][1] * d.ipt[i][2] * uint32(itemDimension(i))
	}
	d.recsize = d.kernelSize * 4
	d.ncoeff = d.kernelSize / 2
	for i := 0; i < nItems; i++ {
		if d.ipt[i][1] == 0 {
			continue
		}
		last := d.ipt[i][0] - 1 + d.ipt[i][1]*d.ipt[i][2]*uint32(itemDimension(i))
		if d.ipt[i][0] == 0 || last > d.ncoeff {
			return nil, fmt.Errorf("%w: ipt row %d points outside the record", ErrCorrupt, i)
		}
	}
	d.cache = make([]float64, d.ncoeff)
	return d, nil
}

func (d *jplEphData) validate() error {
	switch {
	case d.emrat > maxEMRAT || d.emrat < minEMRAT:
		return fmt.Errorf("%w: Earth-Moon ratio out of range: %f", ErrCorrupt, d.emrat)
	case !(d.ephemStep > 0) || !(d.ephemStart < d.ephemEnd):
		return fmt.Errorf("%w: bad time range %f..%f step %f", ErrCorrupt, d.ephemStart, d.ephemEnd, d.ephemStep)
	case !(d.au > 0):
		return fmt.Errorf("%w: bad AU %f", ErrCorrupt, d.au)
	}
	for i := 0; i < nItems; i++ {
		if d.ipt[i][1] > cheby.MaxCoefficients {
			return fmt.Errorf("%w: ipt row %d has %d coefficients", ErrCorrupt, i, d.ipt[i][1])
		}
	}
	return nil
}

// parseTitle extracts the release number and short name from the first
// title line, "JPL Planetary Ephemeris DE441/LE441" or "INPOP19a ...".
func parseTitle(title []byte) (uint64, string, error) {
	if i := bytes.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}
	var digits, nameField string
	inpop := bytes.HasPrefix(title, []byte("INPOP"))
	switch {
	case inpop && len(title) >= 30:
		digits, nameField = string(title[5:30]), string(title[:30])
	case !inpop && len(title) >= 54:
		digits, nameField = string(title[26:54]), string(title[24:54])
	default:
		return 0, "", fmt.Errorf("%w: short title %q", ErrUnsupportedVersion, title)
	}
	digits = strings.TrimLeft(digits, " ")
	end := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(digits)
	}
	version, err := strconv.ParseUint(digits[:end], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q", ErrUnsupportedVersion, strings.TrimSpace(string(title)))
	}
	if inpop && (version == 0 || version > 99) || !inpop && (version < minDEVersion || version > maxDEVersion) {
		return 0, "", fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	name := ""
	if fields := strings.FieldsFunc(nameField, func(r rune) bool { return r == ' ' || r == '/' }); len(fields) > 0 {
		name = fields[0]
	}
	return version, name, nil
}

// loadRecord brings the record covering et into the cache and returns the
// position of et inside it, in [0, 1].
func (d *jplEphData) loadRecord(et float64) (float64, error) {
	if et < d.ephemStart || et > d.ephemEnd || math.IsNaN(et) {
		return 0, fmt.Errorf("%w: %.6f not in [%.1f, %.1f]", ErrOutsideRange, et, d.ephemStart, d.ephemEnd)
	}
	if d.ifile == nil {
		return 0, fmt.Errorf("%w: file is closed", ErrFileRead)
	}
	blockLoc := (et - d.ephemStart) / d.ephemStep
	nr := int64(blockLoc)
	frac := blockLoc - float64(nr)
	// A boundary epoch belongs to the end of the previous record.
	if frac == 0 && nr != 0 {
		frac = 1
		nr--
	}
	if nr != d.currCacheLoc {
		raw := make([]byte, d.recsize)
		if err := readAt(d.ifile, (nr+2)*int64(d.recsize), raw); err != nil {
			return 0, err
		}
		d.dec.float64s(raw, d.cache)
		d.currCacheLoc = nr
		d.log.Debug("loaded JPL record", zap.Int64("record", nr), zap.Float64("et", et))
	}
	return frac, nil
}

func (d *jplEphData) interpolate(item int, frac float64, withVel bool, dst []float64) error {
	ipt := d.ipt[item]
	if ipt[1] == 0 || ipt[2] == 0 {
		return ErrQuantityNotInEphemeris
	}
	err := d.eval.Interpolate(d.cache[ipt[0]-1:], frac, d.ephemStep, int(ipt[1]), itemDimension(item), int(ipt[2]), withVel, dst)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}

// body interpolates one of rows 0 to 10 and converts km to AU.
func (d *jplEphData) body(item int, frac float64, withVel bool) ([6]float64, error) {
	var pv [6]float64
	if err := d.interpolate(item, frac, withVel, pv[:]); err != nil {
		return pv, err
	}
	aufac := 1 / d.au
	for i := range pv {
		pv[i] *= aufac
	}
	return pv, nil
}

// bary returns the solar-system barycentric state of b.
func (d *jplEphData) bary(b Body, frac float64, withVel bool) ([6]float64, error) {
	switch b {
	case SolarSystemBarycenter:
		return [6]float64{}, nil
	case EarthMoonBarycenter:
		return d.body(itemEMB, frac, withVel)
	case Sun:
		return d.body(itemSun, frac, withVel)
	case Earth, Moon:
		emb, err := d.body(itemEMB, frac, withVel)
		if err != nil {
			return emb, err
		}
		moon, err := d.body(itemMoon, frac, withVel)
		if err != nil {
			return moon, err
		}
		var pv [6]float64
		for i := range pv {
			pv[i] = emb[i] - moon[i]/(1+d.emrat) // Earth = EMB - Moon/(1+emrat)
			if b == Moon {
				pv[i] += moon[i]
			}
		}
		return pv, nil
	default:
		return d.body(int(b)-1, frac, withVel)
	}
}

// pleph returns the state of target relative to center, or the raw values
// of one of the non-body quantities.
func (d *jplEphData) pleph(et float64, target, center Body, withVel bool) ([6]float64, error) {
	var rrd [6]float64
	if target >= Nutations && target <= TTmTDB {
		item := int(target-Nutations) + itemNutations
		if d.ipt[item][1] == 0 {
			return rrd, ErrQuantityNotInEphemeris
		}
		frac, err := d.loadRecord(et)
		if err != nil {
			return rrd, err
		}
		err = d.interpolate(item, frac, withVel, rrd[:2*itemDimension(item)])
		return rrd, err
	}
	if target == center {
		return rrd, nil
	}
	if target < Mercury || target > EarthMoonBarycenter || center < Mercury || center > EarthMoonBarycenter {
		return rrd, fmt.Errorf("%w: target %d center %d", ErrInvalidIndex, target, center)
	}
	frac, err := d.loadRecord(et)
	if err != nil {
		return rrd, err
	}

	// The geocentric Moon is stored directly; avoid the round trip through the barycenter.
	if (target == Earth && center == Moon) || (target == Moon && center == Earth) {
		moon, err := d.body(itemMoon, frac, withVel)
		if err != nil {
			return rrd, err
		}
		sign := 1.0
		if target == Earth {
			sign = -1
		}
		for i := range rrd {
			rrd[i] = sign * moon[i]
		}
		return rrd, nil
	}

	t, err := d.bary(target, frac, withVel)
	if err != nil {
		return rrd, err
	}
	c, err := d.bary(center, frac, withVel)
	if err != nil {
		return rrd, err
	}
	for i := range rrd {
		rrd[i] = t[i] - c[i]
	}
	return rrd, nil
}

// readConstants reads all constant names and values.
func (d *jplEphData) readConstants() ([]string, []float64, error) {
	n := int(d.ncon)
	if d.ifile == nil {
		return nil, nil, fmt.Errorf("%w: file is closed", ErrFileRead)
	}
	if int64(n)*8 > int64(d.recsize) {
		return nil, nil, fmt.Errorf("%w: %d constants do not fit in one record", ErrCorrupt, n)
	}
	names := make([]string, n)
	first := min(n, 400)
	raw := make([]byte, first*constNameLen)
	if err := readAt(d.ifile, titleLen, raw); err != nil {
		return nil, nil, err
	}
	if n > 400 {
		more := make([]byte, (n-400)*constNameLen)
		if err := readAt(d.ifile, extraNameStart, more); err != nil {
			return nil, nil, err
		}
		raw = append(raw, more...)
	}
	for i := range names {
		names[i] = strings.TrimRight(string(raw[i*constNameLen:(i+1)*constNameLen]), " \x00")
	}

	values := make([]float64, n)
	vraw := make([]byte, 8*n)
	if err := readAt(d.ifile, int64(d.recsize), vraw); err != nil {
		return nil, nil, err
	}
	d.dec.float64s(vraw, values)
	return names, values, nil
}
