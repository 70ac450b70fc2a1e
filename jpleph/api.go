// ./jpleph/api.go

/*
Package jpleph reads JPL planetary and lunar development ephemerides (DE102
through DE441, and INPOP files written in the same layout).

A kernel holds Chebyshev coefficients for the planetary barycenters, the Sun,
the geocentric Moon and, depending on the release, nutations, lunar
librations and TT-TDB. Positions are returned in AU and velocities in AU/day,
in the ICRF equatorial frame of the kernel.

Usage:

 1. Open a kernel:
    ```go
    f, err := jpleph.Open("de441.eph", jpleph.Options{LoadConstants: true})
    if err != nil {
        log.Fatal(err)
    }
    defer f.Close()
    ```

 2. Calculate position and velocity:
    ```go
    pos, vel, err := f.PV(2451545.0, jpleph.Mars, jpleph.Sun, true)
    ```

 3. Inspect the kernel:
    ```go
    fmt.Printf("%s covers JD %.1f to %.1f\n", f.Name(), f.Start(), f.End())
    au, err := f.Constant("AU")
    ```

License:
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

// Package jpleph provides functions for accessing JPL planetary and lunar ephemerides.
package jpleph

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

var (
	// ErrQuantityNotInEphemeris is returned when the requested quantity is not available in the kernel.
	ErrQuantityNotInEphemeris = errors.New("jpleph: quantity not available in ephemeris file")
	// ErrInvalidIndex is returned when an invalid target or center body is used.
	ErrInvalidIndex = errors.New("jpleph: invalid target or center body index")
	// ErrOutsideRange is returned when the epoch lies outside the kernel's coverage.
	ErrOutsideRange = errors.New("jpleph: epoch outside ephemeris range")
	// ErrFileRead is returned when a record or header cannot be read.
	ErrFileRead = errors.New("jpleph: ephemeris file read failed")
	// ErrCorrupt is returned when the header fails a sanity check.
	ErrCorrupt = errors.New("jpleph: ephemeris file corrupt")
	// ErrUnsupportedVersion is returned when the title carries no recognised release number.
	ErrUnsupportedVersion = errors.New("jpleph: unrecognised ephemeris version")
	// ErrConstantNotFound is returned when a constant name or index is unknown.
	ErrConstantNotFound = errors.New("jpleph: constant not found")
)

// Body numbers follow the Fortran PLEPH convention.
type Body int

const (
	Mercury Body = iota + 1
	Venus
	Earth
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Moon
	Sun
	SolarSystemBarycenter
	EarthMoonBarycenter
	// Nutations yields Δψ and Δε in radians (and their rates).
	Nutations
	// Librations yields the lunar Euler angles in radians.
	Librations
	// LunarMantleOmega yields the lunar mantle angular velocity.
	LunarMantleOmega
	// TTmTDB yields TT-TDB in seconds.
	TTmTDB
)

var bodyNames = [...]string{
	"", "Mercury", "Venus", "Earth", "Mars", "Jupiter", "Saturn", "Uranus",
	"Neptune", "Pluto", "Moon", "Sun", "SSB", "EMB",
	"nutations", "librations", "mantle omega", "TT-TDB",
}

func (b Body) String() string {
	if b < Mercury || b > TTmTDB {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// Position is a position vector in AU.
type Position struct {
	X, Y, Z float64
}

// Velocity is a velocity vector in AU/day.
type Velocity struct {
	DX, DY, DZ float64
}

// Options controls how a kernel is opened.
type Options struct {
	// LoadConstants reads all constant names and values up front.
	LoadConstants bool
	// Logger receives record-level debug output. Nil means no logging.
	Logger *zap.Logger
}

// File is an open JPL kernel. A File is not safe for concurrent use.
type File struct {
	path   string
	data   *jplEphData
	names  []string
	values []float64
	log    *zap.Logger
}

// Open opens the kernel at path and validates its header.
//
// Parameters:
//   - path: path to the binary kernel (e.g., "de441.eph").
//   - opts: see Options.
//
// Returns:
//   - *File on success.
//   - error: ErrCorrupt, ErrUnsupportedVersion or ErrFileRead wrapped with the path,
//     or the *os.PathError from opening the file.
func Open(path string, opts Options) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := NewFile(fh, opts)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.path = path
	return f, nil
}

// NewFile reads a kernel from an already opened source. Close closes src.
func NewFile(src io.ReadSeekCloser, opts Options) (*File, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	data, err := readHeader(src)
	if err != nil {
		return nil, err
	}
	data.log = log
	f := &File{data: data, log: log}
	if opts.LoadConstants {
		if f.names, f.values, err = data.readConstants(); err != nil {
			return nil, err
		}
	}
	log.Debug("opened JPL kernel",
		zap.String("name", f.Name()),
		zap.Int("version", f.DENumber()),
		zap.Float64("start", data.ephemStart),
		zap.Float64("end", data.ephemEnd),
		zap.Uint32("ncoeff", data.ncoeff))
	return f, nil
}

// Close releases the kernel file.
func (f *File) Close() error {
	if f.data.ifile == nil {
		return nil
	}
	err := f.data.ifile.Close()
	f.data.ifile = nil
	return err
}

// PV calculates the position and optionally the velocity of target
// relative to center at the TDB Julian date et.
//
// Parameters:
//   - et: Julian Ephemeris Date.
//   - target: Mercury through EarthMoonBarycenter, or one of Nutations,
//     Librations, LunarMantleOmega, TTmTDB (center is then ignored).
//   - center: Mercury through EarthMoonBarycenter.
//   - withVel: also interpolate the velocity.
//
// Returns:
//   - Position in AU and Velocity in AU/day (zero when withVel is false).
//     For the non-body quantities the raw interpolated values are placed in
//     X, Y, Z and DX, DY, DZ.
//   - error: ErrOutsideRange, ErrInvalidIndex, ErrQuantityNotInEphemeris or ErrFileRead.
func (f *File) PV(et float64, target, center Body, withVel bool) (Position, Velocity, error) {
	rrd, err := f.data.pleph(et, target, center, withVel)
	if err != nil {
		return Position{}, Velocity{}, err
	}
	pos := Position{X: rrd[0], Y: rrd[1], Z: rrd[2]}
	var vel Velocity
	if withVel {
		vel = Velocity{DX: rrd[3], DY: rrd[4], DZ: rrd[5]}
	}
	return pos, vel, nil
}

// Nutation returns the kernel's nutation in longitude and obliquity at et,
// in radians, and their rates in radians/day.
func (f *File) Nutation(et float64) (dpsi, deps, dpsiDot, depsDot float64, err error) {
	rrd, err := f.data.pleph(et, Nutations, 0, true)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return rrd[0], rrd[1], rrd[2], rrd[3], nil
}

// HasNutations reports whether the kernel carries nutation series.
func (f *File) HasNutations() bool {
	return f.data.ipt[itemNutations][1] > 0
}

// Covers reports whether et lies inside the kernel's time range.
func (f *File) Covers(et float64) bool {
	return et >= f.data.ephemStart && et <= f.data.ephemEnd
}

// Path returns the path the kernel was opened from, if any.
func (f *File) Path() string { return f.path }

// Start returns the first Julian Ephemeris Date covered.
func (f *File) Start() float64 { return f.data.ephemStart }

// End returns the last Julian Ephemeris Date covered.
func (f *File) End() float64 { return f.data.ephemEnd }

// Step returns the record length in days.
func (f *File) Step() float64 { return f.data.ephemStep }

// AU returns the kernel's astronomical unit in km.
func (f *File) AU() float64 { return f.data.au }

// EMRAT returns the Earth/Moon mass ratio.
func (f *File) EMRAT() float64 { return f.data.emrat }

// DENumber returns the release number, e.g. 441.
func (f *File) DENumber() int { return int(f.data.ephemerisVersion) }

// Name returns the short name from the title line, e.g. "DE441".
func (f *File) Name() string { return f.data.name }

// RecordCoefficients returns the number of doubles per data record.
func (f *File) RecordCoefficients() int { return int(f.data.ncoeff) }

// NumConstants returns the number of constants declared by the header.
func (f *File) NumConstants() int { return int(f.data.ncon) }

// ConstantName returns the name of the constant at index.
// Constants must have been loaded with Options.LoadConstants.
func (f *File) ConstantName(index int) (string, error) {
	if index < 0 || index >= len(f.names) {
		return "", fmt.Errorf("%w: index %d out of range", ErrConstantNotFound, index)
	}
	return f.names[index], nil
}

// ConstantValue returns the value of the constant at index.
// Constants must have been loaded with Options.LoadConstants.
func (f *File) ConstantValue(index int) (float64, error) {
	if index < 0 || index >= len(f.values) {
		return 0, fmt.Errorf("%w: index %d out of range", ErrConstantNotFound, index)
	}
	return f.values[index], nil
}

// Constant looks a constant up by name, loading the table on first use.
func (f *File) Constant(name string) (float64, error) {
	if f.names == nil {
		var err error
		if f.names, f.values, err = f.data.readConstants(); err != nil {
			return 0, err
		}
	}
	for i, n := range f.names {
		if n == name {
			return f.values[i], nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrConstantNotFound, name)
}

// Constants returns all constants keyed by name.
func (f *File) Constants() (map[string]float64, error) {
	if f.names == nil {
		var err error
		if f.names, f.values, err = f.data.readConstants(); err != nil {
			return nil, err
		}
	}
	m := make(map[string]float64, len(f.names))
	for i, n := range f.names {
		m[n] = f.values[i]
	}
	return m, nil
}
