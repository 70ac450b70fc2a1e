// ./constants.go
package astroeph

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
*/

import (
	"fmt"
	"strconv"
	"strings"
)

// Body identifies a planet, a lunar point, an asteroid or a fictitious body.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	MeanNode
	TrueNode
	MeanApogee
	OscuApogee
	Earth
	Chiron
	Pholus
	Ceres
	Pallas
	Juno
	Vesta
)

// Uranian (Hamburg school) fictitious bodies.
const (
	Cupido Body = iota + 40
	Hades
	Zeus
	Kronos
	Apollon
	Admetos
	Vulcanus
	Poseidon
)

const (
	// AstOffset is added to a minor planet's catalogue number.
	AstOffset Body = 10000
	// EclNut selects obliquity and nutation instead of a body.
	EclNut Body = -1
)

var bodyNames = map[Body]string{
	Sun: "Sun", Moon: "Moon", Mercury: "Mercury", Venus: "Venus", Mars: "Mars",
	Jupiter: "Jupiter", Saturn: "Saturn", Uranus: "Uranus", Neptune: "Neptune",
	Pluto: "Pluto", MeanNode: "mean Node", TrueNode: "true Node",
	MeanApogee: "mean Apogee", OscuApogee: "osc. Apogee", Earth: "Earth",
	Chiron: "Chiron", Pholus: "Pholus", Ceres: "Ceres", Pallas: "Pallas",
	Juno: "Juno", Vesta: "Vesta",
	Cupido: "Cupido", Hades: "Hades", Zeus: "Zeus", Kronos: "Kronos",
	Apollon: "Apollon", Admetos: "Admetos", Vulcanus: "Vulkanus", Poseidon: "Poseidon",
	EclNut: "Ecl. Nut.",
}

// asteroidNumber returns the catalogue number of b if b is a numbered
// minor planet.
func (b Body) asteroidNumber() (int, bool) {
	if b > AstOffset {
		return int(b - AstOffset), true
	}
	switch b {
	case Chiron:
		return 2060, true
	case Pholus:
		return 5145, true
	case Ceres, Pallas, Juno, Vesta:
		return int(b-Ceres) + 1, true
	}
	return 0, false
}

func (b Body) isLunarPoint() bool { return b >= MeanNode && b <= OscuApogee }

func (b Body) isUranian() bool { return b >= Cupido && b <= Poseidon }

func (b Body) isAsteroid() bool {
	_, ok := b.asteroidNumber()
	return ok
}

func (b Body) valid() bool {
	switch {
	case b == EclNut, b >= Sun && b <= Vesta, b.isUranian():
		return true
	case b > AstOffset && b < AstOffset+1000000:
		return true
	}
	return false
}

func (b Body) String() string {
	if name, ok := bodyNames[b]; ok {
		return name
	}
	if n, ok := b.asteroidNumber(); ok {
		return fmt.Sprintf("asteroid %d", n)
	}
	return fmt.Sprintf("Body(%d)", int(b))
}

// BodyName returns the display name of b.
func BodyName(b Body) (string, error) {
	if !b.valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidBody, int(b))
	}
	return b.String(), nil
}

// ParseBody accepts a body number, a display name in any case with or
// without separators ("true node", "TrueNode"), or "ast" followed by a
// minor planet number.
func ParseBody(s string) (Body, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if b := Body(n); b.valid() {
			return b, nil
		}
		return 0, fmt.Errorf("%w: %d", ErrInvalidBody, n)
	}
	key := foldName(s)
	for b, name := range bodyNames {
		if foldName(name) == key {
			return b, nil
		}
	}
	if rest, ok := strings.CutPrefix(key, "ast"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n > 0 {
			if b := AstOffset + Body(n); b.valid() {
				return b, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidBody, s)
}

func foldName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// CalcFlags selects the source, frame, corrections and representation of a
// position. Wire values are fixed. FlagSidereal applies to ecliptic output
// only and is cleared from the returned flags when FlagEquatorial is set.
type CalcFlags uint32

const (
	FlagJPLEph     CalcFlags = 1
	FlagSwiEph     CalcFlags = 2 // packed file source
	FlagMosEph     CalcFlags = 4 // analytic source
	FlagHelctr     CalcFlags = 8
	FlagTruePos    CalcFlags = 16
	FlagJ2000      CalcFlags = 32
	FlagNoNut      CalcFlags = 64
	FlagSpeed3     CalcFlags = 128
	FlagSpeed      CalcFlags = 256
	FlagNoGDefl    CalcFlags = 512
	FlagNoAberr    CalcFlags = 1024
	FlagEquatorial CalcFlags = 2048
	FlagXYZ        CalcFlags = 4096
	FlagRadians    CalcFlags = 8192
	FlagBaryctr    CalcFlags = 16384
	FlagTopoctr    CalcFlags = 32768
	FlagSidereal   CalcFlags = 65536
	FlagICRS       CalcFlags = 131072

	FlagAstrometric = FlagNoAberr | FlagNoGDefl

	sourceMask = FlagJPLEph | FlagSwiEph | FlagMosEph
	centerMask = FlagHelctr | FlagBaryctr | FlagTopoctr
	knownFlags = 1<<18 - 1
)

var flagNames = []struct {
	f    CalcFlags
	name string
}{
	{FlagJPLEph, "JPLEPH"}, {FlagSwiEph, "SWIEPH"}, {FlagMosEph, "MOSEPH"},
	{FlagHelctr, "HELCTR"}, {FlagTruePos, "TRUEPOS"}, {FlagJ2000, "J2000"},
	{FlagNoNut, "NONUT"}, {FlagSpeed3, "SPEED3"}, {FlagSpeed, "SPEED"},
	{FlagNoGDefl, "NOGDEFL"}, {FlagNoAberr, "NOABERR"}, {FlagEquatorial, "EQUATORIAL"},
	{FlagXYZ, "XYZ"}, {FlagRadians, "RADIANS"}, {FlagBaryctr, "BARYCTR"},
	{FlagTopoctr, "TOPOCTR"}, {FlagSidereal, "SIDEREAL"}, {FlagICRS, "ICRS"},
}

func (f CalcFlags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for _, n := range flagNames {
		if f&n.f != 0 {
			parts = append(parts, n.name)
		}
	}
	if rest := f &^ knownFlags; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseCalcFlags parses flag names separated by '|' or ',', such as
// "SPEED|EQUATORIAL", or a decimal value. Names ignore case; ASTROMETRIC
// stands for NOABERR|NOGDEFL.
func ParseCalcFlags(s string) (CalcFlags, error) {
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		if CalcFlags(n)&^knownFlags != 0 {
			return 0, fmt.Errorf("%w: unknown flag bits in %d", ErrUsage, n)
		}
		return CalcFlags(n), nil
	}
	var f CalcFlags
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' })
	for _, field := range fields {
		name := strings.ToUpper(strings.TrimSpace(field))
		if name == "ASTROMETRIC" {
			f |= FlagAstrometric
			continue
		}
		found := false
		for _, n := range flagNames {
			if n.name == name {
				f |= n.f
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: unknown flag %q", ErrUsage, field)
		}
	}
	return f, nil
}

// Source is one of the three ephemeris back ends.
type Source int

const (
	SourceJPL Source = iota + 1
	SourcePacked
	SourceAnalytic
)

func (s Source) String() string {
	switch s {
	case SourceJPL:
		return "jpl"
	case SourcePacked:
		return "packed"
	case SourceAnalytic:
		return "analytic"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// Flag returns the source bit of s.
func (s Source) Flag() CalcFlags {
	switch s {
	case SourceJPL:
		return FlagJPLEph
	case SourcePacked:
		return FlagSwiEph
	case SourceAnalytic:
		return FlagMosEph
	}
	return 0
}

// fallback returns the one permitted substitute for s.
func (s Source) fallback() (Source, bool) {
	switch s {
	case SourceJPL:
		return SourcePacked, true
	case SourcePacked:
		return SourceAnalytic, true
	}
	return 0, false
}

// sourceOf returns the requested source and whether it was named
// explicitly. No source bit means the packed source.
func sourceOf(f CalcFlags) (Source, bool, error) {
	switch f & sourceMask {
	case 0:
		return SourcePacked, false, nil
	case FlagJPLEph:
		return SourceJPL, true, nil
	case FlagSwiEph:
		return SourcePacked, true, nil
	case FlagMosEph:
		return SourceAnalytic, true, nil
	}
	return 0, false, fmt.Errorf("%w: more than one source bit in %v", ErrConflictingFlags, f)
}

// SourceResolution records which source was asked for and which one
// produced the data.
type SourceResolution struct {
	Requested Source
	Actual    Source
	// Reason is set when Actual differs from an explicitly requested source.
	Reason string
}

// Fallback reports whether a substitute source was used.
func (r SourceResolution) Fallback() bool { return r.Requested != r.Actual }

// flags replaces the source bit of f with the source actually used.
func (r SourceResolution) flags(f CalcFlags) CalcFlags {
	return f&^sourceMask | r.Actual.Flag()
}

// Calendar selects the calendar of a civil date.
type Calendar int

const (
	Julian Calendar = iota
	Gregorian
)

func (c Calendar) String() string {
	if c == Julian {
		return "julian"
	}
	return "gregorian"
}

// ElementFlags controls OrbitalElements. The source bits share the values
// of CalcFlags.
type ElementFlags uint32

const (
	ElemJPLEph ElementFlags = ElementFlags(FlagJPLEph)
	ElemSwiEph ElementFlags = ElementFlags(FlagSwiEph)
	ElemMosEph ElementFlags = ElementFlags(FlagMosEph)
	// ElemBarycentric uses the sum of all planetary masses in the
	// gravitational parameter. Same wire value as FlagBaryctr.
	ElemBarycentric ElementFlags = 16384
	// ElemAA uses the Sun's mass alone, as the Astronomical Almanac does.
	// The wire value collides with FlagTopoctr.
	ElemAA ElementFlags = 32768
)

// SiderealBits modify the sidereal mode. Their wire values collide with
// FlagSpeed (256) and FlagNoGDefl (512), so they are never mixed into
// CalcFlags.
type SiderealBits uint32

const (
	// SidBitEclT0 projects positions onto the ecliptic of the mode's t0.
	SidBitEclT0 SiderealBits = 256
	// SidBitSSYPlane projects positions onto the solar system invariable plane.
	SidBitSSYPlane SiderealBits = 512
)

// HouseFlags modify HousesEx. Wire values match the CalcFlags bits of the
// same meaning.
type HouseFlags uint32

const (
	HouseRadians  HouseFlags = HouseFlags(FlagRadians)
	HouseSidereal HouseFlags = HouseFlags(FlagSidereal)
)
