// ./houses.go
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
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// HouseSystem is the one-letter code of a house system.
type HouseSystem byte

const (
	Placidus      HouseSystem = 'P'
	Koch          HouseSystem = 'K'
	Porphyry      HouseSystem = 'O'
	Regiomontanus HouseSystem = 'R'
	Campanus      HouseSystem = 'C'
	EqualAsc      HouseSystem = 'A'
	Equal         HouseSystem = 'E'
	EqualMC       HouseSystem = 'D'
	EqualAries    HouseSystem = 'N'
	WholeSign     HouseSystem = 'W'
	Alcabitius    HouseSystem = 'B'
	Morinus       HouseSystem = 'M'
	Meridian      HouseSystem = 'X'
	PolichPage    HouseSystem = 'T'
	Horizon       HouseSystem = 'H'
	Vehlow        HouseSystem = 'V'
	Carter        HouseSystem = 'F'
	Sripati       HouseSystem = 'S'
	Krusinski     HouseSystem = 'U'
)

var houseSystemNames = map[HouseSystem]string{
	Placidus:      "Placidus",
	Koch:          "Koch",
	Porphyry:      "Porphyry",
	Regiomontanus: "Regiomontanus",
	Campanus:      "Campanus",
	EqualAsc:      "equal",
	Equal:         "equal",
	EqualMC:       "equal (MC)",
	EqualAries:    "equal/1=Aries",
	WholeSign:     "equal/ whole sign",
	Alcabitius:    "Alcabitius",
	Morinus:       "Morinus",
	Meridian:      "axial rotation system/ Meridian houses",
	PolichPage:    "Polich/Page",
	Horizon:       "horizon/azimut",
	Vehlow:        "equal/Vehlow",
	Carter:        "Carter poli-equ.",
	Sripati:       "Sripati",
	Krusinski:     "Krusinski-Pisa-Goelzer",
}

func (h HouseSystem) String() string { return string(rune(h)) }

// HouseSystemName returns the display name of a house system.
func HouseSystemName(h HouseSystem) (string, error) {
	name, ok := houseSystemNames[h]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownHouseSystem, rune(h))
	}
	return name, nil
}

// ParseHouseSystem accepts a one-letter house system code in either case.
func ParseHouseSystem(s string) (HouseSystem, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownHouseSystem, s)
	}
	h := HouseSystem(strings.ToUpper(s)[0])
	if _, err := HouseSystemName(h); err != nil {
		return 0, err
	}
	return h, nil
}

// polarUnsafe reports whether the intermediate cusps of h need the
// semi-arcs of ecliptic points, which vanish inside the polar circles.
func (h HouseSystem) polarUnsafe() bool {
	switch h {
	case Placidus, Koch, Alcabitius, Krusinski:
		return true
	}
	return false
}

// Indices into Houses.Angles.
const (
	AngleAsc = iota
	AngleMC
	AngleARMC
	AngleVertex
	AngleEquAsc
	AngleCoAscKoch
	AngleCoAscMunkasey
	AnglePolarAsc
)

// Houses holds the twelve cusps, cusp 1 first, and the angles indexed by
// the Angle constants.
type Houses struct {
	System HouseSystem
	Cusps  [12]float64
	Angles [8]float64
}

// Values returns the cusps followed by the angles.
func (h Houses) Values() []float64 {
	out := make([]float64, 0, 20)
	out = append(out, h.Cusps[:]...)
	return append(out, h.Angles[:]...)
}

// polarLatitude replaces the poles themselves, where the horizon and the
// equator coincide.
const polarLatitude = 89.99999

const (
	placidusTolerance = 1e-9 // degrees
	placidusMaxIter   = 100
)

// houseFrame carries the trigonometry shared by all systems. Angles are
// in degrees.
type houseFrame struct {
	armc, lat, eps float64
	sine, cose     float64
	tanLat         float64
}

func newHouseFrame(armc, lat, eps float64) houseFrame {
	se, ce := math.Sincos(eps * deg2rad)
	return houseFrame{
		armc: normDeg(armc), lat: lat, eps: eps,
		sine: se, cose: ce,
		tanLat: math.Tan(lat * deg2rad),
	}
}

// asc returns the ecliptic point rising at ARMC th on the horizon of a
// place at latitude pole.
func (f houseFrame) asc(th, pole float64) float64 {
	st, ct := math.Sincos(th * deg2rad)
	return normDeg(math.Atan2(ct, -(st*f.cose+math.Tan(pole*deg2rad)*f.sine)) * rad2deg)
}

// meridianLon returns the ecliptic longitude whose right ascension is ra.
func (f houseFrame) meridianLon(ra float64) float64 {
	s, c := math.Sincos(ra * deg2rad)
	return normDeg(math.Atan2(s, c*f.cose) * rad2deg)
}

// rightAscension returns the right ascension of ecliptic longitude lon.
func (f houseFrame) rightAscension(lon float64) float64 {
	s, c := math.Sincos(lon * deg2rad)
	return normDeg(math.Atan2(s*f.cose, c) * rad2deg)
}

func (f houseFrame) declination(lon float64) float64 {
	return math.Asin(f.sine*math.Sin(lon*deg2rad)) * rad2deg
}

// semiArc returns the diurnal semi-arc in degrees of a point of
// declination dec.
func (f houseFrame) semiArc(dec float64) (float64, error) {
	x := f.tanLat * math.Tan(dec*deg2rad)
	if math.Abs(x) > 1 {
		return 0, fmt.Errorf("%w: circumpolar point at latitude %g", ErrPolarLatitude, f.lat)
	}
	return 90 + math.Asin(x)*rad2deg, nil
}

func coLatitude(lat float64) float64 {
	if lat >= 0 {
		return 90 - lat
	}
	return -90 - lat
}

// angles fills Asc, MC, ARMC, Vertex and the auxiliary ascendants.
func (f houseFrame) angles() [8]float64 {
	mc := f.meridianLon(f.armc)
	asc := f.asc(f.armc, f.lat)
	if math.Abs(f.lat) >= 90-f.eps && diffDeg(asc, mc) < 0 {
		asc = normDeg(asc + 180)
	}
	var a [8]float64
	a[AngleAsc] = asc
	a[AngleMC] = mc
	a[AngleARMC] = f.armc
	a[AngleVertex] = f.asc(f.armc+180, coLatitude(f.lat))
	a[AngleEquAsc] = f.asc(f.armc, 0)
	a[AngleCoAscKoch] = normDeg(f.asc(f.armc+180, f.lat) + 180)
	a[AngleCoAscMunkasey] = f.asc(f.armc, coLatitude(f.lat))
	a[AnglePolarAsc] = f.asc(f.armc+180, f.lat)
	return a
}

// HousesARMC computes cusps and angles from the sidereal time of the
// meridian, geographic latitude and obliquity, all in degrees.
func HousesARMC(armc, lat, eps float64, hsys HouseSystem) (Houses, error) {
	if _, ok := houseSystemNames[hsys]; !ok {
		return Houses{}, fmt.Errorf("%w: %q", ErrUnknownHouseSystem, rune(hsys))
	}
	if math.IsNaN(lat) || math.Abs(lat) > 90 {
		return Houses{}, fmt.Errorf("%w: latitude %g", ErrUsage, lat)
	}
	if isNaN(armc, eps) {
		return Houses{}, fmt.Errorf("%w: armc %g, obliquity %g", ErrUsage, armc, eps)
	}
	if hsys.polarUnsafe() && math.Abs(lat) >= 90-eps {
		return Houses{}, fmt.Errorf("%w: %s at latitude %g", ErrPolarLatitude, houseSystemNames[hsys], lat)
	}
	if math.Abs(lat) == 90 {
		lat = math.Copysign(polarLatitude, lat)
	}

	f := newHouseFrame(armc, lat, eps)
	h := Houses{System: hsys, Angles: f.angles()}
	asc, mc := h.Angles[AngleAsc], h.Angles[AngleMC]

	var err error
	switch hsys {
	case EqualAsc, Equal:
		h.Cusps = equalFrom(asc, 1)
	case EqualMC:
		h.Cusps = equalFrom(mc, 10)
	case EqualAries:
		h.Cusps = equalFrom(0, 1)
	case WholeSign:
		h.Cusps = equalFrom(math.Floor(asc/30)*30, 1)
	case Vehlow:
		h.Cusps = equalFrom(asc-15, 1)
	case Porphyry:
		h.Cusps = porphyry(asc, mc)
	case Sripati:
		p := porphyry(asc, mc)
		for k := range p {
			prev := p[(k+11)%12]
			h.Cusps[k] = normDeg(prev + normDeg(p[k]-prev)/2)
		}
	case Regiomontanus:
		h.Cusps = f.quadrants(asc, mc, func(hd float64) float64 {
			pole := math.Atan(f.tanLat*math.Sin(hd*deg2rad)) * rad2deg
			return f.asc(f.armc+hd-90, pole)
		})
	case Campanus:
		h.Cusps = f.quadrants(asc, mc, func(hd float64) float64 {
			sh, ch := math.Sincos(hd * deg2rad)
			sl, cl := math.Sincos(f.lat * deg2rad)
			heq := math.Atan2(sh*cl, ch) * rad2deg
			pole := math.Asin(sl*sh) * rad2deg
			return f.asc(f.armc+heq-90, pole)
		})
	case PolichPage:
		h.Cusps = f.quadrants(asc, mc, func(hd float64) float64 {
			k := 1.0 / 3
			if hd == 60 || hd == 120 {
				k = 2.0 / 3
			}
			return f.asc(f.armc+hd-90, math.Atan(f.tanLat*k)*rad2deg)
		})
	case Koch:
		h.Cusps, err = f.koch(asc, mc)
	case Placidus:
		h.Cusps, err = f.placidus(asc, mc)
	case Alcabitius:
		h.Cusps, err = f.alcabitius(asc, mc)
	case Morinus:
		for k := range h.Cusps {
			a := (f.armc + 90 + 30*float64(k)) * deg2rad
			h.Cusps[k] = normDeg(math.Atan2(math.Sin(a)*f.cose, math.Cos(a)) * rad2deg)
		}
	case Meridian:
		for k := range h.Cusps {
			h.Cusps[k] = f.meridianLon(f.armc + 90 + 30*float64(k))
		}
	case Carter:
		ra := f.rightAscension(asc)
		for k := range h.Cusps {
			h.Cusps[k] = f.meridianLon(ra + 30*float64(k))
		}
		h.Cusps[0] = asc
	case Horizon:
		h.Cusps = f.horizon()
	case Krusinski:
		h.Cusps = f.krusinski(asc)
	}
	if err != nil {
		return Houses{}, err
	}
	for _, c := range h.Cusps {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Houses{}, fmt.Errorf("%w: %s at latitude %g", ErrPolarLatitude, houseSystemNames[hsys], lat)
		}
	}
	return h, nil
}

func equalFrom(start float64, house int) [12]float64 {
	var c [12]float64
	for k := range c {
		c[k] = normDeg(start + 30*float64(k-house+1))
	}
	return c
}

// porphyry trisects the ecliptic quadrants between the angles.
func porphyry(asc, mc float64) [12]float64 {
	var c [12]float64
	upper := normDeg(asc - mc)
	lower := 180 - upper
	c[9], c[10], c[11] = mc, normDeg(mc+upper/3), normDeg(mc+2*upper/3)
	c[0], c[1], c[2] = asc, normDeg(asc+lower/3), normDeg(asc+2*lower/3)
	return opposite(c)
}

// opposite fills cusps 4 to 9 from cusps 10 to 3.
func opposite(c [12]float64) [12]float64 {
	for _, k := range []int{9, 10, 11, 0, 1, 2} {
		c[(k+6)%12] = normDeg(c[k] + 180)
	}
	return c
}

// quadrants evaluates a cusp function at house circle offsets 30, 60,
// 120 and 150 degrees from the meridian for cusps 11, 12, 2 and 3.
func (f houseFrame) quadrants(asc, mc float64, cusp func(hd float64) float64) [12]float64 {
	var c [12]float64
	c[9], c[0] = mc, asc
	c[10], c[11] = cusp(30), cusp(60)
	c[1], c[2] = cusp(120), cusp(150)
	return opposite(c)
}

// koch trisects the semi-arc of the MC degree in time.
func (f houseFrame) koch(asc, mc float64) ([12]float64, error) {
	sa, err := f.semiArc(f.declination(mc))
	if err != nil {
		return [12]float64{}, err
	}
	d := sa / 3
	var c [12]float64
	c[9], c[0] = mc, asc
	c[10], c[11] = f.asc(f.armc-2*d, f.lat), f.asc(f.armc-d, f.lat)
	c[1], c[2] = f.asc(f.armc+d, f.lat), f.asc(f.armc+2*d, f.lat)
	return opposite(c), nil
}

// placidus finds the points that have covered a third and two thirds of
// their own semi-arcs.
func (f houseFrame) placidus(asc, mc float64) ([12]float64, error) {
	type spec struct {
		index      int
		fraction   float64
		aboveHoriz bool
	}
	var c [12]float64
	c[9], c[0] = mc, asc
	for _, s := range []spec{{10, 1.0 / 3, true}, {11, 2.0 / 3, true}, {1, 2.0 / 3, false}, {2, 1.0 / 3, false}} {
		ra := func(sa float64) float64 {
			if s.aboveHoriz {
				return f.armc + s.fraction*sa
			}
			return f.armc + 180 - s.fraction*(180-sa)
		}
		lon := f.meridianLon(ra(90))
		converged := false
		for i := 0; i < placidusMaxIter; i++ {
			sa, err := f.semiArc(f.declination(lon))
			if err != nil {
				return c, err
			}
			next := f.meridianLon(ra(sa))
			delta := math.Abs(diffDeg(next, lon))
			lon = next
			if delta < placidusTolerance {
				converged = true
				break
			}
		}
		if !converged {
			return c, fmt.Errorf("%w: Placidus cusp %d did not converge", ErrPolarLatitude, s.index+1)
		}
		c[s.index] = lon
	}
	return opposite(c), nil
}

// alcabitius trisects the semi-arcs of the ascendant degree on the
// equator.
func (f houseFrame) alcabitius(asc, mc float64) ([12]float64, error) {
	sa, err := f.semiArc(f.declination(asc))
	if err != nil {
		return [12]float64{}, err
	}
	na := 180 - sa
	var c [12]float64
	c[9], c[0] = mc, asc
	c[10] = f.meridianLon(f.armc + sa/3)
	c[11] = f.meridianLon(f.armc + 2*sa/3)
	c[1] = f.meridianLon(f.armc + 180 - 2*na/3)
	c[2] = f.meridianLon(f.armc + 180 - na/3)
	return opposite(c), nil
}

// local returns the zenith, east point and the ecliptic pole as
// equatorial unit vectors.
func (f houseFrame) local() (zenith, east, pole r3.Vec) {
	st, ct := math.Sincos(f.armc * deg2rad)
	sl, cl := math.Sincos(f.lat * deg2rad)
	zenith = r3.Vec{X: cl * ct, Y: cl * st, Z: sl}
	east = r3.Vec{X: -st, Y: ct}
	pole = r3.Vec{Y: -f.sine, Z: f.cose}
	return zenith, east, pole
}

// eclipticLon returns the ecliptic longitude of an equatorial vector.
func (f houseFrame) eclipticLon(v r3.Vec) float64 {
	return normDeg(math.Atan2(v.Y*f.cose+v.Z*f.sine, v.X) * rad2deg)
}

// horizon divides the horizon into twelve equal parts from the meridian
// and intersects the vertical circles through them with the ecliptic.
func (f houseFrame) horizon() [12]float64 {
	zenith, east, pole := f.local()
	st, ct := math.Sincos(f.armc * deg2rad)
	sl, cl := math.Sincos(f.lat * deg2rad)
	// horizon point below the equator's meridian crossing
	m := r3.Vec{X: sl * ct, Y: sl * st, Z: -cl}
	if f.lat < 0 {
		m = r3.Scale(-1, m)
	}
	var c [12]float64
	for k := range c {
		h := (90 + 30*float64(k)) * deg2rad
		sh, ch := math.Sincos(h)
		hp := r3.Add(r3.Scale(ch, m), r3.Scale(sh, east))
		d := r3.Cross(r3.Cross(zenith, hp), pole)
		if r3.Dot(d, hp) < 0 {
			d = r3.Scale(-1, d)
		}
		c[k] = f.eclipticLon(d)
	}
	return c
}

// krusinski divides the great circle through the ascendant and the zenith
// into twelve parts and projects them onto the ecliptic along hour
// circles.
func (f houseFrame) krusinski(asc float64) [12]float64 {
	zenith, _, _ := f.local()
	sa, ca := math.Sincos(asc * deg2rad)
	a := r3.Vec{X: ca, Y: sa * f.cose, Z: sa * f.sine}
	z := r3.Sub(zenith, r3.Scale(r3.Dot(zenith, a), a))
	z = r3.Scale(1/r3.Norm(z), z)
	var c [12]float64
	for k := range c {
		psi := -30 * float64(k) * deg2rad
		sp, cp := math.Sincos(psi)
		p := r3.Add(r3.Scale(cp, a), r3.Scale(sp, z))
		c[k] = f.meridianLon(math.Atan2(p.Y, p.X) * rad2deg)
	}
	c[0] = asc
	return c
}

// HousePosition returns the house position, from 1.0 up to 13.0, of the
// ecliptic longitude lon for the cusps of hsys at the given ARMC,
// latitude and obliquity. The position interpolates linearly in
// longitude between the enclosing cusps.
func HousePosition(armc, lat, eps float64, hsys HouseSystem, lon float64) (float64, error) {
	h, err := HousesARMC(armc, lat, eps, hsys)
	if err != nil {
		return 0, err
	}
	lon = normDeg(lon)
	for k := 0; k < 12; k++ {
		start, end := h.Cusps[k], h.Cusps[(k+1)%12]
		width := normDeg(end - start)
		off := normDeg(lon - start)
		if width > 0 && off < width {
			return float64(k+1) + off/width, nil
		}
	}
	return 0, fmt.Errorf("%w: degenerate cusps for %s", ErrPolarLatitude, houseSystemNames[hsys])
}
