// ./elements.go
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

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mshafiee/astroeph/internal/packfile"
)

const (
	tropicalYear = 365.242189 // days
	// precessionRate is the general precession in degrees per day.
	precessionRate = 50.29 / 3600 / tropicalYear

	elementSourceMask = ElemJPLEph | ElemSwiEph | ElemMosEph
)

// OrbitalElements are osculating elements referred to the ecliptic and
// equinox of J2000, heliocentric except for the Moon. Angles are in
// degrees, distances in AU, times in days unless noted.
type OrbitalElements struct {
	SemiAxis       float64
	Eccentricity   float64
	Inclination    float64
	Node           float64
	ArgPerihelion  float64
	LonPerihelion  float64
	MeanAnomaly    float64
	TrueAnomaly    float64
	EccAnomaly     float64
	MeanLongitude  float64
	SiderealPeriod float64 // tropical years
	DailyMotion    float64 // degrees/day
	TropicalPeriod float64 // tropical years
	SynodicPeriod  float64 // negative for bodies faster than the Earth
	PeriPassage    float64 // JD TT of the last perihelion passage
	PeriDistance   float64
	AphDistance    float64

	Flags  ElementFlags
	Source SourceResolution
}

// Values returns the elements in wire order.
func (o OrbitalElements) Values() []float64 {
	return []float64{
		o.SemiAxis, o.Eccentricity, o.Inclination, o.Node, o.ArgPerihelion,
		o.LonPerihelion, o.MeanAnomaly, o.TrueAnomaly, o.EccAnomaly, o.MeanLongitude,
		o.SiderealPeriod, o.DailyMotion, o.TropicalPeriod, o.SynodicPeriod,
		o.PeriPassage, o.PeriDistance, o.AphDistance,
	}
}

// gravParam returns GM of the central body plus the orbiting body in
// AU³/day².
func gravParam(body Body, flags ElementFlags) float64 {
	if body == Moon {
		return gmEarthMoon
	}
	if flags&ElemAA != 0 {
		return gaussK2
	}
	if flags&ElemBarycentric != 0 {
		sum := 1.0
		for _, id := range planetIDs {
			sum += 1 / inverseMasses[id]
		}
		return gaussK2 * sum
	}
	id, ok := naifID(body)
	if body == Earth {
		id, ok = packfile.EMB, true
	}
	if inv, found := inverseMasses[id]; ok && found {
		return gaussK2 * (1 + 1/inv)
	}
	return gaussK2
}

// orbitalElements computes elements from the state of body.
func (e *Engine) orbitalElements(jd float64, body Body, flags ElementFlags) (OrbitalElements, error) {
	if rest := flags &^ (elementSourceMask | ElemBarycentric | ElemAA); rest != 0 {
		return OrbitalElements{}, fmt.Errorf("%w: unknown element flag bits 0x%x", ErrUsage, uint32(rest))
	}
	if !body.valid() || body == Sun || body == EclNut || body.isLunarPoint() {
		return OrbitalElements{}, fmt.Errorf("%w: no orbital elements for %v", ErrInvalidBody, body)
	}
	cf := CalcFlags(flags&elementSourceMask) | FlagXYZ | FlagSpeed | FlagJ2000 | FlagTruePos | FlagAstrometric
	switch {
	case body == Moon:
	case flags&ElemBarycentric != 0:
		cf |= FlagBaryctr
	default:
		cf |= FlagHelctr
	}
	pos, err := e.calc(jd, body, cf)
	if err != nil {
		return OrbitalElements{}, err
	}
	s := stateOf([3]float64(pos.Values[:3]), [3]float64(pos.Values[3:]))
	el, err := keplerElements(jd, s, gravParam(body, flags))
	if err != nil {
		return OrbitalElements{}, err
	}
	if body == Earth {
		el.SynodicPeriod = 0
	}
	el.Flags = flags&^elementSourceMask | ElementFlags(pos.Source.Actual.Flag())
	el.Source = pos.Source
	return el, nil
}

// keplerElements derives the two-body elements of state s about a centre
// of gravitational parameter mu.
func keplerElements(jd float64, s state, mu float64) (OrbitalElements, error) {
	x, v := s.pos, s.vel
	r := r3.Norm(x)
	if r == 0 {
		return OrbitalElements{}, fmt.Errorf("%w: zero position vector", ErrUsage)
	}
	a := 1 / (2/r - r3.Dot(v, v)/mu)
	h := r3.Cross(x, v)
	hn := r3.Norm(h)
	ev := r3.Sub(r3.Scale(1/mu, r3.Cross(v, h)), r3.Scale(1/r, x))
	ecc := r3.Norm(ev)
	if a <= 0 || ecc >= 1 || hn == 0 {
		return OrbitalElements{}, fmt.Errorf("%w: orbit is not elliptic (a=%g, e=%g)", ErrUsage, a, ecc)
	}

	incl := math.Acos(h.Z / hn)
	node := math.Atan2(h.X, -h.Y)
	ecosE := 1 - r/a
	esinE := r3.Dot(x, v) / math.Sqrt(mu*a)
	m := math.Atan2(esinE, ecosE) - esinE
	eccAnom, err := solveKepler(m, ecc)
	if err != nil {
		return OrbitalElements{}, err
	}
	sE, cE := math.Sincos(eccAnom)
	nu := math.Atan2(math.Sqrt(1-ecc*ecc)*sE, cE-ecc)

	sn, cn := math.Sincos(node)
	nv := r3.Vec{X: cn, Y: sn}
	u := math.Atan2(r3.Dot(r3.Cross(nv, x), r3.Scale(1/hn, h)), r3.Dot(nv, x))
	peri := u - nu

	n := math.Sqrt(mu/(a*a*a)) * rad2deg
	mDeg := normDeg(m * rad2deg)
	el := OrbitalElements{
		SemiAxis:       a,
		Eccentricity:   ecc,
		Inclination:    incl * rad2deg,
		Node:           normDeg(node * rad2deg),
		ArgPerihelion:  normDeg(peri * rad2deg),
		LonPerihelion:  normDeg((node + peri) * rad2deg),
		MeanAnomaly:    mDeg,
		TrueAnomaly:    normDeg(nu * rad2deg),
		EccAnomaly:     normDeg(eccAnom * rad2deg),
		MeanLongitude:  normDeg((node+peri)*rad2deg + mDeg),
		SiderealPeriod: 360 / n / tropicalYear,
		DailyMotion:    n,
		TropicalPeriod: 360 / (n + precessionRate) / tropicalYear,
		SynodicPeriod:  360 / (gaussDaily - n),
		PeriPassage:    jd - mDeg/n,
		PeriDistance:   a * (1 - ecc),
		AphDistance:    a * (1 + ecc),
	}
	return el, nil
}
