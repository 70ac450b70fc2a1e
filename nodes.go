// ./nodes.go
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
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// lunar orbit constants for the mean points
	moonSemiAxis    = 384400 / auKM
	moonEccentric   = 0.0549
	moonInclination = 5.145396 * deg2rad
)

// meanNodeLongitude returns the longitude of the mean ascending node on the
// mean ecliptic of date (Meeus 47.7).
func meanNodeLongitude(jd float64) dual {
	t, r := centuries(jd)
	return polyDual(t, r, 125.0445479, -1934.1362891, 0.0020754, 1.0/467441, -1.0/60616000).scale(deg2rad)
}

// meanNode returns the geocentric ICRS state of the mean ascending node.
func meanNode(jd float64) state {
	s := cartesian(meanNodeLongitude(jd), constant(0), constant(moonSemiAxis))
	return meanEclipticToICRS(jd).apply(s)
}

// meanApogee returns the geocentric ICRS state of the mean lunar apogee.
// Its latitude follows from the mean inclination of the orbit.
func meanApogee(jd float64) state {
	t, r := centuries(jd)
	perigee := polyDual(t, r, 83.3532465, 4069.0137287, -0.0103200, -1.0/80053, 1.0/18999000).scale(deg2rad)
	lon := perigee.addConst(math.Pi)
	lat := lon.sub(meanNodeLongitude(jd)).sin().scale(math.Sin(moonInclination)).asin()
	s := cartesian(lon, lat, constant(moonSemiAxis*(1+moonEccentric)))
	return meanEclipticToICRS(jd).apply(s)
}

// osculatingOrbit is the Moon's geocentric two-body orbit at one instant,
// in the mean ecliptic of date, with the rates implied by the solar
// perturbation.
type osculatingOrbit struct {
	h, hDot r3.Vec // angular momentum
	e, eDot r3.Vec // eccentricity vector
	p, pDot float64
}

func newOsculatingOrbit(moon, sun state) osculatingOrbit {
	r, v := moon.pos, moon.vel
	rn := r3.Norm(r)
	// solar tide: the two-body part of the acceleration is radial and
	// leaves h unchanged
	d := r3.Sub(sun.pos, r)
	tide := r3.Scale(gaussK2, r3.Sub(r3.Scale(1/math.Pow(r3.Norm(d), 3), d), r3.Scale(1/math.Pow(r3.Norm(sun.pos), 3), sun.pos)))
	acc := r3.Add(r3.Scale(-gmEarthMoon/(rn*rn*rn), r), tide)

	h := r3.Cross(r, v)
	hDot := r3.Cross(r, tide)
	rHat := r3.Scale(1/rn, r)
	rHatDot := r3.Scale(1/rn, r3.Sub(v, r3.Scale(r3.Dot(rHat, v), rHat)))
	e := r3.Sub(r3.Scale(1/gmEarthMoon, r3.Cross(v, h)), rHat)
	eDot := r3.Sub(r3.Scale(1/gmEarthMoon, r3.Add(r3.Cross(acc, h), r3.Cross(v, hDot))), rHatDot)
	return osculatingOrbit{
		h: h, hDot: hDot,
		e: e, eDot: eDot,
		p:    r3.Dot(h, h) / gmEarthMoon,
		pDot: 2 * r3.Dot(h, hDot) / gmEarthMoon,
	}
}

// node returns the ascending node of the osculating orbit, placed at the
// orbit's radius in that direction.
func (o osculatingOrbit) node() state {
	hx, hy := o.h.X, o.h.Y
	om := math.Atan2(hx, -hy)
	omDot := (hx*o.hDot.Y - hy*o.hDot.X) / (hx*hx + hy*hy)
	s, c := math.Sincos(om)
	n := r3.Vec{X: c, Y: s}
	nDot := r3.Vec{X: -s * omDot, Y: c * omDot}

	q := r3.Dot(o.e, n)
	qDot := r3.Dot(o.eDot, n) + r3.Dot(o.e, nDot)
	dist := o.p / (1 + q)
	distDot := (o.pDot*(1+q) - o.p*qDot) / ((1 + q) * (1 + q))
	return state{
		pos: r3.Scale(dist, n),
		vel: r3.Add(r3.Scale(distDot, n), r3.Scale(dist, nDot)),
	}
}

// apogee returns the apocentre of the osculating orbit.
func (o osculatingOrbit) apogee() state {
	ex, ey, ez := dual{o.e.X, o.eDot.X}, dual{o.e.Y, o.eDot.Y}, dual{o.e.Z, o.eDot.Z}
	e := ex.mul(ex).add(ey.mul(ey)).add(ez.mul(ez)).sqrt()
	q := dual{o.p, o.pDot}.div(constant(1).sub(e))
	k := q.div(e).scale(-1)
	x, y, z := ex.mul(k), ey.mul(k), ez.mul(k)
	return state{r3.Vec{X: x.v, Y: y.v, Z: z.v}, r3.Vec{X: x.d, Y: y.d, Z: z.d}}
}

// osculatingPoint converts geocentric ICRS states of the Moon and the Sun
// into the mean ecliptic of date, derives the requested point and maps it
// back into ICRS.
func osculatingPoint(jd float64, moon, sun state, b Body) state {
	toICRS := meanEclipticToICRS(jd)
	toEcl := toICRS.inverse()
	orbit := newOsculatingOrbit(toEcl.apply(moon), toEcl.apply(sun))
	if b == TrueNode {
		return toICRS.apply(orbit.node())
	}
	return toICRS.apply(orbit.apogee())
}
