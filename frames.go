// ./frames.go
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

	"github.com/soniakeys/meeus/v3/nutation"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
	as2rad  = deg2rad / 3600

	// eps2000 is the IAU 2006 mean obliquity at J2000 in arcsec.
	eps2000 = 84381.406
)

// state is a position in AU and a velocity in AU/day.
type state struct {
	pos, vel r3.Vec
}

func (s state) add(o state) state {
	return state{r3.Add(s.pos, o.pos), r3.Add(s.vel, o.vel)}
}

func (s state) sub(o state) state {
	return state{r3.Sub(s.pos, o.pos), r3.Sub(s.vel, o.vel)}
}

func (s state) scale(k float64) state {
	return state{r3.Scale(k, s.pos), r3.Scale(k, s.vel)}
}

func (s state) array() (pos, vel [3]float64) {
	return [3]float64{s.pos.X, s.pos.Y, s.pos.Z}, [3]float64{s.vel.X, s.vel.Y, s.vel.Z}
}

func stateOf(pos, vel [3]float64) state {
	return state{r3.Vec{X: pos[0], Y: pos[1], Z: pos[2]}, r3.Vec{X: vel[0], Y: vel[1], Z: vel[2]}}
}

// rotation is a frame rotation m and its rate dm in 1/day, so that a state
// rotates as pos' = m·pos and vel' = m·vel + dm·pos.
type rotation struct {
	m, dm *r3.Mat
}

func identity() rotation {
	return rotation{r3.NewMat([]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}), r3.NewMat(nil)}
}

func (r rotation) apply(s state) state {
	return state{
		pos: r.m.MulVec(s.pos),
		vel: r3.Add(r.m.MulVec(s.vel), r.dm.MulVec(s.pos)),
	}
}

// then returns the rotation that applies r first and next after it.
func (r rotation) then(next rotation) rotation {
	m := r3.NewMat(nil)
	m.Mul(next.m, r.m)
	a := r3.NewMat(nil)
	a.Mul(next.dm, r.m)
	b := r3.NewMat(nil)
	b.Mul(next.m, r.dm)
	dm := r3.NewMat(nil)
	dm.Add(a, b)
	return rotation{m, dm}
}

func (r rotation) inverse() rotation {
	return rotation{transpose(r.m), transpose(r.dm)}
}

// frozen drops the rate, for rotations to a fixed epoch.
func (r rotation) frozen() rotation {
	return rotation{r.m, r3.NewMat(nil)}
}

func transpose(m *r3.Mat) *r3.Mat {
	t := r3.NewMat(nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.Set(j, i, m.At(i, j))
		}
	}
	return t
}

func rot1(a dual) rotation {
	s, c := math.Sincos(a.v)
	return rotation{
		m:  r3.NewMat([]float64{1, 0, 0, 0, c, s, 0, -s, c}),
		dm: r3.NewMat([]float64{0, 0, 0, 0, -s * a.d, c * a.d, 0, -c * a.d, -s * a.d}),
	}
}

func rot2(a dual) rotation {
	s, c := math.Sincos(a.v)
	return rotation{
		m:  r3.NewMat([]float64{c, 0, -s, 0, 1, 0, s, 0, c}),
		dm: r3.NewMat([]float64{-s * a.d, 0, -c * a.d, 0, 0, 0, c * a.d, 0, -s * a.d}),
	}
}

func rot3(a dual) rotation {
	s, c := math.Sincos(a.v)
	return rotation{
		m:  r3.NewMat([]float64{c, s, 0, -s, c, 0, 0, 0, 1}),
		dm: r3.NewMat([]float64{-s * a.d, c * a.d, 0, -c * a.d, -s * a.d, 0, 0, 0, 0}),
	}
}

// centuries returns Julian centuries TT since J2000 with its rate.
func centuries(jd float64) (t, rate float64) {
	return (jd - j2000) / daysPerCentury, 1 / daysPerCentury
}

// frameBias rotates ICRS into the mean equator and equinox of J2000
// (IERS Conventions 2003, 5.4.4).
func frameBias() rotation {
	const (
		xi0  = -0.0166170 * as2rad
		eta0 = -0.0068192 * as2rad
		da0  = -0.01460 * as2rad
	)
	return rot3(constant(da0)).then(rot2(constant(xi0))).then(rot1(constant(-eta0)))
}

// precession rotates the mean equator of J2000 into the mean equator of
// date with the IAU 2006 angles.
func precession(jd float64) rotation {
	t, r := centuries(jd)
	zeta := polyDual(t, r, 2.650545, 2306.083227, 0.2988499, 0.01801828, -0.000005971, -0.0000003173).scale(as2rad)
	z := polyDual(t, r, -2.650545, 2306.077181, 1.0927348, 0.01826837, -0.000028596, -0.0000002904).scale(as2rad)
	theta := polyDual(t, r, 0, 2004.191903, -0.4294934, -0.04182264, -0.000007089, -0.0000001274).scale(as2rad)
	return rot3(zeta.scale(-1)).then(rot2(theta)).then(rot3(z.scale(-1)))
}

// meanObliquity returns the IAU 2006 mean obliquity of date in radians.
func meanObliquity(jd float64) dual {
	t, r := centuries(jd)
	return polyDual(t, r, eps2000, -46.836769, -0.0001831, 0.00200340, -0.000000576, -0.0000000434).scale(as2rad)
}

// generalPrecession returns the IAU 2006 accumulated precession in
// longitude since J2000 in radians.
func generalPrecession(jd float64) dual {
	t, r := centuries(jd)
	return polyDual(t, r, 0, 5028.796195, 1.1054348, 0.00007964, -0.000023857, -0.0000000383).scale(as2rad)
}

// nutationAngles holds nutation in longitude and obliquity in radians.
type nutationAngles struct {
	dpsi, deps dual
}

// seriesNutation evaluates the IAU 1980 series for the angles and its five
// leading terms for their rates.
func seriesNutation(jd float64) nutationAngles {
	dpsi, deps := nutation.Nutation(jd)
	t, _ := centuries(jd)
	perCy := deg2rad / daysPerCentury
	om := (125.04452 - 1934.136261*t) * deg2rad
	l := (280.4665 + 36000.7698*t) * deg2rad
	lp := (218.3165 + 481267.8813*t) * deg2rad
	dom := -1934.136261 * perCy
	dl := 36000.7698 * perCy
	dlp := 481267.8813 * perCy
	dpsiDot := (-17.20*math.Cos(om)*dom - 1.32*math.Cos(2*l)*2*dl -
		0.23*math.Cos(2*lp)*2*dlp + 0.21*math.Cos(2*om)*2*dom) * as2rad
	depsDot := (-9.20*math.Sin(om)*dom - 0.57*math.Sin(2*l)*2*dl -
		0.10*math.Sin(2*lp)*2*dlp + 0.09*math.Sin(2*om)*2*dom) * as2rad
	return nutationAngles{
		dpsi: dual{dpsi.Rad(), dpsiDot},
		deps: dual{deps.Rad(), depsDot},
	}
}

// nutationMatrix rotates the mean equator of date into the true equator.
func nutationMatrix(eps dual, n nutationAngles) rotation {
	return rot1(eps).then(rot3(n.dpsi.scale(-1))).then(rot1(eps.add(n.deps).scale(-1)))
}

// equatorialToEcliptic rotates an equatorial frame into the ecliptic frame
// of obliquity eps.
func equatorialToEcliptic(eps dual) rotation {
	return rot1(eps)
}

// spherical converts a Cartesian state to longitude, latitude (radians)
// and distance, with their rates.
func spherical(s state) (pos, vel [3]float64) {
	x, y, z := s.pos.X, s.pos.Y, s.pos.Z
	dx, dy, dz := s.vel.X, s.vel.Y, s.vel.Z
	rxy2 := x*x + y*y
	r := math.Sqrt(rxy2 + z*z)
	if r == 0 {
		return pos, vel
	}
	lon := math.Atan2(y, x)
	if lon < 0 {
		lon += 2 * math.Pi
	}
	lat := math.Asin(z / r)
	pos = [3]float64{lon, lat, r}
	vel[2] = (x*dx + y*dy + z*dz) / r
	if rxy2 > 0 {
		rxy := math.Sqrt(rxy2)
		vel[0] = (x*dy - y*dx) / rxy2
		vel[1] = (dz*rxy2 - z*(x*dx+y*dy)) / (r * r * rxy)
	}
	return pos, vel
}

// cartesian builds a state from longitude, latitude and distance carrying
// their rates.
func cartesian(lon, lat, r dual) state {
	cl, sl := lon.cos(), lon.sin()
	cb, sb := lat.cos(), lat.sin()
	x := r.mul(cb).mul(cl)
	y := r.mul(cb).mul(sl)
	z := r.mul(sb)
	return state{r3.Vec{X: x.v, Y: y.v, Z: z.v}, r3.Vec{X: x.d, Y: y.d, Z: z.d}}
}

// normDeg reduces an angle in degrees to [0, 360).
func normDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// diffDeg returns a-b reduced to [-180, 180).
func diffDeg(a, b float64) float64 {
	d := normDeg(a - b)
	if d >= 180 {
		d -= 360
	}
	return d
}
