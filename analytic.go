// ./analytic.go
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

	"github.com/mshafiee/astroeph/internal/packfile"
)

const (
	keplerTolerance = 1e-15
	keplerMaxIter   = 100

	// gaussK2 is the square of the Gaussian gravitational constant, AU³/day².
	gaussK2 = 2.959122082855911e-4
	// emrat is the Earth/Moon mass ratio of DE431.
	emrat = 81.30056907
	// gmEarthMoon is GM of the Earth-Moon system in AU³/day².
	gmEarthMoon = 8.997011390199871e-10
	// auKM is the astronomical unit in km.
	auKM = 149597870.7
)

// solveKepler solves M = E - e sin E for E by Newton iteration.
func solveKepler(m, e float64) (float64, error) {
	m = math.Remainder(m, 2*math.Pi)
	ecc := m + e*math.Sin(m)
	if e > 0.8 {
		ecc = math.Pi * math.Copysign(1, m)
	}
	for i := 0; i < keplerMaxIter; i++ {
		s, c := math.Sincos(ecc)
		delta := (ecc - e*s - m) / (1 - e*c)
		ecc -= delta
		if math.Abs(delta) < keplerTolerance {
			return ecc, nil
		}
	}
	return 0, fmt.Errorf("%w: M=%g e=%g", ErrKeplerNonconvergence, m, e)
}

// keplerDual solves Kepler's equation and differentiates the result.
func keplerDual(m, e dual) (dual, error) {
	ecc, err := solveKepler(m.v, e.v)
	if err != nil {
		return dual{}, err
	}
	s, c := math.Sincos(ecc)
	return dual{ecc, (m.d + e.d*s) / (1 - e.v*c)}, nil
}

// orbitState returns the position in the reference plane of an ellipse
// with semi-major axis a, eccentricity e, inclination i, node node and
// argument of perihelion peri, the body being at eccentric anomaly ecc.
func orbitState(a, e, i, node, peri, ecc dual) state {
	one := constant(1)
	xp := a.mul(ecc.cos().sub(e))
	yp := a.mul(one.sub(e.mul(e)).sqrt()).mul(ecc.sin())

	cw, sw := peri.cos(), peri.sin()
	cn, sn := node.cos(), node.sin()
	ci, si := i.cos(), i.sin()

	x := cw.mul(cn).sub(sw.mul(sn).mul(ci)).mul(xp).
		sub(sw.mul(cn).add(cw.mul(sn).mul(ci)).mul(yp))
	y := cw.mul(sn).add(sw.mul(cn).mul(ci)).mul(xp).
		add(cw.mul(cn).mul(ci).sub(sw.mul(sn)).mul(yp))
	z := sw.mul(si).mul(xp).add(cw.mul(si).mul(yp))
	return stateOf([3]float64{x.v, y.v, z.v}, [3]float64{x.d, y.d, z.d})
}

// meanElements are Keplerian elements and their rates per Julian century:
// a (AU), e, I, L, varpi, Omega (degrees).
type meanElements struct {
	a, e, i, l, peri, node [2]float64
}

// standish holds the elements of E. M. Standish, "Keplerian Elements for
// Approximate Positions of the Major Planets", table 1, referred to the
// ecliptic and equinox of J2000. The Earth entry is the Earth-Moon
// barycenter.
var standish = map[int32]meanElements{
	packfile.Mercury: {
		a: [2]float64{0.38709927, 0.00000037}, e: [2]float64{0.20563593, 0.00001906},
		i: [2]float64{7.00497902, -0.00594749}, l: [2]float64{252.25032350, 149472.67411175},
		peri: [2]float64{77.45779628, 0.16047689}, node: [2]float64{48.33076593, -0.12534081},
	},
	packfile.Venus: {
		a: [2]float64{0.72333566, 0.00000390}, e: [2]float64{0.00677672, -0.00004107},
		i: [2]float64{3.39467605, -0.00078890}, l: [2]float64{181.97909950, 58517.81538729},
		peri: [2]float64{131.60246718, 0.00268329}, node: [2]float64{76.67984255, -0.27769418},
	},
	packfile.EMB: {
		a: [2]float64{1.00000261, 0.00000562}, e: [2]float64{0.01671123, -0.00004392},
		i: [2]float64{-0.00001531, -0.01294668}, l: [2]float64{100.46457166, 35999.37244981},
		peri: [2]float64{102.93768193, 0.32327364}, node: [2]float64{0, 0},
	},
	packfile.Mars: {
		a: [2]float64{1.52371034, 0.00001847}, e: [2]float64{0.09339410, 0.00007882},
		i: [2]float64{1.84969142, -0.00813131}, l: [2]float64{-4.55343205, 19140.30268499},
		peri: [2]float64{-23.94362959, 0.44441088}, node: [2]float64{49.55953891, -0.29257343},
	},
	packfile.Jupiter: {
		a: [2]float64{5.20288700, -0.00011607}, e: [2]float64{0.04838624, -0.00013253},
		i: [2]float64{1.30439695, -0.00183714}, l: [2]float64{34.39644051, 3034.74612775},
		peri: [2]float64{14.72847983, 0.21252668}, node: [2]float64{100.47390909, 0.20469106},
	},
	packfile.Saturn: {
		a: [2]float64{9.53667594, -0.00125060}, e: [2]float64{0.05386179, -0.00050991},
		i: [2]float64{2.48599187, 0.00193609}, l: [2]float64{49.95424423, 1222.49362201},
		peri: [2]float64{92.59887831, -0.41897216}, node: [2]float64{113.66242448, -0.28867794},
	},
	packfile.Uranus: {
		a: [2]float64{19.18916464, -0.00196176}, e: [2]float64{0.04725744, -0.00004397},
		i: [2]float64{0.77263783, -0.00242939}, l: [2]float64{313.23810451, 428.48202785},
		peri: [2]float64{170.95427630, 0.40805281}, node: [2]float64{74.01692503, 0.04240589},
	},
	packfile.Neptune: {
		a: [2]float64{30.06992276, 0.00026291}, e: [2]float64{0.00859048, 0.00005105},
		i: [2]float64{1.77004347, 0.00035372}, l: [2]float64{-55.12002969, 218.45945325},
		peri: [2]float64{44.96476227, -0.32241464}, node: [2]float64{131.78422574, -0.00508664},
	},
	packfile.Pluto: {
		a: [2]float64{39.48211675, -0.00031596}, e: [2]float64{0.24882730, 0.00005170},
		i: [2]float64{17.14001206, 0.00004818}, l: [2]float64{238.92903833, 145.20780515},
		peri: [2]float64{224.06891629, -0.04062942}, node: [2]float64{110.30393684, -0.01183482},
	},
}

// inverseMasses holds Sun/body mass ratios (DE431).
var inverseMasses = map[int32]float64{
	packfile.Mercury: 6023600,
	packfile.Venus:   408523.71,
	packfile.EMB:     328900.56,
	packfile.Mars:    3098708,
	packfile.Jupiter: 1047.3486,
	packfile.Saturn:  3497.898,
	packfile.Uranus:  22902.98,
	packfile.Neptune: 19412.24,
	packfile.Pluto:   135200000,
}

var planetIDs = []int32{
	packfile.Mercury, packfile.Venus, packfile.EMB, packfile.Mars, packfile.Jupiter,
	packfile.Saturn, packfile.Uranus, packfile.Neptune, packfile.Pluto,
}

// eclipticJ2000ToICRS maps the ecliptic and equinox of J2000 into ICRS.
var eclipticJ2000ToICRS = rot1(constant(-eps2000 * as2rad)).then(frameBias().inverse())

func (el meanElements) heliocentric(jd float64) (state, error) {
	t, r := centuries(jd)
	lin := func(c [2]float64, k float64) dual { return polyDual(t, r, c[0], c[1]).scale(k) }
	a := lin(el.a, 1)
	e := lin(el.e, 1)
	i := lin(el.i, deg2rad)
	l := lin(el.l, deg2rad)
	peri := lin(el.peri, deg2rad)
	node := lin(el.node, deg2rad)

	ecc, err := keplerDual(l.sub(peri), e)
	if err != nil {
		return state{}, err
	}
	return eclipticJ2000ToICRS.apply(orbitState(a, e, i, node, peri.sub(node), ecc)), nil
}

// analyticSource evaluates the built-in series. It covers 3000 BCE to
// 3000 CE and extrapolates beyond that only when allowed.
type analyticSource struct {
	extrapolate bool
}

var (
	analyticStart = JulDay(-3000, 1, 1, 0, Julian)
	analyticEnd   = JulDay(3000, 1, 1, 0, Gregorian)
)

func (a analyticSource) source() Source { return SourceAnalytic }

func (a analyticSource) covers(jd float64) error {
	if !a.extrapolate && (jd < analyticStart || jd > analyticEnd) {
		return fmt.Errorf("%w: analytic series cover JD %.1f to %.1f, got %.6f",
			ErrOutsideRange, analyticStart, analyticEnd, jd)
	}
	return nil
}

// planets returns the heliocentric ICRS state of every major planet.
func (a analyticSource) planets(jd float64) (map[int32]state, error) {
	out := make(map[int32]state, len(planetIDs))
	for _, id := range planetIDs {
		s, err := standish[id].heliocentric(jd)
		if err != nil {
			return nil, err
		}
		out[id] = s
	}
	return out, nil
}

// sunBarycentric places the Sun so that the mass-weighted planets balance it.
func sunBarycentric(helio map[int32]state) state {
	var sum state
	var msum float64
	for _, id := range planetIDs {
		m := 1 / inverseMasses[id]
		sum = sum.add(helio[id].scale(m))
		msum += m
	}
	return sum.scale(-1 / (1 + msum))
}

func (a analyticSource) barycentric(jd float64, id int32) (state, error) {
	if err := a.covers(jd); err != nil {
		return state{}, err
	}
	helio, err := a.planets(jd)
	if err != nil {
		return state{}, err
	}
	sun := sunBarycentric(helio)
	switch id {
	case packfile.SSB:
		return state{}, nil
	case packfile.Sun:
		return sun, nil
	case packfile.Earth, packfile.Moon:
		emb := sun.add(helio[packfile.EMB])
		moon := moonGeocentric(jd)
		earth := emb.sub(moon.scale(1 / (1 + emrat)))
		if id == packfile.Earth {
			return earth, nil
		}
		return earth.add(moon), nil
	}
	h, ok := helio[id]
	if !ok {
		return state{}, fmt.Errorf("%w: body %d has no analytic series", ErrDataUnavailable, id)
	}
	return sun.add(h), nil
}

func (a analyticSource) nutation(jd float64) (nutationAngles, error) { return seriesNutation(jd), nil }

func (a analyticSource) emrat() float64 { return emrat }
