// ./moon.go
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

// Lunar theory of J. Meeus, Astronomical Algorithms, 2nd ed., chapter 47
// (an abridgement of ELP-2000/82). Longitude terms are in 1e-6 degree,
// distance terms in metres.

// lrTerm is one row of table 47.A: multiples of D, M, M', F and the
// longitude and distance coefficients.
type lrTerm struct {
	d, m, mp, f int8
	sl, sr      int32
}

var moonLR = [...]lrTerm{
	{0, 0, 1, 0, 6288774, -20905355},
	{2, 0, -1, 0, 1274027, -3699111},
	{2, 0, 0, 0, 658314, -2955968},
	{0, 0, 2, 0, 213618, -569925},
	{0, 1, 0, 0, -185116, 48888},
	{0, 0, 0, 2, -114332, -3149},
	{2, 0, -2, 0, 58793, 246158},
	{2, -1, -1, 0, 57066, -152138},
	{2, 0, 1, 0, 53322, -170733},
	{2, -1, 0, 0, 45758, -204586},
	{0, 1, -1, 0, -40923, -129620},
	{1, 0, 0, 0, -34720, 108743},
	{0, 1, 1, 0, -30383, 104755},
	{2, 0, 0, -2, 15327, 10321},
	{0, 0, 1, 2, -12528, 0},
	{0, 0, 1, -2, 10980, 79661},
	{4, 0, -1, 0, 10675, -34782},
	{0, 0, 3, 0, 10034, -23210},
	{4, 0, -2, 0, 8548, -21636},
	{2, 1, -1, 0, -7888, 24208},
	{2, 1, 0, 0, -6766, 30824},
	{1, 0, -1, 0, -5163, -8379},
	{1, 1, 0, 0, 4987, -16675},
	{2, -1, 1, 0, 4036, -12831},
	{2, 0, 2, 0, 3994, -10445},
	{4, 0, 0, 0, 3861, -11650},
	{2, 0, -3, 0, 3665, 14403},
	{0, 1, -2, 0, -2689, -7003},
	{2, 0, -1, 2, -2602, 0},
	{2, -1, -2, 0, 2390, 10056},
	{1, 0, 1, 0, -2348, 6322},
	{2, -2, 0, 0, 2236, -9884},
	{0, 1, 2, 0, -2120, 5751},
	{0, 2, 0, 0, -2069, 0},
	{2, -2, -1, 0, 2048, -4950},
	{2, 0, 1, -2, -1773, 4130},
	{2, 0, 0, 2, -1595, 0},
	{4, -1, -1, 0, 1215, -3958},
	{0, 0, 2, 2, -1110, 0},
	{3, 0, -1, 0, -892, 3258},
	{2, 1, 1, 0, -810, 2616},
	{4, -1, -2, 0, 759, -1897},
	{0, 2, -1, 0, -713, -2117},
	{2, 2, -1, 0, -700, 2354},
	{2, 1, -2, 0, 691, 0},
	{2, -1, 0, -2, 596, 0},
	{4, 0, 1, 0, 549, -1423},
	{0, 0, 4, 0, 537, -1117},
	{4, -1, 0, 0, 520, -1571},
	{1, 0, -2, 0, -487, -1739},
	{2, 1, 0, -2, -399, 0},
	{0, 0, 2, -2, -381, -4421},
	{1, 1, 1, 0, 351, 0},
	{3, 0, -2, 0, -340, 0},
	{4, 0, -3, 0, 330, 0},
	{2, -1, 2, 0, 327, 0},
	{0, 2, 1, 0, -323, 1165},
	{1, 1, -1, 0, 299, 0},
	{2, 0, 3, 0, 294, 0},
	{2, 0, -1, -2, 0, 8752},
}

// bTerm is one row of table 47.B.
type bTerm struct {
	d, m, mp, f int8
	sb          int32
}

var moonB = [...]bTerm{
	{0, 0, 0, 1, 5128122},
	{0, 0, 1, 1, 280602},
	{0, 0, 1, -1, 277693},
	{2, 0, 0, -1, 173237},
	{2, 0, -1, 1, 55413},
	{2, 0, -1, -1, 46271},
	{2, 0, 0, 1, 32573},
	{0, 0, 2, 1, 17198},
	{2, 0, 1, -1, 9266},
	{0, 0, 2, -1, 8822},
	{2, -1, 0, -1, 8216},
	{2, 0, -2, -1, 4324},
	{2, 0, 1, 1, 4200},
	{2, 1, 0, -1, -3359},
	{2, -1, -1, 1, 2463},
	{2, -1, 0, 1, 2211},
	{2, -1, -1, -1, 2065},
	{0, 1, -1, -1, -1870},
	{4, 0, -1, -1, 1828},
	{0, 1, 0, 1, -1794},
	{0, 0, 0, 3, -1749},
	{0, 1, -1, 1, -1565},
	{1, 0, 0, 1, -1491},
	{0, 1, 1, 1, -1475},
	{0, 1, 1, -1, -1410},
	{0, 1, 0, -1, -1344},
	{1, 0, 0, -1, -1335},
	{0, 0, 3, 1, 1107},
	{4, 0, 0, -1, 1021},
	{4, 0, -1, 1, 833},
	{0, 0, 1, -3, 777},
	{4, 0, -2, 1, 671},
	{2, 0, 0, -3, 607},
	{2, 0, 2, -1, 596},
	{2, -1, 1, -1, 491},
	{2, 0, -2, 1, -451},
	{0, 0, 3, -1, 439},
	{2, 0, 2, 1, 422},
	{2, 0, -3, -1, 421},
	{2, 1, -1, 1, -366},
	{2, 1, 0, 1, -351},
	{4, 0, 0, 1, 331},
	{2, -1, 1, 1, 315},
	{2, -2, 0, -1, 302},
	{0, 0, 1, 3, -283},
	{2, 1, 1, -1, -229},
	{1, 1, 0, -1, 223},
	{1, 1, 0, 1, 223},
	{0, 1, -2, -1, -220},
	{2, 1, -1, -1, -220},
	{1, 0, 1, 1, -185},
	{2, -1, -2, -1, 181},
	{0, 1, 2, 1, -177},
	{4, 0, -2, -1, 176},
	{4, -1, -1, -1, 166},
	{1, 0, 1, -1, -164},
	{4, 0, 1, -1, 132},
	{1, 0, -1, -1, -119},
	{4, -1, 0, -1, 115},
	{2, -2, 0, 1, 107},
}

// lunarArguments are the fundamental arguments of the theory in radians.
type lunarArguments struct {
	lp, d, m, mp, f, a1, a2, a3 dual

	e dual // factor for the decreasing eccentricity of the Earth's orbit
}

func moonArguments(jd float64) lunarArguments {
	t, r := centuries(jd)
	deg := func(c ...float64) dual { return polyDual(t, r, c...).scale(deg2rad) }
	return lunarArguments{
		lp: deg(218.3164477, 481267.88123421, -0.0015786, 1.0/538841, -1.0/65194000),
		d:  deg(297.8501921, 445267.1114034, -0.0018819, 1.0/545868, -1.0/113065000),
		m:  deg(357.5291092, 35999.0502909, -0.0001536, 1.0/24490000),
		mp: deg(134.9633964, 477198.8675055, 0.0087414, 1.0/69699, -1.0/14712000),
		f:  deg(93.2720950, 483202.0175233, -0.0036539, -1.0/3526000, 1.0/863310000),
		a1: deg(119.75, 131.849),
		a2: deg(53.09, 479264.290),
		a3: deg(313.45, 481266.484),
		e:  polyDual(t, r, 1, -0.002516, -0.0000074),
	}
}

func (la lunarArguments) combine(d, m, mp, f int8) dual {
	return la.d.scale(float64(d)).add(la.m.scale(float64(m))).
		add(la.mp.scale(float64(mp))).add(la.f.scale(float64(f)))
}

// eccentricityFactor returns E^|m|.
func (la lunarArguments) eccentricityFactor(m int8) dual {
	switch m {
	case 1, -1:
		return la.e
	case 2, -2:
		return la.e.mul(la.e)
	}
	return constant(1)
}

// moonEcliptic returns the geocentric longitude and latitude (radians) and
// distance (AU) of the Moon referred to the mean ecliptic and equinox of date.
func moonEcliptic(jd float64) (lon, lat, dist dual) {
	la := moonArguments(jd)
	var sl, sr, sb dual
	for _, t := range moonLR {
		arg := la.combine(t.d, t.m, t.mp, t.f)
		ef := la.eccentricityFactor(t.m)
		if t.sl != 0 {
			sl = sl.add(arg.sin().mul(ef).scale(float64(t.sl)))
		}
		if t.sr != 0 {
			sr = sr.add(arg.cos().mul(ef).scale(float64(t.sr)))
		}
	}
	for _, t := range moonB {
		arg := la.combine(t.d, t.m, t.mp, t.f)
		sb = sb.add(arg.sin().mul(la.eccentricityFactor(t.m)).scale(float64(t.sb)))
	}

	sl = sl.add(la.a1.sin().scale(3958)).
		add(la.lp.sub(la.f).sin().scale(1962)).
		add(la.a2.sin().scale(318))
	sb = sb.add(la.lp.sin().scale(-2235)).
		add(la.a3.sin().scale(382)).
		add(la.a1.sub(la.f).sin().scale(175)).
		add(la.a1.add(la.f).sin().scale(175)).
		add(la.lp.sub(la.mp).sin().scale(127)).
		add(la.lp.add(la.mp).sin().scale(-115))

	lon = la.lp.add(sl.scale(1e-6 * deg2rad))
	lat = sb.scale(1e-6 * deg2rad)
	dist = sr.scale(1e-3).addConst(385000.56).scale(1 / auKM)
	return lon, lat, dist
}

// meanEclipticToICRS maps the mean ecliptic and equinox of date at jd into
// ICRS.
func meanEclipticToICRS(jd float64) rotation {
	toDate := frameBias().then(precession(jd)).then(equatorialToEcliptic(meanObliquity(jd)))
	return toDate.inverse()
}

// moonGeocentric returns the geometric geocentric state of the Moon in ICRS.
func moonGeocentric(jd float64) state {
	lon, lat, dist := moonEcliptic(jd)
	return meanEclipticToICRS(jd).apply(cartesian(lon, lat, dist))
}
