// ./sidereal.go
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
)

// SiderealMode selects an ayanamsa.
type SiderealMode int

const (
	SidmFaganBradley SiderealMode = iota
	SidmLahiri
	SidmDeluce
	SidmRaman
	SidmUshashashi
	SidmKrishnamurti
	SidmDjwhalKhul
	SidmYukteshwar
	SidmJNBhasin
	SidmBabylKugler1
	SidmBabylKugler2
	SidmBabylKugler3
	SidmBabylHuber
	SidmBabylEtpsc
	SidmAldebaran15Tau
	SidmHipparchos
	SidmSassanian
	SidmGalcent0Sag
	SidmJ2000
	SidmJ1900
	SidmB1950
	SidmSuryasiddhanta
	SidmSuryasiddhantaMSun
	SidmAryabhata
	SidmAryabhataMSun
	SidmSSRevati
	SidmSSCitra
	SidmTrueCitra
	SidmTrueRevati
	SidmTruePushya
	SidmGalcentRGilbrand
	SidmGalequIAU1958
	SidmGalequTrue
	SidmGalequMula
	SidmGalalignMardyks
	SidmTrueMula
	SidmGalcentMulaWilhelm
	SidmAryabhata522
	SidmBabylBritton
	SidmTrueSheoran
	SidmGalcentCochrane
	SidmGalequFiorenza
	SidmValensMoon
	SidmLahiri1940
	SidmLahiriVP285
	SidmKrishnamurtiVP291
	SidmLahiriICRC

	// SidmUser takes its zero point from SiderealConfig.T0 and AyanT0.
	SidmUser SiderealMode = 255
)

type ayanamsaKind int

const (
	// ayanamsa grows with general precession from a zero point
	byPrecession ayanamsaKind = iota
	// a reference star sits at a fixed sidereal longitude
	byStar
	// the node of the galactic equator sits at a fixed sidereal longitude
	byGalacticEquator
)

// equatorialPoint is a direction in ICRS, degrees.
type equatorialPoint struct {
	ra, dec float64
}

var (
	spica          = equatorialPoint{201.298247, -11.161319}
	zetaPiscium    = equatorialPoint{18.43292, 7.57528}
	deltaCancri    = equatorialPoint{131.17125, 18.15431}
	lambdaScorpii  = equatorialPoint{263.40217, -37.103822}
	galacticCenter = equatorialPoint{266.416837, -29.007810}
	galacticPole   = equatorialPoint{192.85948, 27.12825}
)

type ayanamsaDef struct {
	name   string
	kind   ayanamsaKind
	t0     float64 // JD TT at which the ayanamsa equals ayanT0
	ayanT0 float64 // degrees
	anchor equatorialPoint
	target float64 // sidereal longitude of the anchor, degrees
}

func precessional(name string, t0, ayanT0 float64) ayanamsaDef {
	return ayanamsaDef{name: name, kind: byPrecession, t0: t0, ayanT0: ayanT0}
}

func anchored(name string, kind ayanamsaKind, p equatorialPoint, target float64) ayanamsaDef {
	return ayanamsaDef{name: name, kind: kind, anchor: p, target: target}
}

var ayanamsas = [...]ayanamsaDef{
	SidmFaganBradley:       precessional("Fagan/Bradley", 2433282.42346, 24.042044444),
	SidmLahiri:             precessional("Lahiri", 2435553.5, 23.245524743),
	SidmDeluce:             precessional("De Luce", j1900, 26.41305),
	SidmRaman:              precessional("Raman", j1900, 21.01444),
	SidmUshashashi:         precessional("Usha/Shashi", j1900, 18.66096),
	SidmKrishnamurti:       precessional("Krishnamurti", j1900, 22.363889),
	SidmDjwhalKhul:         precessional("Djwhal Khul", j1900, 26.9630976),
	SidmYukteshwar:         precessional("Yukteshwar", j1900, 21.082222),
	SidmJNBhasin:           precessional("J.N. Bhasin", j1900, 21.365556),
	SidmBabylKugler1:       precessional("Babylonian/Kugler 1", 1684532.5, -5.66667),
	SidmBabylKugler2:       precessional("Babylonian/Kugler 2", 1684532.5, -4.26667),
	SidmBabylKugler3:       precessional("Babylonian/Kugler 3", 1684532.5, -3.41667),
	SidmBabylHuber:         precessional("Babylonian/Huber", 1684532.5, -4.46667),
	SidmBabylEtpsc:         precessional("Babylonian/Eta Piscium", 1673941, -5.079167),
	SidmAldebaran15Tau:     precessional("Babylonian/Aldebaran = 15 Tau", 1684532.5, -4.44088389),
	SidmHipparchos:         precessional("Hipparchos", 1674484, -9.33333),
	SidmSassanian:          precessional("Sassanian", 1927135.8747793, 0),
	SidmGalcent0Sag:        anchored("Galact. Center = 0 Sag", byStar, galacticCenter, 240),
	SidmJ2000:              precessional("J2000", j2000, 0),
	SidmJ1900:              precessional("J1900", j1900, 0),
	SidmB1950:              precessional("B1950", b1950, 0),
	SidmSuryasiddhanta:     precessional("Suryasiddhanta", 1903396.8128654, 0),
	SidmSuryasiddhantaMSun: precessional("Suryasiddhanta, mean Sun", 1903396.8128654, -0.21463395),
	SidmAryabhata:          precessional("Aryabhata", 1903396.7895321, 0),
	SidmAryabhataMSun:      precessional("Aryabhata, mean Sun", 1903396.7895321, -0.23763238),
	SidmSSRevati:           precessional("SS Revati", 1903396.8128654, -0.79167046),
	SidmSSCitra:            precessional("SS Citra", 1903396.8128654, 2.11070444),
	SidmTrueCitra:          anchored("True Citra", byStar, spica, 180),
	SidmTrueRevati:         anchored("True Revati", byStar, zetaPiscium, 359.8333333),
	SidmTruePushya:         anchored("True Pushya (PVRN Rao)", byStar, deltaCancri, 106),
	SidmGalcentRGilbrand:   anchored("Galactic Center (Gil Brand)", byStar, galacticCenter, 246.62),
	SidmGalequIAU1958:      anchored("Galactic Equator (IAU1958)", byGalacticEquator, galacticPole, 240),
	SidmGalequTrue:         anchored("Galactic Equator", byGalacticEquator, galacticPole, 240),
	SidmGalequMula:         anchored("Galactic Equator mid-Mula", byGalacticEquator, galacticPole, 246.66667),
	SidmGalalignMardyks:    anchored("Skydram (Mardyks)", byGalacticEquator, galacticPole, 240),
	SidmTrueMula:           anchored("True Mula (Chandra Hari)", byStar, lambdaScorpii, 240),
	SidmGalcentMulaWilhelm: anchored("Dhruva/Gal.Center/Mula (Wilhelm)", byStar, galacticCenter, 246.66667),
	SidmAryabhata522:       precessional("Aryabhata 522", 1911797.740782065, 0),
	SidmBabylBritton:       precessional("Babylonian/Britton", 1721057.5, -3.2),
	SidmTrueSheoran:        anchored("\"Vedic\"/Sheoran", byStar, deltaCancri, 103.49264221625),
	SidmGalcentCochrane:    anchored("Cochrane (Gal.Center = 0 Cap)", byStar, galacticCenter, 270),
	SidmGalequFiorenza:     precessional("Galactic Equator (Fiorenza)", j2000, 25.0),
	SidmValensMoon:         precessional("Vettius Valens", 1775845.5, -2.9422),
	SidmLahiri1940:         precessional("Lahiri 1940", j1900, 22.44597222),
	SidmLahiriVP285:        precessional("Lahiri VP285", 1825182.87233, 0),
	SidmKrishnamurtiVP291:  precessional("Krishnamurti-Senthilathiban", 1827424.663554, 0),
	SidmLahiriICRC:         precessional("Lahiri ICRC", j2000, 23.857092),
}

func (m SiderealMode) valid() bool {
	return m == SidmUser || (m >= 0 && int(m) < len(ayanamsas))
}

func (m SiderealMode) String() string {
	name, err := AyanamsaName(m)
	if err != nil {
		return fmt.Sprintf("SiderealMode(%d)", int(m))
	}
	return name
}

// AyanamsaName returns the display name of a sidereal mode.
func AyanamsaName(m SiderealMode) (string, error) {
	switch {
	case m == SidmUser:
		return "User-defined", nil
	case !m.valid():
		return "", fmt.Errorf("%w: %d", ErrUnknownSiderealMode, int(m))
	}
	return ayanamsas[m].name, nil
}

func definition(cfg SiderealConfig) (ayanamsaDef, error) {
	switch {
	case cfg.Mode == SidmUser:
		return precessional("User-defined", cfg.T0, cfg.AyanT0), nil
	case !cfg.Mode.valid():
		return ayanamsaDef{}, fmt.Errorf("%w: %d", ErrUnknownSiderealMode, int(cfg.Mode))
	}
	return ayanamsas[cfg.Mode], nil
}

// ayanamsaAt returns the ayanamsa in radians at TT jd with its rate. A
// non-nil nut adds the nutation in longitude.
func ayanamsaAt(cfg SiderealConfig, jd float64, nut *nutationAngles) (dual, error) {
	def, err := definition(cfg)
	if err != nil {
		return dual{}, err
	}
	a := def.at(jd)
	if nut != nil {
		a = a.add(nut.dpsi)
	}
	return a, nil
}

func (def ayanamsaDef) at(jd float64) dual {
	switch def.kind {
	case byStar:
		return reduceAngle(anchorLongitude(jd, def.anchor).addConst(-def.target * deg2rad))
	case byGalacticEquator:
		pole := meanEclipticOfDate(jd).apply(state{pos: def.anchor.unit()})
		node := atan2d(dual{pole.pos.X, pole.vel.X}, dual{-pole.pos.Y, -pole.vel.Y})
		if node.v < 0 {
			node.v += 2 * math.Pi
		}
		if node.v < math.Pi {
			node.v += math.Pi
		}
		return reduceAngle(node.addConst(-def.target * deg2rad))
	}
	pa := generalPrecession(jd)
	return pa.addConst(def.ayanT0*deg2rad - generalPrecession(def.t0).v)
}

// reduceAngle brings a radian angle into (-π, π].
func reduceAngle(a dual) dual {
	a.v = math.Remainder(a.v, 2*math.Pi)
	return a
}

func (p equatorialPoint) unit() r3.Vec {
	sr, cr := math.Sincos(p.ra * deg2rad)
	sd, cd := math.Sincos(p.dec * deg2rad)
	return r3.Vec{X: cd * cr, Y: cd * sr, Z: sd}
}

// meanEclipticOfDate rotates ICRS into the mean ecliptic and equinox of jd.
func meanEclipticOfDate(jd float64) rotation {
	return frameBias().then(precession(jd)).then(equatorialToEcliptic(meanObliquity(jd)))
}

// anchorLongitude returns the mean ecliptic longitude of date of p.
func anchorLongitude(jd float64, p equatorialPoint) dual {
	s := meanEclipticOfDate(jd).apply(state{pos: p.unit()})
	return atan2d(dual{s.pos.Y, s.vel.Y}, dual{s.pos.X, s.vel.X})
}

// siderealZero returns the reference epoch of the mode and the ayanamsa
// there in degrees. Anchored modes use J2000 without nutation.
func siderealZero(cfg SiderealConfig) (t0, ayanT0 float64, err error) {
	def, err := definition(cfg)
	if err != nil {
		return 0, 0, err
	}
	if def.kind == byPrecession {
		return def.t0, def.ayanT0, nil
	}
	return j2000, def.at(j2000).v * rad2deg, nil
}

// Orientation of the solar system invariable plane on the ecliptic and
// equinox of J2000.
const (
	invariableNode        = 107.582222 * deg2rad
	invariableInclination = 1.578701 * deg2rad
)

func invariablePlane() rotation {
	return frameBias().
		then(equatorialToEcliptic(constant(eps2000 * as2rad))).
		then(rot3(constant(invariableNode))).
		then(rot1(constant(invariableInclination)))
}

// siderealProjection maps an ICRS state onto the ecliptic of the mode's
// reference epoch or onto the invariable plane, with longitudes counted
// from the sidereal zero point.
func (e *Engine) siderealProjection(icrs state) (state, error) {
	t0, ayanT0, err := siderealZero(e.cfg.Sidereal)
	if err != nil {
		return state{}, err
	}
	eclT0 := meanEclipticOfDate(t0).frozen()
	a0 := ayanT0 * deg2rad
	if e.cfg.Sidereal.Bits == SidBitEclT0 {
		return eclT0.then(rot3(constant(a0))).apply(icrs), nil
	}
	plane := invariablePlane()
	zero := eclT0.inverse().apply(state{pos: r3.Vec{X: math.Cos(a0), Y: math.Sin(a0)}})
	z := plane.apply(zero)
	lon0 := math.Atan2(z.pos.Y, z.pos.X)
	return plane.then(rot3(constant(lon0))).apply(icrs), nil
}
