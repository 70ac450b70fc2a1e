// ./topo.go
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

	"github.com/soniakeys/meeus/v3/sidereal"
	"gonum.org/v1/gonum/spatial/r3"
)

// WGS-84 ellipsoid.
const (
	wgs84A = 6378137.0
	wgs84F = 1 / 298.257223563

	auMetres = 149597870700.0
	// earthRotation is the Earth's rotation rate in rad/day.
	earthRotation = 7.292115e-5 * secondsPerDay
)

// geodetic returns the Earth-fixed position of o in metres.
func geodetic(o Observer) r3.Vec {
	e2 := wgs84F * (2 - wgs84F)
	sl, cl := math.Sincos(o.Lat * deg2rad)
	slon, clon := math.Sincos(o.Lon * deg2rad)
	n := wgs84A / math.Sqrt(1-e2*sl*sl)
	return r3.Vec{
		X: (n + o.Elev) * cl * clon,
		Y: (n + o.Elev) * cl * slon,
		Z: (n*(1-e2) + o.Elev) * sl,
	}
}

// observerTrueOfDate returns the geocentric state of o in AU and AU/day,
// in the true equator and equinox of date, at UT jdUT.
func observerTrueOfDate(o Observer, jdUT float64) state {
	gast := sidereal.Apparent(jdUT).Rad()
	r := r3.Scale(1/auMetres, geodetic(o))
	return rot3(dual{-gast, -earthRotation}).apply(state{pos: r})
}

// topocentricOffset returns the observer's geocentric state at TT jd in
// the frame reached by toFrame.
func (e *Engine) topocentricOffset(p provider, jd float64, toFrame rotation) (state, error) {
	nut, err := p.nutation(jd)
	if err != nil {
		return state{}, err
	}
	obs := observerTrueOfDate(*e.cfg.Observer, jd-e.deltaT(jd))
	return trueOfDate(nut, jd).inverse().then(toFrame).apply(obs), nil
}
