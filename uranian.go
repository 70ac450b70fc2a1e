// ./uranian.go
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

import "math"

// fictitiousElements are heliocentric osculating elements at J1900,
// referred to the ecliptic and equinox of J1900. Angles are in degrees.
type fictitiousElements struct {
	m0, a, e, peri, node, incl float64
}

// uranianElements are the Hamburg school hypothetical planets in the
// revision of J. Neely.
var uranianElements = map[Body]fictitiousElements{
	Cupido:   {163.7409, 40.99837, 0.00460, 171.4333, 129.8325, 1.0833},
	Hades:    {27.6496, 50.66744, 0.00245, 148.1796, 161.3339, 1.0500},
	Zeus:     {165.1232, 59.21436, 0.00120, 299.0440, 0, 0},
	Kronos:   {169.0193, 64.81960, 0.00305, 208.8801, 0, 0},
	Apollon:  {138.0533, 70.29949, 0, 0, 0, 0},
	Admetos:  {351.3350, 73.62765, 0, 0, 0, 0},
	Vulcanus: {55.8983, 77.25568, 0, 0, 0, 0},
	Poseidon: {165.5163, 83.66907, 0, 0, 0, 0},
}

// gaussDaily is the Gaussian mean daily motion in degrees at 1 AU.
const gaussDaily = 0.9856076686

// j1900EclipticToICRS maps the ecliptic and equinox of J1900 into ICRS.
var j1900EclipticToICRS = rot1(constant(-meanObliquity(j1900).v)).
	then(precession(j1900).frozen().inverse()).
	then(frameBias().inverse())

// heliocentric returns the heliocentric ICRS state of a fictitious body.
func (el fictitiousElements) heliocentric(jd float64) (state, error) {
	n := gaussDaily / (el.a * math.Sqrt(el.a))
	m := dual{(el.m0 + n*(jd-j1900)) * deg2rad, n * deg2rad}
	e := constant(el.e)
	ecc, err := keplerDual(m, e)
	if err != nil {
		return state{}, err
	}
	s := orbitState(constant(el.a), e, constant(el.incl*deg2rad),
		constant(el.node*deg2rad), constant(el.peri*deg2rad), ecc)
	return j1900EclipticToICRS.apply(s), nil
}
