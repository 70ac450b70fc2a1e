// ./dual.go
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

// dual carries a value and its time derivative. The series evaluators use
// it so that every speed is differentiated analytically.
type dual struct {
	v, d float64
}

func constant(v float64) dual { return dual{v: v} }

func (a dual) add(b dual) dual { return dual{a.v + b.v, a.d + b.d} }
func (a dual) sub(b dual) dual { return dual{a.v - b.v, a.d - b.d} }
func (a dual) mul(b dual) dual { return dual{a.v * b.v, a.d*b.v + a.v*b.d} }
func (a dual) scale(k float64) dual { return dual{a.v * k, a.d * k} }
func (a dual) addConst(k float64) dual { return dual{a.v + k, a.d} }

func (a dual) div(b dual) dual {
	return dual{a.v / b.v, (a.d*b.v - a.v*b.d) / (b.v * b.v)}
}

func (a dual) sin() dual {
	s, c := math.Sincos(a.v)
	return dual{s, c * a.d}
}

func (a dual) cos() dual {
	s, c := math.Sincos(a.v)
	return dual{c, -s * a.d}
}

func (a dual) sqrt() dual {
	r := math.Sqrt(a.v)
	return dual{r, a.d / (2 * r)}
}

func (a dual) asin() dual {
	return dual{math.Asin(a.v), a.d / math.Sqrt(1-a.v*a.v)}
}

func atan2d(y, x dual) dual {
	return dual{math.Atan2(y.v, x.v), (x.v*y.d - y.v*x.d) / (x.v*x.v + y.v*y.v)}
}

// polyDual evaluates a polynomial in t with coefficients c and its
// derivative with respect to t, scaled by dtdx.
func polyDual(t, dtdx float64, c ...float64) dual {
	var s, ds float64
	for i := len(c) - 1; i >= 0; i-- {
		ds = ds*t + s
		s = s*t + c[i]
	}
	return dual{s, ds * dtdx}
}
