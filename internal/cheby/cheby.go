// ./internal/cheby/cheby.go
package cheby

/*
Package cheby evaluates Chebyshev series and their time derivatives for the
file-backed ephemeris sources.

This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MaxCoefficients is the longest series an Evaluator accepts. JPL kernels use
// at most 18 terms per component; packed files may use more.
const MaxCoefficients = 32

var (
	// ErrTooManyCoefficients is returned when a series is longer than MaxCoefficients.
	ErrTooManyCoefficients = errors.New("cheby: too many coefficients")
	// ErrOutsideInterval is returned when the normalized time leaves [-1, 1].
	ErrOutsideInterval = errors.New("cheby: normalized time outside [-1, 1]")
)

// Evaluator holds T_n(tc) and T'_n(tc) for the last normalized time so that
// consecutive components of the same record reuse the recurrences.
type Evaluator struct {
	posn   [MaxCoefficients]float64 // T_n(tc)
	vel    [MaxCoefficients]float64 // T'_n(tc)
	nPosn  int                      // terms of posn already valid
	nVel   int                      // terms of vel already valid
	twot   float64                  // 2*tc
	primed bool
}

// NewEvaluator returns an Evaluator with no cached polynomials.
func NewEvaluator() *Evaluator {
	e := &Evaluator{}
	e.Reset()
	return e
}

// Reset drops the cached polynomial values.
func (e *Evaluator) Reset() {
	e.posn[0] = 1
	e.vel[0] = 0
	e.vel[1] = 1
	e.nPosn = 0
	e.nVel = 0
	e.primed = false
}

func (e *Evaluator) prepare(tc float64, ncf int, withVel bool) error {
	if ncf > MaxCoefficients {
		return ErrTooManyCoefficients
	}
	if tc < -1 || tc > 1 || math.IsNaN(tc) {
		return ErrOutsideInterval
	}
	if !e.primed || tc != e.posn[1] {
		e.primed = true
		e.posn[1] = tc
		e.twot = tc + tc
		e.nPosn = 2
		e.nVel = 2
	}
	if e.nPosn < ncf {
		for i := e.nPosn; i < ncf; i++ {
			e.posn[i] = e.twot*e.posn[i-1] - e.posn[i-2] // T_{n+1} = 2tc*T_n - T_{n-1}
		}
		e.nPosn = ncf
	}
	if withVel && e.nVel < ncf {
		for i := e.nVel; i < ncf; i++ {
			e.vel[i] = e.twot*e.vel[i-1] + 2*e.posn[i-1] - e.vel[i-2] // T'_{n+1} = 2tc*T'_n + 2T_n - T'_{n-1}
		}
		e.nVel = ncf
	}
	return nil
}

// Eval returns the series value at tc and, when withVel is set, its
// derivative with respect to tc.
func (e *Evaluator) Eval(coef []float64, tc float64, withVel bool) (value, deriv float64, err error) {
	ncf := len(coef)
	if ncf == 0 {
		return 0, 0, nil
	}
	if err := e.prepare(tc, ncf, withVel); err != nil {
		return 0, 0, err
	}
	value = floats.Dot(coef, e.posn[:ncf])
	if withVel && ncf > 1 {
		deriv = floats.Dot(coef[1:], e.vel[1:ncf])
	}
	return value, deriv, nil
}

// Interpolate evaluates a record laid out the JPL way: na sub-intervals,
// each holding ncm components of ncf coefficients. frac is the position of
// the epoch inside the record in [0, 1] and span the record length in days.
// Positions go to dst[0:ncm]; velocities, per day, to dst[ncm:2*ncm].
func (e *Evaluator) Interpolate(coef []float64, frac, span float64, ncf, ncm, na int, withVel bool, dst []float64) error {
	dna := float64(na)
	whole, fracPart := math.Modf(dna * frac)
	l := int(whole)      // sub-interval index
	tc := 2*fracPart - 1 // normalized time inside the sub-interval
	if l == na {
		l--
		tc = 1
	}
	if l < 0 || l >= na {
		return ErrOutsideInterval
	}
	vfac := (dna + dna) / span
	for i := 0; i < ncm; i++ {
		off := ncf * (i + l*ncm)
		if off+ncf > len(coef) {
			return ErrTooManyCoefficients
		}
		v, d, err := e.Eval(coef[off:off+ncf], tc, withVel)
		if err != nil {
			return err
		}
		dst[i] = v
		if withVel {
			dst[ncm+i] = d * vfac
		}
	}
	return nil
}

// Fit returns the n-term Chebyshev series interpolating f at the Chebyshev
// nodes of [-1, 1]. The series reproduces polynomials of degree < n exactly.
func Fit(f func(x float64) float64, n int) []float64 {
	fx := make([]float64, n)
	for k := 0; k < n; k++ {
		fx[k] = f(math.Cos(math.Pi * (float64(k) + 0.5) / float64(n)))
	}
	coef := make([]float64, n)
	basis := make([]float64, n)
	for j := 0; j < n; j++ {
		for k := 0; k < n; k++ {
			basis[k] = math.Cos(math.Pi * float64(j) * (float64(k) + 0.5) / float64(n))
		}
		coef[j] = floats.Dot(fx, basis)
	}
	floats.Scale(2/float64(n), coef)
	coef[0] /= 2
	return coef
}
