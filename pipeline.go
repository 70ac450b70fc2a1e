// ./pipeline.go
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
	"errors"
	"fmt"
	"math"
	"math/bits"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mshafiee/astroeph/internal/packfile"
)

const (
	// cLight is the speed of light in AU/day.
	cLight = 173.1446326846693

	lightTimeTolerance = 1e-12 // days
	lightTimeMaxIter   = 20

	// schwarzschild is 2GM☉/c² in AU.
	schwarzschild = 1.974125e-8

	// speed3Step is the half width of the SPEED3 central difference in days.
	speed3Step = 1e-4
)

// Position is the result of Calc.
type Position struct {
	// Values holds longitude, latitude, distance and their speeds, or
	// x, y, z and their speeds with FlagXYZ. For EclNut it holds true
	// obliquity, mean obliquity, nutation in longitude and in obliquity.
	Values [6]float64
	// Flags are the flags actually honoured.
	Flags  CalcFlags
	Source SourceResolution
}

// checkFlags rejects inconsistent requests before any file is touched and
// returns the flags that will be honoured.
func (e *Engine) checkFlags(body Body, flags CalcFlags) (CalcFlags, error) {
	if rest := flags &^ knownFlags; rest != 0 {
		return 0, fmt.Errorf("%w: unknown flag bits 0x%x", ErrUsage, uint32(rest))
	}
	if _, _, err := sourceOf(flags); err != nil {
		return 0, err
	}
	if !body.valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBody, int(body))
	}
	if flags&FlagSpeed != 0 && flags&FlagSpeed3 != 0 {
		return 0, fmt.Errorf("%w: SPEED and SPEED3", ErrConflictingFlags)
	}
	if flags&FlagEquatorial != 0 {
		flags &^= FlagSidereal
	}
	if body == EclNut {
		return flags, nil
	}
	if bits.OnesCount32(uint32(flags&centerMask)) > 1 {
		return 0, fmt.Errorf("%w: %v", ErrConflictingFlags, flags&centerMask)
	}
	if body.isLunarPoint() {
		if flags&(FlagHelctr|FlagBaryctr) != 0 {
			return 0, fmt.Errorf("%w: %v has no heliocentric or barycentric position", ErrConflictingFlags, body)
		}
		flags &^= FlagTopoctr
	}
	if flags&FlagTopoctr != 0 && e.cfg.Observer == nil {
		return 0, ErrNoObserver
	}
	return flags, nil
}

// calc runs the pipeline on the requested source and, when its data is
// unavailable, once more on the substitute source.
func (e *Engine) calc(jd float64, body Body, flags CalcFlags) (Position, error) {
	flags, err := e.checkFlags(body, flags)
	if err != nil {
		return Position{}, err
	}
	requested, explicit, _ := sourceOf(flags)
	res := SourceResolution{Requested: requested, Actual: requested}
	values, err := e.compute(e.provider(requested), jd, body, flags)
	if errors.Is(err, ErrDataUnavailable) {
		next, ok := requested.fallback()
		if ok && !(body.isAsteroid() && next == SourceAnalytic) {
			res.Reason = e.logFallback(requested, next, explicit, err)
			res.Actual = next
			values, err = e.compute(e.provider(next), jd, body, flags)
		}
	}
	if err != nil {
		return Position{}, err
	}
	return Position{
		Values: values,
		Flags:  flags&^sourceMask | res.Actual.Flag(),
		Source: res,
	}, nil
}

// logFallback records a source substitution and returns the diagnostic,
// which is empty when the default source was replaced.
func (e *Engine) logFallback(requested, actual Source, explicit bool, err error) string {
	if !explicit {
		e.log.Debug("ephemeris source fallback",
			zap.Stringer("requested", requested), zap.Stringer("actual", actual), zap.Error(err))
		return ""
	}
	reason := fmt.Sprintf("%v source unavailable, using %v: %v", requested, actual, err)
	e.log.Warn("ephemeris source fallback", zap.String("reason", reason))
	return reason
}

func (e *Engine) compute(p provider, jd float64, body Body, flags CalcFlags) ([6]float64, error) {
	if body == EclNut {
		return eclNut(p, jd, flags)
	}
	if flags&FlagSpeed3 != 0 {
		return e.speed3(p, jd, body, flags)
	}
	s, toFrame, nut, err := e.geometry(p, jd, body, flags)
	if err != nil {
		return [6]float64{}, err
	}
	return e.represent(jd, s, toFrame, nut, flags)
}

// speed3 differentiates the whole pipeline numerically.
func (e *Engine) speed3(p provider, jd float64, body Body, flags CalcFlags) ([6]float64, error) {
	flags &^= FlagSpeed3
	var out [3][6]float64
	for i, t := range []float64{jd - speed3Step, jd, jd + speed3Step} {
		s, toFrame, nut, err := e.geometry(p, t, body, flags)
		if err != nil {
			return [6]float64{}, err
		}
		if out[i], err = e.represent(t, s, toFrame, nut, flags|FlagSpeed); err != nil {
			return [6]float64{}, err
		}
	}
	values := out[1]
	for k := 0; k < 3; k++ {
		d := out[2][k] - out[0][k]
		if k == 0 && flags&FlagXYZ == 0 {
			circle := 360.0
			if flags&FlagRadians != 0 {
				circle = 2 * math.Pi
			}
			d = math.Remainder(d, circle)
		}
		values[3+k] = d / (2 * speed3Step)
	}
	return values, nil
}

// geometry returns the corrected state of body in the equatorial frame
// selected by flags, together with that frame's rotation from ICRS and
// the nutation applied, if any.
func (e *Engine) geometry(p provider, jd float64, body Body, flags CalcFlags) (state, rotation, *nutationAngles, error) {
	toFrame, nut, err := frameOf(p, jd, flags)
	if err != nil {
		return state{}, rotation{}, nil, err
	}
	if body.isLunarPoint() {
		s, err := lunarPoint(p, jd, body)
		if err != nil {
			return state{}, rotation{}, nil, err
		}
		return toFrame.apply(s), toFrame, nut, nil
	}

	var center state
	switch {
	case flags&FlagBaryctr != 0:
	case flags&FlagHelctr != 0:
		center, err = p.barycentric(jd, packfile.Sun)
	default:
		center, err = p.barycentric(jd, packfile.Earth)
	}
	if err != nil {
		return state{}, rotation{}, nil, err
	}
	target, err := e.bodyBarycentric(p, jd, body)
	if err != nil {
		return state{}, rotation{}, nil, err
	}
	rel := target.sub(center)
	if rel.pos == (r3.Vec{}) {
		return state{}, toFrame, nut, nil
	}

	if flags&FlagTruePos == 0 {
		at := func(t float64) (state, error) { return e.bodyBarycentric(p, t, body) }
		if rel, err = lightTime(at, center, jd); err != nil {
			return state{}, rotation{}, nil, err
		}
	}
	if flags&(FlagHelctr|FlagBaryctr) == 0 && flags&FlagAstrometric != FlagAstrometric {
		sun, err := p.barycentric(jd, packfile.Sun)
		if err != nil {
			return state{}, rotation{}, nil, err
		}
		if flags&FlagNoAberr == 0 {
			rel = aberration(rel, center, sun)
		}
		if flags&FlagNoGDefl == 0 && body != Sun {
			rel = deflection(rel, center, sun)
		}
	}

	out := toFrame.apply(rel)
	if flags&FlagTopoctr != 0 {
		obs, err := e.topocentricOffset(p, jd, toFrame)
		if err != nil {
			return state{}, rotation{}, nil, err
		}
		out = out.sub(obs)
	}
	return out, toFrame, nut, nil
}

// frameOf returns the rotation from ICRS to the equatorial frame selected
// by flags: bias unless ICRS, then precession and nutation of date unless
// J2000.
func frameOf(p provider, jd float64, flags CalcFlags) (rotation, *nutationAngles, error) {
	r := identity()
	if flags&FlagICRS == 0 {
		r = frameBias()
	}
	if flags&FlagJ2000 != 0 {
		return r, nil, nil
	}
	r = r.then(precession(jd))
	if flags&FlagNoNut != 0 {
		return r, nil, nil
	}
	nut, err := p.nutation(jd)
	if err != nil {
		return rotation{}, nil, err
	}
	return r.then(nutationMatrix(meanObliquity(jd), nut)), &nut, nil
}

// trueOfDate rotates ICRS into the true equator and equinox of date.
func trueOfDate(nut nutationAngles, jd float64) rotation {
	return frameBias().then(precession(jd)).then(nutationMatrix(meanObliquity(jd), nut))
}

// obliquity returns the obliquity matching the frame of flags.
func obliquity(jd float64, nut *nutationAngles, flags CalcFlags) dual {
	switch {
	case flags&FlagJ2000 != 0:
		return constant(eps2000 * as2rad)
	case nut == nil:
		return meanObliquity(jd)
	}
	return meanObliquity(jd).add(nut.deps)
}

// lunarPoint returns the geocentric ICRS state of a node or apogee. No
// light-time, aberration or deflection applies.
func lunarPoint(p provider, jd float64, b Body) (state, error) {
	switch b {
	case MeanNode:
		return meanNode(jd), nil
	case MeanApogee:
		return meanApogee(jd), nil
	}
	earth, err := p.barycentric(jd, packfile.Earth)
	if err != nil {
		return state{}, err
	}
	moon, err := p.barycentric(jd, packfile.Moon)
	if err != nil {
		return state{}, err
	}
	sun, err := p.barycentric(jd, packfile.Sun)
	if err != nil {
		return state{}, err
	}
	return osculatingPoint(jd, moon.sub(earth), sun.sub(earth), b), nil
}

// lightTime returns the position of the target at the retarded time
// relative to the observer at jd. The velocity carries the factor
// (1 - dτ/dt).
func lightTime(at func(float64) (state, error), obs state, jd float64) (state, error) {
	target, err := at(jd)
	if err != nil {
		return state{}, err
	}
	rel := r3.Sub(target.pos, obs.pos)
	tau := r3.Norm(rel) / cLight
	converged := false
	for i := 0; i < lightTimeMaxIter; i++ {
		if target, err = at(jd - tau); err != nil {
			return state{}, err
		}
		rel = r3.Sub(target.pos, obs.pos)
		next := r3.Norm(rel) / cLight
		delta := next - tau
		tau = next
		if math.Abs(delta) < lightTimeTolerance {
			converged = true
			break
		}
	}
	if !converged {
		return state{}, fmt.Errorf("%w: no convergence after %d iterations at JD %.6f",
			ErrLightTimeNonconvergence, lightTimeMaxIter, jd)
	}
	u := r3.Scale(1/r3.Norm(rel), rel)
	tauDot := r3.Dot(u, r3.Sub(target.vel, obs.vel)) / (cLight + r3.Dot(u, target.vel))
	return state{rel, r3.Sub(r3.Scale(1-tauDot, target.vel), obs.vel)}, nil
}

// aberration applies annual aberration for an observer moving with obs.
// The position uses the relativistic formula and keeps its distance; the
// velocity uses the first-order formula with the observer's
// heliocentric acceleration.
func aberration(s, obs, sun state) state {
	x, xd := s.pos, s.vel
	r := r3.Norm(x)
	vMag := r3.Norm(obs.vel)
	if r == 0 || vMag == 0 {
		return s
	}
	beta := vMag / cLight
	cosd := r3.Dot(x, obs.vel) / (r * vMag)
	gammai := math.Sqrt(1 - beta*beta)
	p := beta * cosd
	q := (1 + p/(1+gammai)) * r / cLight
	pos := r3.Scale(1/(1+p), r3.Add(r3.Scale(gammai, x), r3.Scale(q, obs.vel)))
	pos = r3.Scale(r/r3.Norm(pos), pos)

	hel := r3.Sub(obs.pos, sun.pos)
	hn := r3.Norm(hel)
	acc := r3.Scale(-gaussK2/(hn*hn*hn), hel)
	v := r3.Scale(1/cLight, obs.vel)
	vd := r3.Scale(1/cLight, acc)
	u := r3.Scale(1/r, x)
	rd := r3.Dot(u, xd)
	ud := r3.Scale(1/r, r3.Sub(xd, r3.Scale(rd, u)))
	uv := r3.Dot(u, v)
	vel := r3.Add(xd, r3.Scale(rd, v))
	vel = r3.Add(vel, r3.Scale(r, vd))
	vel = r3.Sub(vel, r3.Scale(r3.Dot(ud, v)+r3.Dot(u, vd), x))
	vel = r3.Sub(vel, r3.Scale(uv, xd))
	a := r3.Scale(1/r3.Norm(pos), pos)
	vel = r3.Add(vel, r3.Scale(rd-r3.Dot(a, vel), a))
	return state{pos, vel}
}

// deflection bends the apparent direction of the target by the Sun's
// gravity as seen by an observer at obs.
func deflection(s, obs, sun state) state {
	pmag := r3.Norm(s.pos)
	pe := r3.Sub(obs.pos, sun.pos)
	pq := r3.Add(pe, s.pos)
	emag, qmag := r3.Norm(pe), r3.Norm(pq)
	if pmag == 0 || emag == 0 || qmag == 0 {
		return s
	}
	phat := r3.Scale(1/pmag, s.pos)
	ehat := r3.Scale(1/emag, pe)
	qhat := r3.Scale(1/qmag, pq)
	pdotq := r3.Dot(phat, qhat)
	edotp := r3.Dot(ehat, phat)
	fac1 := schwarzschild / emag
	fac2 := 1 + r3.Dot(qhat, ehat)
	if fac2 < 1e-10 {
		return s
	}
	d := r3.Add(phat, r3.Scale(fac1/fac2, r3.Sub(r3.Scale(pdotq, ehat), r3.Scale(edotp, qhat))))
	d = r3.Scale(1/r3.Norm(d), d)
	rd := r3.Dot(phat, s.vel)
	return state{
		pos: r3.Scale(pmag, d),
		vel: r3.Add(s.vel, r3.Scale(rd, r3.Sub(d, phat))),
	}
}

// represent converts an equatorial state into the output representation.
func (e *Engine) represent(jd float64, s state, toFrame rotation, nut *nutationAngles, flags CalcFlags) ([6]float64, error) {
	if flags&FlagEquatorial == 0 {
		if flags&FlagSidereal != 0 && e.cfg.Sidereal.Bits != 0 {
			var err error
			if s, err = e.siderealProjection(toFrame.inverse().apply(s)); err != nil {
				return [6]float64{}, err
			}
		} else {
			s = equatorialToEcliptic(obliquity(jd, nut, flags)).apply(s)
			if flags&FlagSidereal != 0 {
				ayan, err := ayanamsaAt(e.cfg.Sidereal, jd, nut)
				if err != nil {
					return [6]float64{}, err
				}
				s = rot3(ayan).apply(s)
			}
		}
	}

	var values [6]float64
	if flags&FlagXYZ != 0 {
		pos, vel := s.array()
		copy(values[:3], pos[:])
		copy(values[3:], vel[:])
	} else {
		pos, vel := spherical(s)
		copy(values[:3], pos[:])
		copy(values[3:], vel[:])
		if flags&FlagRadians == 0 {
			for _, k := range []int{0, 1, 3, 4} {
				values[k] *= rad2deg
			}
		}
	}
	if flags&(FlagSpeed|FlagSpeed3) == 0 {
		values[3], values[4], values[5] = 0, 0, 0
	}
	return values, nil
}

// eclNut returns true and mean obliquity, nutation in longitude and in
// obliquity.
func eclNut(p provider, jd float64, flags CalcFlags) ([6]float64, error) {
	nut, err := p.nutation(jd)
	if err != nil {
		return [6]float64{}, err
	}
	eps := meanObliquity(jd)
	values := [6]float64{eps.v + nut.deps.v, eps.v, nut.dpsi.v, nut.deps.v}
	if flags&FlagRadians == 0 {
		for k := range values {
			values[k] *= rad2deg
		}
	}
	return values, nil
}
