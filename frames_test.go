package astroeph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertMatInDelta(t *testing.T, want, got *r3.Mat, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), delta, "element (%d,%d)", i, j)
		}
	}
}

func TestDualDerivatives(t *testing.T) {
	const h = 1e-6
	x := 0.7
	tests := []struct {
		name string
		f    func(dual) dual
		g    func(float64) float64
	}{
		{"sin", func(a dual) dual { return a.sin() }, math.Sin},
		{"cos", func(a dual) dual { return a.cos() }, math.Cos},
		{"sqrt", func(a dual) dual { return a.sqrt() }, math.Sqrt},
		{"asin", func(a dual) dual { return a.asin() }, math.Asin},
		{"mul div", func(a dual) dual { return a.mul(a).div(a.addConst(1)) }, func(v float64) float64 { return v * v / (v + 1) }},
		{"atan2", func(a dual) dual { return atan2d(a.sin(), a.mul(a)) }, func(v float64) float64 { return math.Atan2(math.Sin(v), v*v) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.f(dual{x, 1})
			assert.InDelta(t, tt.g(x), got.v, 1e-15)
			assert.InDelta(t, (tt.g(x+h)-tt.g(x-h))/(2*h), got.d, 1e-8)
		})
	}
}

func TestRotationRates(t *testing.T) {
	const h = 1e-3
	jd := 2458874.149
	tests := []struct {
		name string
		rot  func(float64) rotation
	}{
		{"precession", precession},
		{"obliquity", func(jd float64) rotation { return equatorialToEcliptic(meanObliquity(jd)) }},
		{"composite", func(jd float64) rotation {
			dt := jd - 2458874
			return rot3(dual{0.2 + 0.01*dt, 0.01}).then(rot2(dual{0.1 - 0.02*dt, -0.02})).inverse()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.rot(jd)
			plus, minus := tt.rot(jd+h), tt.rot(jd-h)
			fd := r3.NewMat(nil)
			fd.Sub(plus.m, minus.m)
			fd.Scale(1/(2*h), fd)
			assertMatInDelta(t, fd, r.dm, 1e-9)
		})
	}
}

func TestRotationInverse(t *testing.T) {
	r := frameBias().then(precession(2460000.5)).then(rot1(dual{0.4, 1e-4}))
	s := state{r3.Vec{X: 1, Y: -2, Z: 0.5}, r3.Vec{X: 0.01, Y: 0.02, Z: -0.03}}
	back := r.inverse().apply(r.apply(s))
	assert.InDelta(t, s.pos.X, back.pos.X, 1e-14)
	assert.InDelta(t, s.pos.Y, back.pos.Y, 1e-14)
	assert.InDelta(t, s.pos.Z, back.pos.Z, 1e-14)
	assert.InDelta(t, s.vel.X, back.vel.X, 1e-12)
	assert.InDelta(t, s.vel.Y, back.vel.Y, 1e-12)
	assert.InDelta(t, s.vel.Z, back.vel.Z, 1e-12)
}

func TestMeanObliquityAndPrecession(t *testing.T) {
	assert.InDelta(t, 23.4392794, meanObliquity(j2000).v*rad2deg, 1e-7)
	assert.InDelta(t, -46.836769/3600/daysPerCentury, meanObliquity(j2000).d*rad2deg, 1e-15)
	assert.InDelta(t, 1.3972, generalPrecession(j2000+daysPerCentury).v*rad2deg, 1e-4)
}

func TestSeriesNutation(t *testing.T) {
	// Meeus, Astronomical Algorithms, example 22.a: 1987 April 10 0h TD.
	n := seriesNutation(2446895.5)
	assert.InDelta(t, -3.788, n.dpsi.v/as2rad, 0.01)
	assert.InDelta(t, 9.443, n.deps.v/as2rad, 0.01)

	const h = 0.5
	fd := (seriesNutation(2446895.5+h).dpsi.v - seriesNutation(2446895.5-h).dpsi.v) / (2 * h)
	assert.InDelta(t, fd, n.dpsi.d, 0.1*as2rad)
}

func TestSphericalCartesian(t *testing.T) {
	lon, lat, r := dual{5.1, 0.02}, dual{-0.3, 0.001}, dual{1.7, -0.004}
	pos, vel := spherical(cartesian(lon, lat, r))
	assert.InDelta(t, lon.v, pos[0], 1e-14)
	assert.InDelta(t, lat.v, pos[1], 1e-14)
	assert.InDelta(t, r.v, pos[2], 1e-14)
	assert.InDelta(t, lon.d, vel[0], 1e-14)
	assert.InDelta(t, lat.d, vel[1], 1e-14)
	assert.InDelta(t, r.d, vel[2], 1e-14)
}

func TestAngleReduction(t *testing.T) {
	tests := []struct{ in, norm, diffFrom10 float64 }{
		{0, 0, -10},
		{360, 0, -10},
		{-30, 330, -40},
		{725, 5, -5},
		{190, 190, 180 - 360},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.norm, normDeg(tt.in), 1e-12, "normDeg(%g)", tt.in)
		assert.InDelta(t, tt.diffFrom10, diffDeg(tt.in, 10), 1e-12, "diffDeg(%g, 10)", tt.in)
	}
}
