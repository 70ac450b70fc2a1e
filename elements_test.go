package astroeph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestKeplerElementsRoundTrip(t *testing.T) {
	const (
		a    = 2.77
		ecc  = 0.0785
		incl = 10.59
		node = 80.3
		peri = 73.6
		m    = 200.1
	)
	mu := gaussK2
	n := math.Sqrt(mu / (a * a * a))
	eAnom, err := keplerDual(dual{m * deg2rad, n}, constant(ecc))
	require.NoError(t, err)
	s := orbitState(constant(a), constant(ecc), constant(incl*deg2rad), constant(node*deg2rad), constant(peri*deg2rad), eAnom)

	jd := 2460000.5
	el, err := keplerElements(jd, s, mu)
	require.NoError(t, err)
	assert.InDelta(t, a, el.SemiAxis, 1e-10)
	assert.InDelta(t, ecc, el.Eccentricity, 1e-12)
	assert.InDelta(t, incl, el.Inclination, 1e-9)
	assert.InDelta(t, node, el.Node, 1e-9)
	assert.InDelta(t, peri, el.ArgPerihelion, 1e-9)
	assert.InDelta(t, normDeg(node+peri), el.LonPerihelion, 1e-9)
	assert.InDelta(t, m, el.MeanAnomaly, 1e-8)
	assert.InDelta(t, normDeg(eAnom.v*rad2deg), el.EccAnomaly, 1e-8)
	assert.InDelta(t, n*rad2deg, el.DailyMotion, 1e-12)
	assert.InDelta(t, jd-m/(n*rad2deg), el.PeriPassage, 1e-6)
	assert.InDelta(t, a*(1-ecc), el.PeriDistance, 1e-10)
	assert.InDelta(t, a*(1+ecc), el.AphDistance, 1e-10)
	assert.InDelta(t, 2*math.Pi/n/tropicalYear, el.SiderealPeriod, 1e-9)
	assert.Less(t, el.TropicalPeriod, el.SiderealPeriod)
	assert.Greater(t, el.SynodicPeriod, 0.0)
}

func TestKeplerElementsRejectsOpenOrbits(t *testing.T) {
	s := state{r3.Vec{X: 1}, r3.Vec{Y: 0.05}}
	_, err := keplerElements(j2000, s, gaussK2)
	assert.ErrorIs(t, err, ErrUsage)

	_, err = keplerElements(j2000, state{}, gaussK2)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestOrbitalElements(t *testing.T) {
	e := newTestEngine(t, t.TempDir())
	tests := []struct {
		body          Body
		a, ecc, incl  float64
		synodicSign   float64
		siderealYears float64
	}{
		{Mercury, 0.3871, 0.2056, 7.00, -1, 0.2408},
		{Venus, 0.7233, 0.0068, 3.39, -1, 0.6152},
		{Mars, 1.5237, 0.0934, 1.85, 1, 1.8809},
		{Jupiter, 5.2026, 0.0485, 1.30, 1, 11.862},
		{Earth, 1.0000, 0.0167, 0.00, 0, 1.0000},
	}
	for _, tt := range tests {
		t.Run(tt.body.String(), func(t *testing.T) {
			el, err := e.OrbitalElements(fixtureJD, tt.body, ElemMosEph)
			require.NoError(t, err)
			assert.InDelta(t, tt.a, el.SemiAxis, 0.01*tt.a)
			assert.InDelta(t, tt.ecc, el.Eccentricity, 0.005)
			assert.InDelta(t, tt.incl, el.Inclination, 0.05)
			assert.InDelta(t, tt.siderealYears, el.SiderealPeriod, 0.02*tt.siderealYears)
			switch tt.synodicSign {
			case 0:
				assert.Zero(t, el.SynodicPeriod)
			default:
				assert.Equal(t, tt.synodicSign, math.Copysign(1, el.SynodicPeriod))
			}
			assert.Equal(t, ElemMosEph, el.Flags)
			assert.Equal(t, SourceAnalytic, el.Source.Actual)
		})
	}
}

func TestMoonElements(t *testing.T) {
	e := newTestEngine(t, writeFixture(t))
	el, err := e.OrbitalElements(fixtureJD, Moon, 0)
	require.NoError(t, err)
	assert.InDelta(t, 384400/auKM, el.SemiAxis, 8000/auKM)
	assert.InDelta(t, 0.055, el.Eccentricity, 0.035)
	assert.InDelta(t, 5.15, el.Inclination, 0.4)
	assert.Less(t, el.SynodicPeriod, 0.0)
	assert.InDelta(t, 27.3/tropicalYear, el.SiderealPeriod, 1.5/tropicalYear)
	assert.Equal(t, ElemSwiEph, el.Flags)
}

func TestOrbitalElementsFlags(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	helio, err := e.OrbitalElements(fixtureJD, Mars, ElemMosEph)
	require.NoError(t, err)
	aa, err := e.OrbitalElements(fixtureJD, Mars, ElemMosEph|ElemAA)
	require.NoError(t, err)
	assert.NotEqual(t, helio.SemiAxis, aa.SemiAxis)
	assert.InDelta(t, helio.SemiAxis, aa.SemiAxis, 1e-6)
	assert.Equal(t, ElemMosEph|ElemAA, aa.Flags)

	bary, err := e.OrbitalElements(fixtureJD, Jupiter, ElemMosEph|ElemBarycentric)
	require.NoError(t, err)
	assert.InDelta(t, 5.2, bary.SemiAxis, 0.1)

	fallback, err := e.OrbitalElements(fixtureJD, Mars, ElemSwiEph)
	require.NoError(t, err)
	assert.Equal(t, ElemMosEph, fallback.Flags)
	assert.NotEmpty(t, fallback.Source.Reason)

	for _, b := range []Body{Sun, MeanNode, EclNut, Body(99)} {
		_, err := e.OrbitalElements(fixtureJD, b, 0)
		assert.ErrorIs(t, err, ErrInvalidBody, b.String())
	}
	_, err = e.OrbitalElements(fixtureJD, Mars, ElementFlags(FlagSpeed))
	assert.ErrorIs(t, err, ErrUsage)
}
