package astroeph

import (
	"math"
	"testing"

	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mshafiee/astroeph/internal/packfile"
)

func TestSolveKepler(t *testing.T) {
	tests := []struct{ m, e float64 }{
		{0, 0}, {0.5, 0.0167}, {3.1, 0.2}, {-2, 0.5}, {0.01, 0.95}, {6, 0.99}, {math.Pi, 0.9},
	}
	for _, tt := range tests {
		ecc, err := solveKepler(tt.m, tt.e)
		require.NoError(t, err)
		assert.InDelta(t, math.Remainder(tt.m, 2*math.Pi), ecc-tt.e*math.Sin(ecc), 1e-13, "M=%g e=%g", tt.m, tt.e)

		ref := kepler.Kepler3(tt.e, unit.Angle(tt.m))
		assert.InDelta(t, 0, math.Remainder(ecc-ref.Rad(), 2*math.Pi), 1e-9, "M=%g e=%g", tt.m, tt.e)
	}
}

func TestAnalyticEarthSunDistance(t *testing.T) {
	src := analyticSource{}
	tests := []struct {
		name string
		jd   float64
		want float64
	}{
		{"perihelion 2020", 2458853.833, 0.98324},
		{"aphelion 2020", 2459034.983, 1.01669},
		{"perihelion 2000", 2451547.2, 0.98328},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			earth, err := src.barycentric(tt.jd, packfile.Earth)
			require.NoError(t, err)
			sun, err := src.barycentric(tt.jd, packfile.Sun)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, r3.Norm(r3.Sub(earth.pos, sun.pos)), 3e-4)
		})
	}
}

func TestAnalyticVelocities(t *testing.T) {
	src := analyticSource{}
	const h = 1e-3
	jd := 2451600.3
	for _, id := range []int32{packfile.Sun, packfile.Mercury, packfile.Earth, packfile.Moon, packfile.Jupiter, packfile.Pluto} {
		s, err := src.barycentric(jd, id)
		require.NoError(t, err)
		plus, err := src.barycentric(jd+h, id)
		require.NoError(t, err)
		minus, err := src.barycentric(jd-h, id)
		require.NoError(t, err)
		fd := r3.Scale(1/(2*h), r3.Sub(plus.pos, minus.pos))
		assert.InDelta(t, 0, r3.Norm(r3.Sub(fd, s.vel)), 1e-9, "body %d", id)
	}
}

func TestAnalyticRange(t *testing.T) {
	jd := JulDay(3500, 1, 1, 0, Gregorian)
	_, err := analyticSource{}.barycentric(jd, packfile.Mars)
	assert.ErrorIs(t, err, ErrOutsideRange)
	assert.ErrorIs(t, err, ErrDataUnavailable)

	_, err = analyticSource{extrapolate: true}.barycentric(jd, packfile.Mars)
	assert.NoError(t, err)

	_, err = analyticSource{}.barycentric(j2000, 2000001)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestSunNearBarycenter(t *testing.T) {
	for jd := 2415020.0; jd < 2488070; jd += 3652.5 {
		sun, err := analyticSource{}.barycentric(jd, packfile.Sun)
		require.NoError(t, err)
		assert.Less(t, r3.Norm(sun.pos), 0.012)
	}
}

func TestMoonEcliptic(t *testing.T) {
	// Meeus, Astronomical Algorithms, example 47.a.
	jd := 2448724.5
	lon, lat, dist := moonEcliptic(jd)
	assert.InDelta(t, 133.162655, normDeg(lon.v*rad2deg), 1e-4)
	assert.InDelta(t, -3.229126, lat.v*rad2deg, 1e-4)
	assert.InDelta(t, 368409.7, dist.v*auKM, 1)

	const h = 1e-3
	l1, _, _ := moonEcliptic(jd + h)
	l0, _, _ := moonEcliptic(jd - h)
	assert.InDelta(t, (l1.v-l0.v)/(2*h), lon.d, 1e-8)
}

func TestMoonAgreesWithMeeusPackage(t *testing.T) {
	for _, jd := range []float64{2415020.5, 2448724.5, 2451545.0, 2460000.5, 2488069.5} {
		lon, lat, dist := moonEcliptic(jd)
		λ, β, Δ := moonposition.Position(jd)
		assert.InDelta(t, 0, diffDeg(lon.v*rad2deg, λ.Deg()), 1e-5, "jd %.1f", jd)
		assert.InDelta(t, β.Deg(), lat.v*rad2deg, 1e-5, "jd %.1f", jd)
		assert.InDelta(t, Δ, dist.v*auKM, 0.01, "jd %.1f", jd)
	}
}

func TestLunarPoints(t *testing.T) {
	jd := 2448724.5
	// Meeus example 47.a gives the mean node at 274.400656.
	assert.InDelta(t, 274.400656, normDeg(meanNodeLongitude(jd).v*rad2deg), 1e-5)

	node := meanNode(jd)
	assert.InDelta(t, moonSemiAxis, r3.Norm(node.pos), 1e-12)

	moon := moonGeocentric(jd)
	earth, err := analyticSource{}.barycentric(jd, packfile.Earth)
	require.NoError(t, err)
	sunB, err := analyticSource{}.barycentric(jd, packfile.Sun)
	require.NoError(t, err)
	sun := sunB.sub(earth)

	toEcl := meanEclipticToICRS(jd).inverse()
	trueNode := toEcl.apply(osculatingPoint(jd, moon, sun, TrueNode))
	lon := math.Atan2(trueNode.pos.Y, trueNode.pos.X) * rad2deg
	assert.InDelta(t, 0, diffDeg(lon, 274.4), 2, "true node oscillates around the mean node")
	assert.InDelta(t, 0, trueNode.pos.Z, 1e-12)

	apogee := osculatingPoint(jd, moon, sun, OscuApogee)
	assert.InDelta(t, 406000/auKM, r3.Norm(apogee.pos), 20000/auKM)
}

func TestUranianBodies(t *testing.T) {
	for b, el := range uranianElements {
		s, err := el.heliocentric(j2000)
		require.NoError(t, err, b.String())
		r := r3.Norm(s.pos)
		assert.InDelta(t, el.a, r, el.a*el.e+1e-9, b.String())
		v := r3.Norm(s.vel)
		assert.InDelta(t, math.Sqrt(gaussK2/el.a), v, math.Sqrt(gaussK2/el.a)*0.02, b.String())
	}
}
