package astroeph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allHouseSystems = []HouseSystem{
	Placidus, Koch, Porphyry, Regiomontanus, Campanus, EqualAsc, Equal, EqualMC, EqualAries,
	WholeSign, Alcabitius, Morinus, Meridian, PolichPage, Horizon, Vehlow, Carter, Sripati, Krusinski,
}

// assertIncreasing checks that the cusps advance through the zodiac and
// close the circle exactly once.
func assertIncreasing(t *testing.T, cusps [12]float64, msg string) {
	t.Helper()
	var total float64
	for k := range cusps {
		step := normDeg(cusps[(k+1)%12] - cusps[k])
		assert.Greater(t, step, 0.0, "%s: cusp %d to %d", msg, k+1, (k+1)%12+1)
		assert.Less(t, step, 180.0, "%s: cusp %d to %d", msg, k+1, (k+1)%12+1)
		total += step
	}
	assert.InDelta(t, 360, total, 1e-9, msg)
}

func TestHousesScenario(t *testing.T) {
	e := newTestEngine(t, t.TempDir())
	jdUT := fixtureJD - e.DeltaT(fixtureJD)
	h, err := e.Houses(jdUT, 37, 0, Placidus)
	require.NoError(t, err)
	assertIncreasing(t, h.Cusps, "Placidus")
	assert.Equal(t, h.Angles[AngleAsc], h.Cusps[0])
	assert.Equal(t, h.Angles[AngleMC], h.Cusps[9])
	assert.Equal(t, Placidus, h.System)
}

func TestHousesAllSystems(t *testing.T) {
	const eps = 23.4367
	for _, lat := range []float64{0, 37, -37, 52.5} {
		for _, armc := range []float64{0, 47.3, 181, 300} {
			for _, hsys := range allHouseSystems {
				h, err := HousesARMC(armc, lat, eps, hsys)
				require.NoError(t, err, "%v lat %g armc %g", hsys, lat, armc)
				for _, c := range h.Cusps {
					assert.True(t, c >= 0 && c < 360, "%v cusp %g", hsys, c)
				}
				switch hsys {
				case EqualAsc, Equal, Placidus, Koch, Porphyry, Regiomontanus, Campanus, Alcabitius, Sripati:
					assertIncreasing(t, h.Cusps, hsys.String())
				}
				switch hsys {
				case Placidus, Koch, Porphyry, Regiomontanus, Campanus, Alcabitius, PolichPage:
					assert.Equal(t, h.Angles[AngleAsc], h.Cusps[0])
					assert.Equal(t, h.Angles[AngleMC], h.Cusps[9])
				}
			}
		}
	}
}

func TestHousesAngles(t *testing.T) {
	h, err := HousesARMC(0, 0, 23.4367, Equal)
	require.NoError(t, err)
	assert.InDelta(t, 0, h.Angles[AngleMC], 1e-12)
	assert.InDelta(t, 90, h.Angles[AngleAsc], 1e-12)
	assert.InDelta(t, 0, h.Angles[AngleARMC], 1e-12)
	assert.InDelta(t, 90, h.Angles[AngleEquAsc], 1e-12)
	for k, c := range h.Cusps {
		assert.InDelta(t, normDeg(90+30*float64(k)), c, 1e-9)
	}

	h, err = HousesARMC(123.4, 45, 23.4367, Porphyry)
	require.NoError(t, err)
	upper := normDeg(h.Angles[AngleAsc] - h.Angles[AngleMC])
	assert.Greater(t, upper, 0.0)
	assert.Less(t, upper, 180.0)
	assert.InDelta(t, normDeg(h.Angles[AngleMC]+upper/3), h.Cusps[10], 1e-9)
	assert.InDelta(t, normDeg(h.Cusps[0]+180), h.Cusps[6], 1e-9)
}

func TestQuadrantSystemsAgreeAtEquator(t *testing.T) {
	const armc, eps = 77.7, 23.4367
	ref, err := HousesARMC(armc, 0, eps, Meridian)
	require.NoError(t, err)
	for _, hsys := range []HouseSystem{Placidus, Koch, Regiomontanus, Campanus, Alcabitius} {
		h, err := HousesARMC(armc, 0, eps, hsys)
		require.NoError(t, err)
		for _, k := range []int{10, 11, 1, 2} {
			assert.InDelta(t, 0, diffDeg(ref.Cusps[k], h.Cusps[k]), 1e-7, "%v cusp %d", hsys, k+1)
		}
	}
}

func TestHousesErrors(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		hsys HouseSystem
		want error
	}{
		{"unknown system", 37, HouseSystem('Z'), ErrUnknownHouseSystem},
		{"latitude beyond pole", 95, Equal, ErrUsage},
		{"NaN latitude", math.NaN(), Equal, ErrUsage},
		{"Placidus in arctic", 70, Placidus, ErrPolarLatitude},
		{"Koch in antarctic", -80, Koch, ErrPolarLatitude},
		{"Alcabitius at pole", 90, Alcabitius, ErrPolarLatitude},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HousesARMC(100, tt.lat, 23.4367, tt.hsys)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrUsage)
		})
	}

	for _, hsys := range []HouseSystem{Porphyry, Equal, WholeSign, Regiomontanus, Campanus, Morinus, Meridian} {
		h, err := HousesARMC(100, 90, 23.4367, hsys)
		require.NoError(t, err, hsys.String())
		for _, c := range h.Cusps {
			assert.False(t, math.IsNaN(c))
		}
	}
}

func TestHousePosition(t *testing.T) {
	const armc, lat, eps = 200.0, 48.85, 23.4367
	h, err := HousesARMC(armc, lat, eps, Placidus)
	require.NoError(t, err)
	for k := 0; k < 12; k++ {
		pos, err := HousePosition(armc, lat, eps, Placidus, h.Cusps[k])
		require.NoError(t, err)
		assert.InDelta(t, float64(k+1), pos, 1e-9)

		mid := h.Cusps[k] + normDeg(h.Cusps[(k+1)%12]-h.Cusps[k])/2
		pos, err = HousePosition(armc, lat, eps, Placidus, mid)
		require.NoError(t, err)
		assert.InDelta(t, float64(k+1)+0.5, pos, 1e-9)
	}

	_, err = HousePosition(armc, 75, eps, Placidus, 10)
	assert.ErrorIs(t, err, ErrPolarLatitude)
}

func TestHouseSystemName(t *testing.T) {
	name, err := HouseSystemName(Placidus)
	require.NoError(t, err)
	assert.Equal(t, "Placidus", name)
	assert.Equal(t, "P", Placidus.String())

	_, err = HouseSystemName('?')
	assert.ErrorIs(t, err, ErrUnknownHouseSystem)

	for _, hsys := range allHouseSystems {
		_, err := HouseSystemName(hsys)
		assert.NoError(t, err, hsys.String())
	}
}

func TestParseHouseSystem(t *testing.T) {
	for in, want := range map[string]HouseSystem{"P": Placidus, "k": Koch, "w": WholeSign} {
		got, err := ParseHouseSystem(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "PK", "?", "z"} {
		_, err := ParseHouseSystem(in)
		assert.ErrorIs(t, err, ErrUnknownHouseSystem, in)
	}
}
