package astroeph

import (
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mshafiee/astroeph/internal/packfile"
)

const (
	fixtureStart = 2458800.5
	fixtureEnd   = 2459000.5
	// fixtureJD is 2020-01-25 15:35 UTC in TT.
	fixtureJD = 2458874.149
)

var fixturePlanets = []int32{
	packfile.Sun, packfile.Mercury, packfile.Venus, packfile.EMB, packfile.Mars,
	packfile.Jupiter, packfile.Saturn, packfile.Uranus, packfile.Neptune, packfile.Pluto,
}

// writeFixture writes packed planetary and lunar files fitted to the
// analytic series for late 2019 to mid 2020 and returns their directory.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	src := analyticSource{}

	var planets []packfile.Series
	for _, id := range fixturePlanets {
		id := id
		planets = append(planets, packfile.Fit(id, packfile.SSB, fixtureStart, fixtureEnd, 20, 16,
			func(jd float64) [3]float64 {
				s, err := src.barycentric(jd, id)
				require.NoError(t, err)
				pos, _ := s.array()
				return pos
			}))
	}
	opt := packfile.WriteOptions{DENumber: 431}
	require.NoError(t, packfile.WriteFile(filepath.Join(dir, "sepl_18.se1"), fixtureStart, fixtureEnd, planets, opt))

	moon := packfile.Fit(packfile.Moon, packfile.Earth, fixtureStart, fixtureEnd, 4, 16, func(jd float64) [3]float64 {
		pos, _ := moonGeocentric(jd).array()
		return pos
	})
	require.NoError(t, packfile.WriteFile(filepath.Join(dir, "semo_18.se1"), fixtureStart, fixtureEnd, []packfile.Series{moon}, opt))
	return dir
}

func newTestEngine(t *testing.T, ephePath string) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.EphePath = ephePath
	e, err := New(WithConfig(cfg), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 0
	_, err := New(WithConfig(cfg))
	assert.ErrorIs(t, err, ErrUsage)
}

func TestSessionsAreIsolated(t *testing.T) {
	a := newTestEngine(t, t.TempDir())
	b := newTestEngine(t, t.TempDir())
	assert.NotEqual(t, a.Session(), b.Session())

	require.NoError(t, a.SetTopo(10, 50, 100))
	_, ok := b.Topo()
	assert.False(t, ok)

	a.SetDeltaT(0.001)
	assert.Equal(t, 0.001, a.DeltaT(j2000))
	assert.NotEqual(t, 0.001, b.DeltaT(j2000))
}

func TestReset(t *testing.T) {
	dir := writeFixture(t)
	e := newTestEngine(t, dir)

	_, err := e.Calc(fixtureJD, Sun, FlagSwiEph)
	require.NoError(t, err)
	_, ok := e.LastFileData()
	require.True(t, ok)

	require.NoError(t, e.SetSiderealMode(SidmLahiri, 0, 0))
	require.NoError(t, e.SetTopo(0, 0, 0))
	e.SetDeltaT(1)
	e.SetEphePath(t.TempDir())

	e.Reset()
	cfg := e.Config()
	assert.Equal(t, dir, cfg.EphePath)
	assert.Equal(t, SidmFaganBradley, cfg.Sidereal.Mode)
	assert.Nil(t, cfg.Observer)
	assert.Equal(t, DeltaTAutomatic, cfg.DeltaT)
	_, ok = e.LastFileData()
	assert.False(t, ok)

	pos, err := e.Calc(fixtureJD, Sun, FlagSwiEph)
	require.NoError(t, err)
	assert.Equal(t, SourcePacked, pos.Source.Actual)
}

func TestSetterValidation(t *testing.T) {
	e := newTestEngine(t, t.TempDir())
	assert.ErrorIs(t, e.SetSiderealMode(SiderealMode(200), 0, 0), ErrUnknownSiderealMode)
	assert.ErrorIs(t, e.SetSiderealBits(SidBitEclT0|SidBitSSYPlane), ErrConflictingFlags)
	assert.ErrorIs(t, e.SetTopo(0, 95, 0), ErrUsage)
	assert.ErrorIs(t, e.SetTopo(200, 0, 0), ErrUsage)

	require.NoError(t, e.SetTopo(13.4, 52.5, 34))
	o, ok := e.Topo()
	require.True(t, ok)
	assert.Equal(t, Observer{Lon: 13.4, Lat: 52.5, Elev: 34}, o)
	e.ClearTopo()
	_, ok = e.Topo()
	assert.False(t, ok)
}

func TestConcurrentCalls(t *testing.T) {
	e := newTestEngine(t, writeFixture(t))
	want, err := e.Calc(fixtureJD, Mars, FlagSpeed)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Calc(fixtureJD, Mars, FlagSpeed)
			if err == nil && got.Values != want.Values {
				err = errors.New("result differs between goroutines")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestUTCToJDScenario(t *testing.T) {
	e := newTestEngine(t, writeFixture(t))
	jdET, jdUT, err := e.UTCToJD(2020, 1, 25, 15, 35, 0, Gregorian)
	require.NoError(t, err)
	assert.InDelta(t, 2458874.1493, jdET, 1e-3)
	assert.InDelta(t, 2458874.1493, jdUT, 1e-3)
	assert.InDelta(t, 69.184/secondsPerDay, jdET-JulDay(2020, 1, 25, 15+35.0/60, Gregorian), 1e-9)

	pos, err := e.Calc(jdET, Sun, FlagSwiEph|FlagSpeed)
	require.NoError(t, err)
	assert.Equal(t, FlagSwiEph|FlagSpeed, pos.Flags)
	assert.False(t, pos.Source.Fallback())
	assert.InDelta(t, 305.3, pos.Values[0], 1.5)
	assert.InDelta(t, 1.015, pos.Values[3], 0.02)
	assert.InDelta(t, 0.9846, pos.Values[2], 0.002)

	back := e.JDETToUTC(jdET, Gregorian)
	assert.Equal(t, 2020, back.Year)
	assert.Equal(t, 25, back.Day)
	assert.InDelta(t, 56100, secondOfDay(back), 1e-3)

	ut := e.JDUTToUTC(jdUT, Gregorian)
	assert.InDelta(t, 56100, secondOfDay(ut), 1e-3)
}

func secondOfDay(u UTCDate) float64 {
	return float64(u.Hour*3600+u.Minute*60) + u.Second
}

func TestAyanamsa(t *testing.T) {
	e := newTestEngine(t, writeFixture(t))
	require.NoError(t, e.SetSiderealMode(SidmLahiri, 0, 0))

	mean, flags, err := e.Ayanamsa(fixtureJD, 0, false)
	require.NoError(t, err)
	assert.Equal(t, FlagSwiEph, flags)
	assert.InDelta(t, 24.13, mean, 0.05)

	withNut, _, err := e.Ayanamsa(fixtureJD, FlagSwiEph, true)
	require.NoError(t, err)
	nut := seriesNutation(fixtureJD)
	assert.InDelta(t, mean+nut.dpsi.v*rad2deg, withNut, 1e-12)

	_, flags, err = e.Ayanamsa(fixtureJD, FlagJPLEph, true)
	require.NoError(t, err)
	assert.Equal(t, FlagSwiEph, flags)

	env := e.AyanamsaEnvelope(fixtureJD, FlagJPLEph, true)
	require.True(t, env.OK(), env.Diagnostic)
	assert.Equal(t, int32(FlagSwiEph), env.Status)
	assert.Contains(t, env.Diagnostic, "jpl source unavailable, using packed")

	env = e.AyanamsaEnvelope(fixtureJD, 0, true)
	require.True(t, env.OK(), env.Diagnostic)
	assert.Empty(t, env.Diagnostic)

	ut, _, err := e.AyanamsaUT(fixtureJD, 0, false)
	require.NoError(t, err)
	assert.Less(t, math.Abs(ut-mean), 1e-6)
}

func TestHousesEx(t *testing.T) {
	e := newTestEngine(t, t.TempDir())
	jdUT := fixtureJD - e.DeltaT(fixtureJD)
	trop, err := e.Houses(jdUT, 37, 0, Placidus)
	require.NoError(t, err)

	ayan, _, err := e.Ayanamsa(jdUT+e.DeltaT(jdUT), 0, true)
	require.NoError(t, err)
	sid, err := e.HousesEx(jdUT, HouseSidereal, 37, 0, Placidus)
	require.NoError(t, err)
	for k := range trop.Cusps {
		assert.InDelta(t, 0, diffDeg(trop.Cusps[k]-ayan, sid.Cusps[k]), 1e-9, "cusp %d", k+1)
	}
	assert.Equal(t, trop.Angles[AngleARMC], sid.Angles[AngleARMC])

	rad, err := e.HousesEx(jdUT, HouseRadians, 37, 0, Placidus)
	require.NoError(t, err)
	assert.InDelta(t, trop.Cusps[0]*deg2rad, rad.Cusps[0], 1e-12)

	_, err = e.HousesEx(jdUT, HouseFlags(FlagSpeed), 37, 0, Placidus)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestEnvelopes(t *testing.T) {
	e := newTestEngine(t, writeFixture(t))

	env := e.CalcEnvelope(fixtureJD, Sun, FlagSwiEph|FlagSpeed)
	require.True(t, env.OK(), env.Diagnostic)
	assert.Equal(t, int32(FlagSwiEph|FlagSpeed), env.Status)
	assert.Len(t, env.Values, 6)

	env = e.CalcEnvelope(fixtureJD, Sun, FlagSwiEph|FlagMosEph)
	assert.False(t, env.OK())
	assert.Contains(t, env.Diagnostic, "conflicting flags")
	assert.Empty(t, env.Values)

	env = e.CalcEnvelope(3000000, Sun, FlagJPLEph)
	assert.False(t, env.OK())

	env = e.HousesEnvelope(fixtureJD, 0, 37, 0, Placidus)
	require.True(t, env.OK())
	assert.Len(t, env.Values, 20)

	env = e.ElementsEnvelope(fixtureJD, Mars, 0)
	require.True(t, env.OK(), env.Diagnostic)
	assert.Equal(t, int32(ElemSwiEph), env.Status)
	assert.Len(t, env.Values, 17)

	env = e.AyanamsaEnvelope(fixtureJD, 0, false)
	require.True(t, env.OK())
	assert.Len(t, env.Values, 1)

	env = e.UTCEnvelope(2020, 2, 30, 0, 0, 0, Gregorian)
	assert.False(t, env.OK())
	assert.Contains(t, env.Diagnostic, "invalid date")
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version())
}
