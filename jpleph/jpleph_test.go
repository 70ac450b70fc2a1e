package jpleph

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mshafiee/astroeph/internal/testkernel"
)

const (
	testStart = 2451536.5
	testEnd   = 2451664.5
	testAU    = 149597870.7
	testEMRAT = 81.30056907
	moonKM    = 384400.0
)

func testState(item int, jd float64) []float64 {
	dt := jd - testStart
	switch item {
	case testkernel.RowMoon:
		return []float64{moonKM, 0, 0}
	case testkernel.RowSun:
		return []float64{0.001 * testAU, 0, 0}
	case testkernel.RowNut:
		return []float64{1e-5 + 1e-9*dt, 2e-5}
	default:
		return []float64{float64(item+1)*testAU + 1000*dt, 0, 500}
	}
}

func writeKernel(t *testing.T, mutate func(*testkernel.Spec)) string {
	t.Helper()
	spec := testkernel.Spec{
		Title:     "JPL Planetary Ephemeris DE431/LE431",
		Start:     testStart,
		End:       testEnd,
		Step:      32,
		AU:        testAU,
		EMRAT:     testEMRAT,
		DENumber:  431,
		NCoeff:    13,
		Nutations: true,
		Constants: []testkernel.Constant{{Name: "DENUM", Value: 431}, {Name: "AU", Value: testAU}, {Name: "EMRAT", Value: testEMRAT}},
		State:     testState,
	}
	if mutate != nil {
		mutate(&spec)
	}
	path := filepath.Join(t.TempDir(), "de431.eph")
	require.NoError(t, testkernel.Write(path, spec))
	return path
}

func TestOpenHeader(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			path := writeKernel(t, func(s *testkernel.Spec) { s.Order = order })
			f, err := Open(path, Options{LoadConstants: true})
			require.NoError(t, err)
			defer f.Close()

			assert.Equal(t, "DE431", f.Name())
			assert.Equal(t, 431, f.DENumber())
			assert.Equal(t, testStart, f.Start())
			assert.Equal(t, testEnd, f.End())
			assert.Equal(t, 32.0, f.Step())
			assert.Equal(t, testAU, f.AU())
			assert.Equal(t, testEMRAT, f.EMRAT())
			assert.Equal(t, path, f.Path())
			assert.True(t, f.HasNutations())
			assert.Equal(t, 3, f.NumConstants())

			name, err := f.ConstantName(2)
			require.NoError(t, err)
			assert.Equal(t, "EMRAT", name)
			v, err := f.ConstantValue(1)
			require.NoError(t, err)
			assert.Equal(t, testAU, v)
			_, err = f.ConstantName(3)
			assert.ErrorIs(t, err, ErrConstantNotFound)
		})
	}
}

func TestConstantLookup(t *testing.T) {
	f, err := Open(writeKernel(t, nil), Options{})
	require.NoError(t, err)
	defer f.Close()

	emrat, err := f.Constant("EMRAT")
	require.NoError(t, err)
	assert.Equal(t, testEMRAT, emrat)

	all, err := f.Constants()
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, testAU, all["AU"])
	assert.Equal(t, 431.0, all["DENUM"])

	_, err = f.Constant("XYZ")
	assert.ErrorIs(t, err, ErrConstantNotFound)
}

func TestPV(t *testing.T) {
	f, err := Open(writeKernel(t, nil), Options{})
	require.NoError(t, err)
	defer f.Close()

	et := testStart + 40.25
	dt := et - testStart

	pos, vel, err := f.PV(et, Mercury, SolarSystemBarycenter, true)
	require.NoError(t, err)
	assert.InDelta(t, 1+1000*dt/testAU, pos.X, 1e-12)
	assert.InDelta(t, 500/testAU, pos.Z, 1e-14)
	assert.InDelta(t, 1000/testAU, vel.DX, 1e-13)

	pos, _, err = f.PV(et, Mars, Sun, false)
	require.NoError(t, err)
	assert.InDelta(t, 4+1000*dt/testAU-0.001, pos.X, 1e-12)

	pos, _, err = f.PV(et, Earth, Moon, false)
	require.NoError(t, err)
	assert.InDelta(t, -moonKM/testAU, pos.X, 1e-15)

	moon, _, err := f.PV(et, Moon, SolarSystemBarycenter, false)
	require.NoError(t, err)
	emb := 3 + 1000*dt/testAU
	m := moonKM / testAU
	assert.InDelta(t, emb-m/(1+testEMRAT)+m, moon.X, 1e-12)

	pos, vel, err = f.PV(et, Venus, Venus, true)
	require.NoError(t, err)
	assert.Equal(t, Position{}, pos)
	assert.Equal(t, Velocity{}, vel)
}

func TestNutation(t *testing.T) {
	f, err := Open(writeKernel(t, nil), Options{})
	require.NoError(t, err)
	defer f.Close()

	// The record boundary is evaluated at the end of the previous record.
	for _, et := range []float64{testStart, testStart + 32, testStart + 77.7, testEnd} {
		dpsi, deps, dpsiDot, depsDot, err := f.Nutation(et)
		require.NoError(t, err)
		assert.InDelta(t, 1e-5+1e-9*(et-testStart), dpsi, 1e-16)
		assert.InDelta(t, 2e-5, deps, 1e-16)
		assert.InDelta(t, 1e-9, dpsiDot, 1e-16)
		assert.InDelta(t, 0, depsDot, 1e-16)
	}
}

func TestPVErrors(t *testing.T) {
	f, err := Open(writeKernel(t, nil), Options{})
	require.NoError(t, err)

	tests := []struct {
		name           string
		et             float64
		target, center Body
		want           error
	}{
		{"before start", testStart - 1, Mars, Sun, ErrOutsideRange},
		{"after end", testEnd + 1e-3, Mars, Sun, ErrOutsideRange},
		{"bad target", testStart + 1, Body(0), Sun, ErrInvalidIndex},
		{"bad center", testStart + 1, Mars, Nutations, ErrInvalidIndex},
		{"no librations", testStart + 1, Librations, 0, ErrQuantityNotInEphemeris},
		{"no TT-TDB", testStart + 1, TTmTDB, 0, ErrQuantityNotInEphemeris},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.PV(tt.et, tt.target, tt.center, true)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = f.Constant("NOPE")
	assert.ErrorIs(t, err, ErrConstantNotFound)
	v, err := f.Constant("DENUM")
	require.NoError(t, err)
	assert.Equal(t, 431.0, v)

	require.NoError(t, f.Close())
	_, _, err = f.PV(testStart+1, Mars, Sun, false)
	assert.ErrorIs(t, err, ErrFileRead)
}

func TestOpenRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*testkernel.Spec)
		want   error
	}{
		{"emrat", func(s *testkernel.Spec) { s.EMRAT = 80 }, ErrCorrupt},
		{"version", func(s *testkernel.Spec) {
			s.Title = "JPL Planetary Ephemeris DExyz"
			s.DENumber = 0
		}, ErrUnsupportedVersion},
		{"range", func(s *testkernel.Spec) { s.End = s.Start - 32 }, ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testkernel.Spec{
				Title: "JPL Planetary Ephemeris DE431/LE431", Start: testStart, End: testEnd, Step: 32,
				AU: testAU, EMRAT: testEMRAT, DENumber: 431, NCoeff: 13, State: testState,
			}
			tt.mutate(&spec)
			path := filepath.Join(t.TempDir(), "bad.eph")
			require.NoError(t, testkernel.Write(path, spec))
			_, err := Open(path, Options{})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Open(filepath.Join(t.TempDir(), "missing.eph"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTitleFallsBackToNumDE(t *testing.T) {
	path := writeKernel(t, func(s *testkernel.Spec) { s.Title = "custom kernel" })
	f, err := Open(path, Options{})
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, 431, f.DENumber())
	assert.Equal(t, "DE431", f.Name())
}

func TestParseTitle(t *testing.T) {
	pad := func(s string) []byte {
		b := make([]byte, 84)
		copy(b, s)
		for i := len(s); i < 84; i++ {
			b[i] = ' '
		}
		return b
	}
	tests := []struct {
		title   string
		version uint64
		name    string
	}{
		{"JPL Planetary Ephemeris DE405/LE405", 405, "DE405"},
		{"JPL Planetary Ephemeris DE441/LE441", 441, "DE441"},
		{"INPOP19a  version", 19, "INPOP19a"},
	}
	for _, tt := range tests {
		v, name, err := parseTitle(pad(tt.title))
		require.NoError(t, err, tt.title)
		assert.Equal(t, tt.version, v)
		assert.Equal(t, tt.name, name)
	}
	_, _, err := parseTitle([]byte("short"))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}
