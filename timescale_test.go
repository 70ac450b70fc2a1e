package astroeph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJulDayKnownDates(t *testing.T) {
	tests := []struct {
		name  string
		y, m  int
		d     int
		hour  float64
		cal   Calendar
		want  float64
	}{
		{"J2000", 2000, 1, 1, 12, Gregorian, 2451545.0},
		{"Sputnik", 1957, 10, 4, 19.44, Gregorian, 2436116.31},
		{"Julian reform eve", 1582, 10, 4, 0, Julian, 2299159.5},
		{"Gregorian reform", 1582, 10, 15, 0, Gregorian, 2299160.5},
		{"year 0", 0, 1, 1, 0, Julian, 1721057.5},
		{"JD zero", -4712, 1, 1, 12, Julian, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, JulDay(tt.y, tt.m, tt.d, tt.hour, tt.cal), 1e-6)
		})
	}
}

func TestRevJulRoundTrip(t *testing.T) {
	for _, cal := range []Calendar{Julian, Gregorian} {
		t.Run(cal.String(), func(t *testing.T) {
			for year := -4000; year <= 3000; year += 37 {
				for _, md := range [][2]int{{1, 1}, {2, 28}, {3, 1}, {7, 15}, {12, 31}} {
					hour := 17.25
					jd := JulDay(year, md[0], md[1], hour, cal)
					y, m, d, h := RevJul(jd, cal)
					require.Equal(t, [3]int{year, md[0], md[1]}, [3]int{y, m, d}, "jd %f", jd)
					require.InDelta(t, hour, h, 1e-6)
				}
			}
		})
	}
}

func TestDateConversion(t *testing.T) {
	tests := []struct {
		name    string
		y, m, d int
		hour    float64
		cal     Calendar
		ok      bool
	}{
		{"leap day gregorian", 2000, 2, 29, 0, Gregorian, true},
		{"century not leap", 1900, 2, 29, 0, Gregorian, false},
		{"century leap in julian", 1900, 2, 29, 0, Julian, true},
		{"month 13", 2020, 13, 1, 0, Gregorian, false},
		{"day 31 in april", 2020, 4, 31, 0, Gregorian, false},
		{"hour 24", 2020, 4, 1, 24, Gregorian, false},
		{"bad calendar", 2020, 4, 1, 0, Calendar(7), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jd, err := DateConversion(tt.y, tt.m, tt.d, tt.hour, tt.cal)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidDate)
				assert.ErrorIs(t, err, ErrUsage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, JulDay(tt.y, tt.m, tt.d, tt.hour, tt.cal), jd)
		})
	}
}

func TestDayOfWeek(t *testing.T) {
	// 2000-01-01 was a Saturday.
	assert.Equal(t, 5, DayOfWeek(2451544.5))
	assert.Equal(t, 6, DayOfWeek(2451545.5))
	assert.Equal(t, 0, DayOfWeek(2451546.5))
}

func TestTAIMinusUTC(t *testing.T) {
	assert.Equal(t, 10, taiMinusUTC(19720101))
	assert.Equal(t, 11, taiMinusUTC(19720701))
	assert.Equal(t, 36, taiMinusUTC(20161231))
	assert.Equal(t, 37, taiMinusUTC(20170101))
	assert.Equal(t, 37, taiMinusUTC(20250101))
}

func TestLeapSecond(t *testing.T) {
	dt := func(float64) float64 { return 69.0 / secondsPerDay }

	leap := UTCDate{Year: 2016, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 60.5, Calendar: Gregorian}
	jdET, _, err := utcToJD(leap, dt)
	require.NoError(t, err)

	next := UTCDate{Year: 2017, Month: 1, Day: 1, Calendar: Gregorian}
	jdNext, _, err := utcToJD(next, dt)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, (jdNext-jdET)*secondsPerDay, 1e-4)

	back := jdETToUTC(jdET, Gregorian, dt)
	assert.Equal(t, 2016, back.Year)
	assert.Equal(t, 59, back.Minute)
	assert.InDelta(t, 60.5, back.Second, 1e-4)

	notLeap := leap
	notLeap.Year = 2015
	_, _, err = utcToJD(notLeap, dt)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUTCBefore1972IsUT(t *testing.T) {
	dt := func(float64) float64 { return 40.0 / secondsPerDay }
	u := UTCDate{Year: 1960, Month: 6, Day: 1, Hour: 12, Calendar: Gregorian}
	jdET, jdUT, err := utcToJD(u, dt)
	require.NoError(t, err)
	assert.Equal(t, JulDay(1960, 6, 1, 12, Gregorian), jdUT)
	assert.InDelta(t, 40, (jdET-jdUT)*secondsPerDay, 1e-4)

	back := jdETToUTC(jdET, Gregorian, dt)
	assert.Equal(t, 12, back.Hour)
	assert.InDelta(t, 0, back.Second, 1e-3)
}
