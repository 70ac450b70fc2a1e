// ./timescale.go
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
	"fmt"
	"math"
	"sort"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	j2000          = 2451545.0
	j1900          = 2415020.0
	b1950          = 2433282.42345905
	daysPerCentury = 36525.0
	secondsPerDay  = 86400.0

	// ttMinusTAI is TT-TAI in seconds.
	ttMinusTAI = 32.184
	// utcEpoch is 1972-01-01 0h UTC, the first day of the leap-second table.
	utcEpoch = 2441317.5
)

// JulDay converts a calendar date and a fractional hour to a Julian Day.
// Dates before the calendar's civil introduction are proleptic. The date
// is not validated; use DateConversion for that.
func JulDay(year, month, day int, hour float64, cal Calendar) float64 {
	d := float64(day) + hour/24
	if cal == Gregorian {
		return julian.CalendarGregorianToJD(year, month, d)
	}
	return julian.CalendarJulianToJD(year, month, d)
}

// RevJul converts a Julian Day to a date in the given calendar.
func RevJul(jd float64, cal Calendar) (year, month, day int, hour float64) {
	z := math.Floor(jd + 0.5)
	f := jd + 0.5 - z
	a := z
	if cal == Gregorian {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}
	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)

	day = int(b - d - math.Floor(30.6001*e))
	if e < 14 {
		month = int(e) - 1
	} else {
		month = int(e) - 13
	}
	if month > 2 {
		year = int(c) - 4716
	} else {
		year = int(c) - 4715
	}
	return year, month, day, f * 24
}

func daysInMonth(year, month int, cal Calendar) int {
	switch month {
	case 2:
		leap := julian.LeapYearJulian(year)
		if cal == Gregorian {
			leap = julian.LeapYearGregorian(year)
		}
		if leap {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

// DateConversion validates a date and returns its Julian Day.
func DateConversion(year, month, day int, hour float64, cal Calendar) (float64, error) {
	if cal != Julian && cal != Gregorian {
		return 0, fmt.Errorf("%w: calendar %d", ErrInvalidDate, int(cal))
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if day < 1 || day > daysInMonth(year, month, cal) {
		return 0, fmt.Errorf("%w: %d-%02d-%02d (%v)", ErrInvalidDate, year, month, day, cal)
	}
	if !(hour >= 0 && hour < 24) {
		return 0, fmt.Errorf("%w: hour %g", ErrInvalidDate, hour)
	}
	return JulDay(year, month, day, hour, cal), nil
}

// DayOfWeek returns 0 for Monday through 6 for Sunday.
func DayOfWeek(jd float64) int {
	d := int(math.Mod(math.Floor(jd+0.5), 7))
	if d < 0 {
		d += 7
	}
	return d
}

// leapSeconds lists the UTC dates (yyyymmdd) on which TAI-UTC grew by one
// second. TAI-UTC was 10 s on 1972-01-01.
var leapSeconds = []int{
	19720701, 19730101, 19740101, 19750101, 19760101, 19770101, 19780101,
	19790101, 19800101, 19810701, 19820701, 19830701, 19850701, 19880101,
	19900101, 19910101, 19920701, 19930701, 19940701, 19960101, 19970701,
	19990101, 20060101, 20090101, 20120701, 20150701, 20170101,
}

const taiUTC1972 = 10

// taiMinusUTC returns TAI-UTC in seconds on the Gregorian date ymd.
func taiMinusUTC(ymd int) int {
	return taiUTC1972 + sort.SearchInts(leapSeconds, ymd+1)
}

func dateKey(year, month, day int) int { return year*10000 + month*100 + day }

// gregorianKey returns the Gregorian yyyymmdd of the civil day containing jd.
func gregorianKey(jd float64) int {
	y, m, d, _ := RevJul(jd, Gregorian)
	return dateKey(y, m, d)
}

// UTCDate is a civil date and time of day.
type UTCDate struct {
	Year, Month, Day int
	Hour, Minute     int
	Second           float64
	Calendar         Calendar
}

func (u UTCDate) String() string {
	return fmt.Sprintf("%d-%02d-%02d %02d:%02d:%09.6f", u.Year, u.Month, u.Day, u.Hour, u.Minute, u.Second)
}

// utcToJD converts a UTC date to Julian Days TT and UT1. Before 1972 the
// input is taken to be UT1 already.
func utcToJD(u UTCDate, deltaT func(jdUT float64) float64) (jdET, jdUT float64, err error) {
	jd0, err := DateConversion(u.Year, u.Month, u.Day, 0, u.Calendar)
	if err != nil {
		return 0, 0, err
	}
	if u.Hour < 0 || u.Hour > 23 || u.Minute < 0 || u.Minute > 59 || !(u.Second >= 0 && u.Second < 61) {
		return 0, 0, fmt.Errorf("%w: time %02d:%02d:%g", ErrInvalidDate, u.Hour, u.Minute, u.Second)
	}
	key := gregorianKey(jd0)
	if u.Second >= 60 {
		if u.Hour != 23 || u.Minute != 59 || taiMinusUTC(gregorianKey(jd0+1)) == taiMinusUTC(key) || jd0 < utcEpoch {
			return 0, 0, fmt.Errorf("%w: %v is not a leap second", ErrInvalidDate, u)
		}
	}
	secs := float64(u.Hour)*3600 + float64(u.Minute)*60 + u.Second
	if jd0 < utcEpoch {
		jdUT = jd0 + secs/secondsPerDay
		return jdUT + deltaT(jdUT), jdUT, nil
	}
	jdET = jd0 + (secs+float64(taiMinusUTC(key))+ttMinusTAI)/secondsPerDay
	jdUT = jdET - deltaT(jdET)
	for i := 0; i < 3; i++ {
		jdUT = jdET - deltaT(jdUT)
	}
	return jdET, jdUT, nil
}

// jdETToUTC renders a TT Julian Day as a UTC date, showing an inserted
// leap second as second 60.
func jdETToUTC(jdET float64, cal Calendar, deltaT func(jdUT float64) float64) UTCDate {
	jdUT := jdET - deltaT(jdET)
	for i := 0; i < 3; i++ {
		jdUT = jdET - deltaT(jdUT)
	}
	if jdUT < utcEpoch {
		return splitJD(jdUT, cal)
	}
	tai := jdET - ttMinusTAI/secondsPerDay
	day0 := math.Floor(tai+0.5) - 0.5
	utc := tai - float64(taiMinusUTC(gregorianKey(day0)))/secondsPerDay
	if utc < day0 {
		prev := tai - float64(taiMinusUTC(gregorianKey(day0-1)))/secondsPerDay
		if prev >= day0 {
			u := splitJD(day0-1, cal)
			u.Hour, u.Minute = 23, 59
			u.Second = 60 + (prev-day0)*secondsPerDay
			return u
		}
		utc = prev
	}
	return splitJD(utc, cal)
}

// splitJD breaks jd into date and time, rounding to the microsecond.
func splitJD(jd float64, cal Calendar) UTCDate {
	day0 := math.Floor(jd+0.5) - 0.5
	secs := math.Round((jd-day0)*secondsPerDay*1e6) / 1e6
	if secs >= secondsPerDay {
		day0++
		secs -= secondsPerDay
	}
	y, m, d, _ := RevJul(day0+0.25, cal)
	h := int(secs / 3600)
	mi := int((secs - float64(h)*3600) / 60)
	return UTCDate{
		Year: y, Month: m, Day: d,
		Hour: h, Minute: mi, Second: secs - float64(h)*3600 - float64(mi)*60,
		Calendar: cal,
	}
}
