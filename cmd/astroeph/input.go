// ./cmd/astroeph/input.go
package main

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
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mshafiee/astroeph"
)

// timeInput selects the instant of a computation.
type timeInput struct {
	jd     float64
	date   string
	julian bool
	ut     bool
}

func (t *timeInput) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&t.jd, "jd", 0, "Julian Day, TT unless --ut")
	f.StringVar(&t.date, "date", "", "UTC date and time as YYYY-MM-DD[THH:MM[:SS]] (default now)")
	f.BoolVar(&t.julian, "julian", false, "read --date in the Julian calendar")
	f.BoolVar(&t.ut, "ut", false, "--jd is UT1")
}

func (t *timeInput) calendar() astroeph.Calendar {
	if t.julian {
		return astroeph.Julian
	}
	return astroeph.Gregorian
}

// resolve returns the instant as Julian Days TT and UT1.
func (t *timeInput) resolve(cmd *cobra.Command, e *astroeph.Engine) (jdET, jdUT float64, err error) {
	haveJD := cmd.Flags().Changed("jd")
	switch {
	case haveJD && t.date != "":
		return 0, 0, fmt.Errorf("%w: --jd and --date are exclusive", astroeph.ErrConflictingFlags)
	case haveJD && t.ut:
		return t.jd + e.DeltaT(t.jd), t.jd, nil
	case haveJD:
		return t.jd, t.jd - e.DeltaT(t.jd), nil
	case t.date == "":
		now := time.Now().UTC()
		sec := float64(now.Second()) + float64(now.Nanosecond())/1e9
		return e.UTCToJD(now.Year(), int(now.Month()), now.Day(), now.Hour(), now.Minute(), sec, astroeph.Gregorian)
	}
	u, err := parseDate(t.date)
	if err != nil {
		return 0, 0, err
	}
	return e.UTCToJD(u.Year, u.Month, u.Day, u.Hour, u.Minute, u.Second, t.calendar())
}

// parseDate reads YYYY-MM-DD[THH:MM[:SS.sss]]. The year may be negative
// (astronomical numbering) and exceed four digits.
func parseDate(s string) (astroeph.UTCDate, error) {
	var u astroeph.UTCDate
	bad := fmt.Errorf("%w: %q is not YYYY-MM-DD[THH:MM[:SS]]", astroeph.ErrInvalidDate, s)

	day, clock, _ := strings.Cut(strings.TrimSpace(s), "T")
	negative := strings.HasPrefix(day, "-")
	fields := strings.Split(strings.TrimPrefix(day, "-"), "-")
	if len(fields) != 3 {
		return u, bad
	}
	var ymd [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return u, bad
		}
		ymd[i] = n
	}
	if negative {
		ymd[0] = -ymd[0]
	}
	u.Year, u.Month, u.Day = ymd[0], ymd[1], ymd[2]
	if clock == "" {
		return u, nil
	}

	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return u, bad
	}
	var err error
	if u.Hour, err = strconv.Atoi(parts[0]); err != nil {
		return u, bad
	}
	if u.Minute, err = strconv.Atoi(parts[1]); err != nil {
		return u, bad
	}
	if len(parts) == 3 {
		if u.Second, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return u, bad
		}
	}
	return u, nil
}

// frameInput sets the observer and the sidereal zodiac of an engine.
type frameInput struct {
	topo     []float64
	sidMode  string
	sidT0    float64
	sidAyan  float64
	sidPlane string
}

func (f *frameInput) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64SliceVar(&f.topo, "topo", nil, "observer as lon,lat[,elev] in degrees and metres")
	fs.StringVar(&f.sidMode, "sid-mode", "", "ayanamsa by number or name (default from config)")
	fs.Float64Var(&f.sidT0, "sid-t0", 0, "reference epoch (JD TT) of the user ayanamsa")
	fs.Float64Var(&f.sidAyan, "sid-ayan-t0", 0, "user ayanamsa at --sid-t0 in degrees")
	fs.StringVar(&f.sidPlane, "sid-plane", "", "sidereal projection: ecl-t0 or ssy")
}

func (f *frameInput) apply(e *astroeph.Engine) error {
	switch len(f.topo) {
	case 0:
	case 2, 3:
		elev := 0.0
		if len(f.topo) == 3 {
			elev = f.topo[2]
		}
		if err := e.SetTopo(f.topo[0], f.topo[1], elev); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: --topo takes lon,lat[,elev]", astroeph.ErrUsage)
	}

	if f.sidMode != "" {
		mode, err := parseSiderealMode(f.sidMode)
		if err != nil {
			return err
		}
		if err := e.SetSiderealMode(mode, f.sidT0, f.sidAyan); err != nil {
			return err
		}
	}

	var bits astroeph.SiderealBits
	switch f.sidPlane {
	case "":
		return nil
	case "ecl-t0":
		bits = astroeph.SidBitEclT0
	case "ssy":
		bits = astroeph.SidBitSSYPlane
	default:
		return fmt.Errorf("%w: unknown sidereal projection %q", astroeph.ErrUsage, f.sidPlane)
	}
	return e.SetSiderealBits(bits)
}

// parseSiderealMode accepts a mode number, "user" or an ayanamsa name
// ignoring case and spaces.
func parseSiderealMode(s string) (astroeph.SiderealMode, error) {
	if n, err := strconv.Atoi(s); err == nil {
		mode := astroeph.SiderealMode(n)
		if _, err := astroeph.AyanamsaName(mode); err != nil {
			return 0, err
		}
		return mode, nil
	}
	key := foldName(s)
	if key == "user" {
		return astroeph.SidmUser, nil
	}
	for _, m := range siderealModes() {
		if foldName(m.String()) == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", astroeph.ErrUnknownSiderealMode, s)
}

// siderealModes lists the built-in ayanamsas in numeric order.
func siderealModes() []astroeph.SiderealMode {
	var modes []astroeph.SiderealMode
	for m := astroeph.SiderealMode(0); ; m++ {
		if _, err := astroeph.AyanamsaName(m); err != nil {
			return modes
		}
		modes = append(modes, m)
	}
}

func foldName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.', '/':
			return -1
		}
		return r
	}, strings.ToLower(s))
}
