// ./cmd/astroeph/date.go
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

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mshafiee/astroeph"
)

var weekdays = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func dateCmd() *cobra.Command {
	var (
		julian bool
		fromJD float64
		ut     bool
	)
	cmd := &cobra.Command{
		Use:   "date [YYYY-MM-DD[THH:MM[:SS]]]",
		Short: "Convert between UTC dates and Julian Days",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cal := astroeph.Gregorian
			if julian {
				cal = astroeph.Julian
			}
			return withEngine(func(e *astroeph.Engine) error {
				r := newReport("", "Quantity", "Value")
				if cmd.Flags().Changed("jd") {
					var u astroeph.UTCDate
					if ut {
						u = e.JDUTToUTC(fromJD, cal)
					} else {
						u = e.JDETToUTC(fromJD, cal)
					}
					r.add(astroeph.NewEnvelope([]float64{float64(u.Year), float64(u.Month), float64(u.Day),
						float64(u.Hour), float64(u.Minute), u.Second}, 0, ""),
						table.Row{"UTC (" + cal.String() + ")", u})
					return r.write()
				}
				if len(args) == 0 {
					return fmt.Errorf("%w: give a date or --jd", astroeph.ErrUsage)
				}
				u, err := parseDate(args[0])
				if err != nil {
					return err
				}
				jdET, jdUT, err := e.UTCToJD(u.Year, u.Month, u.Day, u.Hour, u.Minute, u.Second, cal)
				if err != nil {
					r.fail(args[0], err)
					return r.write()
				}
				r.add(astroeph.NewEnvelope([]float64{jdET, jdUT}, 0, ""),
					table.Row{"JD TT", fmt.Sprintf("%.8f", jdET)},
					table.Row{"JD UT1", fmt.Sprintf("%.8f", jdUT)},
					table.Row{"delta-T (s)", fmt.Sprintf("%.3f", (jdET-jdUT)*86400)},
					table.Row{"weekday", weekdays[astroeph.DayOfWeek(jdUT)]})
				return r.write()
			})
		},
	}
	cmd.Flags().BoolVar(&julian, "julian", false, "Julian calendar")
	cmd.Flags().Float64Var(&fromJD, "jd", 0, "convert this Julian Day (TT unless --ut) to a date")
	cmd.Flags().BoolVar(&ut, "ut", false, "--jd is UT1")
	return cmd
}
