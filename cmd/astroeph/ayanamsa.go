// ./cmd/astroeph/ayanamsa.go
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

func ayanamsaCmd() *cobra.Command {
	var (
		when   timeInput
		frame  frameInput
		source string
		nut    bool
		list   bool
	)
	cmd := &cobra.Command{
		Use:   "ayanamsa",
		Short: "Compute the ayanamsa of the configured sidereal mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return listModes()
			}
			flags, err := sourceFlag(source)
			if err != nil {
				return err
			}
			return withEngine(func(e *astroeph.Engine) error {
				if err := frame.apply(e); err != nil {
					return err
				}
				jdET, _, err := when.resolve(cmd, e)
				if err != nil {
					return err
				}
				mode := e.SiderealMode().Mode
				r := newReport(fmt.Sprintf("JD %.6f TT", jdET), "Mode", "Ayanamsa", "Degrees", "Source")
				a, actual, err := e.Ayanamsa(jdET, flags, nut)
				if err != nil {
					r.fail(mode.String(), err)
					return r.write()
				}
				r.add(astroeph.NewEnvelope([]float64{a}, int32(actual), ""),
					table.Row{mode, dms(a), fmt.Sprintf("%.9f", a), actual & (astroeph.FlagJPLEph | astroeph.FlagSwiEph | astroeph.FlagMosEph)})
				return r.write()
			})
		},
	}
	when.register(cmd)
	frame.register(cmd)
	cmd.Flags().StringVar(&source, "source", "", "ephemeris source for nutation: jpl, packed or analytic")
	cmd.Flags().BoolVar(&nut, "nut", false, "include nutation in longitude")
	cmd.Flags().BoolVar(&list, "list", false, "list the sidereal modes")
	return cmd
}

func listModes() error {
	r := newReport("Sidereal modes", "Number", "Name")
	for _, m := range siderealModes() {
		r.add(astroeph.NewEnvelope([]float64{float64(m)}, 0, m.String()), table.Row{int(m), m})
	}
	return r.write()
}
