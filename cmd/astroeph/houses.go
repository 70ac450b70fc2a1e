// ./cmd/astroeph/houses.go
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

var angleNames = [...]string{"Ascendant", "MC", "ARMC", "Vertex", "equatorial Ascendant",
	"co-Ascendant (Koch)", "co-Ascendant (Munkasey)", "polar Ascendant"}

func housesCmd() *cobra.Command {
	var (
		when     timeInput
		frame    frameInput
		lat, lon float64
		hsys     string
		sidereal bool
		radians  bool
	)
	cmd := &cobra.Command{
		Use:   "houses",
		Short: "Compute house cusps and angles for a place",
		RunE: func(cmd *cobra.Command, args []string) error {
			system, err := astroeph.ParseHouseSystem(hsys)
			if err != nil {
				return err
			}
			var flags astroeph.HouseFlags
			if sidereal {
				flags |= astroeph.HouseSidereal
			}
			if radians {
				flags |= astroeph.HouseRadians
			}
			return withEngine(func(e *astroeph.Engine) error {
				if err := frame.apply(e); err != nil {
					return err
				}
				_, jdUT, err := when.resolve(cmd, e)
				if err != nil {
					return err
				}
				name, _ := astroeph.HouseSystemName(system)
				r := newReport(fmt.Sprintf("%s houses, JD %.6f UT, lat %g lon %g", name, jdUT, lat, lon), "Point", "Longitude")
				h, err := e.HousesEx(jdUT, flags, lat, lon, system)
				if err != nil {
					r.fail(name, err)
					return r.write()
				}
				format := dms
				if radians {
					format = func(v float64) string { return fmt.Sprintf("%.9f", v) }
				}
				rows := make([]table.Row, 0, len(h.Cusps)+len(h.Angles))
				for i, c := range h.Cusps {
					rows = append(rows, table.Row{fmt.Sprintf("cusp %d", i+1), format(c)})
				}
				for i, a := range h.Angles {
					rows = append(rows, table.Row{angleNames[i], format(a)})
				}
				r.add(astroeph.NewEnvelope(h.Values(), int32(flags), ""), rows...)
				return r.write()
			})
		},
	}
	when.register(cmd)
	frame.register(cmd)
	cmd.Flags().Float64Var(&lat, "lat", 0, "geographic latitude in degrees, north positive")
	cmd.Flags().Float64Var(&lon, "lon", 0, "geographic longitude in degrees, east positive")
	cmd.Flags().StringVar(&hsys, "hsys", "P", "house system letter")
	cmd.Flags().BoolVar(&sidereal, "sidereal", false, "sidereal cusps")
	cmd.Flags().BoolVar(&radians, "radians", false, "angles in radians")
	return cmd
}
