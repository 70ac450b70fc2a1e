// ./cmd/astroeph/elements.go
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

var elementNames = [...]string{
	"semi-major axis", "eccentricity", "inclination", "ascending node",
	"argument of perihelion", "longitude of perihelion", "mean anomaly",
	"true anomaly", "eccentric anomaly", "mean longitude", "sidereal period (y)",
	"daily motion", "tropical period (y)", "synodic period (d)",
	"perihelion passage (JD)", "perihelion distance", "aphelion distance",
}

func elementsCmd() *cobra.Command {
	var (
		when       timeInput
		source     string
		barycenter bool
		sunOnly    bool
	)
	cmd := &cobra.Command{
		Use:   "elements BODY",
		Short: "Compute osculating orbital elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := astroeph.ParseBody(args[0])
			if err != nil {
				return err
			}
			src, err := sourceFlag(source)
			if err != nil {
				return err
			}
			flags := astroeph.ElementFlags(src)
			if barycenter {
				flags |= astroeph.ElemBarycentric
			}
			if sunOnly {
				flags |= astroeph.ElemAA
			}
			return withEngine(func(e *astroeph.Engine) error {
				jdET, _, err := when.resolve(cmd, e)
				if err != nil {
					return err
				}
				r := newReport(fmt.Sprintf("%v, JD %.6f TT", body, jdET), "Element", "Value")
				el, err := e.OrbitalElements(jdET, body, flags)
				if err != nil {
					r.fail(body.String(), err)
					return r.write()
				}
				values := el.Values()
				rows := make([]table.Row, len(values))
				for i, v := range values {
					rows[i] = table.Row{elementNames[i], fmt.Sprintf("%.10g", v)}
				}
				r.add(astroeph.NewEnvelope(values, int32(el.Flags), el.Source.Reason), rows...)
				return r.write()
			})
		},
	}
	when.register(cmd)
	cmd.Flags().StringVar(&source, "source", "", "ephemeris source: jpl, packed or analytic")
	cmd.Flags().BoolVar(&barycenter, "bary", false, "orbit about the solar system barycenter")
	cmd.Flags().BoolVar(&sunOnly, "aa", false, "use the Sun's mass alone")
	return cmd
}
