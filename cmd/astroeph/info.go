// ./cmd/astroeph/info.go
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
	"go.uber.org/zap"

	"github.com/mshafiee/astroeph"
)

// probes open the files that serve each kind of body.
var probes = []struct {
	body  astroeph.Body
	flags astroeph.CalcFlags
}{
	{astroeph.Sun, astroeph.FlagJPLEph},
	{astroeph.Sun, astroeph.FlagSwiEph},
	{astroeph.Moon, astroeph.FlagSwiEph},
	{astroeph.Ceres, astroeph.FlagSwiEph},
}

func infoCmd() *cobra.Command {
	var when timeInput
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the configuration and the ephemeris files serving a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(e *astroeph.Engine) error {
				jdET, _, err := when.resolve(cmd, e)
				if err != nil {
					return err
				}
				cfg := e.Config()
				title := fmt.Sprintf("astroeph %s  session %s  JD %.4f TT", astroeph.Version(), e.Session(), jdET)
				r := newReport(title, "File", "Path", "Range (JD TT)", "DE")
				r.rows = append(r.rows,
					table.Row{"ephemeris path", cfg.EphePath, "", ""},
					table.Row{"sidereal mode", cfg.Sidereal.Mode, "", ""})

				for _, p := range probes {
					if _, err := e.Calc(jdET, p.body, p.flags); err != nil {
						logger.Debug("probe failed", zap.Stringer("body", p.body), zap.Stringer("flags", p.flags), zap.Error(err))
					}
				}
				kinds := []astroeph.FileKind{astroeph.FileJPL, astroeph.FilePlanets, astroeph.FileMoon,
					astroeph.FileMainAsteroids, astroeph.FileAsteroid}
				for _, k := range kinds {
					fd, ok := e.FileData(k)
					if !ok {
						r.rows = append(r.rows, table.Row{k, "not available", "", ""})
						continue
					}
					r.add(astroeph.NewEnvelope([]float64{fd.Start, fd.End, float64(fd.DENumber)}, int32(k), fd.Path),
						table.Row{k, fd.Path, fmt.Sprintf("%.1f - %.1f", fd.Start, fd.End), fd.DENumber})
				}
				return r.write()
			})
		},
	}
	when.register(cmd)
	return cmd
}
