// ./cmd/astroeph/output.go
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
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/viper"

	"github.com/mshafiee/astroeph"
)

// report collects one envelope per result for the machine formats and
// the matching table rows for people.
type report struct {
	title     string
	header    table.Row
	rows      []table.Row
	envelopes []astroeph.Envelope
	err       error
}

func newReport(title string, header ...any) *report {
	return &report{title: title, header: header}
}

func (r *report) add(env astroeph.Envelope, rows ...table.Row) {
	r.envelopes = append(r.envelopes, env)
	r.rows = append(r.rows, rows...)
}

// fail records err in the output and keeps the first one as the exit
// status.
func (r *report) fail(label string, err error) {
	r.envelopes = append(r.envelopes, astroeph.FromError(err))
	row := make(table.Row, len(r.header))
	row[0] = label
	if len(row) > 1 {
		row[1] = "error: " + err.Error()
	}
	r.rows = append(r.rows, row)
	if r.err == nil {
		r.err = err
	}
}

func (r *report) write() error {
	if err := r.render(os.Stdout, viper.GetString("output")); err != nil {
		return err
	}
	return r.err
}

func (r *report) render(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(r.envelopes) == 1 {
			return enc.Encode(r.envelopes[0])
		}
		return enc.Encode(r.envelopes)
	case "msgpack":
		for _, env := range r.envelopes {
			data, err := env.MarshalBinary()
			if err != nil {
				return err
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
		}
		return nil
	case "table", "":
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		if r.title != "" {
			tw.SetTitle(r.title)
		}
		tw.AppendHeader(r.header)
		tw.AppendRows(r.rows)
		tw.Render()
		return nil
	}
	return fmt.Errorf("%w: unknown output format %q", astroeph.ErrUsage, format)
}

// dms formats an angle in degrees as sexagesimal, rounded to 0.0001".
func dms(deg float64) string {
	sign := ""
	if deg < 0 {
		sign = "-"
		deg = -deg
	}
	const perSecond = 10000
	units := int64(math.Round(deg * 3600 * perSecond))
	d := units / (3600 * perSecond)
	m := units / (60 * perSecond) % 60
	s := float64(units%(60*perSecond)) / perSecond
	return fmt.Sprintf("%s%d°%02d'%07.4f\"", sign, d, m, s)
}
